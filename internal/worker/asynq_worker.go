package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/winappio/offerwall/internal/logger"
	"github.com/winappio/offerwall/internal/notify"
	"github.com/winappio/offerwall/internal/provider"
	"github.com/winappio/offerwall/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCompletionNotify, c.handleCompletionNotify)
	mux.HandleFunc(queue.TaskEarningsReconcile, c.handleEarningsReconcile)
}

func (c *Consumer) handleCompletionNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_completion_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CompletionNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_completion_notify_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.UserID) == "" {
		logger.Debugw("worker_completion_notify_skip_empty_user", "click_id", payload.ClickID)
		return nil
	}
	if c.Publisher == nil {
		logger.Warnw("worker_completion_notify_skip_publisher_nil", "click_id", payload.ClickID)
		return nil
	}
	event := notify.NewCompletionEvent(
		payload.UserID,
		payload.ClickID,
		payload.OfferID,
		payload.OfferTitle,
		payload.Payout,
		payload.CompletedCount,
	)
	c.Publisher.Publish(ctx, event)
	logger.Infow("worker_completion_notify_published",
		"user_id", payload.UserID,
		"click_id", payload.ClickID,
	)
	return nil
}

func (c *Consumer) handleEarningsReconcile(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_earnings_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.EarningsReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_earnings_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.ClickID) == "" {
		logger.Debugw("worker_earnings_reconcile_skip_empty_click")
		return nil
	}
	if c.PostbackService == nil {
		logger.Warnw("worker_earnings_reconcile_skip_service_nil", "click_id", payload.ClickID)
		return nil
	}
	if err := c.PostbackService.ReconcileEarnings(payload.ClickID); err != nil {
		logger.Warnw("worker_earnings_reconcile_failed",
			"click_id", payload.ClickID,
			"error", err,
		)
		return err
	}
	return nil
}
