package queue

import (
	"encoding/json"

	"github.com/winappio/offerwall/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCompletionNotify pushes an offer completion event to connected users.
	TaskCompletionNotify = constants.TaskCompletionNotify
	// TaskEarningsReconcile replays the ledger write for a credited click.
	TaskEarningsReconcile = constants.TaskEarningsReconcile
)

// CompletionNotifyPayload carries one completion event to the notifier.
type CompletionNotifyPayload struct {
	UserID         string `json:"user_id"`
	ClickID        string `json:"click_id"`
	OfferID        string `json:"offer_id,omitempty"`
	OfferTitle     string `json:"offer_title"`
	Payout         string `json:"payout"`
	CompletedCount int64  `json:"completed_count"`
}

// EarningsReconcilePayload identifies a credited click whose ledger entry
// or stats increment may be missing.
type EarningsReconcilePayload struct {
	ClickID string `json:"click_id"`
}

// NewCompletionNotifyTask creates a completion notification task.
func NewCompletionNotifyTask(payload CompletionNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCompletionNotify, body), nil
}

// NewEarningsReconcileTask creates an earnings reconcile task.
func NewEarningsReconcileTask(payload EarningsReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEarningsReconcile, body), nil
}
