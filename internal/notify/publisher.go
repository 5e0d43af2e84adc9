package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/winappio/offerwall/internal/cache"
	"github.com/winappio/offerwall/internal/logger"
)

const defaultChannel = "completions"

// Publisher fans completion events out to user sessions. With Redis enabled
// it publishes on a pub/sub channel so every API process delivers to its own
// sessions; without Redis it dispatches to the local hub only.
type Publisher struct {
	hub     *Hub
	channel string
}

// NewPublisher creates a publisher bound to a hub.
func NewPublisher(hub *Hub, channel string) *Publisher {
	trimmed := strings.TrimSpace(channel)
	if trimmed == "" {
		trimmed = defaultChannel
	}
	return &Publisher{hub: hub, channel: trimmed}
}

// Publish sends one event. Never fails the caller's request path: errors are
// logged and the local hub still gets the event.
func (p *Publisher) Publish(ctx context.Context, event CompletionEvent) {
	if cache.Enabled() {
		if err := cache.PublishJSON(ctx, p.channel, event); err != nil {
			logger.Warnw("notify_publish_failed",
				"channel", p.channel,
				"user_id", event.UserID,
				"error", err,
			)
		} else {
			return
		}
	}
	p.hub.Dispatch(event)
}

// RunSubscriber relays events from the pub/sub channel into the local hub.
// Blocks until ctx is canceled; a no-op when Redis is disabled.
func (p *Publisher) RunSubscriber(ctx context.Context) {
	sub := cache.Subscribe(ctx, p.channel)
	if sub == nil {
		return
	}
	defer sub.Close()

	logger.Infow("notify_subscriber_started", "channel", p.channel)
	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event CompletionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warnw("notify_subscriber_decode_failed", "error", err)
				continue
			}
			p.hub.Dispatch(event)
		case <-ctx.Done():
			return
		}
	}
}
