package app

import (
	"context"
	"errors"

	"github.com/winappio/offerwall/internal/notify"
)

// NotifySubscriberService relays completion events from the pub/sub channel
// into this process's WebSocket hub.
type NotifySubscriberService struct {
	name      string
	publisher *notify.Publisher
}

// NewNotifySubscriberService creates the subscriber service.
func NewNotifySubscriberService(publisher *notify.Publisher) *NotifySubscriberService {
	return &NotifySubscriberService{
		name:      "notify-subscriber",
		publisher: publisher,
	}
}

// Name returns the service name.
func (s *NotifySubscriberService) Name() string {
	if s == nil || s.name == "" {
		return "notify-subscriber"
	}
	return s.name
}

// Start runs the subscription loop until ctx is canceled.
func (s *NotifySubscriberService) Start(ctx context.Context) error {
	if s == nil || s.publisher == nil {
		return errors.New("notify subscriber not initialized")
	}
	s.publisher.RunSubscriber(ctx)
	return nil
}

// Stop is a no-op; the loop exits with the context.
func (s *NotifySubscriberService) Stop(ctx context.Context) error {
	_ = ctx
	return nil
}
