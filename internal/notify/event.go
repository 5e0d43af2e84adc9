package notify

import (
	"time"

	"github.com/winappio/offerwall/internal/constants"
)

// CompletionEvent is the real-time payload pushed to a user when one of
// their offers is credited.
type CompletionEvent struct {
	Type           string    `json:"type"`
	UserID         string    `json:"user_id"`
	ClickID        string    `json:"click_id"`
	OfferID        string    `json:"offer_id,omitempty"`
	OfferTitle     string    `json:"offer_title"`
	Payout         string    `json:"payout"`
	CompletedCount int64     `json:"completed_count"`
	At             time.Time `json:"at"`
}

// NewCompletionEvent builds a completion event stamped with the current time.
func NewCompletionEvent(userID, clickID, offerID, offerTitle, payout string, completedCount int64) CompletionEvent {
	return CompletionEvent{
		Type:           constants.NotifyEventOfferCompleted,
		UserID:         userID,
		ClickID:        clickID,
		OfferID:        offerID,
		OfferTitle:     offerTitle,
		Payout:         payout,
		CompletedCount: completedCount,
		At:             time.Now(),
	}
}
