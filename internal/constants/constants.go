package constants

// Offer click status values. Transitions run strictly forward:
// clicked/pending may become completed or rejected, never the reverse.
const (
	ClickStatusClicked   = "clicked"
	ClickStatusPending   = "pending"
	ClickStatusCompleted = "completed"
	ClickStatusRejected  = "rejected"
)

// Verification status values for completed offers.
const (
	VerificationStatusVerified = "verified"
	VerificationStatusDisputed = "disputed"
)

// Async task type names.
const (
	TaskCompletionNotify  = "offerwall:completion_notify"
	TaskEarningsReconcile = "offerwall:earnings_reconcile"
)

// Queue names.
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// Completion notification event type.
const (
	NotifyEventOfferCompleted = "offer_completed"
)
