package models

import "time"

// CompletedOffer is the monetary ledger entry produced by a successful
// reconciliation. The unique index on OfferClickID enforces at-most-one
// entry per click regardless of how many postbacks the affiliate retries.
type CompletedOffer struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                                        // Primary key
	UserID             string    `gorm:"type:varchar(64);not null;index" json:"user_id"`              // Owning user
	OfferClickID       string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"offer_click_id"` // Originating click
	RewardAmount       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"reward_amount"`  // Reward promised at click time
	FinalReward        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"final_reward"`   // Amount actually credited
	Multiplier         Money     `gorm:"type:decimal(10,4);not null;default:0" json:"multiplier"`     // final / promised
	VerificationStatus string    `gorm:"type:varchar(32);not null" json:"verification_status"`        // verified / disputed
	PostbackData       JSON      `gorm:"type:text" json:"postback_data,omitempty"`                    // Raw postback snapshot for dispute resolution
	CompletedAt        time.Time `gorm:"index;not null" json:"completed_at"`                          // Reconciliation time
	CreatedAt          time.Time `gorm:"index" json:"created_at"`                                     // Row creation time
}

// TableName sets the table name.
func (CompletedOffer) TableName() string {
	return "completed_offers"
}
