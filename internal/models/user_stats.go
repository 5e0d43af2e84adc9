package models

import "time"

// UserStats holds per-user earnings aggregates, incremented as a side effect
// of each successful reconciliation.
type UserStats struct {
	UserID          string     `gorm:"type:varchar(64);primarykey" json:"user_id"`                   // Owning user
	TotalEarnings   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`  // Lifetime credited amount
	CompletedOffers int64      `gorm:"not null;default:0" json:"completed_offers"`                   // Completed offer count
	PendingOffers   int64      `gorm:"not null;default:0" json:"pending_offers"`                     // Clicks awaiting confirmation
	RejectedOffers  int64      `gorm:"not null;default:0" json:"rejected_offers"`                    // Rejected conversions
	LastOfferAt     *time.Time `gorm:"index" json:"last_offer_at,omitempty"`                         // Most recent completion
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (UserStats) TableName() string {
	return "user_stats"
}
