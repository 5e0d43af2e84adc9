package models

import "time"

// OfferClick records one instance of a user being dispatched to an affiliate
// offer. The row is created at dispatch time and mutated at most once by the
// postback reconciler; it is never deleted and serves as the audit trail.
type OfferClick struct {
	ID               string     `gorm:"type:varchar(36);primarykey" json:"id"`                      // Click id (UUID, generated at dispatch, never by the affiliate)
	UserID           string     `gorm:"type:varchar(64);not null;index" json:"user_id"`             // Owning user
	OfferID          string     `gorm:"type:varchar(64);index" json:"offer_id,omitempty"`           // Affiliate offer id
	OfferTitle       string     `gorm:"type:varchar(255);not null" json:"offer_title"`              // Human-readable title
	OfferType        string     `gorm:"type:varchar(64)" json:"offer_type"`                         // survey / app_install / game ...
	Category         string     `gorm:"type:varchar(64);index" json:"category,omitempty"`           // Offer category
	Reward           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"reward"`        // Promised reward at click time
	OriginalLink     string     `gorm:"type:varchar(2048)" json:"original_link"`                    // Affiliate link the user was sent to
	Status           string     `gorm:"type:varchar(32);not null;index" json:"status"`              // clicked / pending / completed / rejected
	TrackingID       string     `gorm:"type:varchar(128);index" json:"tracking_id,omitempty"`       // Affiliate-supplied tracking identifier
	PostbackReceived bool       `gorm:"not null;default:false" json:"postback_received"`            // Whether a valid postback was applied
	PostbackAmount   *Money     `gorm:"type:decimal(20,2)" json:"postback_amount,omitempty"`        // Amount confirmed by the postback
	DeviceInfo       JSON       `gorm:"type:text" json:"device_info,omitempty"`                     // Request metadata captured at click time
	ClickedAt        time.Time  `gorm:"index;not null" json:"clicked_at"`                           // Dispatch time
	CompletedAt      *time.Time `gorm:"index" json:"completed_at,omitempty"`                        // Completion time
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                    // Row creation time
	UpdatedAt        time.Time  `json:"updated_at"`                                                 // Last mutation time
}

// TableName sets the table name.
func (OfferClick) TableName() string {
	return "offer_clicks"
}
