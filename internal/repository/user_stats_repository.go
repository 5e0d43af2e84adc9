package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/winappio/offerwall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStatsRepository maintains per-user earnings aggregates.
type UserStatsRepository interface {
	WithTx(tx *gorm.DB) UserStatsRepository

	GetByUserID(userID string) (*models.UserStats, error)

	// ApplyCompletion increments the aggregate row for one fresh
	// reconciliation. Callers guarantee at-most-once invocation per click;
	// the repository guarantees the increment itself is a single atomic
	// statement once the row exists.
	ApplyCompletion(userID string, amount models.Money, at time.Time) error

	// ApplyClick bumps the pending counter when a user is dispatched to an
	// offer.
	ApplyClick(userID string, at time.Time) error

	// ApplyRejection moves one pending click into the rejected counter.
	ApplyRejection(userID string, at time.Time) error
}

// GormUserStatsRepository is the GORM implementation.
type GormUserStatsRepository struct {
	db *gorm.DB
}

// NewUserStatsRepository creates a user stats repository.
func NewUserStatsRepository(db *gorm.DB) *GormUserStatsRepository {
	return &GormUserStatsRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormUserStatsRepository) WithTx(tx *gorm.DB) UserStatsRepository {
	if tx == nil {
		return r
	}
	return &GormUserStatsRepository{db: tx}
}

// GetByUserID fetches a user's aggregates.
func (r *GormUserStatsRepository) GetByUserID(userID string) (*models.UserStats, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil, nil
	}
	var stats models.UserStats
	if err := r.db.Where("user_id = ?", trimmed).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}

// ApplyCompletion upserts the aggregate row and applies the increment as a
// single ON CONFLICT statement, so concurrent first completions for the same
// user cannot both insert.
func (r *GormUserStatsRepository) ApplyCompletion(userID string, amount models.Money, at time.Time) error {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil
	}
	stats := models.UserStats{
		UserID:          trimmed,
		TotalEarnings:   amount,
		CompletedOffers: 1,
		LastOfferAt:     &at,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_earnings":   gorm.Expr("total_earnings + ?", amount.Decimal),
			"completed_offers": gorm.Expr("completed_offers + 1"),
			"pending_offers":   gorm.Expr("CASE WHEN pending_offers > 0 THEN pending_offers - 1 ELSE 0 END"),
			"last_offer_at":    at,
			"updated_at":       at,
		}),
	}).Create(&stats).Error
}

// ApplyClick bumps the pending counter, creating the row when absent.
func (r *GormUserStatsRepository) ApplyClick(userID string, at time.Time) error {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil
	}
	stats := models.UserStats{
		UserID:        trimmed,
		PendingOffers: 1,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"pending_offers": gorm.Expr("pending_offers + 1"),
			"updated_at":     at,
		}),
	}).Create(&stats).Error
}

// ApplyRejection moves one pending click into the rejected counter.
func (r *GormUserStatsRepository) ApplyRejection(userID string, at time.Time) error {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil
	}
	stats := models.UserStats{
		UserID:         trimmed,
		RejectedOffers: 1,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rejected_offers": gorm.Expr("rejected_offers + 1"),
			"pending_offers":  gorm.Expr("CASE WHEN pending_offers > 0 THEN pending_offers - 1 ELSE 0 END"),
			"updated_at":      at,
		}),
	}).Create(&stats).Error
}
