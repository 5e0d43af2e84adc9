package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/winappio/offerwall/internal/constants"
	"github.com/winappio/offerwall/internal/models"

	"gorm.io/gorm"
)

// ClickRepository is the click ledger data access interface. It owns the
// only mutation path into OfferClick status.
type ClickRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ClickRepository

	Create(click *models.OfferClick) error
	GetByID(id string) (*models.OfferClick, error)
	GetByIDAndUser(id, userID string) (*models.OfferClick, error)
	ListByUser(filter ClickListFilter) ([]models.OfferClick, int64, error)

	// MarkCompleted applies the completion transition as a single
	// conditional update: rows already completed or rejected are left
	// untouched. The returned count is 0 when another postback won the
	// race, 1 when this call performed the transition.
	MarkCompleted(id string, finalAmount models.Money, completedAt time.Time) (int64, error)

	// MarkRejected applies the rejection transition under the same
	// forward-only condition.
	MarkRejected(id string, rejectedAt time.Time) (int64, error)
}

// GormClickRepository is the GORM click ledger implementation.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates a click ledger repository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormClickRepository) WithTx(tx *gorm.DB) ClickRepository {
	if tx == nil {
		return r
	}
	return &GormClickRepository{db: tx}
}

// Transaction runs fn inside a database transaction.
func (r *GormClickRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create inserts a click record.
func (r *GormClickRepository) Create(click *models.OfferClick) error {
	return r.db.Create(click).Error
}

// GetByID fetches a click by its identifier.
func (r *GormClickRepository) GetByID(id string) (*models.OfferClick, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, nil
	}
	var click models.OfferClick
	if err := r.db.Where("id = ?", trimmed).First(&click).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &click, nil
}

// GetByIDAndUser fetches a click scoped to its owning user.
func (r *GormClickRepository) GetByIDAndUser(id, userID string) (*models.OfferClick, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	var click models.OfferClick
	if err := r.db.Where("id = ? AND user_id = ?", trimmed, userID).First(&click).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &click, nil
}

// ListByUser queries a user's click history.
func (r *GormClickRepository) ListByUser(filter ClickListFilter) ([]models.OfferClick, int64, error) {
	query := r.db.Model(&models.OfferClick{})
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if offerID := strings.TrimSpace(filter.OfferID); offerID != "" {
		query = query.Where("offer_id = ?", offerID)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var clicks []models.OfferClick
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&clicks).Error; err != nil {
		return nil, 0, err
	}
	return clicks, total, nil
}

// MarkCompleted performs the forward-only completion transition. The status
// condition is re-checked at the storage layer so two concurrent postbacks
// for the same click produce exactly one winner.
func (r *GormClickRepository) MarkCompleted(id string, finalAmount models.Money, completedAt time.Time) (int64, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return 0, nil
	}
	result := r.db.Model(&models.OfferClick{}).
		Where("id = ? AND status NOT IN ?", trimmed, []string{
			constants.ClickStatusCompleted,
			constants.ClickStatusRejected,
		}).
		Updates(map[string]interface{}{
			"status":            constants.ClickStatusCompleted,
			"postback_received": true,
			"postback_amount":   finalAmount,
			"completed_at":      completedAt,
			"updated_at":        completedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkRejected performs the forward-only rejection transition.
func (r *GormClickRepository) MarkRejected(id string, rejectedAt time.Time) (int64, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return 0, nil
	}
	result := r.db.Model(&models.OfferClick{}).
		Where("id = ? AND status NOT IN ?", trimmed, []string{
			constants.ClickStatusCompleted,
			constants.ClickStatusRejected,
		}).
		Updates(map[string]interface{}{
			"status":            constants.ClickStatusRejected,
			"postback_received": true,
			"updated_at":        rejectedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
