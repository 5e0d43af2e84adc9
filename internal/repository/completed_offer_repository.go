package repository

import (
	"errors"
	"strings"

	"github.com/winappio/offerwall/internal/models"

	"gorm.io/gorm"
)

// CompletedOfferRepository is the reward ledger data access interface.
type CompletedOfferRepository interface {
	WithTx(tx *gorm.DB) CompletedOfferRepository

	Create(offer *models.CompletedOffer) error
	GetByClickID(clickID string) (*models.CompletedOffer, error)
	ListByUser(filter CompletedOfferListFilter) ([]models.CompletedOffer, int64, error)
}

// GormCompletedOfferRepository is the GORM implementation.
type GormCompletedOfferRepository struct {
	db *gorm.DB
}

// NewCompletedOfferRepository creates a reward ledger repository.
func NewCompletedOfferRepository(db *gorm.DB) *GormCompletedOfferRepository {
	return &GormCompletedOfferRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCompletedOfferRepository) WithTx(tx *gorm.DB) CompletedOfferRepository {
	if tx == nil {
		return r
	}
	return &GormCompletedOfferRepository{db: tx}
}

// Create inserts a ledger entry. The unique index on offer_click_id makes
// a duplicate insert fail rather than double-credit.
func (r *GormCompletedOfferRepository) Create(offer *models.CompletedOffer) error {
	return r.db.Create(offer).Error
}

// GetByClickID fetches the ledger entry for a click, if any.
func (r *GormCompletedOfferRepository) GetByClickID(clickID string) (*models.CompletedOffer, error) {
	trimmed := strings.TrimSpace(clickID)
	if trimmed == "" {
		return nil, nil
	}
	var offer models.CompletedOffer
	if err := r.db.Where("offer_click_id = ?", trimmed).First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// ListByUser queries a user's completed offers.
func (r *GormCompletedOfferRepository) ListByUser(filter CompletedOfferListFilter) ([]models.CompletedOffer, int64, error) {
	query := r.db.Model(&models.CompletedOffer{})
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if filter.CompletedFrom != nil {
		query = query.Where("completed_at >= ?", filter.CompletedFrom)
	}
	if filter.CompletedTo != nil {
		query = query.Where("completed_at <= ?", filter.CompletedTo)
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

	var offers []models.CompletedOffer
	if err := query.
		Order("completed_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}
