package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/winappio/offerwall/internal/cache"
	"github.com/winappio/offerwall/internal/config"
	"github.com/winappio/offerwall/internal/constants"
	"github.com/winappio/offerwall/internal/logger"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClickService dispatches users to affiliate offers and serves their click
// history and earnings aggregates.
type ClickService struct {
	clickRepo     repository.ClickRepository
	completedRepo repository.CompletedOfferRepository
	statsRepo     repository.UserStatsRepository
	offersCfg     config.OffersConfig
}

// NewClickService creates the click dispatcher.
func NewClickService(clickRepo repository.ClickRepository, completedRepo repository.CompletedOfferRepository, statsRepo repository.UserStatsRepository, offersCfg config.OffersConfig) *ClickService {
	return &ClickService{
		clickRepo:     clickRepo,
		completedRepo: completedRepo,
		statsRepo:     statsRepo,
		offersCfg:     offersCfg,
	}
}

// TrackClickInput describes one outbound offer dispatch.
type TrackClickInput struct {
	UserID       string
	OfferID      string
	OfferTitle   string
	OfferType    string
	Category     string
	Reward       models.Money
	OriginalLink string
	SourceIP     string
	UserAgent    string
}

// TrackClickResult is the persisted click plus the redirect target.
type TrackClickResult struct {
	Click       *models.OfferClick
	TrackingURL string
}

// TrackClick records the dispatch and builds the affiliate redirect URL.
// The click id generated here is the correlation key the network must echo
// back in its postback.
func (s *ClickService) TrackClick(input TrackClickInput) (*TrackClickResult, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" || strings.TrimSpace(input.OfferTitle) == "" {
		return nil, ErrClickInvalid
	}
	link := strings.TrimSpace(input.OriginalLink)
	if link == "" {
		return nil, ErrClickInvalid
	}

	now := time.Now()
	clickID := uuid.NewString()
	trackingID := uuid.NewString()

	click := &models.OfferClick{
		ID:           clickID,
		UserID:       userID,
		OfferID:      strings.TrimSpace(input.OfferID),
		OfferTitle:   strings.TrimSpace(input.OfferTitle),
		OfferType:    strings.TrimSpace(input.OfferType),
		Category:     strings.TrimSpace(input.Category),
		Reward:       input.Reward,
		OriginalLink: link,
		Status:       constants.ClickStatusClicked,
		TrackingID:   trackingID,
		DeviceInfo: models.JSON{
			"ip":         strings.TrimSpace(input.SourceIP),
			"user_agent": strings.TrimSpace(input.UserAgent),
		},
		ClickedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clickRepo.Create(click); err != nil {
		clickLogger("user_id", userID, "offer_id", click.OfferID).
			Errorw("offer_click_create_failed", "error", err)
		return nil, ErrClickCreateFailed
	}

	if err := s.statsRepo.ApplyClick(userID, now); err != nil {
		// The click row is authoritative; a missed pending bump only skews
		// the aggregate counter and is tolerated.
		clickLogger("user_id", userID, "click_id", clickID).
			Warnw("offer_click_stats_bump_failed", "error", err)
	}
	invalidateUserStatsCache(userID)

	trackingURL := s.buildTrackingURL(click, input)
	clickLogger(
		"user_id", userID,
		"click_id", clickID,
		"offer_id", click.OfferID,
		"tracking_id", trackingID,
	).Infow("offer_click_tracked")

	return &TrackClickResult{Click: click, TrackingURL: trackingURL}, nil
}

// buildTrackingURL decorates the affiliate link with the correlation
// parameters the network propagates into its postback.
func (s *ClickService) buildTrackingURL(click *models.OfferClick, input TrackClickInput) string {
	parsed, err := url.Parse(click.OriginalLink)
	if err != nil {
		return click.OriginalLink
	}
	q := parsed.Query()
	if networkUserID := strings.TrimSpace(s.offersCfg.NetworkUserID); networkUserID != "" {
		q.Set("user_id", networkUserID)
	}
	if pubKey := strings.TrimSpace(s.offersCfg.NetworkPubKey); pubKey != "" {
		q.Set("pubkey", pubKey)
	}
	if click.OfferID != "" {
		q.Set("offer_id", click.OfferID)
	}
	q.Set("click_id", click.ID)
	q.Set("tracking_id", click.TrackingID)
	if ip := strings.TrimSpace(input.SourceIP); ip != "" {
		q.Set("ip", ip)
	}
	if ua := strings.TrimSpace(input.UserAgent); ua != "" {
		q.Set("ua", ua)
	}
	q.Set("s1", click.UserID)
	q.Set("s2", click.ID)
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// GetClick fetches one click scoped to its owning user.
func (s *ClickService) GetClick(userID, clickID string) (*models.OfferClick, error) {
	click, err := s.clickRepo.GetByIDAndUser(clickID, userID)
	if err != nil {
		return nil, err
	}
	if click == nil {
		return nil, ErrClickNotFound
	}
	return click, nil
}

// ListClicks queries a user's click history.
func (s *ClickService) ListClicks(filter repository.ClickListFilter) ([]models.OfferClick, int64, error) {
	return s.clickRepo.ListByUser(filter)
}

// ListCompletions queries a user's completed offers.
func (s *ClickService) ListCompletions(filter repository.CompletedOfferListFilter) ([]models.CompletedOffer, int64, error) {
	return s.completedRepo.ListByUser(filter)
}

const userStatsCacheTTL = 30 * time.Second

func userStatsCacheKey(userID string) string {
	return "stats:" + userID
}

// GetStats returns a user's earnings aggregates, zero-valued when the user
// has no activity yet. Results are cached briefly; every write path
// invalidates the key.
func (s *ClickService) GetStats(userID string) (*models.UserStats, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil, ErrStatsFetchFailed
	}
	ctx := context.Background()
	var cached models.UserStats
	if hit, err := cache.GetJSON(ctx, userStatsCacheKey(trimmed), &cached); err == nil && hit {
		return &cached, nil
	}
	stats, err := s.statsRepo.GetByUserID(trimmed)
	if err != nil {
		return nil, ErrStatsFetchFailed
	}
	if stats == nil {
		stats = &models.UserStats{UserID: trimmed}
	}
	if err := cache.SetJSON(ctx, userStatsCacheKey(trimmed), stats, userStatsCacheTTL); err != nil {
		clickLogger("user_id", trimmed).Warnw("user_stats_cache_write_failed", "error", err)
	}
	return stats, nil
}

func clickLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}
