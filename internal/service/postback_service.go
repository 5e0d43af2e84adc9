package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/winappio/offerwall/internal/cache"
	"github.com/winappio/offerwall/internal/constants"
	"github.com/winappio/offerwall/internal/logger"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/queue"
	"github.com/winappio/offerwall/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostbackService reconciles affiliate network postbacks against the click
// ledger. Every inbound conversion callback flows through HandlePostback.
type PostbackService struct {
	clickRepo     repository.ClickRepository
	completedRepo repository.CompletedOfferRepository
	statsRepo     repository.UserStatsRepository
	queueClient   *queue.Client
	secret        string
}

// NewPostbackService creates the postback reconciler.
func NewPostbackService(clickRepo repository.ClickRepository, completedRepo repository.CompletedOfferRepository, statsRepo repository.UserStatsRepository, queueClient *queue.Client, secret string) *PostbackService {
	return &PostbackService{
		clickRepo:     clickRepo,
		completedRepo: completedRepo,
		statsRepo:     statsRepo,
		queueClient:   queueClient,
		secret:        secret,
	}
}

// PostbackInput carries the parsed affiliate callback parameters.
type PostbackInput struct {
	ClickID    string
	Password   string
	Payout     string // raw amount string, may be empty
	Status     string // optional completion signal, rejection tokens revoke the click
	OfferID    string
	TrackingID string
	SourceIP   string
	RawParams  models.JSON // full query snapshot stored for dispute resolution
}

// PostbackResult is the reconciliation outcome returned to the affiliate.
type PostbackResult struct {
	ClickID          string
	OfferID          string
	TrackingID       string
	UserID           string
	Payout           models.Money
	Multiplier       models.Money
	AlreadyProcessed bool
	Rejected         bool
	CompletedOfferID uint
}

// HandlePostback validates and applies one affiliate conversion callback.
// The status transition is a conditional update at the storage layer, so
// retried and concurrent postbacks for the same click credit at most once.
func (s *PostbackService) HandlePostback(input PostbackInput) (*PostbackResult, error) {
	clickID := strings.TrimSpace(input.ClickID)
	if clickID == "" {
		return nil, ErrPostbackMissingParam
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrPostbackMissingParam
	}

	log := postbackLogger(
		"click_id", clickID,
		"offer_id", strings.TrimSpace(input.OfferID),
		"tracking_id", strings.TrimSpace(input.TrackingID),
		"payout_raw", strings.TrimSpace(input.Payout),
		"source_ip", strings.TrimSpace(input.SourceIP),
	)
	log.Infow("postback_received")

	if !s.authenticate(input.Password) {
		log.Warnw("postback_unauthorized")
		return nil, ErrPostbackUnauthorized
	}

	click, err := s.clickRepo.GetByID(clickID)
	if err != nil {
		log.Errorw("postback_click_fetch_failed", "error", err)
		return nil, err
	}
	if click == nil {
		log.Warnw("postback_click_not_found")
		return nil, ErrClickNotFound
	}

	// Idempotent replay: a click that already carries a postback result is
	// acknowledged without touching any row.
	if click.Status == constants.ClickStatusCompleted && click.PostbackReceived {
		log.Infow("postback_idempotent_replay", "current_status", click.Status)
		return s.alreadyProcessedResult(click, log), nil
	}

	if isRejectionSignal(input.Status) {
		return s.applyRejection(click, log)
	}

	finalAmount := s.resolveFinalAmount(input.Payout, click.Reward, log)
	now := time.Now()

	rows, err := s.clickRepo.MarkCompleted(clickID, finalAmount, now)
	if err != nil {
		log.Errorw("postback_click_update_failed", "error", err)
		return nil, err
	}
	if rows == 0 {
		// A concurrent postback or an earlier rejection won the transition.
		// Re-read so the replay answer reflects what actually happened.
		current, err := s.clickRepo.GetByID(clickID)
		if err != nil {
			log.Errorw("postback_click_refetch_failed", "error", err)
			return nil, err
		}
		if current == nil {
			return nil, ErrClickNotFound
		}
		log.Infow("postback_lost_transition_race", "current_status", current.Status)
		return s.alreadyProcessedResult(current, log), nil
	}

	multiplier := resolveMultiplier(finalAmount, click.Reward)
	entry := &models.CompletedOffer{
		UserID:             click.UserID,
		OfferClickID:       click.ID,
		RewardAmount:       click.Reward,
		FinalReward:        finalAmount,
		Multiplier:         multiplier,
		VerificationStatus: constants.VerificationStatusVerified,
		PostbackData:       input.RawParams,
		CompletedAt:        now,
		CreatedAt:          now,
	}

	// The click transition above is committed and never rolled back: the
	// user keeps the credit even if the ledger write below fails. A failed
	// ledger write is replayed by the reconcile worker.
	if err := s.applyLedger(entry, finalAmount, now); err != nil {
		log.Errorw("postback_ledger_write_failed", "error", err)
		s.enqueueReconcileAsync(click.ID, log)
		return nil, ErrPostbackPartialFailure
	}

	invalidateUserStatsCache(click.UserID)
	s.enqueueCompletionNotifyAsync(click, finalAmount, log)

	log.Infow("postback_processed",
		"user_id", click.UserID,
		"final_amount", finalAmount.String(),
		"multiplier", multiplier.String(),
	)
	return &PostbackResult{
		ClickID:          click.ID,
		OfferID:          click.OfferID,
		TrackingID:       click.TrackingID,
		UserID:           click.UserID,
		Payout:           finalAmount,
		Multiplier:       multiplier,
		CompletedOfferID: entry.ID,
	}, nil
}

// authenticate compares the supplied password against the shared secret in
// constant time.
func (s *PostbackService) authenticate(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.secret)) == 1
}

// resolveFinalAmount picks the credited amount: an explicit non-negative
// payout wins, anything absent or malformed falls back to the reward
// promised at click time. A payout of zero is honored as zero.
func (s *PostbackService) resolveFinalAmount(payout string, promised models.Money, log *zap.SugaredLogger) models.Money {
	raw := strings.TrimSpace(payout)
	if raw == "" {
		return promised
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Warnw("postback_payout_invalid", "payout_raw", raw)
		return promised
	}
	return models.NewMoneyFromDecimal(d)
}

func resolveMultiplier(final, promised models.Money) models.Money {
	if promised.Decimal.IsZero() {
		return models.Money{Decimal: decimal.Zero}
	}
	return models.Money{Decimal: final.Decimal.Div(promised.Decimal).Round(4)}
}

// alreadyProcessedResult acknowledges a replay without writing anything,
// echoing the amount and the ledger entry of the original reconciliation.
func (s *PostbackService) alreadyProcessedResult(click *models.OfferClick, log *zap.SugaredLogger) *PostbackResult {
	result := &PostbackResult{
		ClickID:          click.ID,
		OfferID:          click.OfferID,
		TrackingID:       click.TrackingID,
		UserID:           click.UserID,
		AlreadyProcessed: true,
	}
	if click.PostbackAmount != nil {
		result.Payout = *click.PostbackAmount
	}
	entry, err := s.completedRepo.GetByClickID(click.ID)
	if err != nil {
		log.Warnw("postback_replay_ledger_fetch_failed", "error", err)
		return result
	}
	if entry != nil {
		result.CompletedOfferID = entry.ID
		result.Multiplier = entry.Multiplier
	}
	return result
}

// isRejectionSignal reports whether the status parameter revokes the
// conversion. Networks send a handful of spellings; anything else is
// treated as a completion.
func isRejectionSignal(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "0", "reject", "rejected", "chargeback":
		return true
	default:
		return false
	}
}

// applyRejection performs the forward-only rejection transition for a
// rejection-status postback. No ledger entry is written; the stats counter
// move is best effort.
func (s *PostbackService) applyRejection(click *models.OfferClick, log *zap.SugaredLogger) (*PostbackResult, error) {
	now := time.Now()
	rows, err := s.clickRepo.MarkRejected(click.ID, now)
	if err != nil {
		log.Errorw("postback_rejection_update_failed", "error", err)
		return nil, err
	}
	if rows == 0 {
		current, err := s.clickRepo.GetByID(click.ID)
		if err != nil {
			log.Errorw("postback_click_refetch_failed", "error", err)
			return nil, err
		}
		if current == nil {
			return nil, ErrClickNotFound
		}
		log.Infow("postback_lost_transition_race", "current_status", current.Status)
		return s.alreadyProcessedResult(current, log), nil
	}

	if err := s.statsRepo.ApplyRejection(click.UserID, now); err != nil {
		log.Warnw("postback_rejection_stats_bump_failed", "error", err)
	}
	invalidateUserStatsCache(click.UserID)

	log.Infow("postback_rejected", "user_id", click.UserID)
	return &PostbackResult{
		ClickID:    click.ID,
		OfferID:    click.OfferID,
		TrackingID: click.TrackingID,
		UserID:     click.UserID,
		Rejected:   true,
	}, nil
}

// applyLedger writes the reward ledger entry and the stats increment in one
// transaction so neither can land without the other.
func (s *PostbackService) applyLedger(entry *models.CompletedOffer, amount models.Money, at time.Time) error {
	return s.clickRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.completedRepo.WithTx(tx).Create(entry); err != nil {
			return err
		}
		return s.statsRepo.WithTx(tx).ApplyCompletion(entry.UserID, amount, at)
	})
}

// ReconcileEarnings replays the ledger write for a click that was credited
// but whose ledger entry may be missing. Called by the worker; safe to run
// any number of times because the ledger insert dedupes on click id.
func (s *PostbackService) ReconcileEarnings(clickID string) error {
	trimmed := strings.TrimSpace(clickID)
	if trimmed == "" {
		return ErrClickNotFound
	}
	log := postbackLogger("click_id", trimmed)

	click, err := s.clickRepo.GetByID(trimmed)
	if err != nil {
		return err
	}
	if click == nil {
		return ErrClickNotFound
	}
	if click.Status != constants.ClickStatusCompleted || !click.PostbackReceived {
		log.Infow("earnings_reconcile_click_not_credited", "current_status", click.Status)
		return nil
	}

	existing, err := s.completedRepo.GetByClickID(trimmed)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Infow("earnings_reconcile_ledger_present")
		return nil
	}

	amount := click.Reward
	if click.PostbackAmount != nil {
		amount = *click.PostbackAmount
	}
	completedAt := time.Now()
	if click.CompletedAt != nil {
		completedAt = *click.CompletedAt
	}
	entry := &models.CompletedOffer{
		UserID:             click.UserID,
		OfferClickID:       click.ID,
		RewardAmount:       click.Reward,
		FinalReward:        amount,
		Multiplier:         resolveMultiplier(amount, click.Reward),
		VerificationStatus: constants.VerificationStatusVerified,
		CompletedAt:        completedAt,
		CreatedAt:          time.Now(),
	}
	if err := s.applyLedger(entry, amount, completedAt); err != nil {
		log.Errorw("earnings_reconcile_ledger_write_failed", "error", err)
		return err
	}
	invalidateUserStatsCache(click.UserID)
	log.Infow("earnings_reconcile_ledger_repaired",
		"user_id", click.UserID,
		"final_amount", amount.String(),
	)
	s.enqueueCompletionNotifyAsync(click, amount, log)
	return nil
}

func (s *PostbackService) enqueueReconcileAsync(clickID string, log *zap.SugaredLogger) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueEarningsReconcile(queue.EarningsReconcilePayload{
		ClickID: clickID,
	}); err != nil {
		log.Errorw("postback_enqueue_reconcile_failed", "error", err)
	}
}

func (s *PostbackService) enqueueCompletionNotifyAsync(click *models.OfferClick, amount models.Money, log *zap.SugaredLogger) {
	if s.queueClient == nil {
		return
	}
	var completedCount int64
	if stats, err := s.statsRepo.GetByUserID(click.UserID); err != nil {
		log.Warnw("postback_notify_stats_read_failed", "error", err)
	} else if stats != nil {
		completedCount = stats.CompletedOffers
	}
	if err := s.queueClient.EnqueueCompletionNotify(queue.CompletionNotifyPayload{
		UserID:         click.UserID,
		ClickID:        click.ID,
		OfferID:        click.OfferID,
		OfferTitle:     click.OfferTitle,
		Payout:         amount.String(),
		CompletedCount: completedCount,
	}); err != nil {
		log.Warnw("postback_enqueue_notify_failed", "error", err)
	}
}

func invalidateUserStatsCache(userID string) {
	if err := cache.Del(context.Background(), userStatsCacheKey(userID)); err != nil {
		logger.Warnw("user_stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}

func postbackLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}
