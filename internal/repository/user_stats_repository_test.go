package repository

import (
	"testing"
	"time"

	"github.com/winappio/offerwall/internal/models"

	"github.com/shopspring/decimal"
)

func TestApplyClickCreatesAndIncrements(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserStatsRepository(db)

	now := time.Now()
	if err := repo.ApplyClick("user-stats", now); err != nil {
		t.Fatalf("first apply click failed: %v", err)
	}
	if err := repo.ApplyClick("user-stats", now); err != nil {
		t.Fatalf("second apply click failed: %v", err)
	}

	stats, err := repo.GetByUserID("user-stats")
	if err != nil || stats == nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.PendingOffers != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.PendingOffers)
	}
}

func TestApplyCompletionMovesPendingToCompleted(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserStatsRepository(db)

	now := time.Now()
	if err := repo.ApplyClick("user-complete", now); err != nil {
		t.Fatalf("apply click failed: %v", err)
	}
	amount := models.NewMoneyFromDecimal(decimal.RequireFromString("12.34"))
	if err := repo.ApplyCompletion("user-complete", amount, now); err != nil {
		t.Fatalf("apply completion failed: %v", err)
	}

	stats, err := repo.GetByUserID("user-complete")
	if err != nil || stats == nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalEarnings.String() != "12.34" {
		t.Fatalf("expected earnings 12.34, got %s", stats.TotalEarnings.String())
	}
	if stats.CompletedOffers != 1 || stats.PendingOffers != 0 {
		t.Fatalf("expected 1 completed 0 pending, got %d/%d", stats.CompletedOffers, stats.PendingOffers)
	}
	if stats.LastOfferAt == nil {
		t.Fatalf("expected last_offer_at set")
	}
}

func TestApplyCompletionWithoutExistingRow(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserStatsRepository(db)

	amount := models.NewMoneyFromDecimal(decimal.RequireFromString("3.00"))
	if err := repo.ApplyCompletion("user-fresh", amount, time.Now()); err != nil {
		t.Fatalf("apply completion failed: %v", err)
	}

	stats, err := repo.GetByUserID("user-fresh")
	if err != nil || stats == nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalEarnings.String() != "3.00" || stats.CompletedOffers != 1 {
		t.Fatalf("expected fresh row with 3.00/1, got %s/%d", stats.TotalEarnings.String(), stats.CompletedOffers)
	}
}

func TestApplyRejectionNeverUnderflowsPending(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserStatsRepository(db)

	if err := repo.ApplyRejection("user-reject", time.Now()); err != nil {
		t.Fatalf("apply rejection failed: %v", err)
	}

	stats, err := repo.GetByUserID("user-reject")
	if err != nil || stats == nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.RejectedOffers != 1 || stats.PendingOffers != 0 {
		t.Fatalf("expected 1 rejected 0 pending, got %d/%d", stats.RejectedOffers, stats.PendingOffers)
	}
}
