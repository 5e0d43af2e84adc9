package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/winappio/offerwall/internal/constants"
	"github.com/winappio/offerwall/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.OfferClick{}, &models.CompletedOffer{}, &models.UserStats{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createRepoTestClick(t *testing.T, db *gorm.DB, id, userID, status string) models.OfferClick {
	t.Helper()

	now := time.Now()
	click := models.OfferClick{
		ID:         id,
		UserID:     userID,
		OfferID:    "offer-1",
		OfferTitle: "Survey",
		Reward:     models.NewMoneyFromDecimal(decimal.RequireFromString("5.00")),
		Status:     status,
		ClickedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&click).Error; err != nil {
		t.Fatalf("create click failed: %v", err)
	}
	return click
}

func TestMarkCompletedTransitionsOnce(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewClickRepository(db)
	createRepoTestClick(t, db, "click-cas", "user-1", constants.ClickStatusClicked)

	amount := models.NewMoneyFromDecimal(decimal.RequireFromString("5.00"))
	rows, err := repo.MarkCompleted("click-cas", amount, time.Now())
	if err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected first transition to win, got %d rows", rows)
	}

	rows, err = repo.MarkCompleted("click-cas", amount, time.Now())
	if err != nil {
		t.Fatalf("second transition failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected second transition to lose, got %d rows", rows)
	}

	rows, err = repo.MarkRejected("click-cas", time.Now())
	if err != nil {
		t.Fatalf("rejection after completion failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected completed click to resist rejection, got %d rows", rows)
	}
}

func TestMarkCompletedFromPending(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewClickRepository(db)
	createRepoTestClick(t, db, "click-pending", "user-1", constants.ClickStatusPending)

	amount := models.NewMoneyFromDecimal(decimal.RequireFromString("5.00"))
	rows, err := repo.MarkCompleted("click-pending", amount, time.Now())
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected pending click to transition, got %d rows", rows)
	}
}

func TestGetByIDReturnsNilWhenMissing(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewClickRepository(db)

	click, err := repo.GetByID("absent")
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if click != nil {
		t.Fatalf("expected nil for missing click, got %+v", click)
	}
}

func TestListByUserFiltersAndPaginates(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewClickRepository(db)
	for i := 0; i < 5; i++ {
		createRepoTestClick(t, db, fmt.Sprintf("click-list-%d", i), "user-list", constants.ClickStatusClicked)
	}
	createRepoTestClick(t, db, "click-other", "user-other", constants.ClickStatusClicked)

	clicks, total, err := repo.ListByUser(ClickListFilter{UserID: "user-list", Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(clicks) != 3 {
		t.Fatalf("expected page of 3, got %d", len(clicks))
	}

	clicks, total, err = repo.ListByUser(ClickListFilter{UserID: "user-list", Status: constants.ClickStatusCompleted})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 0 || len(clicks) != 0 {
		t.Fatalf("expected no completed clicks, got total=%d len=%d", total, len(clicks))
	}
}
