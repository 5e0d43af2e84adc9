package service

import (
	"errors"
	"net/url"
	"testing"

	"github.com/winappio/offerwall/internal/config"
	"github.com/winappio/offerwall/internal/constants"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupClickServiceTest(t *testing.T) (*ClickService, *gorm.DB) {
	t.Helper()

	_, db := setupPostbackServiceTest(t)
	svc := NewClickService(
		repository.NewClickRepository(db),
		repository.NewCompletedOfferRepository(db),
		repository.NewUserStatsRepository(db),
		config.OffersConfig{
			NetworkUserID: "network-user-9",
			NetworkPubKey: "pub-key-9",
		},
	)
	return svc, db
}

func TestTrackClickPersistsAndDecoratesLink(t *testing.T) {
	svc, db := setupClickServiceTest(t)

	result, err := svc.TrackClick(TrackClickInput{
		UserID:       "user-track",
		OfferID:      "offer-55",
		OfferTitle:   "Play Trivia",
		OfferType:    "game",
		Category:     "games",
		Reward:       models.NewMoneyFromDecimal(decimal.RequireFromString("4.00")),
		OriginalLink: "https://network.example.com/offer?camp=7",
		SourceIP:     "203.0.113.9",
		UserAgent:    "test-agent",
	})
	if err != nil {
		t.Fatalf("track click failed: %v", err)
	}
	if result.Click.ID == "" || result.Click.TrackingID == "" {
		t.Fatalf("expected generated identifiers, got %+v", result.Click)
	}

	var stored models.OfferClick
	if err := db.First(&stored, "id = ?", result.Click.ID).Error; err != nil {
		t.Fatalf("load stored click failed: %v", err)
	}
	if stored.Status != constants.ClickStatusClicked {
		t.Fatalf("expected clicked status, got %s", stored.Status)
	}
	if stored.UserID != "user-track" || stored.OfferTitle != "Play Trivia" {
		t.Fatalf("unexpected stored click %+v", stored)
	}

	parsed, err := url.Parse(result.TrackingURL)
	if err != nil {
		t.Fatalf("parse tracking url failed: %v", err)
	}
	q := parsed.Query()
	if q.Get("camp") != "7" {
		t.Fatalf("expected original params kept, got %q", parsed.RawQuery)
	}
	if q.Get("click_id") != result.Click.ID || q.Get("tracking_id") != result.Click.TrackingID {
		t.Fatalf("expected correlation params, got %q", parsed.RawQuery)
	}
	if q.Get("s1") != "user-track" || q.Get("s2") != result.Click.ID {
		t.Fatalf("expected sub id params, got %q", parsed.RawQuery)
	}
	if q.Get("user_id") != "network-user-9" || q.Get("pubkey") != "pub-key-9" {
		t.Fatalf("expected network credentials, got %q", parsed.RawQuery)
	}

	stats, err := svc.GetStats("user-track")
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.PendingOffers != 1 {
		t.Fatalf("expected 1 pending offer, got %d", stats.PendingOffers)
	}
}

func TestTrackClickRejectsMissingFields(t *testing.T) {
	svc, _ := setupClickServiceTest(t)

	cases := []TrackClickInput{
		{OfferTitle: "Survey", OriginalLink: "https://example.com"},
		{UserID: "user-1", OriginalLink: "https://example.com"},
		{UserID: "user-1", OfferTitle: "Survey"},
	}
	for i, input := range cases {
		if _, err := svc.TrackClick(input); !errors.Is(err, ErrClickInvalid) {
			t.Fatalf("case %d: expected invalid click, got %v", i, err)
		}
	}
}

func TestGetClickScopedToOwner(t *testing.T) {
	svc, db := setupClickServiceTest(t)
	createTestClick(t, db, "click-scope", "user-owner", "1.00")

	click, err := svc.GetClick("user-owner", "click-scope")
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if click.ID != "click-scope" {
		t.Fatalf("unexpected click %+v", click)
	}

	if _, err := svc.GetClick("user-intruder", "click-scope"); !errors.Is(err, ErrClickNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestGetStatsZeroValuedWhenAbsent(t *testing.T) {
	svc, _ := setupClickServiceTest(t)

	stats, err := svc.GetStats("user-nobody")
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.UserID != "user-nobody" || stats.CompletedOffers != 0 || !stats.TotalEarnings.IsZero() {
		t.Fatalf("expected zero-valued stats, got %+v", stats)
	}
}
