package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/winappio/offerwall/internal/constants"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/provider"
	"github.com/winappio/offerwall/internal/repository"
	"github.com/winappio/offerwall/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testHandlerSecret = "handler-test-postback-secret"

func setupPostbackHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:postback_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.OfferClick{}, &models.CompletedOffer{}, &models.UserStats{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	clickRepo := repository.NewClickRepository(db)
	completedRepo := repository.NewCompletedOfferRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	container := &provider.Container{
		PostbackService: service.NewPostbackService(clickRepo, completedRepo, statsRepo, nil, testHandlerSecret),
	}
	return New(container), db
}

func createHandlerTestClick(t *testing.T, db *gorm.DB, id, userID string) {
	t.Helper()

	now := time.Now()
	click := models.OfferClick{
		ID:         id,
		UserID:     userID,
		OfferID:    "offer-7",
		OfferTitle: "Watch Video",
		Reward:     models.NewMoneyFromDecimal(decimal.RequireFromString("2.50")),
		Status:     constants.ClickStatusClicked,
		TrackingID: "trk-" + id,
		ClickedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&click).Error; err != nil {
		t.Fatalf("create click failed: %v", err)
	}
}

func performPostback(t *testing.T, h *Handler, query url.Values) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/postback?"+query.Encode(), nil)
	h.Postback(c)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return body
}

func TestPostbackMissingParams(t *testing.T) {
	h, _ := setupPostbackHandlerTest(t)

	w := performPostback(t, h, url.Values{"password": {testHandlerSecret}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestPostbackWrongPassword(t *testing.T) {
	h, db := setupPostbackHandlerTest(t)
	createHandlerTestClick(t, db, "click-h1", "user-h1")

	w := performPostback(t, h, url.Values{
		"click_id": {"click-h1"},
		"password": {"not-the-secret"},
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestPostbackUnknownClick(t *testing.T) {
	h, _ := setupPostbackHandlerTest(t)

	w := performPostback(t, h, url.Values{
		"click_id": {"click-missing"},
		"password": {testHandlerSecret},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPostbackSuccessAndReplay(t *testing.T) {
	handler, store := setupPostbackHandlerTest(t)
	createHandlerTestClick(t, store, "click-h2", "user-h2")

	query := url.Values{
		"click_id":    {"click-h2"},
		"password":    {testHandlerSecret},
		"payout":      {"3.75"},
		"offer_id":    {"offer-7"},
		"tracking_id": {"trk-click-h2"},
	}
	w := performPostback(t, handler, query)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if msg, _ := body["message"].(string); msg != "Postback processed successfully" {
		t.Fatalf("unexpected message %q", msg)
	}
	data, _ := body["data"].(map[string]interface{})
	if data["click_id"] != "click-h2" || data["user_id"] != "user-h2" {
		t.Fatalf("unexpected data %v", data)
	}
	if data["payout"] != "3.75" {
		t.Fatalf("expected payout 3.75, got %v", data["payout"])
	}

	replay := performPostback(t, handler, query)
	if replay.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", replay.Code)
	}
	replayBody := decodeEnvelope(t, replay)
	if msg, _ := replayBody["message"].(string); msg != "Offer already processed" {
		t.Fatalf("expected replay message, got %q", msg)
	}
}

func TestPostbackRejectionStatus(t *testing.T) {
	h, db := setupPostbackHandlerTest(t)
	createHandlerTestClick(t, db, "click-h4", "user-h4")

	w := performPostback(t, h, url.Values{
		"click_id": {"click-h4"},
		"password": {testHandlerSecret},
		"status":   {"rejected"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	if msg, _ := body["message"].(string); msg != "Offer rejected" {
		t.Fatalf("unexpected message %q", msg)
	}

	var click models.OfferClick
	if err := db.First(&click, "id = ?", "click-h4").Error; err != nil {
		t.Fatalf("reload click failed: %v", err)
	}
	if click.Status != constants.ClickStatusRejected {
		t.Fatalf("expected rejected click, got %s", click.Status)
	}
}

func TestPostbackAcceptsFormBody(t *testing.T) {
	h, db := setupPostbackHandlerTest(t)
	createHandlerTestClick(t, db, "click-h3", "user-h3")

	form := url.Values{
		"click_id": {"click-h3"},
		"password": {testHandlerSecret},
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/postback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	h.Postback(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	data, _ := body["data"].(map[string]interface{})
	// No payout supplied: the promised reward is credited.
	if data["payout"] != "2.50" {
		t.Fatalf("expected fallback payout 2.50, got %v", data["payout"])
	}
}
