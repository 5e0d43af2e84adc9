package public

import (
	"strconv"
	"strings"

	"github.com/winappio/offerwall/internal/http/handlers/shared"
	"github.com/winappio/offerwall/internal/http/response"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/repository"
	"github.com/winappio/offerwall/internal/service"

	"github.com/gin-gonic/gin"
)

type trackClickRequest struct {
	OfferID      string       `json:"offer_id"`
	OfferTitle   string       `json:"offer_title" binding:"required"`
	OfferType    string       `json:"offer_type"`
	Category     string       `json:"category"`
	Reward       models.Money `json:"reward"`
	OriginalLink string       `json:"original_link" binding:"required"`
}

// TrackClick records an offer dispatch for the current user and returns the
// decorated redirect URL.
func (h *Handler) TrackClick(c *gin.Context) {
	var req trackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "Invalid click request", err)
		return
	}

	result, err := h.ClickService.TrackClick(service.TrackClickInput{
		UserID:       currentUserID(c),
		OfferID:      req.OfferID,
		OfferTitle:   req.OfferTitle,
		OfferType:    req.OfferType,
		Category:     req.Category,
		Reward:       req.Reward,
		OriginalLink: req.OriginalLink,
		SourceIP:     c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		respondWithMappedError(c, err, clickErrorRules, response.CodeInternal, "Failed to record click")
		return
	}

	response.Success(c, gin.H{
		"click":        result.Click,
		"tracking_url": result.TrackingURL,
	})
}

// ListClicks returns the current user's click history.
func (h *Handler) ListClicks(c *gin.Context) {
	filter := repository.ClickListFilter{
		Page:     parsePositiveInt(c.Query("page"), 1),
		PageSize: parsePositiveInt(c.Query("page_size"), 20),
		UserID:   currentUserID(c),
		Status:   strings.TrimSpace(c.Query("status")),
		OfferID:  strings.TrimSpace(c.Query("offer_id")),
		Category: strings.TrimSpace(c.Query("category")),
	}

	clicks, total, err := h.ClickService.ListClicks(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "Failed to list clicks", err)
		return
	}

	response.SuccessWithPage(c, clicks, buildPagination(filter.Page, filter.PageSize, total))
}

// GetClick returns one of the current user's clicks.
func (h *Handler) GetClick(c *gin.Context) {
	click, err := h.ClickService.GetClick(currentUserID(c), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, clickErrorRules, response.CodeInternal, "Failed to fetch click")
		return
	}
	response.Success(c, click)
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
