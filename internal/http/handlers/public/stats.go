package public

import (
	"github.com/winappio/offerwall/internal/http/handlers/shared"
	"github.com/winappio/offerwall/internal/http/response"
	"github.com/winappio/offerwall/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetMyStats returns the current user's earnings aggregates.
func (h *Handler) GetMyStats(c *gin.Context) {
	stats, err := h.ClickService.GetStats(currentUserID(c))
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "Failed to fetch stats", err)
		return
	}
	response.Success(c, stats)
}

// ListMyCompletions returns the current user's completed offers.
func (h *Handler) ListMyCompletions(c *gin.Context) {
	filter := repository.CompletedOfferListFilter{
		Page:     parsePositiveInt(c.Query("page"), 1),
		PageSize: parsePositiveInt(c.Query("page_size"), 20),
		UserID:   currentUserID(c),
	}

	completions, total, err := h.ClickService.ListCompletions(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "Failed to list completions", err)
		return
	}

	response.SuccessWithPage(c, completions, buildPagination(filter.Page, filter.PageSize, total))
}
