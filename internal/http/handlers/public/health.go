package public

import (
	"github.com/winappio/offerwall/internal/cache"
	"github.com/winappio/offerwall/internal/http/handlers/shared"
	"github.com/winappio/offerwall/internal/http/response"
	"github.com/winappio/offerwall/internal/models"

	"github.com/gin-gonic/gin"
)

// Health reports process and dependency status.
func (h *Handler) Health(c *gin.Context) {
	if err := models.Ping(); err != nil {
		shared.RespondError(c, response.CodeInternal, "Database unavailable", err)
		return
	}
	response.Success(c, gin.H{
		"status":        "ok",
		"redis_enabled": cache.Enabled(),
		"queue_enabled": h.QueueClient.Enabled(),
	})
}
