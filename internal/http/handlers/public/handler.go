package public

import (
	"strings"

	"github.com/winappio/offerwall/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler serves the affiliate callback and user-facing API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func currentUserID(c *gin.Context) string {
	value, ok := c.Get("user_id")
	if !ok {
		return ""
	}
	if userID, ok := value.(string); ok {
		return strings.TrimSpace(userID)
	}
	return ""
}
