package public

import (
	"strings"

	"github.com/winappio/offerwall/internal/http/response"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/service"

	"github.com/gin-gonic/gin"
)

// Postback receives affiliate conversion callbacks. Networks deliver either
// GET with query parameters or POST with form fields, so both are accepted
// on the same route.
func (h *Handler) Postback(c *gin.Context) {
	input := service.PostbackInput{
		ClickID:    postbackParam(c, "click_id"),
		Password:   postbackParam(c, "password"),
		Payout:     postbackParam(c, "payout"),
		Status:     postbackParam(c, "status"),
		OfferID:    postbackParam(c, "offer_id"),
		TrackingID: postbackParam(c, "tracking_id"),
		SourceIP:   c.ClientIP(),
		RawParams:  postbackSnapshot(c),
	}

	result, err := h.PostbackService.HandlePostback(input)
	if err != nil {
		respondWithMappedError(c, err, postbackErrorRules, response.CodeInternal, "Postback processing failed")
		return
	}

	data := gin.H{
		"click_id": result.ClickID,
		"user_id":  result.UserID,
		"payout":   result.Payout.String(),
	}
	if result.OfferID != "" {
		data["offer_id"] = result.OfferID
	}
	if result.TrackingID != "" {
		data["tracking_id"] = result.TrackingID
	}
	if result.AlreadyProcessed {
		response.SuccessWithMsg(c, "Offer already processed", data)
		return
	}
	if result.Rejected {
		response.SuccessWithMsg(c, "Offer rejected", data)
		return
	}
	response.SuccessWithMsg(c, "Postback processed successfully", data)
}

func postbackParam(c *gin.Context, name string) string {
	if value := strings.TrimSpace(c.Query(name)); value != "" {
		return value
	}
	return strings.TrimSpace(c.PostForm(name))
}

// postbackSnapshot captures every supplied parameter, password excluded,
// for the dispute-resolution record.
func postbackSnapshot(c *gin.Context) models.JSON {
	snapshot := models.JSON{}
	for key, values := range c.Request.URL.Query() {
		if key == "password" || len(values) == 0 {
			continue
		}
		snapshot[key] = values[0]
	}
	if err := c.Request.ParseForm(); err == nil {
		for key, values := range c.Request.PostForm {
			if key == "password" || len(values) == 0 {
				continue
			}
			snapshot[key] = values[0]
		}
	}
	snapshot["source_ip"] = c.ClientIP()
	return snapshot
}
