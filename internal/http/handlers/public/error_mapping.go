package public

import (
	"errors"

	"github.com/winappio/offerwall/internal/http/handlers/shared"
	"github.com/winappio/offerwall/internal/http/response"
	"github.com/winappio/offerwall/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a service sentinel onto an HTTP error response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			shared.RespondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	shared.RespondError(c, fallbackCode, fallbackMsg, err)
}

var postbackErrorRules = []mappedHandlerError{
	{target: service.ErrPostbackMissingParam, code: response.CodeBadRequest, msg: "Missing required parameters: click_id and password"},
	{target: service.ErrPostbackUnauthorized, code: response.CodeUnauthorized, msg: "Invalid postback password"},
	{target: service.ErrClickNotFound, code: response.CodeNotFound, msg: "Click not found"},
	{target: service.ErrPostbackPartialFailure, code: response.CodeInternal, msg: "Click credited but reward ledger update failed"},
}

var clickErrorRules = []mappedHandlerError{
	{target: service.ErrClickInvalid, code: response.CodeBadRequest, msg: "Invalid click request"},
	{target: service.ErrClickCreateFailed, code: response.CodeInternal, msg: "Failed to record click"},
	{target: service.ErrClickNotFound, code: response.CodeNotFound, msg: "Click not found"},
}
