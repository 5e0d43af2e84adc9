package response

import "net/http"

// Error responses carry a real HTTP status; affiliate networks retry on
// anything but 200.
const (
	CodeOK              = http.StatusOK
	CodeBadRequest      = http.StatusBadRequest
	CodeUnauthorized    = http.StatusUnauthorized
	CodeNotFound        = http.StatusNotFound
	CodeTooManyRequests = http.StatusTooManyRequests
	CodeInternal        = http.StatusInternalServerError
)
