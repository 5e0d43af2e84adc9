package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// response codes; messages here are internal and never rendered verbatim.
var (
	ErrPostbackMissingParam   = errors.New("postback missing required parameter")
	ErrPostbackUnauthorized   = errors.New("postback password invalid")
	ErrClickNotFound          = errors.New("offer click not found")
	ErrPostbackPartialFailure = errors.New("click credited but ledger write failed")

	ErrClickCreateFailed = errors.New("offer click create failed")
	ErrClickInvalid      = errors.New("offer click input invalid")

	ErrStatsFetchFailed = errors.New("user stats fetch failed")

	ErrTokenInvalid = errors.New("session token invalid")
)
