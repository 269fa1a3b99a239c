package handlers

// Error codes carried in ErrorResponse.Code. Clients switch on these, not on
// the message text.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Written by middleware (AdminAuth, RateLimiter, Recovery); the values
	// must stay in sync.
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeInternal     = "internal_error"

	ErrCodeStatusUpdateFailed = "status_update_failed"
	ErrCodeStatusReadFailed   = "status_read_failed"
	ErrCodeSubscriberFailed   = "subscriber_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeBotNotConfigured   = "bot_not_configured"
	ErrCodeGatewayFailed      = "gateway_failed"
)
