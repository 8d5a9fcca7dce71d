package assistant

import "ArdenGolang/pkg/response"

var (
	ErrEmptyInput          = response.NewError(400, "input text is empty")
	ErrNothingPending      = response.NewError(409, "no action is awaiting confirmation")
	ErrTurnCancelled       = response.NewError(409, "turn was cancelled by newer input")
	ErrSessionClosed       = response.NewError(410, "assistant session is closed")
	ErrInvalidPagination   = response.NewError(400, "invalid pagination parameters")
	ErrHistoryUnavailable  = response.NewError(503, "command history is not configured")
	ErrGenerationTimeout   = response.NewError(504, "response generation timed out")
	ErrBackendUnavailable  = response.NewError(503, "response generator is unavailable")
	ErrRateLimitExceeded   = response.NewError(429, "rate limit exceeded")
	ErrUnauthorizedAccess  = response.NewError(403, "unauthorized access to assistant")
	ErrSubscriptionRefused = response.NewError(400, "websocket upgrade required")
)
