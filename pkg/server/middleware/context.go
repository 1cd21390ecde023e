package middleware

// ctxKey is the type for context keys used by this package.
type ctxKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey ctxKey = "request_id"

	// StartTimeKey is the context key for the request start time.
	StartTimeKey ctxKey = "start_time"
)
