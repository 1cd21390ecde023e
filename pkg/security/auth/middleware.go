package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Middleware is HTTP middleware for bearer token authentication.
type Middleware struct {
	validator TokenValidator
}

// NewMiddleware creates authentication middleware backed by the given
// validator.
func NewMiddleware(validator TokenValidator) *Middleware {
	return &Middleware{
		validator: validator,
	}
}

// Handle wraps an HTTP handler with bearer token authentication.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			slog.Warn("missing bearer token",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			http.Error(w, "Missing or invalid authorization", http.StatusUnauthorized)
			return
		}

		identity, err := m.validator.Validate(token)
		if err != nil {
			slog.Warn("token validation failed",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		slog.Debug("request authenticated",
			"user_id", identity.UserID,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from the Authorization header.
func extractBearerToken(r *http.Request) (string, error) {
	value := r.Header.Get("Authorization")
	if value == "" {
		return "", fmt.Errorf("no authorization header")
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}

	token := strings.TrimPrefix(value, prefix)
	if token == "" {
		return "", fmt.Errorf("empty bearer token")
	}

	return token, nil
}

// Context key for the caller identity
type contextKey string

const identityKey contextKey = "auth_identity"

// GetIdentity retrieves the authenticated caller identity from the request
// context.
func GetIdentity(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}
