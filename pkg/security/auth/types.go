package auth

import "errors"

// Identity describes an authenticated API caller.
type Identity struct {
	// UserID identifies the caller in logs and sweep results.
	UserID string

	// Name is an optional display name for the caller.
	Name string
}

// ErrInvalidToken is returned when a bearer token fails validation.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenDisabled is returned when a token is recognized but disabled.
var ErrTokenDisabled = errors.New("token disabled")

// TokenValidator validates a bearer token and resolves the caller identity.
type TokenValidator interface {
	Validate(token string) (*Identity, error)
}
