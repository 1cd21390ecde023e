package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTValidator validates HS256-signed bearer tokens.
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a validator for tokens signed with the given
// HMAC secret.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{
		secret: []byte(secret),
	}
}

// Validate parses and verifies the token signature and expiry, and returns
// the caller identity from the subject claim.
func (v *JWTValidator) Validate(token string) (*Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}

	identity := &Identity{UserID: sub}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}

	return identity, nil
}
