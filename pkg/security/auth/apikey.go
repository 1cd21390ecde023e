package auth

import (
	"sync"
)

// APIKeyInfo describes a single configured API key.
type APIKeyInfo struct {
	// Key is the bearer token value presented by clients.
	Key string

	// UserID identifies the caller.
	UserID string

	// Name is an optional display name.
	Name string

	// Enabled allows a key to be turned off without removing it.
	Enabled bool
}

// APIKeyValidator validates bearer tokens against a configured set of keys.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys map[string]*APIKeyInfo
}

// NewAPIKeyValidator creates a new API key validator with the given keys.
func NewAPIKeyValidator(keys []*APIKeyInfo) *APIKeyValidator {
	keyMap := make(map[string]*APIKeyInfo)
	for _, key := range keys {
		keyMap[key.Key] = key
	}

	return &APIKeyValidator{
		keys: keyMap,
	}
}

// Validate checks if the given token matches a configured key and returns
// the caller identity.
func (v *APIKeyValidator) Validate(token string) (*Identity, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	info, ok := v.keys[token]
	if !ok {
		return nil, ErrInvalidToken
	}

	if !info.Enabled {
		return nil, ErrTokenDisabled
	}

	return &Identity{
		UserID: info.UserID,
		Name:   info.Name,
	}, nil
}

// Add adds a new API key to the validator.
func (v *APIKeyValidator) Add(info *APIKeyInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[info.Key] = info
}

// Remove removes an API key from the validator.
func (v *APIKeyValidator) Remove(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.keys, key)
}
