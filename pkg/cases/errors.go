package cases

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a case record does not exist.
var ErrNotFound = errors.New("case not found")

// StorageError represents an error from a case store backend.
type StorageError struct {
	Backend   string // Backend type ("sqlite", "postgres", "memory")
	Operation string // Operation that failed ("put", "get", "find_closed", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("case store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
