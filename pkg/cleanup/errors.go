package cleanup

import (
	"errors"
	"fmt"
)

// ErrSweepInProgress is returned when a sweep is triggered while another is
// still running. The caller should report "already running" rather than wait.
var ErrSweepInProgress = errors.New("cleanup sweep already in progress")

// SweepError represents a run-level failure: the sweep could not start or
// could not obtain the eligible set. Per-case deletion failures are not
// SweepErrors; they are absorbed into the run result.
type SweepError struct {
	RunID string // Sweep run ID, empty if the run never started
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *SweepError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("sweep error [run_id=%s]: %v", e.RunID, e.Cause)
	}
	return fmt.Sprintf("sweep error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SweepError) Unwrap() error {
	return e.Cause
}

// NewSweepError creates a new SweepError.
func NewSweepError(runID string, cause error) *SweepError {
	return &SweepError{
		RunID: runID,
		Cause: cause,
	}
}
