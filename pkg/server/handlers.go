package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pepper-hq/custodian/pkg/cleanup"
	"pepper-hq/custodian/pkg/security/auth"
)

// SweepRunner is the cleanup surface the API handlers drive.
type SweepRunner interface {
	Sweep(ctx context.Context, trigger string) (*cleanup.RunResult, error)
	LastRun() *cleanup.RunResult
}

// NextRunFunc reports the next scheduled sweep time, or nil when no
// schedule is active.
type NextRunFunc func() *time.Time

// CleanupResponse is the response body for the manual cleanup endpoint.
type CleanupResponse struct {
	// Success is true when the sweep ran to completion, even if individual
	// cases failed. It is false only when the sweep could not run at all.
	Success bool `json:"success"`

	// Message is a human-readable summary.
	Message string `json:"message"`

	// Deleted is the number of case folders deleted.
	Deleted int `json:"deleted"`

	// Errors is the number of cases that failed to delete.
	Errors int `json:"errors"`

	// RunID identifies the sweep run for log correlation.
	RunID string `json:"run_id,omitempty"`
}

// StatusResponse is the response body for the status endpoint.
type StatusResponse struct {
	// LastRun is the most recent completed sweep, or null if none has run.
	LastRun *cleanup.RunResult `json:"last_run"`

	// NextRun is the next scheduled sweep time, or null when automatic
	// cleanup is disabled.
	NextRun *time.Time `json:"next_run"`
}

// ManualCleanupHandler triggers an immediate sweep over eligible cases.
//
// POST /api/case-cleanup/manual
//
// Responses:
//   - 200 OK: Sweep completed. Success is true even when some cases failed;
//     per-case failures are reported in the errors count.
//   - 409 Conflict: Another sweep is already in progress.
//   - 500 Internal Server Error: The sweep could not run (store query failed).
type ManualCleanupHandler struct {
	sweeper SweepRunner
}

// NewManualCleanupHandler creates the manual cleanup trigger handler.
func NewManualCleanupHandler(sweeper SweepRunner) *ManualCleanupHandler {
	return &ManualCleanupHandler{sweeper: sweeper}
}

// ServeHTTP implements http.Handler.
func (h *ManualCleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if identity, ok := auth.GetIdentity(r.Context()); ok {
		slog.Info("manual cleanup requested", "user_id", identity.UserID)
	}

	result, err := h.sweeper.Sweep(r.Context(), cleanup.TriggerManual)
	if err != nil {
		if errors.Is(err, cleanup.ErrSweepInProgress) {
			writeJSON(w, http.StatusConflict, CleanupResponse{
				Success: false,
				Message: "A cleanup sweep is already in progress",
			})
			return
		}

		slog.Error("manual cleanup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, CleanupResponse{
			Success: false,
			Message: "Cleanup sweep failed to run",
		})
		return
	}

	writeJSON(w, http.StatusOK, CleanupResponse{
		Success: true,
		Message: summaryMessage(result),
		Deleted: result.Deleted,
		Errors:  result.Errors,
		RunID:   result.RunID,
	})
}

// summaryMessage builds the human-readable sweep summary.
func summaryMessage(result *cleanup.RunResult) string {
	if result.Eligible == 0 {
		return "No cases were eligible for cleanup"
	}
	if result.Errors == 0 {
		return fmt.Sprintf("Deleted %d case folder(s)", result.Deleted)
	}
	return fmt.Sprintf("Deleted %d case folder(s), %d failed", result.Deleted, result.Errors)
}

// StatusHandler reports the last completed sweep and the next scheduled one.
//
// GET /api/case-cleanup/status
type StatusHandler struct {
	sweeper SweepRunner
	nextRun NextRunFunc
}

// NewStatusHandler creates the cleanup status handler.
func NewStatusHandler(sweeper SweepRunner) *StatusHandler {
	return &StatusHandler{sweeper: sweeper}
}

// WithNextRun attaches a scheduler lookup for the next_run field.
func (h *StatusHandler) WithNextRun(fn NextRunFunc) *StatusHandler {
	h.nextRun = fn
	return h
}

// ServeHTTP implements http.Handler.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := StatusResponse{
		LastRun: h.sweeper.LastRun(),
	}
	if h.nextRun != nil {
		resp.NextRun = h.nextRun()
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
