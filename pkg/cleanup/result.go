package cleanup

import "time"

// Trigger identifies what started a sweep.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerCLI       = "cli"
)

// CaseResult records the outcome of one case within a sweep.
type CaseResult struct {
	CaseID  string `json:"case_id"`
	OwnerID string `json:"owner_id"`
	Path    string `json:"path"`

	// Error holds the failure message when the deletion failed. Empty on
	// success.
	Error string `json:"error,omitempty"`

	// RecordDeleted is true when the case store record was also removed
	// (delete_records policy).
	RecordDeleted bool `json:"record_deleted,omitempty"`
}

// RunResult summarizes one sweep. It is returned to the caller and logged,
// never persisted.
type RunResult struct {
	// RunID uniquely identifies the sweep for log correlation.
	RunID string `json:"run_id"`

	// Trigger is what started the sweep (scheduled, manual, cli).
	Trigger string `json:"trigger"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Eligible is the size of the eligible set at the run-start snapshot.
	Eligible int `json:"eligible"`

	// Deleted counts cases whose folders were successfully removed.
	Deleted int `json:"deleted"`

	// Errors counts cases whose deletion failed. Failed cases stay
	// eligible and are retried on the next run.
	Errors int `json:"errors"`

	// Skipped counts eligible cases not attempted because the run
	// deadline expired mid-batch. They stay eligible for the next run.
	Skipped int `json:"skipped"`

	// Cases holds per-case detail in processing order.
	Cases []CaseResult `json:"cases,omitempty"`
}

// Duration returns the wall-clock length of the sweep.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
