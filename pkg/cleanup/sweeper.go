package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pepper-hq/custodian/pkg/cases"
)

// Config contains configuration for the sweep orchestrator.
type Config struct {
	// RetentionDays is the number of days to retain closed cases' folders.
	// 0 means closed cases are eligible immediately.
	RetentionDays int

	// DeleteRecords also removes the case store record after its folder.
	// Default is false: the record is preserved for audit history and only
	// the filesystem artifacts are deleted.
	DeleteRecords bool

	// CaseTimeout bounds each folder deletion. A timeout is recorded as a
	// per-case error. Default: 30 seconds.
	CaseTimeout time.Duration

	// RunTimeout bounds a whole sweep against a slow or hung filesystem.
	// Default: 10 minutes.
	RunTimeout time.Duration
}

// DefaultConfig returns the default sweep configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		DeleteRecords: false,
		CaseTimeout:   30 * time.Second,
		RunTimeout:    10 * time.Minute,
	}
}

// Sweeper drives end-to-end cleanup passes over the case store.
type Sweeper struct {
	repo    cases.Repository
	folders FolderDeleter
	logger  *slog.Logger
	metrics *Metrics

	mu      sync.RWMutex // guards config and lastRun
	config  *Config
	lastRun *RunResult

	// inFlight is the single-flight guard: a trigger arriving while a
	// sweep runs gets ErrSweepInProgress instead of a concurrent run.
	inFlight atomic.Bool
}

// NewSweeper creates a new sweep orchestrator.
func NewSweeper(repo cases.Repository, folders FolderDeleter, config *Config) *Sweeper {
	if config == nil {
		config = DefaultConfig()
	}
	if config.CaseTimeout <= 0 {
		config.CaseTimeout = 30 * time.Second
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 10 * time.Minute
	}

	return &Sweeper{
		repo:    repo,
		folders: folders,
		config:  config,
		logger:  slog.Default().With("component", "cleanup.sweeper"),
	}
}

// SetMetrics attaches a metrics recorder. Safe to skip for tests and CLI use.
func (s *Sweeper) SetMetrics(m *Metrics) {
	s.metrics = m
}

// UpdatePolicy replaces the retention policy at runtime (config hot reload).
// It does not affect a sweep already in flight.
func (s *Sweeper) UpdatePolicy(retentionDays int, deleteRecords bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.RetentionDays != retentionDays || s.config.DeleteRecords != deleteRecords {
		s.logger.Info("retention policy updated",
			"retention_days", retentionDays,
			"delete_records", deleteRecords,
		)
	}
	s.config.RetentionDays = retentionDays
	s.config.DeleteRecords = deleteRecords
}

// LastRun returns the result of the most recent completed sweep, or nil if
// no sweep has run yet.
func (s *Sweeper) LastRun() *RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// EligibleCases returns the current eligible set without deleting anything.
// Used by the CLI dry-run mode.
func (s *Sweeper) EligibleCases(ctx context.Context) ([]*cases.Record, error) {
	s.mu.RLock()
	policy := Policy{RetentionDays: s.config.RetentionDays}
	s.mu.RUnlock()

	return s.repo.FindClosedBefore(ctx, policy.Cutoff(time.Now()))
}

// Sweep executes one cleanup pass: query the eligible set once, then delete
// each case's folder sequentially. Per-case failures are recorded and do not
// abort the batch; a store query failure aborts the run before any deletion.
//
// Returns ErrSweepInProgress if another sweep is still running.
func (s *Sweeper) Sweep(ctx context.Context, trigger string) (*RunResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("sweep trigger rejected, run in progress", "trigger", trigger)
		return nil, ErrSweepInProgress
	}
	defer s.inFlight.Store(false)

	s.mu.RLock()
	cfg := *s.config
	s.mu.RUnlock()

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	result := &RunResult{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now(),
	}

	s.logger.Info("starting cleanup sweep",
		"run_id", result.RunID,
		"trigger", trigger,
		"retention_days", cfg.RetentionDays,
		"delete_records", cfg.DeleteRecords,
	)

	// Eligibility snapshot, evaluated once per run. Cases closed after this
	// query are picked up by the next run.
	policy := Policy{RetentionDays: cfg.RetentionDays}
	eligible, err := s.repo.FindClosedBefore(runCtx, policy.Cutoff(result.StartedAt))
	if err != nil {
		s.logger.Error("eligibility query failed, aborting sweep",
			"run_id", result.RunID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.RecordSweepFailed(trigger)
		}
		return nil, NewSweepError(result.RunID, err)
	}

	result.Eligible = len(eligible)
	if s.metrics != nil {
		s.metrics.SetEligibleCases(len(eligible))
	}

	for i, record := range eligible {
		if runCtx.Err() != nil {
			// Run deadline expired; the rest of the batch waits for the
			// next sweep.
			result.Skipped = len(eligible) - i
			s.logger.Warn("sweep deadline reached, skipping remaining cases",
				"run_id", result.RunID,
				"skipped", result.Skipped,
			)
			break
		}

		result.Cases = append(result.Cases, s.sweepCase(runCtx, &cfg, record))
		last := &result.Cases[len(result.Cases)-1]
		if last.Error != "" {
			result.Errors++
		} else {
			result.Deleted++
		}
	}

	result.FinishedAt = time.Now()

	s.mu.Lock()
	s.lastRun = result
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordSweep(trigger, result)
	}

	s.logger.Info("cleanup sweep completed",
		"run_id", result.RunID,
		"trigger", trigger,
		"eligible", result.Eligible,
		"deleted", result.Deleted,
		"errors", result.Errors,
		"skipped", result.Skipped,
		"duration_ms", result.Duration().Milliseconds(),
	)

	return result, nil
}

// sweepCase deletes one case's folder (and optionally its record) and
// returns the per-case outcome. Errors are captured, never propagated.
func (s *Sweeper) sweepCase(ctx context.Context, cfg *Config, record *cases.Record) CaseResult {
	cr := CaseResult{
		CaseID:  record.CaseID,
		OwnerID: record.OwnerID,
		Path:    s.folders.Path(record.OwnerID, record.CaseID),
	}

	caseCtx, cancel := context.WithTimeout(ctx, cfg.CaseTimeout)
	defer cancel()

	if err := s.folders.Remove(caseCtx, record.OwnerID, record.CaseID); err != nil {
		cr.Error = err.Error()
		s.logger.Warn("case folder deletion failed",
			"case_id", record.CaseID,
			"owner_id", record.OwnerID,
			"path", cr.Path,
			"error", err,
		)
		return cr
	}

	if cfg.DeleteRecords {
		if err := s.repo.Delete(caseCtx, record.OwnerID, record.CaseID); err != nil {
			// Folder is gone but the record remains; the next sweep sees
			// the still-closed record and re-deleting the folder is a no-op.
			cr.Error = err.Error()
			s.logger.Warn("case record deletion failed",
				"case_id", record.CaseID,
				"owner_id", record.OwnerID,
				"error", err,
			)
			return cr
		}
		cr.RecordDeleted = true
	}

	return cr
}
