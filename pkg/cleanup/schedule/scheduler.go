package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pepper-hq/custodian/pkg/cleanup"
)

// Disabled is the sentinel expression that suppresses scheduling.
const Disabled = "disabled"

// Config contains configuration for the sweep scheduler.
type Config struct {
	// Expression is a standard cron expression, e.g. "0 2 * * *"
	// (daily at 2 AM). "disabled" or "" suppresses scheduling.
	Expression string

	// Timezone is the IANA timezone the cron expression is evaluated in.
	// Default: America/New_York
	Timezone string

	// Enabled is the master switch. When false no schedule is registered
	// regardless of Expression.
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		Expression: "0 2 * * *",
		Timezone:   "America/New_York",
		Enabled:    true,
	}
}

// Runner is the sweep entry point the scheduler drives.
type Runner interface {
	Sweep(ctx context.Context, trigger string) (*cleanup.RunResult, error)
}

// Scheduler invokes the sweep orchestrator on a cron schedule.
type Scheduler struct {
	runner Runner
	config *Config
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new sweep scheduler.
func NewScheduler(runner Runner, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}

	return &Scheduler{
		runner: runner,
		config: config,
		logger: slog.Default().With("component", "cleanup.schedule"),
	}
}

// Start registers the cron job and begins scheduling. It returns an error
// for an invalid cron expression or timezone; callers log that and continue
// without automatic sweeps (the manual trigger keeps working).
//
// Start is a no-op when scheduling is disabled via config.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already started")
	}

	if !s.config.Enabled {
		s.logger.Info("automatic cleanup disabled, skipping scheduler")
		return nil
	}
	if s.config.Expression == "" || s.config.Expression == Disabled {
		s.logger.Info("cleanup schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Expression); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Expression, err)
	}

	location := time.Local
	if s.config.Timezone != "" {
		loc, err := time.LoadLocation(s.config.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
		}
		location = loc
	}

	s.cron = cron.New(cron.WithLocation(location))

	if _, err := s.cron.AddFunc(s.config.Expression, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule cleanup sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cleanup scheduler started",
		"schedule", s.config.Expression,
		"timezone", location.String(),
	)

	// Stop with the surrounding context
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one scheduled sweep.
func (s *Scheduler) runSweep(ctx context.Context) {
	s.logger.Info("starting scheduled cleanup sweep")

	result, err := s.runner.Sweep(ctx, cleanup.TriggerScheduled)
	if err != nil {
		if errors.Is(err, cleanup.ErrSweepInProgress) {
			s.logger.Warn("scheduled sweep skipped, another sweep in progress")
			return
		}
		s.logger.Error("scheduled sweep failed", "error", err)
		return
	}

	if result.Deleted > 0 || result.Errors > 0 {
		s.logger.Info("scheduled sweep completed",
			"deleted", result.Deleted,
			"errors", result.Errors,
		)
	} else {
		s.logger.Debug("scheduled sweep completed, nothing to delete")
	}
}

// Stop stops the scheduler and waits for a running sweep to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("cleanup scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is registered and running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when no schedule is
// registered.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
