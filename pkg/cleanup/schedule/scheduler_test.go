package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"pepper-hq/custodian/pkg/cleanup"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRunner) Sweep(ctx context.Context, trigger string) (*cleanup.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &cleanup.RunResult{Trigger: trigger}, nil
}

func TestSchedulerDisabled(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "enabled flag off",
			config: &Config{Expression: "0 2 * * *", Enabled: false},
		},
		{
			name:   "disabled sentinel",
			config: &Config{Expression: Disabled, Enabled: true},
		},
		{
			name:   "empty expression",
			config: &Config{Expression: "", Enabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(&fakeRunner{}, tt.config)

			if err := s.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v, want nil", err)
			}
			if s.IsRunning() {
				t.Error("IsRunning() = true, want false")
			}
			if s.NextRun() != nil {
				t.Error("NextRun() != nil, want nil")
			}
		})
	}
}

func TestSchedulerInvalidExpression(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, &Config{
		Expression: "not a cron expression",
		Enabled:    true,
	})

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want error for invalid expression")
	}
	if s.IsRunning() {
		t.Error("IsRunning() = true after failed Start")
	}
}

func TestSchedulerInvalidTimezone(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, &Config{
		Expression: "0 2 * * *",
		Timezone:   "Not/AZone",
		Enabled:    true,
	})

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want error for invalid timezone")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(&fakeRunner{}, &Config{
		Expression: "0 2 * * *",
		Timezone:   "America/New_York",
		Enabled:    true,
	})

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("NextRun() = nil while running")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun() = %v, want a future time", next)
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if s.NextRun() != nil {
		t.Error("NextRun() != nil after Stop")
	}

	// Stop again is a no-op
	s.Stop()
}

func TestSchedulerDoubleStart(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, &Config{
		Expression: "0 2 * * *",
		Enabled:    true,
	})

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if err := s.Start(ctx); err == nil {
		t.Error("second Start() error = nil, want error")
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := NewScheduler(&fakeRunner{}, &Config{
		Expression: "0 2 * * *",
		Enabled:    true,
	})

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler still running after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
