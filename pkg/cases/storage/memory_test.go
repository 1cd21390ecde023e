package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"pepper-hq/custodian/pkg/cases"
)

func newRecord(ownerID, caseID string, status cases.Status, updatedAt time.Time) *cases.Record {
	return &cases.Record{
		CaseID:    caseID,
		OwnerID:   ownerID,
		Title:     "Test Case " + caseID,
		Status:    status,
		CreatedAt: updatedAt.Add(-24 * time.Hour),
		UpdatedAt: updatedAt,
	}
}

func TestMemoryPutGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	record := newRecord("owner-1", "case-1", cases.StatusOpen, time.Now())
	if err := repo.Put(ctx, record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "owner-1", "case-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CaseID != "case-1" || got.Status != cases.StatusOpen {
		t.Errorf("Get() = %+v", got)
	}

	// Mutating the returned copy must not affect stored state
	got.Status = cases.StatusClosed
	again, _ := repo.Get(ctx, "owner-1", "case-1")
	if again.Status != cases.StatusOpen {
		t.Error("stored record was mutated through returned copy")
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get(context.Background(), "owner-1", "missing")
	if !errors.Is(err, cases.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryPutReplaces(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	now := time.Now()
	_ = repo.Put(ctx, newRecord("owner-1", "case-1", cases.StatusOpen, now))
	_ = repo.Put(ctx, newRecord("owner-1", "case-1", cases.StatusClosed, now))

	got, err := repo.Get(ctx, "owner-1", "case-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != cases.StatusClosed {
		t.Errorf("Status = %q, want closed", got.Status)
	}

	count, _ := repo.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestMemoryDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_ = repo.Put(ctx, newRecord("owner-1", "case-1", cases.StatusClosed, time.Now()))

	if err := repo.Delete(ctx, "owner-1", "case-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "owner-1", "case-1"); !errors.Is(err, cases.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "owner-1", "case-1"); !errors.Is(err, cases.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryFindClosedBefore(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	seed := []*cases.Record{
		newRecord("owner-1", "old-closed", cases.StatusClosed, cutoff.Add(-48*time.Hour)),
		newRecord("owner-1", "exact-cutoff", cases.StatusClosed, cutoff),
		newRecord("owner-1", "recent-closed", cases.StatusClosed, cutoff.Add(time.Hour)),
		newRecord("owner-1", "old-open", cases.StatusOpen, cutoff.Add(-48*time.Hour)),
		newRecord("owner-2", "old-archived", cases.StatusArchived, cutoff.Add(-48*time.Hour)),
	}
	for _, record := range seed {
		if err := repo.Put(ctx, record); err != nil {
			t.Fatalf("Put(%s) error = %v", record.CaseID, err)
		}
	}

	results, err := repo.FindClosedBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("FindClosedBefore() error = %v", err)
	}

	got := make(map[string]bool)
	for _, record := range results {
		got[record.CaseID] = true
	}

	// Closed and at-or-before cutoff qualifies; everything else does not.
	want := map[string]bool{"old-closed": true, "exact-cutoff": true}
	if len(got) != len(want) {
		t.Fatalf("FindClosedBefore() returned %v, want %v", got, want)
	}
	for id := range want {
		if !got[id] {
			t.Errorf("missing %q in results", id)
		}
	}
}
