package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pepper-hq/custodian/pkg/cases"
)

func newTestSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()

	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "cases.db")

	repo, err := NewSQLiteRepository(config)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestSQLitePutGet(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	record := newRecord("owner-1", "case-1", cases.StatusActive, now)
	if err := repo.Put(ctx, record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "owner-1", "case-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CaseID != "case-1" || got.OwnerID != "owner-1" {
		t.Errorf("Get() identity = %s/%s", got.OwnerID, got.CaseID)
	}
	if got.Status != cases.StatusActive {
		t.Errorf("Status = %q, want active", got.Status)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, now)
	}
}

func TestSQLitePutUpsert(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_ = repo.Put(ctx, newRecord("owner-1", "case-1", cases.StatusOpen, now))

	updated := newRecord("owner-1", "case-1", cases.StatusClosed, now.Add(time.Hour))
	if err := repo.Put(ctx, updated); err != nil {
		t.Fatalf("Put() upsert error = %v", err)
	}

	got, err := repo.Get(ctx, "owner-1", "case-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != cases.StatusClosed {
		t.Errorf("Status = %q, want closed after upsert", got.Status)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestSQLiteGetNotFound(t *testing.T) {
	repo := newTestSQLite(t)

	_, err := repo.Get(context.Background(), "owner-1", "missing")
	if !errors.Is(err, cases.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	_ = repo.Put(ctx, newRecord("owner-1", "case-1", cases.StatusClosed, time.Now()))

	if err := repo.Delete(ctx, "owner-1", "case-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "owner-1", "case-1"); !errors.Is(err, cases.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteFindClosedBefore(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	seed := []*cases.Record{
		newRecord("owner-1", "old-closed", cases.StatusClosed, cutoff.Add(-48*time.Hour)),
		newRecord("owner-2", "also-old-closed", cases.StatusClosed, cutoff.Add(-time.Hour)),
		newRecord("owner-1", "recent-closed", cases.StatusClosed, cutoff.Add(time.Hour)),
		newRecord("owner-1", "old-active", cases.StatusActive, cutoff.Add(-48*time.Hour)),
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

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, record := range results {
		if record.Status != cases.StatusClosed {
			t.Errorf("result %s status = %q, want closed", record.CaseID, record.Status)
		}
		if record.UpdatedAt.After(cutoff) {
			t.Errorf("result %s updated %v, after cutoff %v", record.CaseID, record.UpdatedAt, cutoff)
		}
	}
}

func TestSQLiteSchemaVersionPersists(t *testing.T) {
	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "cases.db")

	repo, err := NewSQLiteRepository(config)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	_ = repo.Put(context.Background(), newRecord("owner-1", "case-1", cases.StatusClosed, time.Now()))
	repo.Close()

	// Reopening against the same file must find the existing schema
	reopened, err := NewSQLiteRepository(config)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() after reopen = %d, want 1", count)
	}
}
