package storage

import (
	"context"
	"sync"
	"time"

	"pepper-hq/custodian/pkg/cases"
)

// MemoryRepository implements cases.Repository using an in-memory map.
// This implementation is intended for testing only and should not be used
// in production.
type MemoryRepository struct {
	records map[string]*cases.Record
	mu      sync.RWMutex
}

// NewMemoryRepository creates a new in-memory case repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*cases.Record),
	}
}

func memKey(ownerID, caseID string) string {
	return ownerID + "/" + caseID
}

// Put inserts or replaces a case record.
func (r *MemoryRepository) Put(ctx context.Context, record *cases.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid callers mutating stored state
	recordCopy := *record
	r.records[memKey(record.OwnerID, record.CaseID)] = &recordCopy

	return nil
}

// Get returns the record for (ownerID, caseID) or cases.ErrNotFound.
func (r *MemoryRepository) Get(ctx context.Context, ownerID, caseID string) (*cases.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[memKey(ownerID, caseID)]
	if !ok {
		return nil, cases.ErrNotFound
	}

	recordCopy := *record
	return &recordCopy, nil
}

// Delete removes the record for (ownerID, caseID).
func (r *MemoryRepository) Delete(ctx context.Context, ownerID, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memKey(ownerID, caseID)
	if _, ok := r.records[key]; !ok {
		return cases.ErrNotFound
	}

	delete(r.records, key)
	return nil
}

// FindClosedBefore returns closed records whose UpdatedAt is at or before cutoff.
func (r *MemoryRepository) FindClosedBefore(ctx context.Context, cutoff time.Time) ([]*cases.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*cases.Record
	for _, record := range r.records {
		if record.Status != cases.StatusClosed {
			continue
		}
		if record.UpdatedAt.After(cutoff) {
			continue
		}
		recordCopy := *record
		results = append(results, &recordCopy)
	}

	return results, nil
}

// Count returns the total number of stored records.
func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.records)), nil
}

// Close is a no-op for the memory backend.
func (r *MemoryRepository) Close() error {
	return nil
}
