package cases

import (
	"context"
	"time"
)

// Status is the lifecycle state of a case.
type Status string

const (
	// StatusOpen marks a newly created case with no activity yet.
	StatusOpen Status = "open"

	// StatusActive marks a case with ongoing work.
	StatusActive Status = "active"

	// StatusClosed marks a case that is finished. Only closed cases are
	// eligible for retention cleanup.
	StatusClosed Status = "closed"

	// StatusArchived marks a case exported to long-term storage.
	// Archived cases are never swept.
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known case status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusActive, StatusClosed, StatusArchived:
		return true
	}
	return false
}

// Record is one case as stored in the case store.
type Record struct {
	// CaseID identifies the case, unique per owning user.
	CaseID string `json:"case_id"`

	// OwnerID identifies the owning user. It partitions on-disk storage:
	// all of a case's files live under the owner's directory.
	OwnerID string `json:"owner_id"`

	// Title is the human-readable case name.
	Title string `json:"title"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is when the case was first stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt marks the most recent status transition. The retention
	// sweep computes case age against this field.
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the composite identity of the record.
func (r *Record) Key() (ownerID, caseID string) {
	return r.OwnerID, r.CaseID
}

// Repository is the capability interface over the case store.
//
// FindClosedBefore is the query the retention sweep depends on; everything
// else is the ordinary persistence surface. All methods honor context
// cancellation.
type Repository interface {
	// Put inserts or replaces a case record.
	Put(ctx context.Context, record *Record) error

	// Get returns the record for (ownerID, caseID) or ErrNotFound.
	Get(ctx context.Context, ownerID, caseID string) (*Record, error)

	// Delete removes the record for (ownerID, caseID). Deleting a missing
	// record returns ErrNotFound.
	Delete(ctx context.Context, ownerID, caseID string) error

	// FindClosedBefore returns every record with status closed whose
	// UpdatedAt is at or before cutoff. Order is unspecified.
	FindClosedBefore(ctx context.Context, cutoff time.Time) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
