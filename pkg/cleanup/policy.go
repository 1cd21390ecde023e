package cleanup

import (
	"time"

	"pepper-hq/custodian/pkg/cases"
)

// Policy decides which case records are eligible for deletion.
type Policy struct {
	// RetentionDays is the number of days a closed case's artifacts are
	// kept on disk. Zero means closed cases become eligible immediately.
	RetentionDays int
}

// Cutoff returns the eligibility cutoff for the given wall-clock time.
// Cases whose UpdatedAt is at or before the cutoff satisfy the age check.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.RetentionDays)
}

// Eligible reports whether the record may be deleted at the given time.
// A case is eligible iff it is closed and its age since the last status
// transition is at least the retention period.
func (p Policy) Eligible(record *cases.Record, now time.Time) bool {
	if record.Status != cases.StatusClosed {
		return false
	}
	return !record.UpdatedAt.After(p.Cutoff(now))
}
