package cleanup

import (
	"testing"
	"time"

	"pepper-hq/custodian/pkg/cases"
)

func TestPolicyCutoff(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want time.Time
	}{
		{
			name: "ninety days",
			days: 90,
			want: time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "zero days means now",
			days: 0,
			want: now,
		},
		{
			name: "one day",
			days: 1,
			want: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Policy{RetentionDays: tt.days}.Cutoff(now)
			if !got.Equal(tt.want) {
				t.Errorf("Cutoff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyEligible(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	policy := Policy{RetentionDays: 90}

	tests := []struct {
		name    string
		status  cases.Status
		updated time.Time
		want    bool
	}{
		{
			name:    "closed and old",
			status:  cases.StatusClosed,
			updated: now.AddDate(0, 0, -91),
			want:    true,
		},
		{
			name:    "closed exactly at cutoff",
			status:  cases.StatusClosed,
			updated: now.AddDate(0, 0, -90),
			want:    true,
		},
		{
			name:    "closed but recent",
			status:  cases.StatusClosed,
			updated: now.AddDate(0, 0, -89),
			want:    false,
		},
		{
			name:    "old but still open",
			status:  cases.StatusOpen,
			updated: now.AddDate(0, 0, -365),
			want:    false,
		},
		{
			name:    "old but active",
			status:  cases.StatusActive,
			updated: now.AddDate(0, 0, -365),
			want:    false,
		},
		{
			name:    "archived cases are never swept",
			status:  cases.StatusArchived,
			updated: now.AddDate(0, 0, -365),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &cases.Record{
				CaseID:    "case-1",
				OwnerID:   "owner-1",
				Status:    tt.status,
				UpdatedAt: tt.updated,
			}
			if got := policy.Eligible(record, now); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyZeroRetentionDeletesClosedImmediately(t *testing.T) {
	now := time.Now()
	policy := Policy{RetentionDays: 0}

	justClosed := &cases.Record{
		Status:    cases.StatusClosed,
		UpdatedAt: now.Add(-time.Minute),
	}
	if !policy.Eligible(justClosed, now) {
		t.Error("Eligible() = false for just-closed case with zero retention, want true")
	}

	stillOpen := &cases.Record{
		Status:    cases.StatusOpen,
		UpdatedAt: now.Add(-time.Minute),
	}
	if policy.Eligible(stillOpen, now) {
		t.Error("Eligible() = true for open case, want false")
	}
}
