package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pepper-hq/custodian/pkg/cleanup"
)

func sampleResult() *cleanup.RunResult {
	started := time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC)
	return &cleanup.RunResult{
		RunID:      "run-1",
		Trigger:    cleanup.TriggerCLI,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Eligible:   2,
		Deleted:    1,
		Errors:     1,
		Cases: []cleanup.CaseResult{
			{CaseID: "case-a", OwnerID: "owner-1", Path: "/data/cases/owner-1/case-a"},
			{CaseID: "case-b", OwnerID: "owner-1", Path: "/data/cases/owner-1/case-b", Error: "permission denied"},
		},
	}
}

func TestTextFormatterRunResult(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).FormatTo(&buf, sampleResult()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"run-1", "deleted: 1", "errors: 1", "case-a", "FAILED: permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatterRunResult(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{Indent: true}).FormatTo(&buf, sampleResult()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var decoded cleanup.RunResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.Deleted != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) is not a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) is not a TextFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TextFormatter); !ok {
		t.Error("NewFormatter(bogus) should fall back to text")
	}
}
