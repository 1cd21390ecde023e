package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"pepper-hq/custodian/pkg/cleanup"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter formats output as plain text. Sweep results get a readable
// summary; other values fall back to their default formatting.
type TextFormatter struct{}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	if result, ok := data.(*cleanup.RunResult); ok {
		return writeRunResultText(w, result)
	}
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// writeRunResultText writes a sweep result as a readable summary.
func writeRunResultText(w io.Writer, result *cleanup.RunResult) error {
	if _, err := fmt.Fprintf(w, "Sweep %s (%s)\n", result.RunID, result.Trigger); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  eligible: %d  deleted: %d  errors: %d  skipped: %d  duration: %s\n",
		result.Eligible, result.Deleted, result.Errors, result.Skipped,
		result.Duration().Round(time.Millisecond)); err != nil {
		return err
	}

	for _, c := range result.Cases {
		status := "deleted"
		if c.Error != "" {
			status = "FAILED: " + c.Error
		}
		if _, err := fmt.Fprintf(w, "  %s/%s  %s\n", c.OwnerID, c.CaseID, status); err != nil {
			return err
		}
	}

	return nil
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}
