package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/chainreq/internal/runner"
)

// OutputFormat represents the available report formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format flag value
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// ReportData is the JSON shape of a suite run
type ReportData struct {
	Suite      string     `json:"suite"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
	DurationMs int64      `json:"durationMs"`
	Timestamp  string     `json:"timestamp"`
	Steps      []StepData `json:"steps"`
}

// StepData is the JSON shape of one request in a run
type StepData struct {
	Name       string            `json:"name"`
	Method     string            `json:"method"`
	URI        string            `json:"uri,omitempty"`
	Status     string            `json:"status"`
	DurationMs int64             `json:"durationMs"`
	Error      string            `json:"error,omitempty"`
	Stage      string            `json:"stage,omitempty"`
	Extracted  map[string]string `json:"extracted,omitempty"`
	Result     any               `json:"result,omitempty"`
}

// NewReportData converts a report into its serialisable form
func NewReportData(report *runner.Report, now time.Time) ReportData {
	data := ReportData{
		Suite:      report.Suite,
		Passed:     report.Passed(),
		Failed:     report.Failed(),
		DurationMs: report.Duration.Milliseconds(),
		Timestamp:  now.Format(time.RFC3339),
		Steps:      make([]StepData, 0, len(report.Steps)),
	}
	data.Skipped = len(report.Steps) - data.Passed - data.Failed

	for _, step := range report.Steps {
		sd := StepData{
			Name:       step.Name,
			Method:     step.Method,
			URI:        step.URI,
			DurationMs: step.Duration.Milliseconds(),
			Extracted:  step.Extracted,
			Result:     step.Result,
		}
		switch {
		case step.Skipped:
			sd.Status = "skipped"
		case step.Err != nil:
			sd.Status = "failed"
			sd.Error = describeError(step.Err)
			if stepErr, ok := step.Err.(*runner.StepError); ok {
				sd.Stage = string(stepErr.Stage)
			}
		default:
			sd.Status = "passed"
		}
		data.Steps = append(data.Steps, sd)
	}
	return data
}

// FormatReportJSON renders a report as indented JSON
func FormatReportJSON(report *runner.Report, now time.Time) (string, error) {
	out, err := json.MarshalIndent(NewReportData(report, now), "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding report: %w", err)
	}
	return string(out) + "\n", nil
}
