package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wesleyorama2/chainreq/builder"
	"github.com/wesleyorama2/chainreq/http"
	"github.com/wesleyorama2/chainreq/internal/bench"
	"github.com/wesleyorama2/chainreq/internal/runner"
)

// Formatter renders builder activity as human-readable text.
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatParams formats the request a builder is about to send
func (f *Formatter) FormatParams(p http.Params) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.colors.Method.Sprint(p.Method), f.colors.URL.Sprint(p.URI)))

	if f.Verbose || len(p.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(p.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), p.Headers[key]))
		}
	}

	if p.Body != "" {
		buf.WriteString(fmt.Sprintf("  Body: %s\n", p.Body))
	}

	return buf.String()
}

// FormatResponse formats the status line of a received response, plus the
// timing phases and headers when verbose
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	statusColor := color.New(color.Bold)
	switch {
	case resp.IsSuccess():
		statusColor.Add(color.FgGreen)
	case resp.IsRedirect():
		statusColor.Add(color.FgYellow)
	case resp.IsError():
		statusColor.Add(color.FgRed)
	}
	if f.NoColor {
		statusColor.DisableColor()
	}

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n", statusColor.Sprint(status), resp.Timing.TotalTime.Milliseconds()))

	if contentType := resp.GetHeader("Content-Type"); contentType != "" && !f.Verbose {
		buf.WriteString(fmt.Sprintf("  %s: %s\n", f.colors.HeaderKey.Sprint("Content-Type"), contentType))
	}

	if f.Verbose {
		t := resp.Timing
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %s\n", t.DNSLookupTime))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %s\n", t.TCPConnectTime))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %s\n", t.TLSHandshakeTime))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %s\n", t.TimeToFirstByte))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %s\n", t.ContentTransferTime))
		buf.WriteString(fmt.Sprintf("    Total:              %s\n", t.TotalTime))

		buf.WriteString("  Headers:\n")
		keys := make([]string, 0, len(resp.Headers))
		for key := range resp.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range resp.Headers[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), value))
			}
		}
	}

	return buf.String()
}

// FormatResult formats what a builder handed to its callback
func (f *Formatter) FormatResult(result any, err error) string {
	var buf strings.Builder

	if err != nil {
		buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), f.colors.Error.Sprint(describeError(err))))
		return buf.String()
	}

	buf.WriteString(fmt.Sprintf("%s %s\n", SuccessIcon(f.NoColor), f.colors.Success.Sprint("PASSED")))
	if text := renderResult(result); text != "" {
		buf.WriteString("  Body:\n  ")
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return buf.String()
}

// FormatReport formats a suite run
func (f *Formatter) FormatReport(report *runner.Report) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ RUNNING SUITE: %s (%d requests)\n\n", f.colors.Highlight.Sprint(report.Suite), len(report.Steps)))

	for i, step := range report.Steps {
		switch {
		case step.Skipped:
			buf.WriteString(fmt.Sprintf("%s %d. %s %s\n", SkipIcon(f.NoColor), i+1, step.Name, f.colors.Skipped.Sprint("(skipped)")))
			continue
		case step.Err != nil:
			buf.WriteString(fmt.Sprintf("%s %d. %s %s %s (%dms)\n", ErrorIcon(f.NoColor), i+1, step.Name,
				f.colors.Method.Sprint(step.Method), step.URI, step.Duration.Milliseconds()))
			buf.WriteString(fmt.Sprintf("     %s\n", f.colors.Error.Sprint(describeError(step.Err))))
		default:
			buf.WriteString(fmt.Sprintf("%s %d. %s %s %s (%dms)\n", SuccessIcon(f.NoColor), i+1, step.Name,
				f.colors.Method.Sprint(step.Method), step.URI, step.Duration.Milliseconds()))
		}

		if f.Verbose {
			for _, key := range sortedKeys(step.Extracted) {
				buf.WriteString(fmt.Sprintf("     %s = %s\n", f.colors.HeaderKey.Sprint(key), step.Extracted[key]))
			}
			if text := renderResult(step.Result); text != "" {
				buf.WriteString("     " + f.colors.Dim.Sprint(text) + "\n")
			}
		}
	}

	skipped := len(report.Steps) - report.Passed() - report.Failed()
	buf.WriteString(fmt.Sprintf("\nSUMMARY: %d passed, %d failed, %d skipped in %dms\n",
		report.Passed(), report.Failed(), skipped, report.Duration.Milliseconds()))
	return buf.String()
}

// FormatSummary formats a benchmark summary
func (f *Formatter) FormatSummary(s *bench.Summary) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ BENCHMARK: %d requests in %s (%.1f req/s)\n", s.Count, s.Elapsed.Round(time.Millisecond), s.Throughput()))

	failures := fmt.Sprintf("%d", s.Failures)
	if s.Failures > 0 {
		failures = f.colors.Error.Sprint(failures)
	} else {
		failures = f.colors.Success.Sprint(failures)
	}
	buf.WriteString(fmt.Sprintf("  Failures: %s (expectation %d, transport %d)\n", failures, s.Expectation, s.Transport))
	buf.WriteString("  Latency:\n")
	buf.WriteString(fmt.Sprintf("    min   %s\n", s.Min))
	buf.WriteString(fmt.Sprintf("    mean  %s\n", s.Mean))
	buf.WriteString(fmt.Sprintf("    p50   %s\n", s.P50))
	buf.WriteString(fmt.Sprintf("    p90   %s\n", s.P90))
	buf.WriteString(fmt.Sprintf("    p99   %s\n", s.P99))
	buf.WriteString(fmt.Sprintf("    max   %s\n", s.Max))
	return buf.String()
}

// describeError adds expected/actual detail to expectation failures
func describeError(err error) string {
	var expErr *builder.ExpectationError
	if errors.As(err, &expErr) {
		return fmt.Sprintf("%s %s", err.Error(), expErr.Detail())
	}
	return err.Error()
}

// renderResult pretty-prints a result, whether raw text or decoded JSON
func renderResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return formatJSONString(v)
	default:
		data, err := json.MarshalIndent(v, "  ", "  ")
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, []byte(s), "  ", "  "); err != nil {
		return s
	}
	return prettyJSON.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
