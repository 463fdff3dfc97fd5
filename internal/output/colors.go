package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Method    *color.Color
	URL       *color.Color
	HeaderKey *color.Color
	Success   *color.Color
	Error     *color.Color
	Skipped   *color.Color
	Highlight *color.Color
	Dim       *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Method:    color.New(color.FgBlue, color.Bold),
		URL:       color.New(color.FgCyan),
		HeaderKey: color.New(color.FgYellow),
		Success:   color.New(color.FgGreen),
		Error:     color.New(color.FgRed),
		Skipped:   color.New(color.FgYellow),
		Highlight: color.New(color.FgMagenta, color.Bold),
		Dim:       color.New(color.Faint),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range []*color.Color{
		scheme.Method, scheme.URL, scheme.HeaderKey, scheme.Success,
		scheme.Error, scheme.Skipped, scheme.Highlight, scheme.Dim,
	} {
		c.DisableColor()
	}
	return scheme
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// SkipIcon returns a dash with appropriate color
func SkipIcon(noColor bool) string {
	if noColor {
		return "-"
	}
	return color.New(color.FgYellow).Sprint("-")
}
