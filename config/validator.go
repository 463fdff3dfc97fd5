package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a suite validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

var validMethods = []string{"GET", "POST", "PUT", "DELETE"}

// ValidateSuite reports every problem found in the suite.
func ValidateSuite(suite *Suite) []ValidationError {
	var errors []ValidationError

	if len(suite.Requests) == 0 {
		errors = append(errors, ValidationError{
			Path:    "requests",
			Message: "at least one request is required",
		})
	}

	if suite.Timeout != "" {
		if _, err := ParseDuration(suite.Timeout); err != nil {
			errors = append(errors, ValidationError{
				Path:    "timeout",
				Message: fmt.Sprintf("invalid duration '%s'", suite.Timeout),
			})
		}
	}

	seen := make(map[string]int)
	for i, req := range suite.Requests {
		path := fmt.Sprintf("requests[%d]", i)

		if req.Name == "" {
			errors = append(errors, ValidationError{
				Path:    path + ".name",
				Message: "name is required",
			})
		} else if first, ok := seen[req.Name]; ok {
			errors = append(errors, ValidationError{
				Path:    path + ".name",
				Message: fmt.Sprintf("duplicate name '%s' (first used at requests[%d])", req.Name, first),
			})
		} else {
			seen[req.Name] = i
		}

		if req.Method == "" {
			errors = append(errors, ValidationError{
				Path:    path + ".method",
				Message: "method is required",
			})
		} else if !stringInSlice(strings.ToUpper(req.Method), validMethods) {
			errors = append(errors, ValidationError{
				Path:    path + ".method",
				Message: fmt.Sprintf("invalid method '%s', must be one of: %s", req.Method, strings.Join(validMethods, ", ")),
			})
		}

		if req.Expect.Status < 0 {
			errors = append(errors, ValidationError{
				Path:    path + ".expect.status",
				Message: "status cannot be negative",
			})
		}

		if req.Expect.Time != "" {
			if _, err := ParseDuration(req.Expect.Time); err != nil {
				errors = append(errors, ValidationError{
					Path:    path + ".expect.time",
					Message: fmt.Sprintf("invalid duration '%s'", req.Expect.Time),
				})
			}
		}

		for name, expr := range req.Extract {
			if strings.TrimSpace(expr) == "" {
				errors = append(errors, ValidationError{
					Path:    fmt.Sprintf("%s.extract.%s", path, name),
					Message: "extract path cannot be empty",
				})
			}
		}
	}

	return errors
}

// ParseDuration parses duration strings like "30s", "500ms" or "2 seconds".
func ParseDuration(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	duration = strings.ToLower(strings.ReplaceAll(duration, " ", ""))

	// longest words first so "seconds" is not left as "s" + "s"
	replacements := []struct{ word, abbrev string }{
		{"milliseconds", "ms"},
		{"millisecond", "ms"},
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}
	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}

func stringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
