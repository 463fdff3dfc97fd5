// Package jsonpath evaluates the small JSONPath subset used by suite files
// ($.a.b, $.items[0].id, $['key']) on top of gjson.
package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyDocument is returned when there is no JSON to search.
	ErrEmptyDocument = errors.New("empty JSON document")

	// ErrEmptyPath is returned for a blank expression.
	ErrEmptyPath = errors.New("empty JSONPath expression")
)

// NotFoundError is returned when a path matches nothing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// Extract returns the value at path rendered as text. Strings come back
// unquoted, null as "null", objects and arrays as raw JSON.
func Extract(doc, path string) (string, error) {
	result, err := lookup(doc, path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// Exists reports whether path matches anything in doc.
func Exists(doc, path string) bool {
	_, err := lookup(doc, path)
	return err == nil
}

// ExtractAll evaluates each named path and collects the values. Every path is
// tried; the returned error lists the ones that failed.
func ExtractAll(doc string, paths map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(paths))
	var failed []string

	for name, path := range paths {
		value, err := Extract(doc, path)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		values[name] = value
	}

	if len(failed) > 0 {
		return values, fmt.Errorf("extraction errors: %s", strings.Join(failed, "; "))
	}
	return values, nil
}

func lookup(doc, path string) (gjson.Result, error) {
	if strings.TrimSpace(doc) == "" {
		return gjson.Result{}, ErrEmptyDocument
	}
	if strings.TrimSpace(path) == "" {
		return gjson.Result{}, ErrEmptyPath
	}

	result := gjson.Get(doc, toGJSON(path))
	if !result.Exists() {
		return gjson.Result{}, &NotFoundError{Path: path}
	}
	return result, nil
}

// toGJSON rewrites a JSONPath expression into gjson's dotted syntax:
// $.users[0]["first.name"] becomes users.0.first\.name.
func toGJSON(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	if path == "" {
		return "@this"
	}

	var segments []string
	for i := 0; i < len(path); {
		switch path[i] {
		case '.':
			i++
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				segments = append(segments, escapeSegment(path[i+1:]))
				i = len(path)
				continue
			}
			inner := strings.Trim(path[i+1:i+end], `'"`)
			segments = append(segments, escapeSegment(inner))
			i += end + 1
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end < 0 {
				end = len(path) - i
			}
			segments = append(segments, escapeSegment(path[i:i+end]))
			i += end
		}
	}

	if len(segments) == 0 {
		return "@this"
	}
	return strings.Join(segments, ".")
}

var gjsonEscaper = strings.NewReplacer(
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
)

func escapeSegment(s string) string {
	return gjsonEscaper.Replace(s)
}
