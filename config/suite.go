package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is the top-level structure of a suite file.
type Suite struct {
	// Name labels the suite in reports
	Name string `json:"name" yaml:"name"`

	// BaseURI is handed to every builder as its starting URI
	BaseURI string `json:"baseUri" yaml:"baseUri"`

	// Variables seed {{placeholder}} substitution
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// JSONBodies asks the transport to return JSON responses pre-decoded
	JSONBodies bool `json:"jsonBodies,omitempty" yaml:"jsonBodies,omitempty"`

	// Timeout bounds each request at the transport (e.g. "10s")
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Requests run in order
	Requests []RequestSpec `json:"requests" yaml:"requests"`

	// Dir is the directory the suite was loaded from; schema paths resolve against it
	Dir string `json:"-" yaml:"-"`
}

// RequestSpec describes one builder chain.
type RequestSpec struct {
	Name    string            `json:"name" yaml:"name"`
	Method  string            `json:"method" yaml:"method"`
	URI     string            `json:"uri" yaml:"uri"`
	Body    map[string]any    `json:"body,omitempty" yaml:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Expect  Expect            `json:"expect,omitempty" yaml:"expect,omitempty"`

	// Extract maps variable names to JSONPath expressions evaluated on the result
	Extract map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`
}

// Expect holds the checks for one request.
type Expect struct {
	// Status is the required HTTP status code; zero means any
	Status int `json:"status,omitempty" yaml:"status,omitempty"`

	// Time is the allowed response time (e.g. "500ms"); empty means unlimited
	Time string `json:"time,omitempty" yaml:"time,omitempty"`

	// Schema is an inline JSON Schema or a path to one
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// LoadSuite reads a suite file, choosing the decoder by extension.
// Files without a recognised extension are parsed as YAML, which also
// accepts JSON.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("suite file not found: %s", path)
		}
		return nil, fmt.Errorf("error reading suite file: %w", err)
	}

	suite, err := ParseSuite(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	suite.Dir = filepath.Dir(path)
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return suite, nil
}

// ParseSuite decodes suite data in the format implied by ext.
func ParseSuite(data []byte, ext string) (*Suite, error) {
	var suite Suite

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("error parsing JSON suite: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("error parsing YAML suite: %w", err)
		}
	}

	return &suite, nil
}

// SchemaText returns the JSON Schema for spec, reading it from disk when
// it is a path rather than an inline document.
func (s *Suite) SchemaText(spec RequestSpec) (string, error) {
	schema := strings.TrimSpace(spec.Expect.Schema)
	if schema == "" || strings.HasPrefix(schema, "{") {
		return schema, nil
	}

	path := schema
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading schema %s: %w", schema, err)
	}
	return string(data), nil
}
