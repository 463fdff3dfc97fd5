// Package jsonschema checks response bodies against JSON Schema documents.
package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors collects every violation found in one document.
type ValidationErrors []error

// Error joins the individual messages with "; ".
func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a schema document.
func Compile(schemaText string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaText)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// Validate checks a JSON document. It returns nil when the document
// conforms, ValidationErrors when it does not, and a plain error when the
// document is not JSON at all.
func (s *Schema) Validate(doc string) error {
	decoder := json.NewDecoder(strings.NewReader(doc))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.ValidateValue(value)
}

// ValidateValue checks an already decoded JSON value.
func (s *Schema) ValidateValue(value any) error {
	err := s.schema.Validate(value)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return flatten(verr)
	}
	return ValidationErrors{err}
}

// Validate compiles schemaText and checks doc against it in one step.
func Validate(doc, schemaText string) error {
	schema, err := Compile(schemaText)
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// flatten walks the cause tree and keeps the leaf messages, which are the
// ones that name the actual violation.
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Errorf("%s: %s", location, err.Message)}
	}

	var out ValidationErrors
	for _, cause := range err.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}
