// Package validation checks request and job payloads against JSON schemas.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one line suitable for an API response.
func (r *ValidationResult) Summary() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// MustCompile panics on an invalid schema document; schemas are package
// constants so a failure is a programming error.
func MustCompile(name, document string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

func (s *Schema) Name() string { return s.name }

// ValidateJSON validates a raw JSON document. A malformed document is
// reported as a single error on the root field.
func (s *Schema) ValidateJSON(document []byte) *ValidationResult {
	return s.validate(gojsonschema.NewBytesLoader(document))
}

// ValidateInput validates an already decoded value such as job variables.
func (s *Schema) ValidateInput(input interface{}) *ValidationResult {
	return s.validate(gojsonschema.NewGoLoader(input))
}

func (s *Schema) validate(loader gojsonschema.JSONLoader) *ValidationResult {
	result, err := s.schema.Validate(loader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: "body is not valid JSON",
				Code:    "INVALID_JSON",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}
