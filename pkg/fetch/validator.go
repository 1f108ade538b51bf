package fetch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks upstream payloads against a JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schema string) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// MustValidator is like NewValidator but panics on an invalid schema.
func MustValidator(schema string) *Validator {
	v, err := NewValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// RequiredFieldsSchema returns a schema for a JSON object whose listed fields
// must be present and non-null.
func RequiredFieldsSchema(fields ...string) string {
	properties := make(map[string]any, len(fields))
	for _, f := range fields {
		properties[f] = map[string]any{"not": map[string]any{"type": "null"}}
	}
	if fields == nil {
		fields = []string{}
	}

	doc, _ := json.Marshal(map[string]any{
		"type":       "object",
		"required":   fields,
		"properties": properties,
	})
	return string(doc)
}

// Validate returns a descriptive error when body is not JSON or does not
// satisfy the schema.
func (v *Validator) Validate(body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("body is not valid JSON")
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
