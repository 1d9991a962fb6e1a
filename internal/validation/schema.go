// Package validation checks module instance settings against the
// settings_schema of their module definition.
//
// A settings_schema is either a JSON schema (it carries "type", "properties"
// or "$schema") or the shorthand used by the definition files:
//
//	settings_schema:
//	  fields:
//	    - name: scroll_interval
//	      type: integer
//	    - name: menu_style
//	      schema: {type: string, enum: [horizontal, vertical]}
//
// Shorthand schemas allow properties that are not listed.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("settings schema invalid")
	ErrSchemaValidation = errors.New("settings validation failed")
)

// ValidationIssue is one failed constraint, located by JSON pointer.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// SettingsError lists every constraint a settings payload failed.
type SettingsError struct {
	Issues []ValidationIssue
}

func (e *SettingsError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, "#"+strings.TrimPrefix(issue.Location, "#")+": "+issue.Message)
	}
	if len(parts) == 0 {
		return ErrSchemaValidation.Error()
	}
	return ErrSchemaValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SettingsError) Unwrap() error { return ErrSchemaValidation }

// Issues returns the issues carried by err. Errors that are not settings
// errors come back as a single issue without a location.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var settingsErr *SettingsError
	if errors.As(err, &settingsErr) {
		return settingsErr.Issues
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// ValidateSchema reports whether a settings_schema compiles.
func ValidateSchema(schema map[string]any) error {
	expanded := expandSchema(schema)
	if expanded == nil {
		return nil
	}
	if _, err := compile(expanded); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

// ValidatePayload checks settings against schema. An empty schema accepts
// anything.
func ValidatePayload(schema, settings map[string]any) error {
	expanded := expandSchema(schema)
	if expanded == nil {
		return nil
	}
	compiled, err := compile(expanded)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if settings == nil {
		settings = map[string]any{}
	}
	doc, err := asJSON(settings)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	err = compiled.Validate(doc)
	var failed *jsonschema.ValidationError
	if errors.As(err, &failed) {
		return &SettingsError{Issues: leafIssues(failed)}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func expandSchema(schema map[string]any) map[string]any {
	if len(schema) == 0 {
		return nil
	}
	for _, key := range []string{"$schema", "type", "properties"} {
		if _, ok := schema[key]; ok {
			return schema
		}
	}

	fields, _ := schema["fields"].([]any)
	properties := map[string]any{}
	required := []string{}
	for _, entry := range fields {
		field, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := field["name"].(string)
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		property := map[string]any{}
		if custom, ok := field["schema"].(map[string]any); ok {
			property = custom
		} else if kind, ok := field["type"].(string); ok && kind != "" {
			property["type"] = strings.ToLower(strings.TrimSpace(kind))
		}
		properties[name] = property
		if flag, _ := field["required"].(bool); flag {
			required = append(required, name)
		}
	}
	if len(properties) == 0 {
		return nil
	}

	expanded := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		expanded["required"] = required
	}
	return expanded
}

func compile(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("settings.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("settings.json")
}

// asJSON round-trips settings so Go ints and typed maps reach the validator
// as decoded JSON values.
func asJSON(settings map[string]any) (any, error) {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var doc any
	err = decoder.Decode(&doc)
	return doc, err
}

func leafIssues(root *jsonschema.ValidationError) []ValidationIssue {
	if len(root.Causes) == 0 {
		return []ValidationIssue{{Location: root.InstanceLocation, Message: root.Message}}
	}
	var issues []ValidationIssue
	for _, cause := range root.Causes {
		issues = append(issues, leafIssues(cause)...)
	}
	return issues
}
