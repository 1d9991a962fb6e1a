package validation_test

import (
	"errors"
	"testing"

	"github.com/csenitron/teamCMS/internal/validation"
)

func sliderSchema() map[string]any {
	return map[string]any{
		"fields": []any{
			map[string]any{"name": "name", "type": "string", "required": true},
			map[string]any{"name": "scroll_interval", "type": "integer"},
			map[string]any{"name": "auto_scroll", "type": "boolean"},
		},
	}
}

func TestValidatePayloadAcceptsMatchingSettings(t *testing.T) {
	settings := map[string]any{
		"name":            "Home slider",
		"scroll_interval": 5000,
		"auto_scroll":     true,
		"status":          true,
	}
	if err := validation.ValidatePayload(sliderSchema(), settings); err != nil {
		t.Fatalf("expected settings to validate: %v", err)
	}
}

func TestValidatePayloadReportsIssues(t *testing.T) {
	err := validation.ValidatePayload(sliderSchema(), map[string]any{"scroll_interval": "fast"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if issues := validation.Issues(err); len(issues) < 2 {
		t.Fatalf("expected missing name and type issues, got %+v", issues)
	}
}

func TestValidatePayloadWithoutSchema(t *testing.T) {
	if err := validation.ValidatePayload(nil, map[string]any{"anything": 1}); err != nil {
		t.Fatalf("expected nil schema to accept payload: %v", err)
	}
}

func TestValidateSchemaRejectsBrokenSchema(t *testing.T) {
	broken := map[string]any{"type": "object", "properties": map[string]any{"name": map[string]any{"type": 12}}}
	if err := validation.ValidateSchema(broken); !errors.Is(err, validation.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidatePayloadHonoursFieldSchemas(t *testing.T) {
	menuSchema := map[string]any{
		"fields": []any{
			map[string]any{"name": "menu_title", "type": "string"},
			map[string]any{"name": "menu_style", "schema": map[string]any{
				"type": "string",
				"enum": []any{"horizontal", "vertical"},
			}},
		},
	}
	if err := validation.ValidatePayload(menuSchema, map[string]any{"menu_title": "Main", "menu_style": "vertical"}); err != nil {
		t.Fatalf("expected a known style to validate: %v", err)
	}

	err := validation.ValidatePayload(menuSchema, map[string]any{"menu_style": "diagonal"})
	var settingsErr *validation.SettingsError
	if !errors.As(err, &settingsErr) {
		t.Fatalf("expected a SettingsError, got %v", err)
	}
	if len(settingsErr.Issues) != 1 || settingsErr.Issues[0].Location != "/menu_style" {
		t.Fatalf("expected one issue at /menu_style, got %+v", settingsErr.Issues)
	}
}

func TestValidatePayloadAcceptsPlainJSONSchema(t *testing.T) {
	schema := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"name": map[string]any{"type": "string"}},
		"additionalProperties": false,
	}
	if err := validation.ValidatePayload(schema, map[string]any{"name": "Lookbook"}); err != nil {
		t.Fatalf("expected payload to validate: %v", err)
	}
	if err := validation.ValidatePayload(schema, map[string]any{"name": "Lookbook", "extra": 1}); err == nil {
		t.Fatal("a JSON schema keeps its own additionalProperties")
	}
}
