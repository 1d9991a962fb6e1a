package modules

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultTemplate is the render variant used when none is selected.
const DefaultTemplate = "default"

// Module is a module type definition. Name is the dispatch key matched
// against registered handlers.
type Module struct {
	bun.BaseModel `bun:"table:modules,alias:mod"`

	ID               uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name             string     `bun:"name,notnull,unique" json:"name"`
	Slug             string     `bun:"slug,notnull" json:"slug"`
	Description      string     `bun:"description" json:"description,omitempty"`
	SettingsSchema   JSONObject `bun:"settings_schema,type:jsonb" json:"settings_schema,omitempty"`
	Templates        []string   `bun:"templates,type:jsonb" json:"templates,omitempty"`
	CreationTemplate string     `bun:"creation_template" json:"creation_template,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// RenderName is the lower-cased, underscore separated name exposed to
// storefront templates as module_name.
func (m *Module) RenderName() string {
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(m.Name)), " ", "_")
}

// ModuleInstance is one configured occurrence of a Module.
type ModuleInstance struct {
	bun.BaseModel `bun:"table:module_instances,alias:mi"`

	ID               uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ModuleID         uuid.UUID  `bun:"module_id,notnull,type:uuid" json:"module_id"`
	Settings         JSONObject `bun:"settings,type:jsonb" json:"settings"`
	Content          JSONObject `bun:"content,type:jsonb" json:"content,omitempty"`
	SelectedTemplate string     `bun:"selected_template,notnull,default:'default'" json:"selected_template"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Template returns the selected render variant, defaulting to "default".
func (i *ModuleInstance) Template() string {
	if i == nil || strings.TrimSpace(i.SelectedTemplate) == "" {
		return DefaultTemplate
	}
	return i.SelectedTemplate
}

// SettingsMap returns a copy of the settings, never nil.
func (i *ModuleInstance) SettingsMap() map[string]any {
	if i == nil {
		return map[string]any{}
	}
	return i.Settings.Clone()
}

// Label is the human readable name used by instance pickers.
func (i *ModuleInstance) Label() string {
	if i == nil {
		return ""
	}
	for _, key := range []string{"name", "title", "menu_title"} {
		if value, ok := i.Settings[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return fmt.Sprintf("Instance %s", i.ID)
}

// JSONObject is a JSON object column. Reading NULL, an empty string or
// malformed JSON yields an empty object instead of an error.
type JSONObject map[string]any

// ParseJSONObject decodes raw, returning an empty object when raw is not a JSON object.
func ParseJSONObject(raw []byte) JSONObject {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return JSONObject{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return JSONObject{}
	}
	return out
}

func (o JSONObject) Clone() map[string]any {
	out := make(map[string]any, len(o))
	maps.Copy(out, o)
	return out
}

// Value writes the object as JSON text; nil is stored as {}.
func (o JSONObject) Value() (driver.Value, error) {
	if o == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(map[string]any(o))
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func (o *JSONObject) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*o = JSONObject{}
	case []byte:
		*o = ParseJSONObject(v)
	case string:
		*o = ParseJSONObject([]byte(v))
	default:
		*o = JSONObject{}
	}
	return nil
}

// Models lists the tables owned by this package.
func Models() []any {
	return []any{
		(*Module)(nil),
		(*ModuleInstance)(nil),
	}
}
