package modules

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/csenitron/teamCMS/internal/identity"
	"github.com/csenitron/teamCMS/internal/markdown"
	"github.com/csenitron/teamCMS/internal/validation"
)

//go:embed definitions/*.md
var builtinDefinitions embed.FS

type definitionFrontMatter struct {
	Name             string         `yaml:"name"`
	Slug             string         `yaml:"slug"`
	CreationTemplate string         `yaml:"creation_template"`
	Templates        []string       `yaml:"templates"`
	SettingsSchema   map[string]any `yaml:"settings_schema"`
}

// BuiltinDefinitions returns the module types shipped with the CMS.
func BuiltinDefinitions() ([]*Module, error) {
	return LoadDefinitions(builtinDefinitions, "definitions")
}

// LoadDefinitions reads every *.md file under dir. Each file carries the module
// definition in its frontmatter and the description as body.
func LoadDefinitions(fsys fs.FS, dir string) ([]*Module, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("modules: read definitions: %w", err)
	}
	out := []*Module{}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		file := path.Join(dir, entry.Name())
		source, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("modules: read %s: %w", file, err)
		}
		module, err := parseDefinition(source)
		if err != nil {
			return nil, fmt.Errorf("modules: %s: %w", file, err)
		}
		out = append(out, module)
	}
	slices.SortFunc(out, func(a, b *Module) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func parseDefinition(source []byte) (*Module, error) {
	var meta definitionFrontMatter
	body, err := markdown.ParseFrontMatter(source, &meta)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return nil, errors.New("definition has no name")
	}
	schema, _ := normalizeYAML(meta.SettingsSchema).(map[string]any)
	if err := validation.ValidateSchema(schema); err != nil {
		return nil, err
	}
	moduleSlug := strings.TrimSpace(meta.Slug)
	if moduleSlug == "" {
		if moduleSlug, err = slug.Normalize(name); err != nil {
			return nil, fmt.Errorf("slug for %q: %w", name, err)
		}
	}
	return &Module{
		ID:               identity.ModuleUUID(name),
		Name:             name,
		Slug:             moduleSlug,
		Description:      string(body),
		SettingsSchema:   JSONObject(schema),
		Templates:        meta.Templates,
		CreationTemplate: meta.CreationTemplate,
	}, nil
}

// SeedDefinitions creates missing modules and refreshes existing ones by name.
// Running it twice leaves the same rows behind.
func SeedDefinitions(ctx context.Context, repo ModuleRepository, definitions []*Module) error {
	for _, definition := range definitions {
		existing, err := repo.GetByName(ctx, definition.Name)
		if err != nil {
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
			if _, err := repo.Create(ctx, definition); err != nil {
				return fmt.Errorf("modules: seed %s: %w", definition.Name, err)
			}
			continue
		}
		updated := *definition
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		if _, err := repo.Update(ctx, &updated); err != nil {
			return fmt.Errorf("modules: refresh %s: %w", definition.Name, err)
		}
	}
	return nil
}

// normalizeYAML converts the map[any]any values produced by the YAML decoder
// into JSON compatible maps.
func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return nil
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return value
	}
}
