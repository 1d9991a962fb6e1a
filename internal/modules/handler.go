package modules

import (
	"context"
	"maps"

	"github.com/csenitron/teamCMS/internal/forms"
)

// Data is the view model a handler hands to admin forms or storefront templates.
type Data map[string]any

// Merge copies other into d, overwriting existing keys.
func (d Data) Merge(other map[string]any) Data {
	if d == nil {
		d = Data{}
	}
	maps.Copy(d, other)
	return d
}

// Handler implements one module type. The handler name must equal the
// Module.Name it serves (compared case-insensitively). Capabilities are the
// optional interfaces below.
type Handler interface {
	Name() string
}

// SaveRequest carries a form submission for one instance. Instance is already
// persisted when SaveInstance runs, so child rows can reference its id.
type SaveRequest struct {
	Module   *Module
	Instance *ModuleInstance
	Created  bool
	Form     forms.Form
}

// SaveResult is what the handler wants stored on the ModuleInstance.
type SaveResult struct {
	Settings map[string]any
	Content  map[string]any
}

// InstanceSaver persists the type specific rows of an instance.
type InstanceSaver interface {
	SaveInstance(ctx context.Context, req SaveRequest) (*SaveResult, error)
}

// InstanceLoader produces admin form data. A nil instance asks for defaults.
type InstanceLoader interface {
	LoadInstanceData(ctx context.Context, instance *ModuleInstance) (Data, error)
}

// InstanceDeleter removes the type specific rows of an instance. The
// ModuleInstance row itself is deleted by the service.
type InstanceDeleter interface {
	DelInstance(ctx context.Context, instance *ModuleInstance) error
}

// InstanceRenderer produces storefront data. It must return well formed
// defaults for a nil instance or missing child rows.
type InstanceRenderer interface {
	GetInstanceData(ctx context.Context, instance *ModuleInstance) (Data, error)
}
