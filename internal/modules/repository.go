package modules

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ModuleRepository stores module type definitions.
type ModuleRepository interface {
	Create(ctx context.Context, module *Module) (*Module, error)
	Update(ctx context.Context, module *Module) (*Module, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Module, error)
	GetByName(ctx context.Context, name string) (*Module, error)
	List(ctx context.Context) ([]*Module, error)
}

// InstanceRepository stores module instances. Writes honour the transaction
// carried by ctx.
type InstanceRepository interface {
	Create(ctx context.Context, instance *ModuleInstance) (*ModuleInstance, error)
	Update(ctx context.Context, instance *ModuleInstance) (*ModuleInstance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ModuleInstance, error)
	ListByModule(ctx context.Context, moduleID uuid.UUID) ([]*ModuleInstance, error)
	List(ctx context.Context) ([]*ModuleInstance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a module or instance does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
