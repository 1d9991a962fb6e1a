package menus

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Repository persists menus, their items and the menu module rows. Every
// method joins the transaction carried by ctx.
type Repository interface {
	CreateMenu(ctx context.Context, menu *Menu) (*Menu, error)
	GetMenu(ctx context.Context, id uuid.UUID) (*Menu, error)
	DeleteMenu(ctx context.Context, id uuid.UUID) error

	CreateInstance(ctx context.Context, instance *Instance) (*Instance, error)
	UpdateInstance(ctx context.Context, instance *Instance) (*Instance, error)
	GetInstanceByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Instance, error)
	// ListInstances returns every menu instance, oldest first.
	ListInstances(ctx context.Context) ([]*Instance, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) error
	// ClearMain unsets is_main on every instance except keepID.
	ClearMain(ctx context.Context, keepID uuid.UUID) error

	// ListItems returns the items of a menu ordered by (position, id).
	ListItems(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error)
	CreateItems(ctx context.Context, items []*MenuItem) error
	// DetachItemParents nulls parent_id on every item of the menu so the
	// items can be deleted in any order.
	DetachItemParents(ctx context.Context, menuID uuid.UUID) error
	DeleteItems(ctx context.Context, menuID uuid.UUID) error

	ListExtended(ctx context.Context, menuInstanceID uuid.UUID) ([]*ExtendedItem, error)
	CreateExtended(ctx context.Context, items []*ExtendedItem) error
	DeleteExtended(ctx context.Context, menuInstanceID uuid.UUID) error
}

// NotFoundError is returned when a menu record does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
