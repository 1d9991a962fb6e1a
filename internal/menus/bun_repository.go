package menus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
)

// BunRepository stores menus with plain bun queries. Every call resolves its
// connection through storage.Conn so save workflows stay in one transaction.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) conn(ctx context.Context) bun.IDB {
	return storage.Conn(ctx, r.db)
}

func (r *BunRepository) CreateMenu(ctx context.Context, menu *Menu) (*Menu, error) {
	if menu.ID == uuid.Nil {
		menu.ID = uuid.New()
	}
	now := time.Now().UTC()
	menu.CreatedAt, menu.UpdatedAt = now, now
	if _, err := r.conn(ctx).NewInsert().Model(menu).Exec(ctx); err != nil {
		return nil, wrapError("menu", err)
	}
	return menu, nil
}

func (r *BunRepository) GetMenu(ctx context.Context, id uuid.UUID) (*Menu, error) {
	menu := &Menu{}
	if err := r.conn(ctx).NewSelect().Model(menu).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, notFoundOr("menu", id.String(), err)
	}
	return menu, nil
}

func (r *BunRepository) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).NewDelete().Model((*Menu)(nil)).Where("id = ?", id).Exec(ctx)
	return wrapError("menu", err)
}

func (r *BunRepository) CreateInstance(ctx context.Context, instance *Instance) (*Instance, error) {
	if instance.ID == uuid.Nil {
		instance.ID = uuid.New()
	}
	now := time.Now().UTC()
	instance.CreatedAt, instance.UpdatedAt = now, now
	if _, err := r.conn(ctx).NewInsert().Model(instance).Exec(ctx); err != nil {
		return nil, wrapError("menu_instance", err)
	}
	return instance, nil
}

func (r *BunRepository) UpdateInstance(ctx context.Context, instance *Instance) (*Instance, error) {
	instance.UpdatedAt = time.Now().UTC()
	res, err := r.conn(ctx).NewUpdate().
		Model(instance).
		ExcludeColumn("id", "module_instance_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, wrapError("menu_instance", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, &NotFoundError{Resource: "menu_instance", Key: instance.ID.String()}
	}
	return instance, nil
}

func (r *BunRepository) GetInstanceByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Instance, error) {
	instance := &Instance{}
	err := r.conn(ctx).NewSelect().
		Model(instance).
		Where("?TableAlias.module_instance_id = ?", moduleInstanceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr("menu_instance", moduleInstanceID.String(), err)
	}
	return instance, nil
}

func (r *BunRepository) ListInstances(ctx context.Context) ([]*Instance, error) {
	instances := []*Instance{}
	err := r.conn(ctx).NewSelect().
		Model(&instances).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC").
		Scan(ctx)
	return instances, wrapError("menu_instance", err)
}

func (r *BunRepository) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).NewDelete().Model((*Instance)(nil)).Where("id = ?", id).Exec(ctx)
	return wrapError("menu_instance", err)
}

func (r *BunRepository) ClearMain(ctx context.Context, keepID uuid.UUID) error {
	_, err := r.conn(ctx).NewUpdate().
		Model((*Instance)(nil)).
		Set("is_main = ?", false).
		Where("id <> ?", keepID).
		Where("is_main = ?", true).
		Exec(ctx)
	return wrapError("menu_instance", err)
}

func (r *BunRepository) ListItems(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	items := []*MenuItem{}
	err := r.conn(ctx).NewSelect().
		Model(&items).
		Where("?TableAlias.menu_id = ?", menuID).
		OrderExpr("?TableAlias.position ASC, ?TableAlias.id ASC").
		Scan(ctx)
	return items, wrapError("menu_item", err)
}

func (r *BunRepository) CreateItems(ctx context.Context, items []*MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CreatedAt, item.UpdatedAt = now, now
	}
	_, err := r.conn(ctx).NewInsert().Model(&items).Exec(ctx)
	return wrapError("menu_item", err)
}

func (r *BunRepository) DetachItemParents(ctx context.Context, menuID uuid.UUID) error {
	_, err := r.conn(ctx).NewUpdate().
		Model((*MenuItem)(nil)).
		Set("parent_id = NULL").
		Where("menu_id = ?", menuID).
		Exec(ctx)
	return wrapError("menu_item", err)
}

func (r *BunRepository) DeleteItems(ctx context.Context, menuID uuid.UUID) error {
	_, err := r.conn(ctx).NewDelete().Model((*MenuItem)(nil)).Where("menu_id = ?", menuID).Exec(ctx)
	return wrapError("menu_item", err)
}

func (r *BunRepository) ListExtended(ctx context.Context, menuInstanceID uuid.UUID) ([]*ExtendedItem, error) {
	items := []*ExtendedItem{}
	err := r.conn(ctx).NewSelect().
		Model(&items).
		Where("?TableAlias.menu_instance_id = ?", menuInstanceID).
		OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC").
		Scan(ctx)
	return items, wrapError("menu_item_extended", err)
}

func (r *BunRepository) CreateExtended(ctx context.Context, items []*ExtendedItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CreatedAt = now
	}
	_, err := r.conn(ctx).NewInsert().Model(&items).Exec(ctx)
	return wrapError("menu_item_extended", err)
}

func (r *BunRepository) DeleteExtended(ctx context.Context, menuInstanceID uuid.UUID) error {
	_, err := r.conn(ctx).NewDelete().
		Model((*ExtendedItem)(nil)).
		Where("menu_instance_id = ?", menuInstanceID).
		Exec(ctx)
	return wrapError("menu_item_extended", err)
}

func notFoundOr(resource, key string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return wrapError(resource, err)
}

func wrapError(resource string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
