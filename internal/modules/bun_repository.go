package modules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
)

const moduleNamespace = "module"

// NewModuleRecordRepository builds the go-repository-bun repository for modules.
func NewModuleRecordRepository(db *bun.DB) repository.Repository[*Module] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Module]{
		NewRecord: func() *Module { return &Module{} },
		GetID: func(m *Module) uuid.UUID {
			return m.ID
		},
		SetID: func(m *Module, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(m *Module) string {
			return m.Name
		},
	})
}

// BunModuleRepository reads module definitions with optional caching. Module
// rows only change when definitions are seeded, so they are safe to cache.
type BunModuleRepository struct {
	repo         repository.Repository[*Module]
	cacheService cache.CacheService
	cachePrefix  string
}

func NewBunModuleRepository(db *bun.DB) *BunModuleRepository {
	return NewBunModuleRepositoryWithCache(db, nil, nil)
}

func NewBunModuleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunModuleRepository {
	base := NewModuleRecordRepository(db)
	r := &BunModuleRepository{repo: base}
	if cacheService != nil && serializer != nil {
		r.repo = repositorycache.New(base, cacheService, serializer)
		r.cacheService = cacheService
		r.cachePrefix = moduleNamespace + cache.KeySeparator
	}
	return r
}

func (r *BunModuleRepository) Create(ctx context.Context, module *Module) (*Module, error) {
	return r.repo.Create(ctx, module)
}

func (r *BunModuleRepository) Update(ctx context.Context, module *Module) (*Module, error) {
	record, err := r.repo.Update(ctx, module,
		repository.UpdateByID(module.ID.String()),
		repository.UpdateColumns("name", "slug", "description", "settings_schema", "templates", "creation_template", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "module", module.ID.String())
	}
	return record, nil
}

func (r *BunModuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Module, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "module", id.String())
	}
	return record, nil
}

func (r *BunModuleRepository) GetByName(ctx context.Context, name string) (*Module, error) {
	record, err := r.repo.GetByIdentifier(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, mapRepositoryError(err, "module", name)
	}
	return record, nil
}

func (r *BunModuleRepository) List(ctx context.Context) ([]*Module, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	return records, err
}

func (r *BunModuleRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunInstanceRepository stores module instances with plain bun queries so that
// every call joins the transaction carried by ctx.
type BunInstanceRepository struct {
	db *bun.DB
}

func NewBunInstanceRepository(db *bun.DB) *BunInstanceRepository {
	return &BunInstanceRepository{db: db}
}

func (r *BunInstanceRepository) Create(ctx context.Context, instance *ModuleInstance) (*ModuleInstance, error) {
	if instance.ID == uuid.Nil {
		instance.ID = uuid.New()
	}
	if instance.Settings == nil {
		instance.Settings = JSONObject{}
	}
	if instance.SelectedTemplate == "" {
		instance.SelectedTemplate = DefaultTemplate
	}
	if _, err := storage.Conn(ctx, r.db).NewInsert().Model(instance).Exec(ctx); err != nil {
		return nil, fmt.Errorf("module_instance repository error: %w", err)
	}
	return instance, nil
}

func (r *BunInstanceRepository) Update(ctx context.Context, instance *ModuleInstance) (*ModuleInstance, error) {
	instance.UpdatedAt = time.Now().UTC()
	res, err := storage.Conn(ctx, r.db).NewUpdate().
		Model(instance).
		Column("settings", "content", "selected_template", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("module_instance repository error: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, &NotFoundError{Resource: "module_instance", Key: instance.ID.String()}
	}
	return instance, nil
}

func (r *BunInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*ModuleInstance, error) {
	record := &ModuleInstance{}
	err := storage.Conn(ctx, r.db).NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "module_instance", Key: id.String()}
		}
		return nil, fmt.Errorf("module_instance repository error: %w", err)
	}
	return record, nil
}

func (r *BunInstanceRepository) ListByModule(ctx context.Context, moduleID uuid.UUID) ([]*ModuleInstance, error) {
	records := []*ModuleInstance{}
	err := storage.Conn(ctx, r.db).NewSelect().
		Model(&records).
		Where("?TableAlias.module_id = ?", moduleID).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC").
		Scan(ctx)
	return records, err
}

func (r *BunInstanceRepository) List(ctx context.Context) ([]*ModuleInstance, error) {
	records := []*ModuleInstance{}
	err := storage.Conn(ctx, r.db).NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC").
		Scan(ctx)
	return records, err
}

func (r *BunInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := storage.Conn(ctx, r.db).NewDelete().
		Model((*ModuleInstance)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("module_instance repository error: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: "module_instance", Key: id.String()}
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
