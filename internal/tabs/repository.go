package tabs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
)

var ErrTabsNotFound = errors.New("tabs: tabs instance not found")

type Repository interface {
	GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*TabsInstance, error)
	Save(ctx context.Context, instance *TabsInstance) (*TabsInstance, error)
	Delete(ctx context.Context, tabsID uuid.UUID) error
	ListItems(ctx context.Context, tabsID uuid.UUID) ([]*Item, error)
	ReplaceItems(ctx context.Context, tabsID uuid.UUID, items []*Item) error
}

type memoryRepository struct {
	mu        sync.RWMutex
	instances map[uuid.UUID]TabsInstance
	items     map[uuid.UUID][]Item
}

func NewMemoryRepository() Repository {
	return &memoryRepository{instances: map[uuid.UUID]TabsInstance{}, items: map[uuid.UUID][]Item{}}
}

func (m *memoryRepository) GetByModuleInstance(_ context.Context, moduleInstanceID uuid.UUID) (*TabsInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, instance := range m.instances {
		if instance.ModuleInstanceID == moduleInstanceID {
			return &instance, nil
		}
	}
	return nil, ErrTabsNotFound
}

func (m *memoryRepository) Save(_ context.Context, instance *TabsInstance) (*TabsInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *instance
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.instances[stored.ID] = stored
	return &stored, nil
}

func (m *memoryRepository) Delete(_ context.Context, tabsID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.instances, tabsID)
	delete(m.items, tabsID)
	return nil
}

func (m *memoryRepository) ListItems(_ context.Context, tabsID uuid.UUID) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, 0, len(m.items[tabsID]))
	for _, item := range m.items[tabsID] {
		item.ProductIDs = slices.Clone(item.ProductIDs)
		out = append(out, &item)
	}
	slices.SortStableFunc(out, func(a, b *Item) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}

func (m *memoryRepository) ReplaceItems(_ context.Context, tabsID uuid.UUID, items []*Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Item, 0, len(items))
	for _, item := range items {
		copied := *item
		copied.TabsInstanceID = tabsID
		copied.ProductIDs = slices.Clone(item.ProductIDs)
		stored = append(stored, copied)
	}
	m.items[tabsID] = stored
	return nil
}

// Snapshot implements storage.Snapshotter. Stored item slices are replaced
// wholesale and never mutated, so copying the maps is enough.
func (m *memoryRepository) Snapshot() func() {
	m.mu.RLock()
	instances, items := maps.Clone(m.instances), maps.Clone(m.items)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.instances, m.items = instances, items
		m.mu.Unlock()
	}
}

type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*TabsInstance, error) {
	instance, err := storage.FindBy[TabsInstance](ctx, r.db, "module_instance_id", moduleInstanceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTabsNotFound
	}
	return instance, wrapError(err)
}

func (r *BunRepository) Save(ctx context.Context, instance *TabsInstance) (*TabsInstance, error) {
	if instance.ID == uuid.Nil {
		instance.ID = uuid.New()
	}
	if err := storage.Upsert(ctx, r.db, instance, "id", "module_instance_id", "created_at"); err != nil {
		return nil, wrapError(err)
	}
	return instance, nil
}

func (r *BunRepository) Delete(ctx context.Context, tabsID uuid.UUID) error {
	if err := storage.DeleteBy[Item](ctx, r.db, "tabs_instance_id", tabsID); err != nil {
		return wrapError(err)
	}
	return wrapError(storage.DeleteBy[TabsInstance](ctx, r.db, "id", tabsID))
}

func (r *BunRepository) ListItems(ctx context.Context, tabsID uuid.UUID) ([]*Item, error) {
	items, err := storage.ListBy[Item](ctx, r.db, "tabs_instance_id", tabsID, "tbt.position ASC, tbt.id ASC")
	return items, wrapError(err)
}

func (r *BunRepository) ReplaceItems(ctx context.Context, tabsID uuid.UUID, items []*Item) error {
	if err := storage.DeleteBy[Item](ctx, r.db, "tabs_instance_id", tabsID); err != nil {
		return wrapError(err)
	}
	for _, item := range items {
		item.TabsInstanceID = tabsID
	}
	return wrapError(storage.InsertAll(ctx, r.db, items))
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("tabs repository error: %w", err)
}
