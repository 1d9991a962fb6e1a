package menus

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu        sync.RWMutex
	menus     map[uuid.UUID]*Menu
	instances map[uuid.UUID]*Instance
	items     map[uuid.UUID]*MenuItem
	extended  map[uuid.UUID]*ExtendedItem
	seq       map[uuid.UUID]int
	next      int
}

// NewMemoryRepository returns an in-memory Repository. Pair it with a
// storage.MemoryTransactor for rollback.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		menus:     map[uuid.UUID]*Menu{},
		instances: map[uuid.UUID]*Instance{},
		items:     map[uuid.UUID]*MenuItem{},
		extended:  map[uuid.UUID]*ExtendedItem{},
		seq:       map[uuid.UUID]int{},
	}
}

func cloneOf[T any](record *T) *T {
	if record == nil {
		return nil
	}
	cloned := *record
	return &cloned
}

func (m *memoryRepository) CreateMenu(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if menu.ID == uuid.Nil {
		menu.ID = uuid.New()
	}
	m.menus[menu.ID] = cloneOf(menu)
	return cloneOf(menu), nil
}

func (m *memoryRepository) GetMenu(_ context.Context, id uuid.UUID) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	menu, ok := m.menus[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: id.String()}
	}
	return cloneOf(menu), nil
}

func (m *memoryRepository) DeleteMenu(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.menus, id)
	return nil
}

func (m *memoryRepository) CreateInstance(_ context.Context, instance *Instance) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if instance.ID == uuid.Nil {
		instance.ID = uuid.New()
	}
	m.next++
	m.seq[instance.ID] = m.next
	m.instances[instance.ID] = cloneOf(instance)
	return cloneOf(instance), nil
}

func (m *memoryRepository) UpdateInstance(_ context.Context, instance *Instance) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[instance.ID]; !ok {
		return nil, &NotFoundError{Resource: "menu_instance", Key: instance.ID.String()}
	}
	instance.UpdatedAt = time.Now().UTC()
	m.instances[instance.ID] = cloneOf(instance)
	return cloneOf(instance), nil
}

func (m *memoryRepository) GetInstanceByModuleInstance(_ context.Context, moduleInstanceID uuid.UUID) (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, instance := range m.instances {
		if instance.ModuleInstanceID == moduleInstanceID {
			return cloneOf(instance), nil
		}
	}
	return nil, &NotFoundError{Resource: "menu_instance", Key: moduleInstanceID.String()}
}

func (m *memoryRepository) ListInstances(_ context.Context) ([]*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Instance, 0, len(m.instances))
	for _, instance := range m.instances {
		out = append(out, cloneOf(instance))
	}
	slices.SortFunc(out, func(a, b *Instance) int { return cmp.Compare(m.seq[a.ID], m.seq[b.ID]) })
	return out, nil
}

func (m *memoryRepository) DeleteInstance(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.instances, id)
	delete(m.seq, id)
	return nil
}

func (m *memoryRepository) ClearMain(_ context.Context, keepID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, instance := range m.instances {
		if id != keepID {
			instance.IsMain = false
		}
	}
	return nil
}

func (m *memoryRepository) ListItems(_ context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*MenuItem{}
	for _, item := range m.items {
		if item.MenuID == menuID {
			out = append(out, cloneItem(item))
		}
	}
	slices.SortFunc(out, compareItems)
	return out, nil
}

func (m *memoryRepository) CreateItems(_ context.Context, items []*MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		m.items[item.ID] = cloneItem(item)
	}
	return nil
}

func (m *memoryRepository) DetachItemParents(_ context.Context, menuID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.MenuID == menuID {
			item.ParentID = nil
		}
	}
	return nil
}

func (m *memoryRepository) DeleteItems(_ context.Context, menuID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, item := range m.items {
		if item.MenuID == menuID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memoryRepository) ListExtended(_ context.Context, menuInstanceID uuid.UUID) ([]*ExtendedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*ExtendedItem{}
	for _, ext := range m.extended {
		if ext.MenuInstanceID == menuInstanceID {
			out = append(out, cloneOf(ext))
		}
	}
	slices.SortFunc(out, func(a, b *ExtendedItem) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return out, nil
}

func (m *memoryRepository) CreateExtended(_ context.Context, items []*ExtendedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ext := range items {
		if ext.ID == uuid.Nil {
			ext.ID = uuid.New()
		}
		m.extended[ext.ID] = cloneOf(ext)
	}
	return nil
}

func (m *memoryRepository) DeleteExtended(_ context.Context, menuInstanceID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ext := range m.extended {
		if ext.MenuInstanceID == menuInstanceID {
			delete(m.extended, id)
		}
	}
	return nil
}

// Snapshot implements storage.Snapshotter.
func (m *memoryRepository) Snapshot() func() {
	m.mu.RLock()
	menus := cloneRecords(m.menus, cloneOf[Menu])
	instances := cloneRecords(m.instances, cloneOf[Instance])
	items := cloneRecords(m.items, cloneItem)
	extended := cloneRecords(m.extended, cloneOf[ExtendedItem])
	seq, next := maps.Clone(m.seq), m.next
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.menus, m.instances, m.items, m.extended = menus, instances, items, extended
		m.seq, m.next = seq, next
		m.mu.Unlock()
	}
}

func cloneRecords[T any](in map[uuid.UUID]*T, clone func(*T) *T) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(in))
	for id, record := range in {
		out[id] = clone(record)
	}
	return out
}

func cloneItem(item *MenuItem) *MenuItem {
	cloned := cloneOf(item)
	if item.ParentID != nil {
		parent := *item.ParentID
		cloned.ParentID = &parent
	}
	return cloned
}

func compareItems(a, b *MenuItem) int {
	return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID.String(), b.ID.String()))
}
