package modules

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryModuleRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Module
	byName map[string]uuid.UUID
}

// NewMemoryModuleRepository returns an in-memory ModuleRepository.
func NewMemoryModuleRepository() ModuleRepository {
	return &memoryModuleRepository{
		byID:   map[uuid.UUID]*Module{},
		byName: map[string]uuid.UUID{},
	}
}

func (m *memoryModuleRepository) Create(_ context.Context, module *Module) (*Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := cloneModule(module)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	m.byName[canonicalKey(cloned.Name)] = cloned.ID
	return cloneModule(cloned), nil
}

func (m *memoryModuleRepository) Update(_ context.Context, module *Module) (*Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[module.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "module", Key: module.ID.String()}
	}
	delete(m.byName, canonicalKey(existing.Name))
	cloned := cloneModule(module)
	m.byID[cloned.ID] = cloned
	m.byName[canonicalKey(cloned.Name)] = cloned.ID
	return cloneModule(cloned), nil
}

func (m *memoryModuleRepository) GetByID(_ context.Context, id uuid.UUID) (*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "module", Key: id.String()}
	}
	return cloneModule(record), nil
}

func (m *memoryModuleRepository) GetByName(_ context.Context, name string) (*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[canonicalKey(name)]
	if !ok {
		return nil, &NotFoundError{Resource: "module", Key: name}
	}
	return cloneModule(m.byID[id]), nil
}

func (m *memoryModuleRepository) List(_ context.Context) ([]*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Module, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, cloneModule(record))
	}
	slices.SortFunc(out, func(a, b *Module) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

type memoryInstanceRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*ModuleInstance
	order []uuid.UUID
}

// NewMemoryInstanceRepository returns an in-memory InstanceRepository.
func NewMemoryInstanceRepository() InstanceRepository {
	return &memoryInstanceRepository{byID: map[uuid.UUID]*ModuleInstance{}}
}

func (m *memoryInstanceRepository) Create(_ context.Context, instance *ModuleInstance) (*ModuleInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := cloneInstance(instance)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	if _, exists := m.byID[cloned.ID]; !exists {
		m.order = append(m.order, cloned.ID)
	}
	m.byID[cloned.ID] = cloned
	return cloneInstance(cloned), nil
}

func (m *memoryInstanceRepository) Update(_ context.Context, instance *ModuleInstance) (*ModuleInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[instance.ID]; !ok {
		return nil, &NotFoundError{Resource: "module_instance", Key: instance.ID.String()}
	}
	cloned := cloneInstance(instance)
	m.byID[cloned.ID] = cloned
	return cloneInstance(cloned), nil
}

func (m *memoryInstanceRepository) GetByID(_ context.Context, id uuid.UUID) (*ModuleInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "module_instance", Key: id.String()}
	}
	return cloneInstance(record), nil
}

func (m *memoryInstanceRepository) ListByModule(_ context.Context, moduleID uuid.UUID) ([]*ModuleInstance, error) {
	return m.list(func(i *ModuleInstance) bool { return i.ModuleID == moduleID }), nil
}

func (m *memoryInstanceRepository) List(_ context.Context) ([]*ModuleInstance, error) {
	return m.list(nil), nil
}

func (m *memoryInstanceRepository) list(keep func(*ModuleInstance) bool) []*ModuleInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*ModuleInstance{}
	for _, id := range m.order {
		record, ok := m.byID[id]
		if !ok || (keep != nil && !keep(record)) {
			continue
		}
		out = append(out, cloneInstance(record))
	}
	return out
}

func (m *memoryInstanceRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "module_instance", Key: id.String()}
	}
	delete(m.byID, id)
	m.order = slices.DeleteFunc(m.order, func(existing uuid.UUID) bool { return existing == id })
	return nil
}

// Snapshot implements storage.Snapshotter.
func (m *memoryModuleRepository) Snapshot() func() {
	m.mu.RLock()
	byID := make(map[uuid.UUID]*Module, len(m.byID))
	for id, record := range m.byID {
		byID[id] = cloneModule(record)
	}
	byName := maps.Clone(m.byName)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.byID, m.byName = byID, byName
		m.mu.Unlock()
	}
}

// Snapshot implements storage.Snapshotter.
func (m *memoryInstanceRepository) Snapshot() func() {
	m.mu.RLock()
	byID := make(map[uuid.UUID]*ModuleInstance, len(m.byID))
	for id, record := range m.byID {
		byID[id] = cloneInstance(record)
	}
	order := slices.Clone(m.order)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.byID, m.order = byID, order
		m.mu.Unlock()
	}
}

func cloneModule(module *Module) *Module {
	if module == nil {
		return nil
	}
	cloned := *module
	cloned.SettingsSchema = cloneObject(module.SettingsSchema)
	cloned.Templates = slices.Clone(module.Templates)
	return &cloned
}

func cloneInstance(instance *ModuleInstance) *ModuleInstance {
	if instance == nil {
		return nil
	}
	cloned := *instance
	cloned.Settings = cloneObject(instance.Settings)
	if cloned.Settings == nil {
		cloned.Settings = JSONObject{}
	}
	cloned.Content = cloneObject(instance.Content)
	return &cloned
}

func cloneObject(in JSONObject) JSONObject {
	if in == nil {
		return nil
	}
	out := make(JSONObject, len(in))
	maps.Copy(out, in)
	return out
}
