package layouts

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memoryCellRepository struct {
	mu    sync.RWMutex
	cells map[Owner][]*Cell
}

// NewMemoryCellRepository returns an in-memory CellRepository.
func NewMemoryCellRepository() CellRepository {
	return &memoryCellRepository{cells: map[Owner][]*Cell{}}
}

func (m *memoryCellRepository) ReplaceCells(_ context.Context, owner Owner, cells []*Cell) ([]*Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]*Cell, 0, len(cells))
	for _, cell := range cells {
		cloned := cloneCell(cell)
		if cloned.ID == uuid.Nil {
			cloned.ID = uuid.New()
		}
		cloned.OwnerType = owner.Type
		cloned.OwnerID = owner.ID
		stored = append(stored, cloned)
	}
	if len(stored) == 0 {
		delete(m.cells, owner)
	} else {
		m.cells[owner] = stored
	}
	return cloneCells(stored), nil
}

func (m *memoryCellRepository) ListCells(_ context.Context, owner Owner) ([]*Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := cloneCells(m.cells[owner])
	slices.SortStableFunc(out, compareCells)
	return out, nil
}

func (m *memoryCellRepository) DetachInstance(_ context.Context, instanceID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, cells := range m.cells {
		for _, cell := range cells {
			if cell.ModuleInstanceID != nil && *cell.ModuleInstanceID == instanceID {
				cell.ModuleInstanceID = nil
				count++
			}
		}
	}
	return count, nil
}

// Snapshot implements storage.Snapshotter.
func (m *memoryCellRepository) Snapshot() func() {
	m.mu.RLock()
	cells := make(map[Owner][]*Cell, len(m.cells))
	for owner, stored := range m.cells {
		cells[owner] = cloneCells(stored)
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.cells = cells
		m.mu.Unlock()
	}
}

func cloneCell(cell *Cell) *Cell {
	cloned := *cell
	if cell.ModuleInstanceID != nil {
		id := *cell.ModuleInstanceID
		cloned.ModuleInstanceID = &id
	}
	return &cloned
}

func cloneCells(cells []*Cell) []*Cell {
	out := make([]*Cell, 0, len(cells))
	for _, cell := range cells {
		out = append(out, cloneCell(cell))
	}
	return out
}
