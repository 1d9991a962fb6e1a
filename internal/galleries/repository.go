package galleries

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

var ErrGalleryNotFound = errors.New("galleries: gallery not found")

type Repository interface {
	GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Gallery, error)
	Save(ctx context.Context, gallery *Gallery) (*Gallery, error)
	Delete(ctx context.Context, galleryID uuid.UUID) error
	ListItems(ctx context.Context, galleryID uuid.UUID) ([]*Item, error)
	ReplaceItems(ctx context.Context, galleryID uuid.UUID, items []*Item) error
}

type memoryRepository struct {
	mu        sync.RWMutex
	galleries map[uuid.UUID]Gallery
	items     map[uuid.UUID][]Item
}

func NewMemoryRepository() Repository {
	return &memoryRepository{galleries: map[uuid.UUID]Gallery{}, items: map[uuid.UUID][]Item{}}
}

func (m *memoryRepository) GetByModuleInstance(_ context.Context, moduleInstanceID uuid.UUID) (*Gallery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, gallery := range m.galleries {
		if gallery.ModuleInstanceID == moduleInstanceID {
			return &gallery, nil
		}
	}
	return nil, ErrGalleryNotFound
}

func (m *memoryRepository) Save(_ context.Context, gallery *Gallery) (*Gallery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *gallery
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.galleries[stored.ID] = stored
	return &stored, nil
}

func (m *memoryRepository) Delete(_ context.Context, galleryID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.galleries, galleryID)
	delete(m.items, galleryID)
	return nil
}

func (m *memoryRepository) ListItems(_ context.Context, galleryID uuid.UUID) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, 0, len(m.items[galleryID]))
	for _, item := range m.items[galleryID] {
		out = append(out, &item)
	}
	slices.SortStableFunc(out, func(a, b *Item) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}

func (m *memoryRepository) ReplaceItems(_ context.Context, galleryID uuid.UUID, items []*Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Item, 0, len(items))
	for _, item := range items {
		copied := *item
		copied.GalleryID = galleryID
		stored = append(stored, copied)
	}
	m.items[galleryID] = stored
	return nil
}

// Snapshot implements storage.Snapshotter. Stored item slices are replaced
// wholesale and never mutated, so copying the maps is enough.
func (m *memoryRepository) Snapshot() func() {
	m.mu.RLock()
	galleries, items := maps.Clone(m.galleries), maps.Clone(m.items)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.galleries, m.items = galleries, items
		m.mu.Unlock()
	}
}

type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Gallery, error) {
	gallery, err := storage.FindBy[Gallery](ctx, r.db, "module_instance_id", moduleInstanceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGalleryNotFound
	}
	return gallery, wrapError(err)
}

func (r *BunRepository) Save(ctx context.Context, gallery *Gallery) (*Gallery, error) {
	if gallery.ID == uuid.Nil {
		gallery.ID = uuid.New()
	}
	if err := storage.Upsert(ctx, r.db, gallery, "id", "module_instance_id", "created_at"); err != nil {
		return nil, wrapError(err)
	}
	return gallery, nil
}

func (r *BunRepository) Delete(ctx context.Context, galleryID uuid.UUID) error {
	if err := storage.DeleteBy[Item](ctx, r.db, "gallery_id", galleryID); err != nil {
		return wrapError(err)
	}
	return wrapError(storage.DeleteBy[Gallery](ctx, r.db, "id", galleryID))
}

func (r *BunRepository) ListItems(ctx context.Context, galleryID uuid.UUID) ([]*Item, error) {
	items, err := storage.ListBy[Item](ctx, r.db, "gallery_id", galleryID, "glt.position ASC, glt.id ASC")
	return items, wrapError(err)
}

func (r *BunRepository) ReplaceItems(ctx context.Context, galleryID uuid.UUID, items []*Item) error {
	if err := storage.DeleteBy[Item](ctx, r.db, "gallery_id", galleryID); err != nil {
		return wrapError(err)
	}
	for _, item := range items {
		item.GalleryID = galleryID
	}
	return wrapError(storage.InsertAll(ctx, r.db, items))
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("galleries repository error: %w", err)
}
