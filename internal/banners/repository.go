package banners

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

var ErrBannerNotFound = errors.New("banners: banner not found")

// Repository persists banners and their cards inside the transaction carried by ctx.
type Repository interface {
	GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Banner, error)
	Save(ctx context.Context, banner *Banner) (*Banner, error)
	Delete(ctx context.Context, bannerID uuid.UUID) error
	ListItems(ctx context.Context, bannerID uuid.UUID) ([]*Item, error)
	ReplaceItems(ctx context.Context, bannerID uuid.UUID, items []*Item) error
}

type memoryRepository struct {
	mu      sync.RWMutex
	banners map[uuid.UUID]Banner
	items   map[uuid.UUID][]Item
}

func NewMemoryRepository() Repository {
	return &memoryRepository{banners: map[uuid.UUID]Banner{}, items: map[uuid.UUID][]Item{}}
}

func (m *memoryRepository) GetByModuleInstance(_ context.Context, moduleInstanceID uuid.UUID) (*Banner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, banner := range m.banners {
		if banner.ModuleInstanceID == moduleInstanceID {
			return &banner, nil
		}
	}
	return nil, ErrBannerNotFound
}

func (m *memoryRepository) Save(_ context.Context, banner *Banner) (*Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *banner
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.banners[stored.ID] = stored
	return &stored, nil
}

func (m *memoryRepository) Delete(_ context.Context, bannerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.banners, bannerID)
	delete(m.items, bannerID)
	return nil
}

func (m *memoryRepository) ListItems(_ context.Context, bannerID uuid.UUID) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, 0, len(m.items[bannerID]))
	for _, item := range m.items[bannerID] {
		out = append(out, &item)
	}
	slices.SortStableFunc(out, func(a, b *Item) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}

func (m *memoryRepository) ReplaceItems(_ context.Context, bannerID uuid.UUID, items []*Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Item, 0, len(items))
	for _, item := range items {
		copied := *item
		copied.BannerID = bannerID
		stored = append(stored, copied)
	}
	m.items[bannerID] = stored
	return nil
}

// Snapshot implements storage.Snapshotter. Stored item slices are replaced
// wholesale and never mutated, so copying the maps is enough.
func (m *memoryRepository) Snapshot() func() {
	m.mu.RLock()
	banners, items := maps.Clone(m.banners), maps.Clone(m.items)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.banners, m.items = banners, items
		m.mu.Unlock()
	}
}

type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Banner, error) {
	banner, err := storage.FindBy[Banner](ctx, r.db, "module_instance_id", moduleInstanceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBannerNotFound
	}
	return banner, wrapError(err)
}

func (r *BunRepository) Save(ctx context.Context, banner *Banner) (*Banner, error) {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	if err := storage.Upsert(ctx, r.db, banner, "id", "module_instance_id", "created_at"); err != nil {
		return nil, wrapError(err)
	}
	return banner, nil
}

func (r *BunRepository) Delete(ctx context.Context, bannerID uuid.UUID) error {
	if err := storage.DeleteBy[Item](ctx, r.db, "banner_id", bannerID); err != nil {
		return wrapError(err)
	}
	return wrapError(storage.DeleteBy[Banner](ctx, r.db, "id", bannerID))
}

func (r *BunRepository) ListItems(ctx context.Context, bannerID uuid.UUID) ([]*Item, error) {
	items, err := storage.ListBy[Item](ctx, r.db, "banner_id", bannerID, "bnt.position ASC, bnt.id ASC")
	return items, wrapError(err)
}

func (r *BunRepository) ReplaceItems(ctx context.Context, bannerID uuid.UUID, items []*Item) error {
	if err := storage.DeleteBy[Item](ctx, r.db, "banner_id", bannerID); err != nil {
		return wrapError(err)
	}
	for _, item := range items {
		item.BannerID = bannerID
	}
	return wrapError(storage.InsertAll(ctx, r.db, items))
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("banners repository error: %w", err)
}
