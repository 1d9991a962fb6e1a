package catalog

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryCatalog is an in-memory Catalog used by tests and the demo server.
type MemoryCatalog struct {
	mu             sync.RWMutex
	categories     map[uuid.UUID]*Category
	pages          map[uuid.UUID]*Page
	posts          map[uuid.UUID]*Post
	postCategories map[uuid.UUID]*PostCategory
	images         map[uuid.UUID]*Image
	videos         map[uuid.UUID]*Video
	products       map[uuid.UUID]*Product
	productOrder   []uuid.UUID
}

var _ Catalog = (*MemoryCatalog)(nil)

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		categories:     map[uuid.UUID]*Category{},
		pages:          map[uuid.UUID]*Page{},
		posts:          map[uuid.UUID]*Post{},
		postCategories: map[uuid.UUID]*PostCategory{},
		images:         map[uuid.UUID]*Image{},
		videos:         map[uuid.UUID]*Video{},
		products:       map[uuid.UUID]*Product{},
	}
}

func clone[T any](record *T) *T {
	if record == nil {
		return nil
	}
	copied := *record
	return &copied
}

func get[T any](mu *sync.RWMutex, store map[uuid.UUID]*T, id uuid.UUID, resource string) (*T, error) {
	mu.RLock()
	defer mu.RUnlock()
	record, ok := store[id]
	if !ok {
		return nil, &NotFoundError{Resource: resource, Key: id.String()}
	}
	return clone(record), nil
}

func list[T any](mu *sync.RWMutex, store map[uuid.UUID]*T, keep func(*T) bool) []*T {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]*T, 0, len(store))
	for _, record := range store {
		if keep == nil || keep(record) {
			out = append(out, clone(record))
		}
	}
	return out
}

// PutCategory inserts or replaces a category, assigning an id when missing.
func (m *MemoryCatalog) PutCategory(c *Category) *Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.categories[c.ID] = clone(c)
	return clone(c)
}

func (m *MemoryCatalog) DeleteCategory(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
}

func (m *MemoryCatalog) PutPage(p *Page) *Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.pages[p.ID] = clone(p)
	return clone(p)
}

func (m *MemoryCatalog) PutPost(p *Post) *Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.posts[p.ID] = clone(p)
	return clone(p)
}

func (m *MemoryCatalog) PutPostCategory(c *PostCategory) *PostCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.postCategories[c.ID] = clone(c)
	return clone(c)
}

func (m *MemoryCatalog) PutImage(img *Image) *Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	m.images[img.ID] = clone(img)
	return clone(img)
}

func (m *MemoryCatalog) PutVideo(v *Video) *Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.videos[v.ID] = clone(v)
	return clone(v)
}

func (m *MemoryCatalog) PutProduct(p *Product) *Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := m.products[p.ID]; !exists {
		m.productOrder = append(m.productOrder, p.ID)
	}
	m.products[p.ID] = clone(p)
	return clone(p)
}

func (m *MemoryCatalog) GetCategory(_ context.Context, id uuid.UUID) (*Category, error) {
	return get(&m.mu, m.categories, id, "category")
}

func (m *MemoryCatalog) ListCategoryChildren(_ context.Context, parentID *uuid.UUID) ([]*Category, error) {
	out := list(&m.mu, m.categories, func(c *Category) bool {
		if parentID == nil || *parentID == uuid.Nil {
			return c.IsRoot()
		}
		return c.ParentID != nil && *c.ParentID == *parentID
	})
	slices.SortFunc(out, func(a, b *Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return out, nil
}

func (m *MemoryCatalog) ListCategories(_ context.Context) ([]*Category, error) {
	out := list(&m.mu, m.categories, nil)
	slices.SortFunc(out, func(a, b *Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (m *MemoryCatalog) GetPage(_ context.Context, id uuid.UUID) (*Page, error) {
	return get(&m.mu, m.pages, id, "page")
}

func (m *MemoryCatalog) ListPages(_ context.Context) ([]*Page, error) {
	out := list(&m.mu, m.pages, nil)
	slices.SortFunc(out, func(a, b *Page) int { return cmp.Compare(a.Title, b.Title) })
	return out, nil
}

func (m *MemoryCatalog) GetPost(_ context.Context, id uuid.UUID) (*Post, error) {
	return get(&m.mu, m.posts, id, "post")
}

func (m *MemoryCatalog) ListPublishedPosts(_ context.Context) ([]*Post, error) {
	out := list(&m.mu, m.posts, func(p *Post) bool { return p.Published })
	slices.SortFunc(out, func(a, b *Post) int { return cmp.Compare(a.Title, b.Title) })
	return out, nil
}

func (m *MemoryCatalog) GetPostCategory(_ context.Context, id uuid.UUID) (*PostCategory, error) {
	return get(&m.mu, m.postCategories, id, "post_category")
}

func (m *MemoryCatalog) ListPostCategories(_ context.Context) ([]*PostCategory, error) {
	out := list(&m.mu, m.postCategories, nil)
	slices.SortFunc(out, func(a, b *PostCategory) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (m *MemoryCatalog) GetImage(_ context.Context, id uuid.UUID) (*Image, error) {
	return get(&m.mu, m.images, id, "image")
}

func (m *MemoryCatalog) ListImages(_ context.Context) ([]*Image, error) {
	out := list(&m.mu, m.images, nil)
	slices.SortFunc(out, func(a, b *Image) int { return cmp.Compare(a.Filename, b.Filename) })
	return out, nil
}

func (m *MemoryCatalog) GetVideo(_ context.Context, id uuid.UUID) (*Video, error) {
	return get(&m.mu, m.videos, id, "video")
}

func (m *MemoryCatalog) ListProductsByCategory(_ context.Context, categoryID uuid.UUID, limit int) ([]*Product, error) {
	return m.orderedProducts(limit, func(p *Product) bool {
		return p.Published && p.CategoryID != nil && *p.CategoryID == categoryID
	}), nil
}

func (m *MemoryCatalog) ListProductsByIDs(_ context.Context, ids []uuid.UUID) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Product, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.products[id]; ok {
			out = append(out, clone(record))
		}
	}
	return out, nil
}

func (m *MemoryCatalog) ListProducts(_ context.Context, limit int) ([]*Product, error) {
	return m.orderedProducts(limit, func(p *Product) bool { return p.Published }), nil
}

func (m *MemoryCatalog) orderedProducts(limit int, keep func(*Product) bool) []*Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Product{}
	for _, id := range m.productOrder {
		record := m.products[id]
		if record == nil || !keep(record) {
			continue
		}
		out = append(out, clone(record))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
