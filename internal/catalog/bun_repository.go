package catalog

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const catalogNamespace = "catalog"

// BunCatalog reads catalog tables through go-repository-bun. By-id reads go
// through go-repository-cache when configured; filtered lists always hit the
// database because select processors are closures the key serializer cannot
// tell apart.
type BunCatalog struct {
	categories     table[*Category]
	pages          table[*Page]
	posts          table[*Post]
	postCategories table[*PostCategory]
	images         table[*Image]
	videos         table[*Video]
	products       table[*Product]
	cacheService   cache.CacheService
}

// table pairs the cached repository used for GetByID with the plain one used
// for List.
type table[T any] struct {
	byID repository.Repository[T]
	list repository.Repository[T]
}

var _ Catalog = (*BunCatalog)(nil)

func NewBunCatalog(db *bun.DB) *BunCatalog {
	return NewBunCatalogWithCache(db, nil, nil)
}

func NewBunCatalogWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunCatalog {
	c := &BunCatalog{
		categories: newTable(db, cacheService, serializer, func() *Category { return &Category{} },
			func(r *Category) uuid.UUID { return r.ID }, func(r *Category, id uuid.UUID) { r.ID = id },
			"slug", func(r *Category) string { return r.Slug }),
		pages: newTable(db, cacheService, serializer, func() *Page { return &Page{} },
			func(r *Page) uuid.UUID { return r.ID }, func(r *Page, id uuid.UUID) { r.ID = id },
			"slug", func(r *Page) string { return r.Slug }),
		posts: newTable(db, cacheService, serializer, func() *Post { return &Post{} },
			func(r *Post) uuid.UUID { return r.ID }, func(r *Post, id uuid.UUID) { r.ID = id },
			"slug", func(r *Post) string { return r.Slug }),
		postCategories: newTable(db, cacheService, serializer, func() *PostCategory { return &PostCategory{} },
			func(r *PostCategory) uuid.UUID { return r.ID }, func(r *PostCategory, id uuid.UUID) { r.ID = id },
			"slug", func(r *PostCategory) string { return r.Slug }),
		images: newTable(db, cacheService, serializer, func() *Image { return &Image{} },
			func(r *Image) uuid.UUID { return r.ID }, func(r *Image, id uuid.UUID) { r.ID = id },
			"filename", func(r *Image) string { return r.Filename }),
		videos: newTable(db, cacheService, serializer, func() *Video { return &Video{} },
			func(r *Video) uuid.UUID { return r.ID }, func(r *Video, id uuid.UUID) { r.ID = id },
			"filename", func(r *Video) string { return r.Filename }),
		products: newTable(db, cacheService, serializer, func() *Product { return &Product{} },
			func(r *Product) uuid.UUID { return r.ID }, func(r *Product, id uuid.UUID) { r.ID = id },
			"slug", func(r *Product) string { return r.Slug }),
	}
	if cacheService != nil && serializer != nil {
		c.cacheService = cacheService
	}
	return c
}

func newTable[T any](db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer, newRecord func() T, getID func(T) uuid.UUID, setID func(T, uuid.UUID), identifier string, identifierValue func(T) string) table[T] {
	base := repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord:          newRecord,
		GetID:              getID,
		SetID:              setID,
		GetIdentifier:      func() string { return identifier },
		GetIdentifierValue: identifierValue,
	})
	t := table[T]{byID: base, list: base}
	if cacheService != nil && serializer != nil {
		t.byID = repositorycache.New(base, cacheService, serializer)
	}
	return t
}

// InvalidateCache drops every cached catalog read.
func (c *BunCatalog) InvalidateCache(ctx context.Context) error {
	if c.cacheService == nil {
		return nil
	}
	return c.cacheService.DeleteByPrefix(ctx, catalogNamespace+cache.KeySeparator)
}

func (c *BunCatalog) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	record, err := c.categories.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "category", id.String())
	}
	return record, nil
}

func (c *BunCatalog) ListCategoryChildren(ctx context.Context, parentID *uuid.UUID) ([]*Category, error) {
	records, _, err := c.categories.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if parentID == nil || *parentID == uuid.Nil {
				q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Where("?TableAlias.parent_id IS NULL").
						WhereOr("?TableAlias.parent_id = ?", uuid.Nil)
				})
			} else {
				q = q.Where("?TableAlias.parent_id = ?", *parentID)
			}
			return q.OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC")
		}),
	)
	return records, err
}

func (c *BunCatalog) ListCategories(ctx context.Context) ([]*Category, error) {
	records, _, err := c.categories.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.name ASC")
		}),
	)
	return records, err
}

func (c *BunCatalog) GetPage(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := c.pages.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

func (c *BunCatalog) ListPages(ctx context.Context) ([]*Page, error) {
	records, _, err := c.pages.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.title ASC")
		}),
	)
	return records, err
}

func (c *BunCatalog) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	record, err := c.posts.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return record, nil
}

func (c *BunCatalog) ListPublishedPosts(ctx context.Context) ([]*Post, error) {
	records, _, err := c.posts.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.published = ?", true).
				OrderExpr("?TableAlias.title ASC")
		}),
	)
	return records, err
}

func (c *BunCatalog) GetPostCategory(ctx context.Context, id uuid.UUID) (*PostCategory, error) {
	record, err := c.postCategories.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post_category", id.String())
	}
	return record, nil
}

func (c *BunCatalog) ListPostCategories(ctx context.Context) ([]*PostCategory, error) {
	records, _, err := c.postCategories.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.name ASC")
		}),
	)
	return records, err
}

func (c *BunCatalog) GetImage(ctx context.Context, id uuid.UUID) (*Image, error) {
	record, err := c.images.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "image", id.String())
	}
	return record, nil
}

func (c *BunCatalog) ListImages(ctx context.Context) ([]*Image, error) {
	records, _, err := c.images.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.filename ASC")
		}),
	)
	return records, err
}

func (c *BunCatalog) GetVideo(ctx context.Context, id uuid.UUID) (*Video, error) {
	record, err := c.videos.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "video", id.String())
	}
	return record, nil
}

func (c *BunCatalog) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*Product, error) {
	return c.listProducts(ctx, limit, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.category_id = ?", categoryID)
	})
}

func (c *BunCatalog) ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error) {
	if len(ids) == 0 {
		return []*Product{}, nil
	}
	records, _, err := c.products.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(ids))
		}),
	)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*Product, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	out := make([]*Product, 0, len(ids))
	for _, id := range ids {
		if record, ok := byID[id]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (c *BunCatalog) ListProducts(ctx context.Context, limit int) ([]*Product, error) {
	return c.listProducts(ctx, limit, nil)
}

func (c *BunCatalog) listProducts(ctx context.Context, limit int, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]*Product, error) {
	published := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if filter != nil {
			q = filter(q)
		}
		return q.Where("?TableAlias.published = ?", true).
			OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	})
	if limit <= 0 {
		records, _, err := c.products.list.List(ctx, published)
		return records, err
	}
	records, _, err := c.products.list.List(ctx, published, repository.SelectPaginate(limit, 0))
	return records, err
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
