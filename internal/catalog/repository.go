package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CategoryRepository reads the product category tree.
type CategoryRepository interface {
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	// ListCategoryChildren returns the direct children of parentID ordered by
	// (sort_order, id). A nil parentID lists the roots.
	ListCategoryChildren(ctx context.Context, parentID *uuid.UUID) ([]*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
}

type PageRepository interface {
	GetPage(ctx context.Context, id uuid.UUID) (*Page, error)
	ListPages(ctx context.Context) ([]*Page, error)
}

type PostRepository interface {
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	ListPublishedPosts(ctx context.Context) ([]*Post, error)
	GetPostCategory(ctx context.Context, id uuid.UUID) (*PostCategory, error)
	ListPostCategories(ctx context.Context) ([]*PostCategory, error)
}

type MediaRepository interface {
	GetImage(ctx context.Context, id uuid.UUID) (*Image, error)
	ListImages(ctx context.Context) ([]*Image, error)
	GetVideo(ctx context.Context, id uuid.UUID) (*Video, error)
}

type ProductRepository interface {
	// ListProductsByCategory returns up to limit published products of a
	// category; limit <= 0 means no limit.
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*Product, error)
	// ListProductsByIDs keeps the order of ids and skips unknown ones.
	ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	ListProducts(ctx context.Context, limit int) ([]*Product, error)
}

// Catalog bundles every reader. Both MemoryCatalog and BunCatalog satisfy it.
type Catalog interface {
	CategoryRepository
	PageRepository
	PostRepository
	MediaRepository
	ProductRepository
}

// NotFoundError is returned when a record does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
