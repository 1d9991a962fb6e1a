package menus

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
)

const catalogNodeClass = "catalog-item"

// MediaPaths locates uploaded files on the storefront.
type MediaPaths struct {
	Images string
	Videos string
}

// DefaultMediaPaths matches the upload directories served under /static.
var DefaultMediaPaths = MediaPaths{
	Images: "/static/uploads",
	Videos: "/static/uploads/videos",
}

func (p MediaPaths) image(img *catalog.Image) *Media {
	if img == nil {
		return nil
	}
	return &Media{ID: img.ID.String(), Filename: img.Filename, URL: joinPath(p.Images, img.Filename)}
}

func (p MediaPaths) video(video *catalog.Video) *Media {
	if video == nil {
		return nil
	}
	return &Media{ID: video.ID.String(), Filename: video.Filename, URL: joinPath(p.Videos, video.Filename)}
}

func joinPath(base, file string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(file, "/")
}

// catalogExpander walks the product category tree for catalog menu items.
type catalogExpander struct {
	catalog  catalog.Catalog
	resolver *TargetResolver
	media    MediaPaths
}

// Expand returns the category nodes below root, down to maxDepth levels. A
// root that no longer exists falls back to the true roots; when nothing is
// found and there is exactly one root category its children are used.
func (e catalogExpander) Expand(ctx context.Context, root *uuid.UUID, maxDepth int) ([]*Node, error) {
	if e.catalog == nil {
		return []*Node{}, nil
	}
	if root != nil && *root != uuid.Nil {
		if _, err := e.catalog.GetCategory(ctx, *root); err != nil {
			if !isNotFound(err) {
				return nil, err
			}
			root = nil
		}
	}

	nodes, err := e.walk(ctx, root, 0, maxDepth)
	if err != nil {
		return nil, err
	}
	if len(nodes) > 0 {
		return nodes, nil
	}

	roots, err := e.catalog.ListCategoryChildren(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(roots) != 1 {
		return nodes, nil
	}
	return e.walk(ctx, &roots[0].ID, 0, maxDepth)
}

func (e catalogExpander) walk(ctx context.Context, parent *uuid.UUID, depth, maxDepth int) ([]*Node, error) {
	if depth >= maxDepth {
		return []*Node{}, nil
	}
	categories, err := e.catalog.ListCategoryChildren(ctx, parent)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(categories, func(a, b *catalog.Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), strings.Compare(a.Name, b.Name))
	})

	nodes := make([]*Node, 0, len(categories))
	for position, category := range categories {
		children, err := e.walk(ctx, &category.ID, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		node := &Node{
			ID:          "catalog_" + category.ID.String(),
			Title:       category.Name,
			URL:         e.resolver.CategoryURL(ctx, category.Slug),
			Type:        string(ItemCategory),
			Description: category.Description,
			CustomClass: catalogNodeClass,
			Position:    position,
			Children:    children,
		}
		if category.ImageID != nil {
			if img, err := e.catalog.GetImage(ctx, *category.ImageID); err == nil {
				node.Icon = e.media.image(img)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
