package menus

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
)

// Target is what a menu item points at once resolved against the catalog.
type Target interface {
	Type() ItemType
}

type PageTarget struct{ Page *catalog.Page }
type CategoryTarget struct{ Category *catalog.Category }
type PostCategoryTarget struct{ Category *catalog.PostCategory }
type PostTarget struct{ Post *catalog.Post }

// CatalogTarget expands into the category tree. A nil Root starts at the roots.
type CatalogTarget struct{ Root *uuid.UUID }

type AllPostsTarget struct{ Title string }
type ExternalTarget struct{ Title, URL string }
type CustomTarget struct{ Title, URL string }

// MissingTarget stands in for a page, category or post that no longer exists.
type MissingTarget struct{ Kind ItemType }

func (PageTarget) Type() ItemType         { return ItemPage }
func (CategoryTarget) Type() ItemType     { return ItemCategory }
func (PostCategoryTarget) Type() ItemType { return ItemPostCategory }
func (PostTarget) Type() ItemType         { return ItemPost }
func (CatalogTarget) Type() ItemType      { return ItemCatalog }
func (AllPostsTarget) Type() ItemType     { return ItemAllPosts }
func (ExternalTarget) Type() ItemType     { return ItemExternal }
func (CustomTarget) Type() ItemType       { return ItemCustom }
func (t MissingTarget) Type() ItemType    { return t.Kind }

const (
	catalogTitle   = "Catalog"
	allPostsTitle  = "All posts"
	untitled       = "Untitled"
	placeholderURL = "#"
)

var missingTitles = map[ItemType]string{
	ItemPage:         "Page not found",
	ItemCategory:     "Category not found",
	ItemPostCategory: "Post category not found",
	ItemPost:         "Post not found",
}

// Link is a resolved title and URL.
type Link struct {
	Title string
	URL   string
}

// TargetResolver turns extended items into targets and targets into links.
type TargetResolver struct {
	catalog catalog.Catalog
	urls    URLResolver
	locale  string
}

func NewTargetResolver(store catalog.Catalog, urls URLResolver) *TargetResolver {
	if urls == nil {
		urls = ChainResolvers()
	}
	return &TargetResolver{catalog: store, urls: urls}
}

// WithLocale returns a resolver building URLs for locale.
func (r *TargetResolver) WithLocale(locale string) *TargetResolver {
	cloned := *r
	cloned.locale = strings.TrimSpace(locale)
	return &cloned
}

// Target looks up the entity an item points at. Lookup failures degrade to
// MissingTarget; entity items without a target id keep their literal title
// and URL.
func (r *TargetResolver) Target(ctx context.Context, item *MenuItem, ext *ExtendedItem) Target {
	kind := ItemCustom
	var targetID *uuid.UUID
	if ext != nil {
		kind = ext.ItemType
		targetID = ext.TargetID
	}
	title, url := "", ""
	if item != nil {
		title, url = item.Title, item.URL
	}

	switch kind {
	case ItemCatalog:
		return CatalogTarget{Root: targetID}
	case ItemAllPosts:
		return AllPostsTarget{Title: title}
	case ItemExternal:
		return ExternalTarget{Title: title, URL: url}
	case ItemCustom:
		return CustomTarget{Title: title, URL: url}
	}

	if targetID == nil || *targetID == uuid.Nil || r.catalog == nil {
		return CustomTarget{Title: title, URL: url}
	}
	var (
		target Target
		err    error
	)
	switch kind {
	case ItemPage:
		var page *catalog.Page
		if page, err = r.catalog.GetPage(ctx, *targetID); err == nil {
			target = PageTarget{Page: page}
		}
	case ItemCategory:
		var category *catalog.Category
		if category, err = r.catalog.GetCategory(ctx, *targetID); err == nil {
			target = CategoryTarget{Category: category}
		}
	case ItemPostCategory:
		var category *catalog.PostCategory
		if category, err = r.catalog.GetPostCategory(ctx, *targetID); err == nil {
			target = PostCategoryTarget{Category: category}
		}
	case ItemPost:
		var post *catalog.Post
		if post, err = r.catalog.GetPost(ctx, *targetID); err == nil {
			target = PostTarget{Post: post}
		}
	}
	if err != nil || target == nil {
		return MissingTarget{Kind: kind}
	}
	return target
}

// Link resolves the storefront title and URL of a target. It never fails:
// resolver errors fall back to the placeholder URL.
func (r *TargetResolver) Link(ctx context.Context, target Target) Link {
	switch t := target.(type) {
	case PageTarget:
		return Link{Title: t.Page.Title, URL: r.url(ctx, ItemPage, t.Page.Slug)}
	case CategoryTarget:
		return Link{Title: t.Category.Name, URL: r.url(ctx, ItemCategory, t.Category.Slug)}
	case PostCategoryTarget:
		return Link{Title: t.Category.Name, URL: r.url(ctx, ItemPostCategory, t.Category.Slug)}
	case PostTarget:
		return Link{Title: t.Post.Title, URL: r.url(ctx, ItemPost, t.Post.Slug)}
	case CatalogTarget:
		return Link{Title: catalogTitle, URL: r.url(ctx, ItemCatalog, "")}
	case AllPostsTarget:
		return Link{Title: orDefault(t.Title, allPostsTitle), URL: r.url(ctx, ItemAllPosts, "")}
	case ExternalTarget:
		return Link{Title: orDefault(t.Title, untitled), URL: orDefault(t.URL, placeholderURL)}
	case CustomTarget:
		return Link{Title: orDefault(t.Title, untitled), URL: orDefault(t.URL, placeholderURL)}
	case MissingTarget:
		return Link{Title: orDefault(missingTitles[t.Kind], untitled), URL: placeholderURL}
	default:
		return Link{Title: untitled, URL: placeholderURL}
	}
}

// CategoryURL builds the storefront URL of a product category.
func (r *TargetResolver) CategoryURL(ctx context.Context, slug string) string {
	return r.url(ctx, ItemCategory, slug)
}

func (r *TargetResolver) url(ctx context.Context, kind ItemType, slug string) string {
	url, err := r.urls.Resolve(ctx, ResolveRequest{Type: kind, Slug: slug, Locale: r.locale})
	if err != nil || url == "" {
		return placeholderURL
	}
	return url
}

func isNotFound(err error) bool {
	var notFound *catalog.NotFoundError
	return errors.As(err, &notFound)
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
