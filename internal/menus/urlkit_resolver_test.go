package menus_test

import (
	"context"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/menus"
)

func newRouteManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"page":     "/pages/:slug",
					"category": "/shop/:slug",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "es",
						Path: "/es",
						Paths: map[string]string{
							"page": "/paginas/:slug",
						},
					},
				},
			},
		},
	})
}

func TestURLKitResolver(t *testing.T) {
	ctx := context.Background()
	resolver := menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:      newRouteManager(),
		DefaultGroup: "frontend",
		LocaleGroups: map[string]string{"es": "frontend.es"},
	})

	url, err := resolver.Resolve(ctx, menus.ResolveRequest{Type: menus.ItemPage, Slug: "company"})
	if err != nil || url != "https://example.com/pages/company" {
		t.Fatalf("unexpected url %q (%v)", url, err)
	}
	url, err = resolver.Resolve(ctx, menus.ResolveRequest{Type: menus.ItemPage, Slug: "company", Locale: "ES"})
	if err != nil || url != "https://example.com/es/paginas/company" {
		t.Fatalf("unexpected localized url %q (%v)", url, err)
	}
	url, err = resolver.Resolve(ctx, menus.ResolveRequest{Type: menus.ItemPost, Slug: "hello"})
	if err != nil || url != "" {
		t.Fatalf("expected an empty url for an unknown route, got %q (%v)", url, err)
	}
}

func TestHandlerUsesURLKitBeforePatterns(t *testing.T) {
	resolver := menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:      newRouteManager(),
		DefaultGroup: "frontend",
	})
	f := newMenuFixture(t, menus.WithURLResolver(resolver))
	page := f.store.PutPage(&catalog.Page{Title: "Company", Slug: "company"})
	post := f.store.PutPost(&catalog.Post{Title: "Hello", Slug: "hello", Published: true})
	instanceID := uuid.New()

	f.save(t, instanceID, map[string]string{
		"menu_item_0_title":     "Company",
		"menu_item_0_type":      "page",
		"menu_item_0_target_id": page.ID.String(),
		"menu_item_1_title":     "Hello",
		"menu_item_1_type":      "post",
		"menu_item_1_target_id": post.ID.String(),
	})

	tree := menuTree(t, renderMenu(t, f, instanceID))
	if tree[0].URL != "https://example.com/pages/company" {
		t.Fatalf("expected the urlkit url, got %q", tree[0].URL)
	}
	if tree[1].URL != "/blog/hello" {
		t.Fatalf("expected the pattern fallback, got %q", tree[1].URL)
	}
}
