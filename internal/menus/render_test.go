package menus_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
)

func renderMenu(t *testing.T, f menuFixture, instanceID uuid.UUID) modules.Data {
	t.Helper()
	data, err := f.handler.GetInstanceData(context.Background(), &modules.ModuleInstance{ID: instanceID})
	if err != nil {
		t.Fatalf("GetInstanceData: %v", err)
	}
	return data
}

func menuTree(t *testing.T, data modules.Data) []*menus.Node {
	t.Helper()
	tree, ok := data["menu_tree"].([]*menus.Node)
	if !ok {
		t.Fatalf("expected menu_tree nodes, got %T", data["menu_tree"])
	}
	return tree
}

type categoryTree struct {
	shoes, sneakers, boots, running *catalog.Category
}

func seedCategories(store *catalog.MemoryCatalog) categoryTree {
	shoes := store.PutCategory(&catalog.Category{Name: "Shoes", Slug: "shoes"})
	boots := store.PutCategory(&catalog.Category{Name: "Boots", Slug: "boots", ParentID: ptr(shoes.ID), SortOrder: 2})
	sneakers := store.PutCategory(&catalog.Category{Name: "Sneakers", Slug: "sneakers", ParentID: ptr(shoes.ID), SortOrder: 1})
	running := store.PutCategory(&catalog.Category{Name: "Running", Slug: "running", ParentID: ptr(sneakers.ID)})
	return categoryTree{shoes: shoes, sneakers: sneakers, boots: boots, running: running}
}

func TestGetInstanceDataResolvesTargets(t *testing.T) {
	f := newMenuFixture(t)
	page := f.store.PutPage(&catalog.Page{Title: "About us", Slug: "about"})
	category := f.store.PutPostCategory(&catalog.PostCategory{Name: "News", Slug: "news"})
	icon := f.store.PutImage(&catalog.Image{Filename: "icon.png"})
	video := f.store.PutVideo(&catalog.Video{Filename: "clip.mp4"})
	instanceID := uuid.New()

	f.save(t, instanceID, map[string]string{
		"menu_title":                  "Main",
		"menu_item_0_title":           "ignored",
		"menu_item_0_type":            "page",
		"menu_item_0_target_id":       page.ID.String(),
		"menu_item_0_icon_id":         icon.ID.String(),
		"menu_item_0_video_id":        video.ID.String(),
		"menu_item_0_description":     "**bold**",
		"menu_item_1_title":           "Gone",
		"menu_item_1_type":            "post",
		"menu_item_1_target_id":       uuid.NewString(),
		"menu_item_2_title":           "Nowhere",
		"menu_item_2_type":            "custom",
		"menu_item_3_title":           "",
		"menu_item_3_type":            "all_posts",
		"menu_item_4_title":           "Blog news",
		"menu_item_4_type":            "post_category",
		"menu_item_4_target_id":       category.ID.String(),
		"menu_item_5_title":           "Docs",
		"menu_item_5_type":            "external",
		"menu_item_5_custom_url":      "https://docs.example.com",
		"menu_item_5_open_in_new_tab": "on",
	})

	data := renderMenu(t, f, instanceID)
	if data["menu_title"] != "Main" {
		t.Fatalf("unexpected menu_title %v", data["menu_title"])
	}
	tree := menuTree(t, data)
	if len(tree) != 6 {
		t.Fatalf("expected 6 nodes, got %d", len(tree))
	}

	want := []struct{ title, url string }{
		{"About us", "/page/about"},
		{"Post not found", "#"},
		{"Nowhere", "#"},
		{"All posts", "/blog"},
		{"News", "/blog/category/news"},
		{"Docs", "https://docs.example.com"},
	}
	for i, w := range want {
		if tree[i].Title != w.title || tree[i].URL != w.url {
			t.Errorf("node %d = %q %q, want %q %q", i, tree[i].Title, tree[i].URL, w.title, w.url)
		}
	}
	if tree[0].Icon == nil || tree[0].Icon.URL != "/static/uploads/icon.png" {
		t.Fatalf("unexpected icon %+v", tree[0].Icon)
	}
	if tree[0].Video == nil || tree[0].Video.URL != "/static/uploads/videos/clip.mp4" {
		t.Fatalf("unexpected video %+v", tree[0].Video)
	}
	if !strings.Contains(tree[0].DescriptionHTML, "<strong>bold</strong>") {
		t.Fatalf("expected rendered description, got %q", tree[0].DescriptionHTML)
	}
	if !tree[5].OpenInNewTab {
		t.Fatalf("expected open_in_new_tab on the external link")
	}
}

func TestGetInstanceDataDefaults(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	for _, instance := range []*modules.ModuleInstance{nil, {ID: uuid.New()}} {
		data, err := f.handler.GetInstanceData(ctx, instance)
		if err != nil {
			t.Fatalf("GetInstanceData: %v", err)
		}
		if data["error"] == nil {
			t.Fatalf("expected an error key for a missing menu")
		}
		if tree := menuTree(t, data); len(tree) != 0 {
			t.Fatalf("expected an empty tree, got %d nodes", len(tree))
		}
		if data["menu_style"] != "horizontal" || data["max_depth"] != menus.DefaultMaxDepth {
			t.Fatalf("unexpected defaults %+v", data)
		}
	}
}

func TestCatalogExpansion(t *testing.T) {
	f := newMenuFixture(t)
	cats := seedCategories(f.store)
	deleted := uuid.New()
	instanceID := uuid.New()

	f.save(t, instanceID, map[string]string{
		"max_depth":              "2",
		"menu_item_0_title":      "Catalog",
		"menu_item_0_type":       "catalog",
		"menu_item_1_title":      "Shop",
		"menu_item_1_type":       "custom",
		"menu_item_1_custom_url": "/catalog/",
		"menu_item_2_title":      "Stale",
		"menu_item_2_type":       "catalog",
		"menu_item_2_target_id":  deleted.String(),
		"menu_item_3_title":      "Leaf",
		"menu_item_3_type":       "catalog",
		"menu_item_3_target_id":  cats.boots.ID.String(),
		"menu_item_4_title":      "Plain",
		"menu_item_4_type":       "custom",
		"menu_item_4_custom_url": "/catalogue",
	})

	tree := menuTree(t, renderMenu(t, f, instanceID))
	if len(tree) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(tree))
	}

	root := tree[0]
	if root.Title != "Catalog" || root.URL != "/catalog" {
		t.Fatalf("unexpected catalog node %q %q", root.Title, root.URL)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected the single root category, got %v", titles(root.Children))
	}
	shoes := root.Children[0]
	if shoes.ID != "catalog_"+cats.shoes.ID.String() || shoes.URL != "/category/shoes" || shoes.CustomClass != "catalog-item" {
		t.Fatalf("unexpected category node %+v", shoes)
	}
	if got := titles(shoes.Children); !equalStrings(got, []string{"Sneakers", "Boots"}) {
		t.Fatalf("expected children ordered by sort order, got %v", got)
	}
	if len(shoes.Children[0].Children) != 0 {
		t.Fatalf("expected the walk to stop at max depth")
	}

	if got := titles(tree[1].Children); !equalStrings(got, []string{"Shoes"}) {
		t.Fatalf("expected a /catalog link to expand, got %v", got)
	}
	if got := titles(tree[2].Children); !equalStrings(got, []string{"Shoes"}) {
		t.Fatalf("expected a deleted root to fall back to the roots, got %v", got)
	}
	if got := titles(tree[3].Children); !equalStrings(got, []string{"Sneakers", "Boots"}) {
		t.Fatalf("expected an empty subtree to fall back to the single root's children, got %v", got)
	}
	if len(tree[4].Children) != 0 {
		t.Fatalf("expected other links not to expand")
	}

	f.save(t, instanceID, map[string]string{
		"enable_auto_catalog": "off",
		"menu_item_0_title":   "Catalog",
		"menu_item_0_type":    "catalog",
	})
	tree = menuTree(t, renderMenu(t, f, instanceID))
	if len(tree[0].Children) != 0 {
		t.Fatalf("expected no expansion with the auto catalog disabled")
	}
}

func TestMenuByLocation(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	if _, err := f.handler.MenuByLocation(ctx, "main"); !errors.Is(err, menus.ErrNoMenus) {
		t.Fatalf("expected ErrNoMenus, got %v", err)
	}

	footer, main := uuid.New(), uuid.New()
	f.save(t, footer, map[string]string{"menu_title": "Footer"})
	f.save(t, main, map[string]string{
		"menu_title":             "Header",
		"is_main":                "on",
		"menu_item_0_title":      "Shop",
		"menu_item_0_custom_url": "/shop",
		"menu_item_1_title":      "Sale",
		"menu_item_1_custom_url": "/shop/sale",
		"menu_item_1_parent_id":  "index:0",
	})

	data, err := f.handler.MenuByLocation(ctx, "main")
	if err != nil {
		t.Fatalf("MenuByLocation: %v", err)
	}
	if data["menu_title"] != "Header" || data["module_instance_id"] != main {
		t.Fatalf("expected the main menu, got %v", data["menu_title"])
	}

	data, err = f.handler.MenuByLocation(ctx, "footer")
	if err != nil {
		t.Fatalf("MenuByLocation: %v", err)
	}
	if data["menu_title"] != "Footer" {
		t.Fatalf("expected the oldest menu for other locations, got %v", data["menu_title"])
	}

	crumbs, err := f.handler.LocationBreadcrumbs(ctx, "main", "/shop/sale")
	if err != nil {
		t.Fatalf("LocationBreadcrumbs: %v", err)
	}
	if len(crumbs) != 2 || crumbs[0].Title != "Shop" || !crumbs[1].IsCurrent {
		t.Fatalf("unexpected breadcrumbs %+v", crumbs)
	}
}

func TestLoadInstanceData(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	seedCategories(f.store)
	f.store.PutPage(&catalog.Page{Title: "About", Slug: "about"})
	f.store.PutPost(&catalog.Post{Title: "Draft", Slug: "draft"})
	f.store.PutPost(&catalog.Post{Title: "Launch", Slug: "launch", Published: true})
	video := f.store.PutVideo(&catalog.Video{Filename: "intro.mp4"})

	data, err := f.handler.LoadInstanceData(ctx, nil)
	if err != nil {
		t.Fatalf("LoadInstanceData: %v", err)
	}
	defaults := data["moduleInstanceData"].(map[string]any)
	if defaults["title"] != menus.DefaultMenuTitle || defaults["max_depth"] != menus.DefaultMaxDepth || defaults["show_icons"] != false {
		t.Fatalf("unexpected defaults %+v", defaults)
	}

	options := data["contentOptions"].(map[string]any)
	categories := options["categories"].([]menus.ContentOption)
	var got []string
	for _, option := range categories {
		got = append(got, option.Title)
	}
	if want := []string{"Shoes", "—Sneakers", "——Running", "—Boots"}; !equalStrings(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	if !categories[0].HasChildren || categories[2].Level != 2 || categories[3].HasChildren {
		t.Fatalf("unexpected hierarchy flags %+v", categories)
	}
	if posts := options["posts"].([]menus.ContentOption); len(posts) != 1 || posts[0].Title != "Launch" {
		t.Fatalf("expected only published posts, got %+v", posts)
	}
	if pages := options["pages"].([]menus.ContentOption); len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	instanceID := uuid.New()
	f.save(t, instanceID, map[string]string{
		"menu_title":            "Main",
		"menu_item_0_title":     "Intro",
		"menu_item_0_video_id":  video.ID.String(),
		"menu_item_0_video_url": "https://video.example.com/intro",
	})
	data, err = f.handler.LoadInstanceData(ctx, &modules.ModuleInstance{ID: instanceID})
	if err != nil {
		t.Fatalf("LoadInstanceData: %v", err)
	}
	if data["moduleInstanceData"].(map[string]any)["title"] != "Main" {
		t.Fatalf("expected the saved title")
	}
	items := data["items"].([]menus.EditItem)
	if len(items) != 1 || items[0].VideoFilename != "intro.mp4" || items[0].Type != menus.ItemCustom {
		t.Fatalf("unexpected items %+v", items)
	}
}
