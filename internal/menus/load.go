package menus

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/modules"
)

const levelPrefix = "—"

// EditItem is the flat admin representation of a saved item.
type EditItem struct {
	ID            uuid.UUID  `json:"id"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Position      int        `json:"position"`
	Type          ItemType   `json:"type"`
	TargetID      *uuid.UUID `json:"target_id,omitempty"`
	IconID        *uuid.UUID `json:"icon_id,omitempty"`
	VideoID       *uuid.UUID `json:"video_id,omitempty"`
	VideoURL      string     `json:"video_url,omitempty"`
	VideoFilename string     `json:"video_filename,omitempty"`
	Description   string     `json:"description,omitempty"`
	CustomClass   string     `json:"custom_class,omitempty"`
	OpenInNewTab  bool       `json:"open_in_new_tab"`
	IsFeatured    bool       `json:"is_featured"`
	ShowInCatalog bool       `json:"show_in_catalog"`
}

// ContentOption is one entry of a content picker.
type ContentOption struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Level       int       `json:"level,omitempty"`
	HasChildren bool      `json:"has_children,omitempty"`
}

// LoadInstanceData returns the admin edit data of a menu instance.
func (h *Handler) LoadInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	options, err := h.contentOptions(ctx)
	if err != nil {
		return nil, err
	}
	data := modules.Data{
		"moduleInstanceData": h.defaultInstanceData(),
		"items":              []EditItem{},
		"contentOptions":     options,
	}
	if instance == nil {
		return data, nil
	}

	menuInstance, err := h.repo.GetInstanceByModuleInstance(ctx, instance.ID)
	if err != nil {
		if isMenuNotFound(err) {
			return data, nil
		}
		return nil, err
	}
	items, err := h.editItems(ctx, menuInstance)
	if err != nil {
		return nil, err
	}
	data["moduleInstanceData"] = instanceData(menuInstance)
	data["items"] = items
	return data, nil
}

func (h *Handler) defaultInstanceData() map[string]any {
	return map[string]any{
		"id":                  nil,
		"title":               DefaultMenuTitle,
		"menu_style":          string(StyleHorizontal),
		"max_depth":           h.maxDepth,
		"show_icons":          false,
		"enable_videos":       false,
		"is_main":             false,
		"custom_css_class":    "",
		"target_blank":        false,
		"enable_auto_catalog": true,
	}
}

func instanceData(instance *Instance) map[string]any {
	return map[string]any{
		"id":                  instance.ID,
		"title":               instance.Title,
		"menu_style":          string(instance.MenuStyle),
		"max_depth":           instance.Depth(),
		"show_icons":          instance.ShowIcons,
		"enable_videos":       instance.EnableVideos,
		"is_main":             instance.IsMain,
		"custom_css_class":    instance.CustomCSSClass,
		"target_blank":        instance.TargetBlank,
		"enable_auto_catalog": instance.EnableAutoCatalog,
	}
}

func (h *Handler) editItems(ctx context.Context, instance *Instance) ([]EditItem, error) {
	items, err := h.repo.ListItems(ctx, instance.MenuID)
	if err != nil {
		return nil, err
	}
	extended, err := h.repo.ListExtended(ctx, instance.ID)
	if err != nil {
		return nil, err
	}
	extByItem := make(map[uuid.UUID]*ExtendedItem, len(extended))
	for _, ext := range extended {
		extByItem[ext.MenuItemID] = ext
	}

	out := make([]EditItem, 0, len(items))
	for _, item := range items {
		edit := EditItem{
			ID:            item.ID,
			ParentID:      item.ParentID,
			Title:         item.Title,
			URL:           item.URL,
			Position:      item.Position,
			Type:          ItemCustom,
			ShowInCatalog: true,
		}
		if ext := extByItem[item.ID]; ext != nil {
			edit.Type = ext.ItemType
			edit.TargetID = ext.TargetID
			edit.IconID = ext.IconID
			edit.VideoID = ext.VideoID
			edit.VideoURL = ext.VideoURL
			edit.Description = ext.Description
			edit.CustomClass = ext.CustomClass
			edit.OpenInNewTab = ext.OpenInNewTab
			edit.IsFeatured = ext.IsFeatured
			edit.ShowInCatalog = ext.ShowInCatalog
			if ext.VideoID != nil && h.catalog != nil {
				if video, err := h.catalog.GetVideo(ctx, *ext.VideoID); err == nil {
					edit.VideoFilename = video.Filename
				}
			}
		}
		out = append(out, edit)
	}
	return out, nil
}

func (h *Handler) contentOptions(ctx context.Context) (map[string]any, error) {
	options := map[string]any{
		"pages":           []ContentOption{},
		"categories":      []ContentOption{},
		"posts":           []ContentOption{},
		"post_categories": []ContentOption{},
	}
	if h.catalog == nil {
		return options, nil
	}

	pages, err := h.catalog.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	pageOptions := make([]ContentOption, 0, len(pages))
	for _, page := range pages {
		pageOptions = append(pageOptions, ContentOption{ID: page.ID, Title: page.Title, Slug: page.Slug})
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categoryNodes := make([]hierarchyNode, 0, len(categories))
	for _, c := range categories {
		categoryNodes = append(categoryNodes, hierarchyNode{id: c.ID, parent: rootless(c.ParentID), title: c.Name, slug: c.Slug, sort: c.SortOrder})
	}

	posts, err := h.catalog.ListPublishedPosts(ctx)
	if err != nil {
		return nil, err
	}
	postOptions := make([]ContentOption, 0, len(posts))
	for _, post := range posts {
		postOptions = append(postOptions, ContentOption{ID: post.ID, Title: post.Title, Slug: post.Slug})
	}

	postCategories, err := h.catalog.ListPostCategories(ctx)
	if err != nil {
		return nil, err
	}
	postCategoryNodes := make([]hierarchyNode, 0, len(postCategories))
	for _, c := range postCategories {
		postCategoryNodes = append(postCategoryNodes, hierarchyNode{id: c.ID, parent: rootless(c.ParentID), title: c.Name, slug: c.Slug, sort: c.SortOrder})
	}

	options["pages"] = pageOptions
	options["categories"] = flattenHierarchy(categoryNodes)
	options["posts"] = postOptions
	options["post_categories"] = flattenHierarchy(postCategoryNodes)
	return options, nil
}

type hierarchyNode struct {
	id     uuid.UUID
	parent uuid.UUID
	title  string
	slug   string
	sort   int
}

func rootless(parent *uuid.UUID) uuid.UUID {
	if parent == nil {
		return uuid.Nil
	}
	return *parent
}

// flattenHierarchy lists nodes depth first, siblings ordered by (sort, id),
// with titles prefixed by one dash per level. Nodes whose parent is unknown
// are listed as roots.
func flattenHierarchy(nodes []hierarchyNode) []ContentOption {
	known := make(map[uuid.UUID]bool, len(nodes))
	for _, node := range nodes {
		known[node.id] = true
	}
	children := map[uuid.UUID][]hierarchyNode{}
	for _, node := range nodes {
		parent := node.parent
		if parent == node.id || !known[parent] {
			parent = uuid.Nil
		}
		children[parent] = append(children[parent], node)
	}
	for key := range children {
		slices.SortStableFunc(children[key], func(a, b hierarchyNode) int {
			return cmp.Or(cmp.Compare(a.sort, b.sort), strings.Compare(a.id.String(), b.id.String()))
		})
	}

	out := make([]ContentOption, 0, len(nodes))
	visited := map[uuid.UUID]bool{}
	var walk func(parent uuid.UUID, level int)
	walk = func(parent uuid.UUID, level int) {
		for _, node := range children[parent] {
			if visited[node.id] {
				continue
			}
			visited[node.id] = true
			out = append(out, ContentOption{
				ID:          node.id,
				Title:       strings.Repeat(levelPrefix, level) + node.title,
				Slug:        node.slug,
				Level:       level,
				HasChildren: len(children[node.id]) > 0,
			})
			walk(node.id, level+1)
		}
	}
	walk(uuid.Nil, 0)
	return out
}

