package menus

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/modules"
)

const catalogPath = "/catalog"

// GetInstanceData builds the storefront data of a menu instance. A nil
// instance or one without a menu yields the default data plus an "error" key.
func (h *Handler) GetInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	if instance == nil {
		return h.missingMenuData(), nil
	}
	menuInstance, err := h.repo.GetInstanceByModuleInstance(ctx, instance.ID)
	if err != nil {
		if isMenuNotFound(err) {
			h.logger.Warn("menus.render.instance_missing", "instance_id", instance.ID.String())
			return h.missingMenuData(), nil
		}
		return nil, err
	}
	return h.render(ctx, menuInstance)
}

func (h *Handler) missingMenuData() modules.Data {
	return modules.Data{
		"menu_title":       DefaultMenuTitle,
		"menu_style":       string(StyleHorizontal),
		"show_icons":       false,
		"enable_videos":    false,
		"max_depth":        h.maxDepth,
		"custom_css_class": "",
		"target_blank":     false,
		"is_main":          false,
		"menu_items":       []*Node{},
		"menu_tree":        []*Node{},
		"error":            ErrMenuInstanceNotFound.Error(),
	}
}

func (h *Handler) render(ctx context.Context, instance *Instance) (modules.Data, error) {
	resolver := h.resolver()
	if menu, err := h.repo.GetMenu(ctx, instance.MenuID); err == nil {
		resolver = resolver.WithLocale(menu.Language)
	} else if !isMenuNotFound(err) {
		return nil, err
	}

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

	expander := h.expander(resolver)
	nodes := make([]*Node, 0, len(items))
	for _, item := range items {
		ext := extByItem[item.ID]
		node, err := h.node(ctx, resolver, expander, instance, item, ext)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	return modules.Data{
		"menu_title":       instance.Title,
		"menu_style":       string(instance.MenuStyle),
		"show_icons":       instance.ShowIcons,
		"enable_videos":    instance.EnableVideos,
		"max_depth":        instance.Depth(),
		"custom_css_class": instance.CustomCSSClass,
		"target_blank":     instance.TargetBlank,
		"is_main":          instance.IsMain,
		"menu_items":       nodes,
		"menu_tree":        BuildTree(nodes),
	}, nil
}

func (h *Handler) node(ctx context.Context, resolver *TargetResolver, expander catalogExpander, instance *Instance, item *MenuItem, ext *ExtendedItem) (*Node, error) {
	target := resolver.Target(ctx, item, ext)
	link := resolver.Link(ctx, target)

	node := &Node{
		ID:       item.ID.String(),
		Title:    link.Title,
		URL:      link.URL,
		Type:     string(target.Type()),
		Position: item.Position,
		Children: []*Node{},
	}
	if item.ParentID != nil {
		node.ParentID = item.ParentID.String()
	}
	if ext == nil {
		return node, nil
	}

	node.Description = ext.Description
	if strings.TrimSpace(ext.Description) != "" {
		node.DescriptionHTML = h.markdown.RenderString(ext.Description)
	}
	node.CustomClass = ext.CustomClass
	node.OpenInNewTab = ext.OpenInNewTab || instance.TargetBlank
	node.IsFeatured = ext.IsFeatured
	node.VideoURL = ext.VideoURL
	if h.catalog != nil {
		if ext.IconID != nil {
			if img, err := h.catalog.GetImage(ctx, *ext.IconID); err == nil {
				node.Icon = h.media.image(img)
			}
		}
		if ext.VideoID != nil {
			if video, err := h.catalog.GetVideo(ctx, *ext.VideoID); err == nil {
				node.Video = h.media.video(video)
			}
		}
	}

	if instance.EnableAutoCatalog && expandsCatalog(target) {
		root := ext.TargetID
		if target.Type() != ItemCatalog {
			root = nil
		}
		children, err := expander.Expand(ctx, root, instance.Depth())
		if err != nil {
			return nil, err
		}
		node.Children = children
	}
	return node, nil
}

func expandsCatalog(target Target) bool {
	switch t := target.(type) {
	case CatalogTarget:
		return true
	case CustomTarget:
		return isCatalogURL(t.URL)
	case ExternalTarget:
		return isCatalogURL(t.URL)
	}
	return false
}

func isCatalogURL(url string) bool {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	return trimmed == catalogPath
}
