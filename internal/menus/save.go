package menus

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/identity"
	"github.com/csenitron/teamCMS/internal/modules"
)

const itemInvalidCode = "MENU_ITEM_INVALID"

// ParentKind tells how a submitted parent reference points at its parent.
type ParentKind int

const (
	ParentNone ParentKind = iota
	ParentIndex
	ParentID
)

// ParentRef is a parsed menu_item_<i>_parent_id value: "index:N" or a bare
// integer refers to the N-th submitted item, "id:<uuid>" or a bare UUID to an
// item by its stable id.
type ParentRef struct {
	Kind  ParentKind
	Index int
	ID    uuid.UUID
}

func ParseParentRef(raw string) ParentRef {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ParentRef{}
	case strings.HasPrefix(raw, "index:"):
		return parseIndexRef(strings.TrimPrefix(raw, "index:"))
	case strings.HasPrefix(raw, "id:"):
		return parseIDRef(strings.TrimPrefix(raw, "id:"))
	}
	if ref := parseIndexRef(raw); ref.Kind != ParentNone {
		return ref
	}
	return parseIDRef(raw)
}

func parseIndexRef(raw string) ParentRef {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 {
		return ParentRef{}
	}
	return ParentRef{Kind: ParentIndex, Index: index}
}

func parseIDRef(raw string) ParentRef {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return ParentRef{}
	}
	return ParentRef{Kind: ParentID, ID: id}
}

type itemInput struct {
	Index         int
	StableID      *uuid.UUID
	Title         string
	Type          ItemType
	TargetID      *uuid.UUID
	IconID        *uuid.UUID
	VideoID       *uuid.UUID
	VideoURL      string
	Description   string
	CustomClass   string
	CustomURL     string
	Parent        ParentRef
	Position      int
	OpenInNewTab  bool
	IsFeatured    bool
	ShowInCatalog bool
}

func (in itemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Length(0, 255)),
		validation.Field(&in.CustomURL, validation.Length(0, 255)),
		validation.Field(&in.VideoURL, validation.Length(0, 500)),
		validation.Field(&in.CustomClass, validation.Length(0, 100)),
	)
}

func itemKey(index int, field string) string {
	return fmt.Sprintf("menu_item_%d_%s", index, field)
}

// parseItems reads menu_item_<i>_* fields for i = 0, 1, ... until the first
// index without a title.
func parseItems(form forms.Form) ([]itemInput, error) {
	inputs := []itemInput{}
	for index := 0; form.Has(itemKey(index, "title")); index++ {
		field := func(name string) string { return itemKey(index, name) }
		in := itemInput{
			Index:        index,
			StableID:     form.UUID(field("id")),
			Title:        form.String(field("title"), ""),
			Type:         ParseItemType(form.String(field("type"), string(ItemCustom))),
			TargetID:     form.UUID(field("target_id")),
			IconID:       form.UUID(field("icon_id")),
			VideoID:      form.UUID(field("video_id")),
			VideoURL:     form.String(field("video_url"), ""),
			Description:  form.String(field("description"), ""),
			CustomClass:  form.String(field("custom_class"), ""),
			CustomURL:    form.String(field("custom_url"), ""),
			Parent:       ParseParentRef(form.String(field("parent_id"), "")),
			Position:     form.Int(field("position"), index),
			OpenInNewTab: form.Bool(field("open_in_new_tab")),
			IsFeatured:   form.Bool(field("is_featured")),
		}
		in.ShowInCatalog = !form.Has(field("show_in_catalog")) || form.Bool(field("show_in_catalog"))
		if err := in.Validate(); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("menu item %d is invalid", index)).
				WithTextCode(itemInvalidCode)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// SaveInstance rebuilds the menu of a MenuModule instance from the submitted
// form. It runs inside the caller's transaction. The submission is parsed and
// linked before the first write, so a rejected form leaves storage untouched.
func (h *Handler) SaveInstance(ctx context.Context, req modules.SaveRequest) (*modules.SaveResult, error) {
	inputs, err := parseItems(req.Form)
	if err != nil {
		return nil, err
	}

	instance, newMenu, created, err := h.prepareInstance(ctx, req.Instance.ID, req.Form)
	if err != nil {
		return nil, err
	}
	applyInstanceFields(instance, req.Form, h.maxDepth)

	previousItems, err := h.repo.ListItems(ctx, instance.MenuID)
	if err != nil {
		return nil, err
	}
	previousExt, err := h.repo.ListExtended(ctx, instance.ID)
	if err != nil {
		return nil, err
	}

	items, extended, err := h.buildItems(inputs, instance, previousItems, previousExt)
	if err != nil {
		return nil, err
	}

	if newMenu != nil {
		if _, err := h.repo.CreateMenu(ctx, newMenu); err != nil {
			return nil, err
		}
	}
	if instance.IsMain {
		if err := h.repo.ClearMain(ctx, instance.ID); err != nil {
			return nil, err
		}
	}
	if created {
		instance, err = h.repo.CreateInstance(ctx, instance)
	} else {
		instance, err = h.repo.UpdateInstance(ctx, instance)
	}
	if err != nil {
		return nil, err
	}

	if err := h.repo.DetachItemParents(ctx, instance.MenuID); err != nil {
		return nil, err
	}
	if err := h.repo.DeleteExtended(ctx, instance.ID); err != nil {
		return nil, err
	}
	if err := h.repo.DeleteItems(ctx, instance.MenuID); err != nil {
		return nil, err
	}
	if err := h.repo.CreateItems(ctx, items); err != nil {
		return nil, err
	}
	if err := h.repo.CreateExtended(ctx, extended); err != nil {
		return nil, err
	}

	h.logger.Info("menus.save.completed",
		"instance_id", req.Instance.ID.String(),
		"menu_id", instance.MenuID.String(),
		"items", len(items),
	)
	return &modules.SaveResult{Settings: instanceSettings(instance)}, nil
}

// prepareInstance returns the stored menu instance of moduleInstanceID, or an
// unsaved one flagged created. The returned menu is non-nil when it still has
// to be created.
func (h *Handler) prepareInstance(ctx context.Context, moduleInstanceID uuid.UUID, form forms.Form) (*Instance, *Menu, bool, error) {
	instance, err := h.repo.GetInstanceByModuleInstance(ctx, moduleInstanceID)
	if err == nil {
		return instance, nil, false, nil
	}
	if !isMenuNotFound(err) {
		return nil, nil, false, err
	}

	menuID := identity.MenuUUID(moduleInstanceID)
	var newMenu *Menu
	if _, err := h.repo.GetMenu(ctx, menuID); err != nil {
		if !isMenuNotFound(err) {
			return nil, nil, false, err
		}
		newMenu = &Menu{
			ID:       menuID,
			Name:     form.String("menu_title", DefaultMenuTitle),
			Language: form.String("language", ""),
		}
	}
	return &Instance{
		ID:                h.id(),
		ModuleInstanceID:  moduleInstanceID,
		MenuID:            menuID,
		Title:             DefaultMenuTitle,
		MenuStyle:         StyleHorizontal,
		MaxDepth:          h.maxDepth,
		EnableAutoCatalog: true,
	}, newMenu, true, nil
}

func applyInstanceFields(instance *Instance, form forms.Form, defaultDepth int) {
	instance.Title = form.String("menu_title", DefaultMenuTitle)
	instance.MenuStyle = ParseMenuStyle(form.String("menu_style", ""))
	instance.MaxDepth = form.Int("max_depth", defaultDepth)
	if instance.MaxDepth < 1 {
		instance.MaxDepth = defaultDepth
	}
	instance.ShowIcons = form.Bool("show_icons")
	instance.EnableVideos = form.Bool("enable_videos")
	instance.IsMain = form.Bool("is_main")
	instance.CustomCSSClass = form.String("custom_css_class", "")
	instance.TargetBlank = form.Bool("target_blank")
	if form.Has("enable_auto_catalog") {
		instance.EnableAutoCatalog = form.Bool("enable_auto_catalog")
	}
}

func instanceSettings(instance *Instance) map[string]any {
	return map[string]any{
		"name":       instance.Title,
		"menu_title": instance.Title,
		"menu_style": string(instance.MenuStyle),
		"max_depth":  instance.Depth(),
	}
}

// buildItems turns the submission into rows. Parents are linked once every
// item has its id, so the submission order is irrelevant.
func (h *Handler) buildItems(inputs []itemInput, instance *Instance, previousItems []*MenuItem, previousExt []*ExtendedItem) ([]*MenuItem, []*ExtendedItem, error) {
	previousByID := make(map[uuid.UUID]*MenuItem, len(previousItems))
	for _, item := range previousItems {
		previousByID[item.ID] = item
	}
	extByItem := make(map[uuid.UUID]*ExtendedItem, len(previousExt))
	for _, ext := range previousExt {
		extByItem[ext.MenuItemID] = ext
	}

	used := map[uuid.UUID]bool{}
	items := make([]*MenuItem, len(inputs))
	byID := make(map[uuid.UUID]*MenuItem, len(inputs))
	for i, in := range inputs {
		id := h.id()
		if in.StableID != nil && previousByID[*in.StableID] != nil && !used[*in.StableID] {
			id = *in.StableID
		}
		used[id] = true
		url := ""
		if in.Type.HasLiteralURL() {
			url = in.CustomURL
		}
		items[i] = &MenuItem{
			ID:       id,
			MenuID:   instance.MenuID,
			Title:    in.Title,
			URL:      url,
			Position: in.Position,
		}
		byID[id] = items[i]
	}

	for i, in := range inputs {
		var parent *MenuItem
		switch in.Parent.Kind {
		case ParentIndex:
			if in.Parent.Index < len(items) {
				parent = items[in.Parent.Index]
			}
		case ParentID:
			parent = byID[in.Parent.ID]
		default:
			continue
		}
		if parent == nil {
			h.logger.Warn("menus.save.parent_missing", "item", in.Index, "title", in.Title)
			continue
		}
		parentID := parent.ID
		items[i].ParentID = &parentID
	}
	if err := detectCycle(items); err != nil {
		return nil, nil, err
	}

	extended := make([]*ExtendedItem, 0, len(inputs))
	for i, in := range inputs {
		targetID := in.TargetID
		if targetID == nil {
			targetID = recoverTarget(in, items[i].ID, previousItems, extByItem)
		}
		extended = append(extended, &ExtendedItem{
			ID:             h.id(),
			MenuInstanceID: instance.ID,
			MenuItemID:     items[i].ID,
			ItemType:       in.Type,
			TargetID:       targetID,
			IconID:         in.IconID,
			VideoID:        in.VideoID,
			VideoURL:       in.VideoURL,
			ShowInCatalog:  in.ShowInCatalog,
			CustomClass:    in.CustomClass,
			Description:    in.Description,
			OpenInNewTab:   in.OpenInNewTab,
			IsFeatured:     in.IsFeatured,
			SortOrder:      in.Position,
		})
	}
	return items, extended, nil
}

// recoverTarget keeps the target of an item resubmitted without target_id,
// which happens when the editor only changed nesting. The previous row with
// the same stable id wins over one with the same title; both must have the
// same item type.
func recoverTarget(in itemInput, itemID uuid.UUID, previousItems []*MenuItem, extByItem map[uuid.UUID]*ExtendedItem) *uuid.UUID {
	if in.Type.HasLiteralURL() || in.Type == ItemAllPosts {
		return nil
	}
	usable := func(ext *ExtendedItem) bool {
		return ext != nil && ext.ItemType == in.Type && ext.TargetID != nil
	}
	if ext := extByItem[itemID]; usable(ext) {
		return ext.TargetID
	}
	for _, previous := range previousItems {
		if previous.Title != in.Title {
			continue
		}
		if ext := extByItem[previous.ID]; usable(ext) {
			return ext.TargetID
		}
	}
	return nil
}

func detectCycle(items []*MenuItem) error {
	parentOf := make(map[uuid.UUID]uuid.UUID, len(items))
	for _, item := range items {
		if item.ParentID != nil {
			parentOf[item.ID] = *item.ParentID
		}
	}
	for _, item := range items {
		seen := map[uuid.UUID]bool{item.ID: true}
		current := item.ID
		for {
			parent, ok := parentOf[current]
			if !ok {
				break
			}
			if seen[parent] {
				return ErrMenuItemCycle
			}
			seen[parent] = true
			current = parent
		}
	}
	return nil
}
