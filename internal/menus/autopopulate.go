package menus

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
)

// AutoPopulateResult lists the items added by AutoPopulateSubcategories.
type AutoPopulateResult struct {
	MenuInstanceID uuid.UUID   `json:"menu_instance_id"`
	ParentItemID   *uuid.UUID  `json:"parent_item_id,omitempty"`
	Created        []*MenuItem `json:"created"`
	Skipped        int         `json:"skipped"`
}

// AutoPopulateSubcategories adds one category item per direct subcategory of
// categoryID to the menu of moduleInstanceID. The new items hang under the
// existing entry for categoryID (top level when there is none) and
// subcategories already present under that parent are skipped.
func (h *Handler) AutoPopulateSubcategories(ctx context.Context, categoryID, moduleInstanceID uuid.UUID) (*AutoPopulateResult, error) {
	if h.catalog == nil {
		return nil, &NotFoundError{Resource: "category", Key: categoryID.String()}
	}
	category, err := h.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	subcategories, err := h.catalog.ListCategoryChildren(ctx, &category.ID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(subcategories, func(a, b *catalog.Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), strings.Compare(a.ID.String(), b.ID.String()))
	})
	resolver := h.resolver()

	var result *AutoPopulateResult
	err = h.tx.WithinTx(ctx, func(ctx context.Context) error {
		instance, err := h.repo.GetInstanceByModuleInstance(ctx, moduleInstanceID)
		if err != nil {
			if isMenuNotFound(err) {
				return ErrMenuInstanceNotFound
			}
			return err
		}
		if menu, err := h.repo.GetMenu(ctx, instance.MenuID); err == nil {
			resolver = resolver.WithLocale(menu.Language)
		}

		items, err := h.repo.ListItems(ctx, instance.MenuID)
		if err != nil {
			return err
		}
		extended, err := h.repo.ListExtended(ctx, instance.ID)
		if err != nil {
			return err
		}
		extByItem := make(map[uuid.UUID]*ExtendedItem, len(extended))
		for _, ext := range extended {
			extByItem[ext.MenuItemID] = ext
		}

		var parentID *uuid.UUID
		for _, ext := range extended {
			if ext.ItemType == ItemCategory && ext.TargetID != nil && *ext.TargetID == categoryID {
				id := ext.MenuItemID
				parentID = &id
				break
			}
		}

		present := map[uuid.UUID]bool{}
		maxPosition := -1
		for _, item := range items {
			maxPosition = max(maxPosition, item.Position)
			if !sameParent(item.ParentID, parentID) {
				continue
			}
			if ext := extByItem[item.ID]; ext != nil && ext.ItemType == ItemCategory && ext.TargetID != nil {
				present[*ext.TargetID] = true
			}
		}

		result = &AutoPopulateResult{MenuInstanceID: instance.ID, ParentItemID: parentID, Created: []*MenuItem{}}
		newItems := []*MenuItem{}
		newExt := []*ExtendedItem{}
		for _, sub := range subcategories {
			if present[sub.ID] {
				result.Skipped++
				continue
			}
			position := maxPosition + len(newItems) + 1
			item := &MenuItem{
				ID:       h.id(),
				MenuID:   instance.MenuID,
				Title:    sub.Name,
				URL:      resolver.CategoryURL(ctx, sub.Slug),
				ParentID: parentID,
				Position: position,
			}
			targetID := sub.ID
			newItems = append(newItems, item)
			newExt = append(newExt, &ExtendedItem{
				ID:             h.id(),
				MenuInstanceID: instance.ID,
				MenuItemID:     item.ID,
				ItemType:       ItemCategory,
				TargetID:       &targetID,
				ShowInCatalog:  true,
				SortOrder:      position,
			})
		}
		if err := h.repo.CreateItems(ctx, newItems); err != nil {
			return err
		}
		if err := h.repo.CreateExtended(ctx, newExt); err != nil {
			return err
		}
		result.Created = newItems
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("menus.autopopulate.completed",
		"category_id", categoryID.String(),
		"instance_id", moduleInstanceID.String(),
		"created", len(result.Created),
		"skipped", result.Skipped,
	)
	return result, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
