// Package tabs implements the TabsModule: a set of product tabs filled from a
// category, a hand-picked list, or the whole catalog.
package tabs

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const ModuleName = "TabsModule"

// Catalog is the subset of the catalog the tabs read.
type Catalog interface {
	catalog.CategoryRepository
	catalog.ProductRepository
}

type Option func(*Handler)

func WithLogger(logger interfaces.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

type Handler struct {
	repo    Repository
	catalog Catalog
	logger  interfaces.Logger
}

var (
	_ modules.InstanceSaver    = (*Handler)(nil)
	_ modules.InstanceLoader   = (*Handler)(nil)
	_ modules.InstanceDeleter  = (*Handler)(nil)
	_ modules.InstanceRenderer = (*Handler)(nil)
)

func NewHandler(repo Repository, products Catalog, opts ...Option) *Handler {
	h := &Handler{repo: repo, catalog: products, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Name() string { return ModuleName }

func (h *Handler) SaveInstance(ctx context.Context, req modules.SaveRequest) (*modules.SaveResult, error) {
	form := req.Form
	instance, err := h.repo.GetByModuleInstance(ctx, req.Instance.ID)
	if err != nil {
		if !errors.Is(err, ErrTabsNotFound) {
			return nil, err
		}
		instance = &TabsInstance{ID: uuid.New(), ModuleInstanceID: req.Instance.ID}
	}
	instance.Title = form.String("module_title", DefaultTitle)
	if instance, err = h.repo.Save(ctx, instance); err != nil {
		return nil, err
	}

	entries := form.Collection("tabs")
	items := make([]*Item, 0, len(entries))
	for i, entry := range entries {
		item := &Item{
			ID:         uuid.New(),
			Position:   entry.Position(i),
			TabTitle:   entry.String("tab_title", DefaultTabTitle),
			Mode:       ParseMode(entry.String("mode", "")),
			CategoryID: entry.UUID("category_id"),
			LimitCount: entry.Int("limit_count", DefaultLimitCount),
			ProductIDs: []uuid.UUID{},
			ButtonText: entry.String("button_text", ""),
		}
		if item.LimitCount <= 0 {
			item.LimitCount = DefaultLimitCount
		}
		for _, raw := range entry.List("product_ids") {
			if id, err := uuid.Parse(raw); err == nil && id != uuid.Nil {
				item.ProductIDs = append(item.ProductIDs, id)
			}
		}
		items = append(items, item)
	}
	if err := h.repo.ReplaceItems(ctx, instance.ID, items); err != nil {
		return nil, err
	}

	h.logger.Info("tabs.save.completed", "instance_id", req.Instance.ID.String(), "tabs", len(items))
	return &modules.SaveResult{Settings: map[string]any{
		"name":  instance.Title,
		"title": instance.Title,
	}}, nil
}

func (h *Handler) load(ctx context.Context, moduleInstanceID uuid.UUID) (*TabsInstance, []*Item, error) {
	instance, err := h.repo.GetByModuleInstance(ctx, moduleInstanceID)
	if err != nil {
		if errors.Is(err, ErrTabsNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	items, err := h.repo.ListItems(ctx, instance.ID)
	if err != nil {
		return nil, nil, err
	}
	return instance, items, nil
}

// LoadInstanceData also returns the categories and products offered by the
// admin form.
func (h *Handler) LoadInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"module_instance": nil,
		"tabs_instance":   nil,
		"items":           []*Item{},
		"categories":      []*catalog.Category{},
		"products":        []*catalog.Product{},
	}
	if h.catalog != nil {
		categories, err := h.catalog.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		products, err := h.catalog.ListProducts(ctx, 0)
		if err != nil {
			return nil, err
		}
		data["categories"] = categories
		data["products"] = products
	}
	if instance == nil {
		return data, nil
	}
	data["module_instance"] = instance
	tabsInstance, items, err := h.load(ctx, instance.ID)
	if err != nil || tabsInstance == nil {
		return data, err
	}
	data["tabs_instance"] = tabsInstance
	data["items"] = items
	return data, nil
}

func (h *Handler) DelInstance(ctx context.Context, instance *modules.ModuleInstance) error {
	tabsInstance, _, err := h.load(ctx, instance.ID)
	if err != nil || tabsInstance == nil {
		return err
	}
	return h.repo.Delete(ctx, tabsInstance.ID)
}

func (h *Handler) GetInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"settings":      map[string]any{},
		"tabs_instance": nil,
		"tab_items":     []*Item{},
		"tab_products":  map[uuid.UUID][]*catalog.Product{},
	}
	if instance == nil {
		return data, nil
	}
	data["settings"] = instance.SettingsMap()
	tabsInstance, items, err := h.load(ctx, instance.ID)
	if err != nil || tabsInstance == nil {
		return data, err
	}

	products := make(map[uuid.UUID][]*catalog.Product, len(items))
	for _, item := range items {
		list, err := h.productsFor(ctx, item)
		if err != nil {
			return nil, err
		}
		products[item.ID] = list
	}
	data["tabs_instance"] = tabsInstance
	data["tab_items"] = items
	data["tab_products"] = products
	return data, nil
}

func (h *Handler) productsFor(ctx context.Context, item *Item) ([]*catalog.Product, error) {
	if h.catalog == nil {
		return []*catalog.Product{}, nil
	}
	switch item.Mode {
	case ModeCustom:
		if len(item.ProductIDs) == 0 {
			return []*catalog.Product{}, nil
		}
		return h.catalog.ListProductsByIDs(ctx, item.ProductIDs)
	case ModeAll:
		return h.catalog.ListProducts(ctx, item.LimitCount)
	default:
		if item.CategoryID == nil {
			return []*catalog.Product{}, nil
		}
		return h.catalog.ListProductsByCategory(ctx, *item.CategoryID, item.LimitCount)
	}
}
