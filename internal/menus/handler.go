// Package menus implements the navigation menu module: menus built from pages,
// product and blog categories, posts, links and an automatically expanded
// product catalog.
package menus

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/markdown"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

// ModuleName is the module type served by Handler.
const ModuleName = "MenuModule"

// LocationMain selects the menu flagged as main.
const LocationMain = "main"

var (
	ErrMenuItemCycle        = errors.New("menus: menu items form a parent cycle")
	ErrMenuInstanceNotFound = errors.New("menus: menu instance not found")
	ErrNoMenus              = errors.New("menus: no menu configured")
)

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(logger interfaces.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTransactor is used by workflows that open their own transaction, such
// as AutoPopulateSubcategories. Saves run inside the module service transaction.
func WithTransactor(tx storage.Transactor) Option {
	return func(h *Handler) {
		if tx != nil {
			h.tx = tx
		}
	}
}

// WithURLResolver puts resolver in front of the default URL patterns.
func WithURLResolver(resolver URLResolver) Option {
	return func(h *Handler) {
		if resolver != nil {
			h.urls = ChainResolvers(resolver)
		}
	}
}

func WithMediaPaths(paths MediaPaths) Option {
	return func(h *Handler) {
		if paths.Images != "" {
			h.media.Images = paths.Images
		}
		if paths.Videos != "" {
			h.media.Videos = paths.Videos
		}
	}
}

func WithMarkdown(renderer *markdown.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.markdown = renderer
		}
	}
}

// WithDefaultMaxDepth sets the depth given to new menus and to submissions
// without a valid max_depth.
func WithDefaultMaxDepth(depth int) Option {
	return func(h *Handler) {
		if depth > 0 {
			h.maxDepth = depth
		}
	}
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(h *Handler) {
		if gen != nil {
			h.id = gen
		}
	}
}

// Handler is the MenuModule implementation of the module handler contract.
type Handler struct {
	repo     Repository
	catalog  catalog.Catalog
	urls     URLResolver
	media    MediaPaths
	markdown *markdown.Renderer
	tx       storage.Transactor
	logger   interfaces.Logger
	id       func() uuid.UUID
	maxDepth int
}

var (
	_ modules.InstanceSaver    = (*Handler)(nil)
	_ modules.InstanceLoader   = (*Handler)(nil)
	_ modules.InstanceDeleter  = (*Handler)(nil)
	_ modules.InstanceRenderer = (*Handler)(nil)
)

func NewHandler(repo Repository, store catalog.Catalog, opts ...Option) *Handler {
	h := &Handler{
		repo:     repo,
		catalog:  store,
		urls:     ChainResolvers(),
		media:    DefaultMediaPaths,
		markdown: markdown.NewRenderer(markdown.Options{}),
		tx:       storage.NewNoOpTransactor(),
		logger:   logging.NoOp(),
		id:       uuid.New,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Name() string { return ModuleName }

func (h *Handler) resolver() *TargetResolver {
	return NewTargetResolver(h.catalog, h.urls)
}

func (h *Handler) expander(resolver *TargetResolver) catalogExpander {
	return catalogExpander{catalog: h.catalog, resolver: resolver, media: h.media}
}

// DelInstance removes the menu, its items and the menu instance row.
func (h *Handler) DelInstance(ctx context.Context, instance *modules.ModuleInstance) error {
	menuInstance, err := h.repo.GetInstanceByModuleInstance(ctx, instance.ID)
	if err != nil {
		if isMenuNotFound(err) {
			return nil
		}
		return err
	}
	steps := []func() error{
		func() error { return h.repo.DeleteExtended(ctx, menuInstance.ID) },
		func() error { return h.repo.DetachItemParents(ctx, menuInstance.MenuID) },
		func() error { return h.repo.DeleteItems(ctx, menuInstance.MenuID) },
		func() error { return h.repo.DeleteInstance(ctx, menuInstance.ID) },
		func() error { return h.repo.DeleteMenu(ctx, menuInstance.MenuID) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	h.logger.Info("menus.delete.completed", "instance_id", instance.ID.String(), "menu_id", menuInstance.MenuID.String())
	return nil
}

// MenuByLocation renders the menu shown at location. "main" prefers the
// instance flagged is_main; every location falls back to the oldest menu.
func (h *Handler) MenuByLocation(ctx context.Context, location string) (modules.Data, error) {
	instances, err := h.repo.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, ErrNoMenus
	}
	selected := instances[0]
	if strings.EqualFold(strings.TrimSpace(location), LocationMain) {
		for _, instance := range instances {
			if instance.IsMain {
				selected = instance
				break
			}
		}
	}
	data, err := h.render(ctx, selected)
	if err != nil {
		return nil, err
	}
	data["module_instance_id"] = selected.ModuleInstanceID
	data["location"] = location
	return data, nil
}

// LocationBreadcrumbs returns the path to currentURL in the menu at location.
func (h *Handler) LocationBreadcrumbs(ctx context.Context, location, currentURL string) ([]Breadcrumb, error) {
	data, err := h.MenuByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	tree, _ := data["menu_tree"].([]*Node)
	crumbs := Breadcrumbs(currentURL, tree)
	if crumbs == nil {
		crumbs = []Breadcrumb{}
	}
	return crumbs, nil
}

func isMenuNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
