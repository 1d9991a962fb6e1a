package cms

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/di"
	cmshttp "github.com/csenitron/teamCMS/internal/http"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
)

// ModuleService exports the module instance lifecycle contract.
type ModuleService = modules.Service

// LayoutService exports the page and post grid contract.
type LayoutService = layouts.Service

// Catalog exports the storefront catalog readers.
type Catalog = catalog.Catalog

// Module represents the top level CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a CMS module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Bootstrap seeds the built-in module definitions when Features.SeedModules
// is set. With a database, CreateSchema must run first.
func (m *Module) Bootstrap(ctx context.Context) error {
	if !m.container.Config.Features.SeedModules {
		return nil
	}
	return m.container.SeedModules(ctx)
}

// Modules returns the module instance service.
func (m *Module) Modules() ModuleService {
	return m.container.ModuleService()
}

// Layouts returns the layout service.
func (m *Module) Layouts() LayoutService {
	return m.container.LayoutService()
}

// Menus returns the menu handler, which also serves menus by location.
func (m *Module) Menus() *menus.Handler {
	return m.container.MenuHandler()
}

func (m *Module) Catalog() Catalog {
	return m.container.Catalog()
}

// Handler mounts the enabled admin and storefront routes on a new mux.
func (m *Module) Handler() (http.Handler, error) {
	cfg := m.container.Config
	logger := logging.HTTPLogger(m.container.LoggerProvider())
	mux := http.NewServeMux()

	if cfg.Features.Admin {
		store := sessions.NewCookieStore([]byte(cfg.Admin.SessionSecret))
		store.Options.Path = "/"
		store.Options.HttpOnly = true
		store.Options.SameSite = http.SameSiteLaxMode

		admin := cmshttp.NewAdminAPI(
			cmshttp.WithBasePath(cfg.Admin.BasePath),
			cmshttp.WithModuleService(m.container.ModuleService()),
			cmshttp.WithLayoutService(m.container.LayoutService()),
			cmshttp.WithAutoPopulate(m.container.AutoPopulateCommand()),
			cmshttp.WithCacheInvalidator(m.container.InvalidateCacheCommand()),
			cmshttp.WithSessionStore(store, cfg.Admin.SessionName),
			cmshttp.WithAdminLogger(logger),
		)
		if err := admin.Register(mux); err != nil {
			return nil, err
		}
	}

	if cfg.Features.Storefront {
		storefront := cmshttp.NewStorefrontAPI(
			cmshttp.WithStorefrontLayouts(m.container.LayoutService()),
			cmshttp.WithStorefrontMenus(m.container.MenuHandler()),
		)
		if err := storefront.Register(mux); err != nil {
			return nil, err
		}
	}

	logger.Info("http.routes.registered", "admin", cfg.Features.Admin, "storefront", cfg.Features.Storefront)
	return mux, nil
}
