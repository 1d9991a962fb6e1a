package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
	"github.com/csenitron/teamCMS/internal/banners"
	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/commands"
	cachecmd "github.com/csenitron/teamCMS/internal/commands/cache"
	menuscmd "github.com/csenitron/teamCMS/internal/commands/menus"
	"github.com/csenitron/teamCMS/internal/galleries"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/logging/console"
	"github.com/csenitron/teamCMS/internal/logging/gologger"
	"github.com/csenitron/teamCMS/internal/markdown"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/internal/runtimeconfig"
	"github.com/csenitron/teamCMS/internal/sliders"
	"github.com/csenitron/teamCMS/internal/tabs"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

// Container wires repositories, handlers and services. Repositories are in
// memory unless a *bun.DB is supplied.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	logProvider   interfaces.LoggerProvider
	urlResolver   menus.URLResolver
	routeManager  *urlkit.RouteManager
	markdown      *markdown.Renderer
	transactor    storage.Transactor

	store        catalog.Catalog
	moduleRepo   modules.ModuleRepository
	instanceRepo modules.InstanceRepository
	cellRepo     layouts.CellRepository
	menuRepo     menus.Repository
	sliderRepo   sliders.Repository
	bannerRepo   banners.Repository
	galleryRepo  galleries.Repository
	tabsRepo     tabs.Repository

	menuHandler    *menus.Handler
	sliderHandler  *sliders.Handler
	bannerHandler  *banners.Handler
	galleryHandler *galleries.Handler
	tabsHandler    *tabs.Handler

	registry  *modules.Registry
	moduleSvc modules.Service
	layoutSvc layouts.Service

	autoPopulate    *menuscmd.AutoPopulateSubcategoriesHandler
	invalidateCache *cachecmd.InvalidateCacheHandler
}

type Option func(*Container)

func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache replaces the cache service built from Config.Cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logProvider = provider
	}
}

// WithCatalog replaces the catalog readers, e.g. with the host shop's own.
func WithCatalog(store catalog.Catalog) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithMenuURLResolver puts resolver in front of the built-in menu URL
// patterns and takes precedence over Config.Navigation.
func WithMenuURLResolver(resolver menus.URLResolver) Option {
	return func(c *Container) {
		c.urlResolver = resolver
	}
}

func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config:   cfg,
		markdown: markdown.NewRenderer(markdown.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureCache(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureNavigation()
	if err := c.configureModules(); err != nil {
		return nil, err
	}
	c.configureCommands()

	logging.ModuleLogger(c.logProvider, "cms.di").Info("container.configured",
		"storage", c.storageKind(),
		"cache", c.cacheService != nil,
		"handlers", strings.Join(c.registry.Names(), ","),
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.logProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: logger: %w", err)
		}
		c.logProvider = provider
	default:
		level := console.ParseLevel(c.Config.Logging.Level)
		c.logProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureCache() error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.Config.Cache.TTL
		if cfg.TTL <= 0 {
			cfg.TTL = time.Minute
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: cache service: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		if c.store == nil {
			c.store = catalog.NewMemoryCatalog()
		}
		c.moduleRepo = modules.NewMemoryModuleRepository()
		c.instanceRepo = modules.NewMemoryInstanceRepository()
		c.cellRepo = layouts.NewMemoryCellRepository()
		c.menuRepo = menus.NewMemoryRepository()
		c.sliderRepo = sliders.NewMemoryRepository()
		c.bannerRepo = banners.NewMemoryRepository()
		c.galleryRepo = galleries.NewMemoryRepository()
		c.tabsRepo = tabs.NewMemoryRepository()
		c.transactor = storage.NewMemoryTransactor(snapshotters(
			c.moduleRepo, c.instanceRepo, c.cellRepo, c.menuRepo,
			c.sliderRepo, c.bannerRepo, c.galleryRepo, c.tabsRepo,
		)...)
		return
	}

	c.transactor = storage.NewBunTransactor(c.bunDB)
	if c.cacheService != nil {
		if c.store == nil {
			c.store = catalog.NewBunCatalogWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		c.moduleRepo = modules.NewBunModuleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		if c.store == nil {
			c.store = catalog.NewBunCatalog(c.bunDB)
		}
		c.moduleRepo = modules.NewBunModuleRepository(c.bunDB)
	}
	c.instanceRepo = modules.NewBunInstanceRepository(c.bunDB)
	c.cellRepo = layouts.NewBunCellRepository(c.bunDB)
	c.menuRepo = menus.NewBunRepository(c.bunDB)
	c.sliderRepo = sliders.NewBunRepository(c.bunDB)
	c.bannerRepo = banners.NewBunRepository(c.bunDB)
	c.galleryRepo = galleries.NewBunRepository(c.bunDB)
	c.tabsRepo = tabs.NewBunRepository(c.bunDB)
}

func snapshotters(repos ...any) []storage.Snapshotter {
	out := make([]storage.Snapshotter, 0, len(repos))
	for _, repo := range repos {
		if snapshotter, ok := repo.(storage.Snapshotter); ok {
			out = append(out, snapshotter)
		}
	}
	return out
}

func (c *Container) configureNavigation() {
	if c.urlResolver != nil {
		return
	}
	nav := c.Config.Navigation
	if !nav.URLKit.Enabled || nav.RouteConfig == nil {
		return
	}
	c.routeManager = urlkit.NewRouteManager(nav.RouteConfig)
	routes := make(map[menus.ItemType]string, len(nav.URLKit.Routes))
	for itemType, route := range nav.URLKit.Routes {
		routes[menus.ItemType(itemType)] = route
	}
	c.urlResolver = menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:      c.routeManager,
		DefaultGroup: nav.URLKit.DefaultGroup,
		LocaleGroups: nav.URLKit.LocaleGroups,
		Routes:       routes,
		SlugParam:    nav.URLKit.SlugParam,
		LocaleParam:  nav.URLKit.LocaleParam,
	})
}

func (c *Container) configureModules() error {
	uploads := c.Config.Menus.ImagesPath
	c.menuHandler = menus.NewHandler(c.menuRepo, c.store,
		menus.WithLogger(logging.MenusLogger(c.logProvider)),
		menus.WithTransactor(c.transactor),
		menus.WithURLResolver(c.urlResolver),
		menus.WithMediaPaths(menus.MediaPaths{Images: uploads, Videos: c.Config.Menus.VideosPath}),
		menus.WithMarkdown(c.markdown),
		menus.WithDefaultMaxDepth(c.Config.Menus.DefaultMaxDepth),
	)
	c.sliderHandler = sliders.NewHandler(c.sliderRepo, c.store,
		sliders.WithLogger(logging.HandlerLogger(c.logProvider, "slider")),
		sliders.WithUploadsPath(uploads),
	)
	c.bannerHandler = banners.NewHandler(c.bannerRepo, c.store,
		banners.WithLogger(logging.HandlerLogger(c.logProvider, "banner")),
		banners.WithUploadsPath(uploads),
		banners.WithMarkdown(c.markdown),
	)
	c.galleryHandler = galleries.NewHandler(c.galleryRepo, c.store,
		galleries.WithLogger(logging.HandlerLogger(c.logProvider, "gallery")),
		galleries.WithUploadsPath(uploads),
		galleries.WithMarkdown(c.markdown),
	)
	c.tabsHandler = tabs.NewHandler(c.tabsRepo, c.store,
		tabs.WithLogger(logging.HandlerLogger(c.logProvider, "tabs")),
	)

	registry, err := modules.NewRegistry(c.menuHandler, c.sliderHandler, c.bannerHandler, c.galleryHandler, c.tabsHandler)
	if err != nil {
		return fmt.Errorf("di: module registry: %w", err)
	}
	c.registry = registry

	modulesLogger := logging.ModulesLogger(c.logProvider)
	// Layout rendering goes through the module service, and module deletion
	// detaches layout cells, so the cell repository is shared by both.
	c.moduleSvc = modules.NewService(c.moduleRepo, c.instanceRepo, c.registry,
		modules.WithLogger(modulesLogger),
		modules.WithTransactor(c.transactor),
		modules.WithCellDetacher(c.cellRepo),
	)
	c.layoutSvc = layouts.NewService(c.cellRepo, c.moduleSvc,
		layouts.WithLogger(logging.LayoutsLogger(c.logProvider)),
		layouts.WithTransactor(c.transactor),
	)
	return nil
}

func (c *Container) configureCommands() {
	logger := commands.Logger(c.logProvider, "menus")
	c.autoPopulate = menuscmd.NewAutoPopulateSubcategoriesHandler(c.menuHandler, logger)

	targets := []cachecmd.Invalidator{}
	if invalidator, ok := c.store.(cachecmd.Invalidator); ok && c.cacheService != nil {
		targets = append(targets, invalidator)
	}
	if invalidator, ok := c.moduleRepo.(cachecmd.Invalidator); ok && c.cacheService != nil {
		targets = append(targets, invalidator)
	}
	c.invalidateCache = cachecmd.NewInvalidateCacheHandler(targets, commands.Logger(c.logProvider, "cache")).
		WithCronExpression(c.Config.Cache.InvalidateCron)
}

// SeedModules stores the built-in module definitions. It is idempotent. With
// a database the schema must exist first.
func (c *Container) SeedModules(ctx context.Context) error {
	definitions, err := modules.BuiltinDefinitions()
	if err != nil {
		return err
	}
	return modules.SeedDefinitions(ctx, c.moduleRepo, definitions)
}

func (c *Container) storageKind() string {
	if c.bunDB == nil {
		return "memory"
	}
	return c.bunDB.Dialect().Name().String()
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.logProvider }
func (c *Container) Catalog() catalog.Catalog                  { return c.store }
func (c *Container) Registry() *modules.Registry               { return c.registry }
func (c *Container) ModuleService() modules.Service            { return c.moduleSvc }
func (c *Container) LayoutService() layouts.Service            { return c.layoutSvc }
func (c *Container) MenuHandler() *menus.Handler               { return c.menuHandler }
func (c *Container) RouteManager() *urlkit.RouteManager        { return c.routeManager }

func (c *Container) AutoPopulateCommand() *menuscmd.AutoPopulateSubcategoriesHandler {
	return c.autoPopulate
}

func (c *Container) InvalidateCacheCommand() *cachecmd.InvalidateCacheHandler {
	return c.invalidateCache
}
