package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/csenitron/teamCMS/pkg/storage"
)

var (
	ErrLoggingProviderUnknown   = errors.New("cms config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("cms config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("cms config: logging format is invalid")
	ErrCacheTTLInvalid          = errors.New("cms config: cache ttl must be zero or positive")
	ErrMenuMaxDepthInvalid      = errors.New("cms config: menu max depth must be between 1 and 10")
	ErrAdminBasePathInvalid     = errors.New("cms config: admin base path must start with /")
	ErrSessionSecretRequired    = errors.New("cms config: admin session secret is required")
	ErrNavigationRoutesRequired = errors.New("cms config: urlkit resolver needs a route config")
	ErrStorageInvalid           = errors.New("cms config: storage is invalid")
)

// Config is the runtime configuration of the CMS. Struct tags serve the
// cleanenv loader of cmd/teamcms.
type Config struct {
	Storage    storage.Config   `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
	Navigation NavigationConfig `yaml:"navigation"`
	Admin      AdminConfig      `yaml:"admin"`
	Menus      MenusConfig      `yaml:"menus"`
	Features   Features         `yaml:"features"`
}

// CacheConfig controls the go-repository-cache layer in front of the module
// definition and catalog readers.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"CMS_CACHE_ENABLED" env-default:"true"`
	TTL     time.Duration `yaml:"ttl" env:"CMS_CACHE_TTL" env-default:"1m"`
	// InvalidateCron schedules the cache invalidation command when a host
	// registers commands with a cron runner.
	InvalidateCron string `yaml:"invalidate_cron" env:"CMS_CACHE_INVALIDATE_CRON"`
}

type LoggingConfig struct {
	Provider  string   `yaml:"provider" env:"CMS_LOG_PROVIDER" env-default:"console"`
	Level     string   `yaml:"level" env:"CMS_LOG_LEVEL" env-default:"info"`
	Format    string   `yaml:"format" env:"CMS_LOG_FORMAT"`
	AddSource bool     `yaml:"add_source" env:"CMS_LOG_ADD_SOURCE"`
	Focus     []string `yaml:"focus" env:"CMS_LOG_FOCUS"`
}

// NavigationConfig enables the go-urlkit menu URL resolver. Without a
// RouteConfig menus use the built-in URL patterns.
type NavigationConfig struct {
	RouteConfig *urlkit.Config `yaml:"routes"`
	URLKit      URLKitConfig   `yaml:"urlkit"`
}

type URLKitConfig struct {
	Enabled      bool              `yaml:"enabled"`
	DefaultGroup string            `yaml:"default_group"`
	LocaleGroups map[string]string `yaml:"locale_groups"`
	Routes       map[string]string `yaml:"routes"`
	SlugParam    string            `yaml:"slug_param"`
	LocaleParam  string            `yaml:"locale_param"`
}

type AdminConfig struct {
	BasePath      string `yaml:"base_path" env:"CMS_ADMIN_BASE_PATH" env-default:"/admin"`
	SessionName   string `yaml:"session_name" env:"CMS_ADMIN_SESSION_NAME" env-default:"teamcms_admin"`
	SessionSecret string `yaml:"session_secret" env:"CMS_ADMIN_SESSION_SECRET"`
}

type MenusConfig struct {
	DefaultMaxDepth int    `yaml:"default_max_depth" env:"CMS_MENUS_MAX_DEPTH" env-default:"3"`
	ImagesPath      string `yaml:"images_path" env:"CMS_MENUS_IMAGES_PATH" env-default:"/static/uploads"`
	VideosPath      string `yaml:"videos_path" env:"CMS_MENUS_VIDEOS_PATH" env-default:"/static/uploads/videos"`
}

// Features toggles optional surfaces.
type Features struct {
	Admin       bool `yaml:"admin" env:"CMS_FEATURE_ADMIN" env-default:"true"`
	Storefront  bool `yaml:"storefront" env:"CMS_FEATURE_STOREFRONT" env-default:"true"`
	SeedModules bool `yaml:"seed_modules" env:"CMS_FEATURE_SEED_MODULES" env-default:"true"`
}

// DefaultConfig matches the env-default tags.
func DefaultConfig() Config {
	return Config{
		Storage: storage.Config{
			Driver: storage.DriverSQLite,
			DSN:    "file:teamcms.db?cache=shared&_fk=1",
		},
		Cache:   CacheConfig{Enabled: true, TTL: time.Minute},
		Logging: LoggingConfig{Provider: "console", Level: "info"},
		Admin: AdminConfig{
			BasePath:    "/admin",
			SessionName: "teamcms_admin",
		},
		Menus: MenusConfig{
			DefaultMaxDepth: 3,
			ImagesPath:      "/static/uploads",
			VideosPath:      "/static/uploads/videos",
		},
		Features: Features{Admin: true, Storefront: true, SeedModules: true},
	}
}

func (cfg Config) Validate() error {
	if err := cfg.Storage.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInvalid, err)
	}
	if cfg.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
	switch provider {
	case "", "console", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); provider == "gologger" && format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}

	if cfg.Menus.DefaultMaxDepth < 1 || cfg.Menus.DefaultMaxDepth > 10 {
		return ErrMenuMaxDepthInvalid
	}
	if cfg.Features.Admin {
		if !strings.HasPrefix(cfg.Admin.BasePath, "/") {
			return ErrAdminBasePathInvalid
		}
		if strings.TrimSpace(cfg.Admin.SessionSecret) == "" {
			return ErrSessionSecretRequired
		}
	}
	if cfg.Navigation.URLKit.Enabled && cfg.Navigation.RouteConfig == nil {
		return ErrNavigationRoutesRequired
	}
	return nil
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
