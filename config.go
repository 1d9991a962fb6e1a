package cms

import "github.com/csenitron/teamCMS/internal/runtimeconfig"

var (
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrMenuMaxDepthInvalid      = runtimeconfig.ErrMenuMaxDepthInvalid
	ErrAdminBasePathInvalid     = runtimeconfig.ErrAdminBasePathInvalid
	ErrSessionSecretRequired    = runtimeconfig.ErrSessionSecretRequired
	ErrNavigationRoutesRequired = runtimeconfig.ErrNavigationRoutesRequired
	ErrStorageInvalid           = runtimeconfig.ErrStorageInvalid
)

type (
	Config           = runtimeconfig.Config
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	URLKitConfig     = runtimeconfig.URLKitConfig
	AdminConfig      = runtimeconfig.AdminConfig
	MenusConfig      = runtimeconfig.MenusConfig
	Features         = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
