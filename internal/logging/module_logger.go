package logging

import (
	"context"
	"strings"

	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const (
	rootModule     = "cms"
	modulesModule  = "cms.modules"
	layoutsModule  = "cms.layouts"
	menusModule    = "cms.menus"
	handlersModule = "cms.handlers"
	httpModule     = "cms.http"
	storageModule  = "cms.storage"
)

const (
	fieldModuleName = "module_name"
	fieldInstanceID = "instance_id"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op logger
// when provider is nil. The module name is attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ModulesLogger is used by the module registry and instance lifecycle.
func ModulesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, modulesModule)
}

// LayoutsLogger is used by the layout grid.
func LayoutsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, layoutsModule)
}

// MenusLogger is used by the menu module.
func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, menusModule)
}

// HandlerLogger scopes a logger to one of the content module handlers
// (cms.handlers.slider, cms.handlers.tabs, ...).
func HandlerLogger(provider interfaces.LoggerProvider, handler string) interfaces.Logger {
	name := strings.ToLower(strings.TrimSpace(handler))
	if name == "" {
		return ModuleLogger(provider, handlersModule)
	}
	return ModuleLogger(provider, handlersModule+"."+name)
}

func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithInstanceContext adds the module type name and instance id to logger.
// Empty values are skipped.
func WithInstanceContext(logger interfaces.Logger, moduleName, instanceID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(moduleName); trimmed != "" {
		fields[fieldModuleName] = trimmed
	}
	if trimmed := strings.TrimSpace(instanceID); trimmed != "" {
		fields[fieldInstanceID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
