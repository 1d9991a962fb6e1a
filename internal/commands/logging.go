package commands

import (
	"strings"

	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

// Logger returns the logger of a command group, e.g. Logger(p, "menus") logs
// under cms.commands.menus.
func Logger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, "cms.commands."+name), map[string]any{
		"component":     "command",
		"command_group": name,
	})
}
