// Package cachecmd drops cached repository reads on demand.
package cachecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/csenitron/teamCMS/internal/commands"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const invalidateMessageType = "cms.cache.invalidate"

// DefaultCronExpression schedules a periodic full invalidation.
const DefaultCronExpression = "@hourly"

// Invalidator is a cached repository, e.g. the module definition or catalog
// readers.
type Invalidator interface {
	InvalidateCache(ctx context.Context) error
}

type InvalidateCacheCommand struct{}

func (InvalidateCacheCommand) Type() string    { return invalidateMessageType }
func (InvalidateCacheCommand) Validate() error { return nil }

type InvalidateCacheHandler struct {
	inner      *commands.Handler[InvalidateCacheCommand]
	cronConfig command.HandlerConfig
}

// NewInvalidateCacheHandler invalidates every target and joins their errors.
// Nil targets are skipped.
func NewInvalidateCacheHandler(targets []Invalidator, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateCacheCommand]) *InvalidateCacheHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, _ InvalidateCacheCommand) error {
		var errs []error
		cleared := 0
		for _, target := range targets {
			if target == nil {
				continue
			}
			if err := target.InvalidateCache(ctx); err != nil {
				errs = append(errs, err)
				continue
			}
			cleared++
		}
		logger.Info("cache.command.invalidated", "targets", cleared, "failed", len(errs))
		return errors.Join(errs...)
	}
	handlerOpts := append([]commands.HandlerOption[InvalidateCacheCommand]{
		commands.WithLogger[InvalidateCacheCommand](logger),
		commands.WithOperation[InvalidateCacheCommand]("cache.invalidate"),
	}, opts...)
	return &InvalidateCacheHandler{
		inner:      commands.NewHandler(exec, handlerOpts...),
		cronConfig: command.HandlerConfig{Expression: DefaultCronExpression},
	}
}

// WithCronExpression replaces DefaultCronExpression. Blank keeps the default.
func (h *InvalidateCacheHandler) WithCronExpression(expression string) *InvalidateCacheHandler {
	if expression != "" {
		h.cronConfig.Expression = expression
	}
	return h
}

func (h *InvalidateCacheHandler) Execute(ctx context.Context, msg InvalidateCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *InvalidateCacheHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), InvalidateCacheCommand{})
	}
}

func (h *InvalidateCacheHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

func (h *InvalidateCacheHandler) CLIHandler() any {
	return h
}

func (h *InvalidateCacheHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"cache", "invalidate"},
		Group:       "cache",
		Description: "Drop cached module definitions and catalog reads",
	}
}
