package cms

import (
	"errors"

	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

type CommandRegistrationOptions struct {
	Registry      CommandRegistry
	Dispatcher    CommandDispatcher
	CronRegistrar CronRegistrar
}

// CommandRegistrationResult captures the handlers and any dispatcher subscriptions.
type CommandRegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterCommands hands the menu auto-populate and cache invalidation
// handlers to the optional registry, dispatcher and cron integrations. All
// registration errors are joined; handlers are returned even when some fail.
func (m *Module) RegisterCommands(opts CommandRegistrationOptions) (*CommandRegistrationResult, error) {
	result := &CommandRegistrationResult{
		Handlers:      []any{},
		Subscriptions: []CommandSubscription{},
	}
	if m == nil || m.container == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	if handler := m.container.AutoPopulateCommand(); handler != nil {
		register(handler)
	}
	if handler := m.container.InvalidateCacheCommand(); handler != nil {
		register(handler)
	}
	return result, errs
}
