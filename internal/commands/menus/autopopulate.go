// Package menuscmd exposes menu workflows as go-command messages.
package menuscmd

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/commands"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const autoPopulateMessageType = "cms.menus.subcategories.populate"

// Populator is implemented by *menus.Handler.
type Populator interface {
	AutoPopulateSubcategories(ctx context.Context, categoryID, moduleInstanceID uuid.UUID) (*menus.AutoPopulateResult, error)
}

// AutoPopulateSubcategoriesCommand adds the subcategories of CategoryID to a
// menu. OnResult, when set, receives the created items.
type AutoPopulateSubcategoriesCommand struct {
	CategoryID     uuid.UUID                        `json:"category_id"`
	MenuInstanceID uuid.UUID                        `json:"menu_instance_id"`
	OnResult       func(*menus.AutoPopulateResult) `json:"-"`
}

func (AutoPopulateSubcategoriesCommand) Type() string { return autoPopulateMessageType }

func (c AutoPopulateSubcategoriesCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CategoryID, validation.By(notNilUUID)),
		validation.Field(&c.MenuInstanceID, validation.By(notNilUUID)),
	)
}

func notNilUUID(value any) error {
	if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
		return errors.New("must be a non-nil uuid")
	}
	return nil
}

type AutoPopulateSubcategoriesHandler struct {
	inner *commands.Handler[AutoPopulateSubcategoriesCommand]
}

func NewAutoPopulateSubcategoriesHandler(populator Populator, logger interfaces.Logger, opts ...commands.HandlerOption[AutoPopulateSubcategoriesCommand]) *AutoPopulateSubcategoriesHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg AutoPopulateSubcategoriesCommand) error {
		result, err := populator.AutoPopulateSubcategories(ctx, msg.CategoryID, msg.MenuInstanceID)
		if err != nil {
			return err
		}
		logger.Info("menus.command.subcategories.populated",
			"menu_instance_id", msg.MenuInstanceID.String(),
			"created", len(result.Created),
			"skipped", result.Skipped,
		)
		if msg.OnResult != nil {
			msg.OnResult(result)
		}
		return nil
	}
	handlerOpts := append([]commands.HandlerOption[AutoPopulateSubcategoriesCommand]{
		commands.WithLogger[AutoPopulateSubcategoriesCommand](logger),
		commands.WithOperation[AutoPopulateSubcategoriesCommand]("menus.subcategories.populate"),
	}, opts...)
	return &AutoPopulateSubcategoriesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *AutoPopulateSubcategoriesHandler) Execute(ctx context.Context, msg AutoPopulateSubcategoriesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *AutoPopulateSubcategoriesHandler) CLIHandler() any {
	return h
}

func (h *AutoPopulateSubcategoriesHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"menus", "subcategories"},
		Group:       "menus",
		Description: "Add the subcategories of a category to a menu",
	}
}
