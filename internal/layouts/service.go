package layouts

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

// InstanceRenderer produces the storefront data of one module instance.
// modules.Service satisfies it.
type InstanceRenderer interface {
	RenderInstance(ctx context.Context, instanceID uuid.UUID) (*modules.RenderedInstance, error)
}

// Section is one rendered grid cell. Sections without an instance render as
// empty placeholders that keep the grid shape.
type Section struct {
	RowIndex   int                     `json:"row_index"`
	ColIndex   int                     `json:"col_index"`
	ColWidth   int                     `json:"col_width"`
	InstanceID *uuid.UUID              `json:"module_instance_id,omitempty"`
	ModuleName string                  `json:"module_name,omitempty"`
	Template   string                  `json:"template,omitempty"`
	Settings   map[string]any          `json:"settings,omitempty"`
	Content    map[string]any          `json:"content,omitempty"`
	Instance   *modules.ModuleInstance `json:"instance,omitempty"`
	Data       modules.Data            `json:"data,omitempty"`
}

func (s Section) Empty() bool {
	return s.Instance == nil
}

// Context flattens the section into a template context. Handler data is
// merged over the cell fields.
func (s Section) Context() map[string]any {
	ctx := map[string]any{
		"row_index":   s.RowIndex,
		"col_index":   s.ColIndex,
		"col_width":   s.ColWidth,
		"module_name": s.ModuleName,
		"template":    s.Template,
		"settings":    s.Settings,
		"content":     s.Content,
		"instance":    s.Instance,
	}
	maps.Copy(ctx, s.Data)
	return ctx
}

// Service edits and renders page and post grids.
type Service interface {
	SaveLayout(ctx context.Context, owner Owner, layoutJSON string) ([]*Cell, error)
	ListCells(ctx context.Context, owner Owner) ([]*Cell, error)
	Render(ctx context.Context, owner Owner) ([]Section, error)
	DetachInstance(ctx context.Context, instanceID uuid.UUID) (int, error)
}

type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTransactor(tx storage.Transactor) ServiceOption {
	return func(s *service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

type service struct {
	cells    CellRepository
	renderer InstanceRenderer
	tx       storage.Transactor
	logger   interfaces.Logger
}

func NewService(cells CellRepository, renderer InstanceRenderer, opts ...ServiceOption) Service {
	s := &service{
		cells:    cells,
		renderer: renderer,
		tx:       storage.NewNoOpTransactor(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveLayout replaces the owner's grid. A malformed payload empties the grid
// and returns an error wrapping ErrLayoutMalformed; callers treat it as a
// warning.
func (s *service) SaveLayout(ctx context.Context, owner Owner, layoutJSON string) ([]*Cell, error) {
	if _, err := ParseOwnerType(string(owner.Type)); err != nil {
		return nil, err
	}
	cells, parseErr := ParseLayout(layoutJSON)
	if parseErr != nil {
		cells = []*Cell{}
	}

	var saved []*Cell
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.cells.ReplaceCells(ctx, owner, cells)
		return err
	})
	if err != nil {
		s.logger.Error("layouts.save.failed", "owner", owner.String(), "error", err)
		return nil, err
	}

	if parseErr != nil {
		s.logger.Warn("layouts.save.malformed", "owner", owner.String(), "error", parseErr)
		return saved, parseErr
	}
	s.logger.Info("layouts.save.completed", "owner", owner.String(), "cells", len(saved))
	return saved, nil
}

func (s *service) ListCells(ctx context.Context, owner Owner) ([]*Cell, error) {
	return s.cells.ListCells(ctx, owner)
}

func (s *service) DetachInstance(ctx context.Context, instanceID uuid.UUID) (int, error) {
	return s.cells.DetachInstance(ctx, instanceID)
}

// Render produces one section per cell in (row, column) order. A cell that
// cannot be rendered becomes an empty section; it never fails the page.
func (s *service) Render(ctx context.Context, owner Owner) ([]Section, error) {
	cells, err := s.cells.ListCells(ctx, owner)
	if err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(cells))
	for _, cell := range cells {
		sections = append(sections, s.renderCell(ctx, owner, cell))
	}
	return sections, nil
}

func (s *service) renderCell(ctx context.Context, owner Owner, cell *Cell) (section Section) {
	section = Section{
		RowIndex:   cell.RowIndex,
		ColIndex:   cell.ColIndex,
		ColWidth:   cell.ColWidth,
		InstanceID: cell.ModuleInstanceID,
	}
	if cell.ModuleInstanceID == nil {
		return section
	}
	if s.renderer == nil {
		s.logger.Warn("layouts.render.no_renderer", "owner", owner.String())
		return section
	}

	empty := section
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("layouts.render.panic", "owner", owner.String(),
				"instance_id", cell.ModuleInstanceID.String(), "error", fmt.Sprint(recovered))
			section = empty
		}
	}()

	rendered, err := s.renderer.RenderInstance(ctx, *cell.ModuleInstanceID)
	if err != nil {
		event := "layouts.render.failed"
		var notFound *modules.NotFoundError
		switch {
		case errors.As(err, &notFound):
			event = "layouts.render.dangling"
		case errors.Is(err, modules.ErrHandlerNotFound):
			event = "layouts.render.unknown_module"
		}
		s.logger.Warn(event, "owner", owner.String(), "instance_id", cell.ModuleInstanceID.String(), "error", err)
		return empty
	}

	section.ModuleName = rendered.Module.RenderName()
	section.Template = rendered.Instance.Template()
	section.Settings = rendered.Instance.SettingsMap()
	section.Content = rendered.Instance.Content.Clone()
	section.Instance = rendered.Instance
	section.Data = rendered.Data
	return section
}
