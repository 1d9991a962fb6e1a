package modules

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/validation"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

// ErrInstanceModuleMismatch is returned when an instance id is used under another module.
var ErrInstanceModuleMismatch = errors.New("modules: instance belongs to a different module")

const settingsInvalidCode = "MODULE_SETTINGS_INVALID"

// Service drives the module instance lifecycle and dispatches to handlers.
type Service interface {
	ListModules(ctx context.Context) ([]*Module, error)
	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	GetInstance(ctx context.Context, id uuid.UUID) (*ModuleInstance, error)
	ListInstanceOptions(ctx context.Context) ([]InstanceGroup, error)
	LoadInstanceData(ctx context.Context, moduleID uuid.UUID, instanceID *uuid.UUID) (*EditView, error)
	SaveInstance(ctx context.Context, req SaveInstanceRequest) (*ModuleInstance, error)
	DeleteInstance(ctx context.Context, moduleID, instanceID uuid.UUID) error
	RenderInstance(ctx context.Context, instanceID uuid.UUID) (*RenderedInstance, error)
}

// SaveInstanceRequest is an admin form submission. A nil InstanceID creates a
// new instance.
type SaveInstanceRequest struct {
	ModuleID   uuid.UUID
	InstanceID *uuid.UUID
	Form       forms.Form
}

// EditView is the data behind an admin edit form.
type EditView struct {
	Module   *Module
	Instance *ModuleInstance
	Template string
	Data     Data
}

// RenderedInstance is the storefront view of one instance.
type RenderedInstance struct {
	Module   *Module
	Instance *ModuleInstance
	Data     Data
}

// InstanceOption is an entry of the page editor's instance picker.
type InstanceOption struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

type InstanceGroup struct {
	Module  *Module          `json:"module"`
	Options []InstanceOption `json:"instances"`
}

// CellDetacher clears layout cells that point at a deleted instance and
// reports how many it touched.
type CellDetacher interface {
	DetachInstance(ctx context.Context, instanceID uuid.UUID) (int, error)
}

// IDGenerator produces identifiers for new instances.
type IDGenerator func() uuid.UUID

// ServiceOption configures the module service.
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

// WithCellDetacher lets instance deletion release layout cells.
func WithCellDetacher(detacher CellDetacher) ServiceOption {
	return func(s *service) {
		s.cells = detacher
	}
}

func WithIDGenerator(gen IDGenerator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.id = gen
		}
	}
}

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type service struct {
	modules   ModuleRepository
	instances InstanceRepository
	registry  *Registry
	tx        storage.Transactor
	cells     CellDetacher
	logger    interfaces.Logger
	id        IDGenerator
	now       func() time.Time
}

// NewService wires the lifecycle service.
func NewService(modules ModuleRepository, instances InstanceRepository, registry *Registry, opts ...ServiceOption) Service {
	s := &service{
		modules:   modules,
		instances: instances,
		registry:  registry,
		tx:        storage.NewNoOpTransactor(),
		logger:    logging.NoOp(),
		id:        uuid.New,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry, _ = NewRegistry()
	}
	return s
}

func (s *service) ListModules(ctx context.Context) ([]*Module, error) {
	return s.modules.List(ctx)
}

func (s *service) GetModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	return s.modules.GetByID(ctx, id)
}

func (s *service) GetInstance(ctx context.Context, id uuid.UUID) (*ModuleInstance, error) {
	return s.instances.GetByID(ctx, id)
}

func (s *service) ListInstanceOptions(ctx context.Context) ([]InstanceGroup, error) {
	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]InstanceGroup, 0, len(modules))
	for _, module := range modules {
		instances, err := s.instances.ListByModule(ctx, module.ID)
		if err != nil {
			return nil, err
		}
		group := InstanceGroup{Module: module, Options: make([]InstanceOption, 0, len(instances))}
		for _, instance := range instances {
			group.Options = append(group.Options, InstanceOption{ID: instance.ID, Label: instance.Label()})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *service) LoadInstanceData(ctx context.Context, moduleID uuid.UUID, instanceID *uuid.UUID) (*EditView, error) {
	module, handler, err := s.adminHandler(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	var instance *ModuleInstance
	if instanceID != nil {
		instance, err = s.ownedInstance(ctx, module, *instanceID)
		if err != nil {
			return nil, err
		}
	}

	data := Data{}
	if loader, ok := handler.(InstanceLoader); ok {
		loaded, err := loader.LoadInstanceData(ctx, instance)
		if err != nil {
			return nil, err
		}
		data = data.Merge(loaded)
	}

	data["module"] = module
	data["settings"] = instance.SettingsMap()
	data["selected_template"] = instance.Template()
	if instance != nil {
		data["instance_id"] = instance.ID
	} else {
		data["instance_id"] = nil
	}

	return &EditView{
		Module:   module,
		Instance: instance,
		Template: module.CreationTemplate,
		Data:     data,
	}, nil
}

func (s *service) SaveInstance(ctx context.Context, req SaveInstanceRequest) (*ModuleInstance, error) {
	module, handler, err := s.adminHandler(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}
	saver := handler.(InstanceSaver)

	var existing *ModuleInstance
	if req.InstanceID != nil {
		existing, err = s.ownedInstance(ctx, module, *req.InstanceID)
		if err != nil {
			return nil, err
		}
	}

	logger := logging.WithInstanceContext(s.logger, module.Name, instanceIDString(req.InstanceID))

	var saved *ModuleInstance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		instance := existing
		created := false
		if instance == nil {
			now := s.now().UTC()
			instance, err = s.instances.Create(ctx, &ModuleInstance{
				ID:               s.id(),
				ModuleID:         module.ID,
				Settings:         JSONObject{},
				SelectedTemplate: DefaultTemplate,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
			if err != nil {
				return err
			}
			created = true
		}

		result, err := saver.SaveInstance(ctx, SaveRequest{
			Module:   module,
			Instance: instance,
			Created:  created,
			Form:     req.Form,
		})
		if err != nil {
			return err
		}

		settings := map[string]any{}
		if result != nil && result.Settings != nil {
			settings = result.Settings
		}
		if err := validation.ValidatePayload(module.SettingsSchema, settings); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "module settings failed validation").
				WithTextCode(settingsInvalidCode)
		}

		instance.Settings = JSONObject(settings)
		if result != nil && result.Content != nil {
			instance.Content = JSONObject(result.Content)
		}
		if template := req.Form.String("selected_template", ""); template != "" {
			if len(module.Templates) == 0 || slices.Contains(module.Templates, template) {
				instance.SelectedTemplate = template
			}
		}
		saved, err = s.instances.Update(ctx, instance)
		return err
	})
	if err != nil {
		logger.Error("modules.instance.save_failed", "error", err)
		return nil, err
	}

	logger.Info("modules.instance.saved", "instance_id", saved.ID)
	return saved, nil
}

func (s *service) DeleteInstance(ctx context.Context, moduleID, instanceID uuid.UUID) error {
	module, handler, err := s.adminHandler(ctx, moduleID)
	if err != nil {
		return err
	}
	instance, err := s.ownedInstance(ctx, module, instanceID)
	if err != nil {
		return err
	}

	logger := logging.WithInstanceContext(s.logger, module.Name, instanceID.String())

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if deleter, ok := handler.(InstanceDeleter); ok {
			if err := deleter.DelInstance(ctx, instance); err != nil {
				return err
			}
		}
		if s.cells != nil {
			detached, err := s.cells.DetachInstance(ctx, instance.ID)
			if err != nil {
				return err
			}
			if detached > 0 {
				logger.Warn("modules.instance.cells_detached", "cells", detached)
			}
		}
		return s.instances.Delete(ctx, instance.ID)
	})
	if err != nil {
		logger.Error("modules.instance.delete_failed", "error", err)
		return err
	}
	logger.Info("modules.instance.deleted")
	return nil
}

func (s *service) RenderInstance(ctx context.Context, instanceID uuid.UUID) (*RenderedInstance, error) {
	instance, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	module, err := s.modules.GetByID(ctx, instance.ModuleID)
	if err != nil {
		return nil, err
	}
	renderer, err := s.registry.Renderer(module.Name)
	if err != nil {
		return nil, err
	}
	data, err := renderer.GetInstanceData(ctx, instance)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = Data{}
	}
	return &RenderedInstance{Module: module, Instance: instance, Data: data}, nil
}

func (s *service) adminHandler(ctx context.Context, moduleID uuid.UUID) (*Module, Handler, error) {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}
	handler, err := s.registry.Admin(module.Name)
	if err != nil {
		s.logger.Warn("modules.handler.missing", "module_name", module.Name)
		return module, nil, err
	}
	return module, handler, nil
}

func (s *service) ownedInstance(ctx context.Context, module *Module, id uuid.UUID) (*ModuleInstance, error) {
	instance, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if instance.ModuleID != module.ID {
		return nil, ErrInstanceModuleMismatch
	}
	return instance, nil
}

func instanceIDString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return strings.TrimSpace(id.String())
}
