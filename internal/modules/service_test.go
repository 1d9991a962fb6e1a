package modules_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/modules"
)

// noteHandler stores a single "note" setting and keeps child rows in memory.
type noteHandler struct {
	children map[uuid.UUID]string
	deleted  []uuid.UUID
	failWith error
}

func newNoteHandler() *noteHandler {
	return &noteHandler{children: map[uuid.UUID]string{}}
}

func (h *noteHandler) Name() string { return "NoteModule" }

func (h *noteHandler) SaveInstance(_ context.Context, req modules.SaveRequest) (*modules.SaveResult, error) {
	if h.failWith != nil {
		return nil, h.failWith
	}
	note := req.Form.String("note", "")
	h.children[req.Instance.ID] = note
	return &modules.SaveResult{Settings: map[string]any{"name": note, "note": note}}, nil
}

func (h *noteHandler) LoadInstanceData(_ context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	if instance == nil {
		return modules.Data{"note": ""}, nil
	}
	return modules.Data{"note": h.children[instance.ID]}, nil
}

func (h *noteHandler) DelInstance(_ context.Context, instance *modules.ModuleInstance) error {
	delete(h.children, instance.ID)
	h.deleted = append(h.deleted, instance.ID)
	return nil
}

func (h *noteHandler) GetInstanceData(_ context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	if instance == nil {
		return modules.Data{"note": ""}, nil
	}
	return modules.Data{"note": h.children[instance.ID]}, nil
}

type recordingDetacher struct {
	detached []uuid.UUID
}

func (r *recordingDetacher) DetachInstance(_ context.Context, id uuid.UUID) (int, error) {
	r.detached = append(r.detached, id)
	return 2, nil
}

type fixture struct {
	service   modules.Service
	handler   *noteHandler
	module    *modules.Module
	instances modules.InstanceRepository
	detacher  *recordingDetacher
}

func newFixture(t *testing.T, schema modules.JSONObject) fixture {
	t.Helper()
	ctx := context.Background()
	moduleRepo := modules.NewMemoryModuleRepository()
	instanceRepo := modules.NewMemoryInstanceRepository()
	module, err := moduleRepo.Create(ctx, &modules.Module{
		Name:             "NoteModule",
		Slug:             "notemodule",
		SettingsSchema:   schema,
		Templates:        []string{"default", "boxed"},
		CreationTemplate: "admin/modules/note_form.html",
	})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	handler := newNoteHandler()
	registry, err := modules.NewRegistry(handler)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	detacher := &recordingDetacher{}
	svc := modules.NewService(moduleRepo, instanceRepo, registry, modules.WithCellDetacher(detacher))
	return fixture{service: svc, handler: handler, module: module, instances: instanceRepo, detacher: detacher}
}

func noteForm(note string) forms.Form {
	return forms.FromMap(map[string]string{"note": note})
}

func TestSaveInstanceCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("first")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Settings["note"] != "first" || created.Template() != modules.DefaultTemplate {
		t.Fatalf("unexpected created instance %+v", created)
	}

	values := url.Values{}
	values.Set("note", "second")
	values.Set("selected_template", "boxed")
	updated, err := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{
		ModuleID:   f.module.ID,
		InstanceID: &created.ID,
		Form:       forms.New(values),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Settings["note"] != "second" || updated.SelectedTemplate != "boxed" {
		t.Fatalf("unexpected updated instance %+v", updated)
	}

	all, _ := f.instances.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected a single instance, got %d", len(all))
	}
}

func TestSaveInstanceIgnoresUnknownTemplate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	values := url.Values{}
	values.Set("selected_template", "nope")
	saved, err := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: forms.New(values)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.SelectedTemplate != modules.DefaultTemplate {
		t.Fatalf("expected default template, got %q", saved.SelectedTemplate)
	}
}

func TestSaveInstanceRoundTripsSettingsThroughLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	saved, err := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("hello")})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	view, err := f.service.LoadInstanceData(ctx, f.module.ID, &saved.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	settings, ok := view.Data["settings"].(map[string]any)
	if !ok || settings["note"] != "hello" || settings["name"] != "hello" {
		t.Fatalf("expected saved settings back, got %v", view.Data["settings"])
	}
	if view.Data["note"] != "hello" || view.Template != "admin/modules/note_form.html" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestLoadInstanceDataDefaults(t *testing.T) {
	f := newFixture(t, nil)
	view, err := f.service.LoadInstanceData(context.Background(), f.module.ID, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if view.Instance != nil || view.Data["instance_id"] != nil {
		t.Fatalf("expected no instance, got %+v", view)
	}
	if settings := view.Data["settings"].(map[string]any); len(settings) != 0 {
		t.Fatalf("expected empty settings, got %v", settings)
	}
}

func TestSaveInstanceRejectsSettingsFailingSchema(t *testing.T) {
	schema := modules.JSONObject{"fields": []any{
		map[string]any{"name": "note", "type": "string", "required": true},
		map[string]any{"name": "name", "schema": map[string]any{"type": "string", "minLength": 3}},
	}}
	f := newFixture(t, schema)

	_, err := f.service.SaveInstance(context.Background(), modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("ab")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestSaveInstanceSurfacesHandlerError(t *testing.T) {
	f := newFixture(t, nil)
	boom := errors.New("boom")
	f.handler.failWith = boom

	_, err := f.service.SaveInstance(context.Background(), modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("x")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestUnknownModuleTypeFails(t *testing.T) {
	ctx := context.Background()
	moduleRepo := modules.NewMemoryModuleRepository()
	module, _ := moduleRepo.Create(ctx, &modules.Module{Name: "GhostModule", Slug: "ghost"})
	registry, _ := modules.NewRegistry()
	svc := modules.NewService(moduleRepo, modules.NewMemoryInstanceRepository(), registry)

	if _, err := svc.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: module.ID}); !errors.Is(err, modules.ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
	if _, err := svc.LoadInstanceData(ctx, module.ID, nil); !errors.Is(err, modules.ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound on load, got %v", err)
	}
}

func TestDeleteInstanceCascadesAndDetachesCells(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	saved, _ := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("bye")})

	if err := f.service.DeleteInstance(ctx, f.module.ID, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.handler.deleted) != 1 || f.handler.deleted[0] != saved.ID {
		t.Fatalf("expected handler cascade, got %v", f.handler.deleted)
	}
	if len(f.detacher.detached) != 1 {
		t.Fatalf("expected layout cells to be detached")
	}
	if _, err := f.instances.GetByID(ctx, saved.ID); err == nil {
		t.Fatal("expected instance to be gone")
	}
}

func TestInstanceOfAnotherModuleIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	foreign, _ := f.instances.Create(ctx, &modules.ModuleInstance{ModuleID: uuid.New()})

	_, err := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, InstanceID: &foreign.ID})
	if !errors.Is(err, modules.ErrInstanceModuleMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestRenderInstanceAndOptions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	saved, _ := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("Promo")})
	unnamed, _ := f.service.SaveInstance(ctx, modules.SaveInstanceRequest{ModuleID: f.module.ID, Form: noteForm("")})

	rendered, err := f.service.RenderInstance(ctx, saved.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rendered.Data["note"] != "Promo" || rendered.Module.RenderName() != "notemodule" {
		t.Fatalf("unexpected render %+v", rendered)
	}

	groups, err := f.service.ListInstanceOptions(ctx)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Options) != 2 {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if groups[0].Options[0].Label != "Promo" {
		t.Fatalf("expected settings name label, got %q", groups[0].Options[0].Label)
	}
	if groups[0].Options[1].Label != "Instance "+unnamed.ID.String() {
		t.Fatalf("expected fallback label, got %q", groups[0].Options[1].Label)
	}
}
