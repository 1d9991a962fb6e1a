package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	cachecmd "github.com/csenitron/teamCMS/internal/commands/cache"
	menuscmd "github.com/csenitron/teamCMS/internal/commands/menus"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

// AutoPopulateExecutor runs the subcategory auto-populate command.
type AutoPopulateExecutor interface {
	Execute(ctx context.Context, msg menuscmd.AutoPopulateSubcategoriesCommand) error
}

// CacheInvalidator runs the cache invalidation command.
type CacheInvalidator interface {
	Execute(ctx context.Context, msg cachecmd.InvalidateCacheCommand) error
}

// AdminAPI registers the module, layout and menu editing endpoints.
type AdminAPI struct {
	basePath     string
	modules      modules.Service
	layouts      layouts.Service
	autoPopulate AutoPopulateExecutor
	invalidate   CacheInvalidator
	flash        flasher
	logger       interfaces.Logger
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/admin").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithModuleService(service modules.Service) AdminOption {
	return func(api *AdminAPI) {
		api.modules = service
	}
}

func WithLayoutService(service layouts.Service) AdminOption {
	return func(api *AdminAPI) {
		api.layouts = service
	}
}

func WithAutoPopulate(executor AutoPopulateExecutor) AdminOption {
	return func(api *AdminAPI) {
		api.autoPopulate = executor
	}
}

func WithCacheInvalidator(executor CacheInvalidator) AdminOption {
	return func(api *AdminAPI) {
		api.invalidate = executor
	}
}

// WithSessionStore enables flash messages stored in the named session.
func WithSessionStore(store sessions.Store, name string) AdminOption {
	return func(api *AdminAPI) {
		if strings.TrimSpace(name) == "" {
			name = DefaultSessionName
		}
		api.flash = flasher{store: store, name: name}
	}
}

func WithAdminLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	modulesRoot := joinPath(base, "modules")
	instanceRoot := modulesRoot + "/{module_id}/instance"
	mux.HandleFunc("GET "+modulesRoot, api.handleListModules)
	mux.HandleFunc("GET "+instanceRoot, api.handleEditInstance)
	mux.HandleFunc("GET "+instanceRoot+"/{instance_id}", api.handleEditInstance)
	mux.HandleFunc("POST "+instanceRoot, api.handleSaveInstance)
	mux.HandleFunc("POST "+instanceRoot+"/{instance_id}", api.handleSaveInstance)
	mux.HandleFunc("GET "+instanceRoot+"/{instance_id}/delete", api.handleDeleteInstance)
	mux.HandleFunc("POST "+instanceRoot+"/{instance_id}/delete", api.handleDeleteInstance)

	mux.HandleFunc("POST "+joinPath(base, "menus/{instance_id}/subcategories"), api.handleAutoPopulate)

	layoutPath := joinPath(base, "layouts/{owner_type}/{owner_id}")
	mux.HandleFunc("GET "+layoutPath, api.handleListCells)
	mux.HandleFunc("POST "+layoutPath, api.handleSaveLayout)

	mux.HandleFunc("GET "+joinPath(base, "flashes"), api.handleFlashes)
	mux.HandleFunc("POST "+joinPath(base, "cache/invalidate"), api.handleInvalidateCache)

	return nil
}

func (api *AdminAPI) modulesPath() string {
	return joinPath(api.basePath, "modules")
}

func (api *AdminAPI) editPath(moduleID uuid.UUID, instanceID *uuid.UUID) string {
	path := joinPath(api.basePath, "modules/"+moduleID.String()+"/instance")
	if instanceID != nil {
		path += "/" + instanceID.String()
	}
	return path
}

func (api *AdminAPI) handleListModules(w http.ResponseWriter, r *http.Request) {
	if api.modules == nil {
		writeUnavailable(w, "module service not configured")
		return
	}
	list, err := api.modules.ListModules(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	groups, err := api.modules.ListInstanceOptions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"modules":   list,
		"instances": groups,
	})
}

func (api *AdminAPI) handleEditInstance(w http.ResponseWriter, r *http.Request) {
	if api.modules == nil {
		writeUnavailable(w, "module service not configured")
		return
	}
	moduleID, ok := pathUUID(w, r, "module_id")
	if !ok {
		return
	}
	instanceID, ok := optionalInstanceID(w, r)
	if !ok {
		return
	}
	view, err := api.modules.LoadInstanceData(r.Context(), moduleID, instanceID)
	if err != nil {
		if errors.Is(err, modules.ErrHandlerNotFound) {
			api.failMutation(w, r, err, api.modulesPath())
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"module":   view.Module,
		"instance": view.Instance,
		"template": view.Template,
		"data":     view.Data,
	})
}

func (api *AdminAPI) handleSaveInstance(w http.ResponseWriter, r *http.Request) {
	if api.modules == nil {
		writeUnavailable(w, "module service not configured")
		return
	}
	moduleID, ok := pathUUID(w, r, "module_id")
	if !ok {
		return
	}
	instanceID, ok := optionalInstanceID(w, r)
	if !ok {
		return
	}
	form, err := parseForm(r)
	if err != nil {
		writeBadRequest(w, "invalid form body")
		return
	}

	saved, err := api.modules.SaveInstance(r.Context(), modules.SaveInstanceRequest{
		ModuleID:   moduleID,
		InstanceID: instanceID,
		Form:       form,
	})
	if err != nil {
		back := api.editPath(moduleID, instanceID)
		if status, _ := mapError(err); status == http.StatusNotFound {
			back = api.modulesPath()
		}
		api.failMutation(w, r, err, back)
		return
	}

	api.addFlash(w, r, FlashSuccess, "Module instance saved")
	http.Redirect(w, r, api.editPath(moduleID, &saved.ID), http.StatusSeeOther)
}

func (api *AdminAPI) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	if api.modules == nil {
		writeUnavailable(w, "module service not configured")
		return
	}
	moduleID, ok := pathUUID(w, r, "module_id")
	if !ok {
		return
	}
	instanceID, ok := pathUUID(w, r, "instance_id")
	if !ok {
		return
	}
	if err := api.modules.DeleteInstance(r.Context(), moduleID, instanceID); err != nil {
		api.failMutation(w, r, err, api.modulesPath())
		return
	}
	api.addFlash(w, r, FlashSuccess, "Module instance deleted")
	http.Redirect(w, r, api.modulesPath(), http.StatusSeeOther)
}

func (api *AdminAPI) handleAutoPopulate(w http.ResponseWriter, r *http.Request) {
	if api.autoPopulate == nil {
		writeUnavailable(w, "menu auto-populate not configured")
		return
	}
	instanceID, ok := pathUUID(w, r, "instance_id")
	if !ok {
		return
	}
	form, err := parseForm(r)
	if err != nil {
		writeBadRequest(w, "invalid form body")
		return
	}
	categoryID := form.UUID("category_id")
	if categoryID == nil {
		writeBadRequest(w, "category_id is required")
		return
	}

	var result *menus.AutoPopulateResult
	err = api.autoPopulate.Execute(r.Context(), menuscmd.AutoPopulateSubcategoriesCommand{
		CategoryID:     *categoryID,
		MenuInstanceID: instanceID,
		OnResult:       func(res *menus.AutoPopulateResult) { result = res },
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *AdminAPI) handleListCells(w http.ResponseWriter, r *http.Request) {
	if api.layouts == nil {
		writeUnavailable(w, "layout service not configured")
		return
	}
	owner, ok := pathOwner(w, r)
	if !ok {
		return
	}
	cells, err := api.layouts.ListCells(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"owner_type": owner.Type,
		"owner_id":   owner.ID,
		"cells":      cells,
	})
}

// handleSaveLayout stores the grid. A malformed payload still clears the grid
// and is reported as a warning flash.
func (api *AdminAPI) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	if api.layouts == nil {
		writeUnavailable(w, "layout service not configured")
		return
	}
	owner, ok := pathOwner(w, r)
	if !ok {
		return
	}
	form, err := parseForm(r)
	if err != nil {
		writeBadRequest(w, "invalid form body")
		return
	}

	back := joinPath(api.basePath, "layouts/"+string(owner.Type)+"/"+owner.ID.String())
	_, err = api.layouts.SaveLayout(r.Context(), owner, form.Raw("layout_json"))
	switch {
	case err == nil:
		api.addFlash(w, r, FlashSuccess, "Layout saved")
	case errors.Is(err, layouts.ErrLayoutMalformed):
		api.addFlash(w, r, FlashWarning, "Layout was malformed and has been cleared")
	default:
		api.failMutation(w, r, err, back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (api *AdminAPI) handleFlashes(w http.ResponseWriter, r *http.Request) {
	messages, err := api.flash.consume(w, r)
	if err != nil {
		api.logger.Error("http.admin.flash.save_failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"flashes": messages})
}

func (api *AdminAPI) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	if api.invalidate == nil {
		writeUnavailable(w, "cache invalidation not configured")
		return
	}
	if err := api.invalidate.Execute(r.Context(), cachecmd.InvalidateCacheCommand{}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// failMutation reports err as an error flash and redirects to back. Without a
// session store the error is written as JSON.
func (api *AdminAPI) failMutation(w http.ResponseWriter, r *http.Request, err error, back string) {
	status, payload := mapError(err)
	if !api.flash.enabled() {
		writeJSON(w, status, payload)
		return
	}
	if status >= http.StatusInternalServerError {
		api.logger.Error("http.admin.request.failed", "path", r.URL.Path, "error", err)
	} else {
		api.logger.Warn("http.admin.request.rejected", "path", r.URL.Path, "error", err)
	}
	api.addFlash(w, r, FlashError, payload.Message)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (api *AdminAPI) addFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if err := api.flash.add(w, r, kind, message); err != nil {
		api.logger.Error("http.admin.flash.save_failed", "kind", kind, "error", err)
	}
}

func optionalInstanceID(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	if strings.TrimSpace(r.PathValue("instance_id")) == "" {
		return nil, true
	}
	id, ok := pathUUID(w, r, "instance_id")
	if !ok {
		return nil, false
	}
	return &id, true
}

func pathOwner(w http.ResponseWriter, r *http.Request) (layouts.Owner, bool) {
	ownerType, err := layouts.ParseOwnerType(r.PathValue("owner_type"))
	if err != nil {
		writeError(w, err)
		return layouts.Owner{}, false
	}
	ownerID, ok := pathUUID(w, r, "owner_id")
	if !ok {
		return layouts.Owner{}, false
	}
	return layouts.Owner{Type: ownerType, ID: ownerID}, true
}
