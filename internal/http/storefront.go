package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
)

// MenuReader serves menus by storefront location.
type MenuReader interface {
	MenuByLocation(ctx context.Context, location string) (modules.Data, error)
	LocationBreadcrumbs(ctx context.Context, location, currentURL string) ([]menus.Breadcrumb, error)
}

// StorefrontAPI returns the view models the storefront templates render.
type StorefrontAPI struct {
	basePath string
	layouts  layouts.Service
	menus    MenuReader
}

type StorefrontOption func(*StorefrontAPI)

func NewStorefrontAPI(opts ...StorefrontOption) *StorefrontAPI {
	api := &StorefrontAPI{}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithStorefrontBasePath mounts the storefront routes under path. Routes sit
// at the root by default.
func WithStorefrontBasePath(path string) StorefrontOption {
	return func(api *StorefrontAPI) {
		api.basePath = strings.TrimSpace(path)
	}
}

func WithStorefrontLayouts(service layouts.Service) StorefrontOption {
	return func(api *StorefrontAPI) {
		api.layouts = service
	}
}

func WithStorefrontMenus(reader MenuReader) StorefrontOption {
	return func(api *StorefrontAPI) {
		api.menus = reader
	}
}

func (api *StorefrontAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: storefront api is nil")
	}
	mux.HandleFunc("GET "+joinPath(api.basePath, "layouts/{owner_type}/{owner_id}"), api.handleLayout)
	mux.HandleFunc("GET "+joinPath(api.basePath, "menus/{location}"), api.handleMenu)
	mux.HandleFunc("GET "+joinPath(api.basePath, "menus/{location}/breadcrumbs"), api.handleBreadcrumbs)
	return nil
}

func (api *StorefrontAPI) handleLayout(w http.ResponseWriter, r *http.Request) {
	if api.layouts == nil {
		writeUnavailable(w, "layout service not configured")
		return
	}
	owner, ok := pathOwner(w, r)
	if !ok {
		return
	}
	sections, err := api.layouts.Render(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(sections))
	for _, section := range sections {
		ctx := section.Context()
		ctx["empty"] = section.Empty()
		out = append(out, ctx)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": out})
}

func (api *StorefrontAPI) handleMenu(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		writeUnavailable(w, "menus not configured")
		return
	}
	data, err := api.menus.MenuByLocation(r.Context(), r.PathValue("location"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (api *StorefrontAPI) handleBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	if api.menus == nil {
		writeUnavailable(w, "menus not configured")
		return
	}
	crumbs, err := api.menus.LocationBreadcrumbs(r.Context(), r.PathValue("location"), r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"breadcrumbs": crumbs})
}
