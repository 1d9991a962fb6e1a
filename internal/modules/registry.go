package modules

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

var (
	ErrHandlerNotFound = errors.New("modules: no handler registered for module")
	ErrInvalidHandler  = errors.New("modules: handler has no name")
)

// Registry maps module type names to handlers. Admin dispatch uses handlers
// that can save; storefront dispatch uses handlers that can render. A later
// registration under the same name replaces the earlier one for every
// capability it implements.
type Registry struct {
	mu    sync.RWMutex
	admin map[string]Handler
	front map[string]InstanceRenderer
	names map[string]string
}

// NewRegistry builds a registry from a static handler list.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{
		admin: map[string]Handler{},
		front: map[string]InstanceRenderer{},
		names: map[string]string{},
	}
	if err := r.Register(handlers...); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Register(handlers ...Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		key := canonicalKey(handler.Name())
		if key == "" {
			return ErrInvalidHandler
		}
		registered := false
		if _, ok := handler.(InstanceSaver); ok {
			r.admin[key] = handler
			registered = true
		}
		if renderer, ok := handler.(InstanceRenderer); ok {
			r.front[key] = renderer
			registered = true
		}
		if registered {
			r.names[key] = strings.TrimSpace(handler.Name())
		}
	}
	return nil
}

// Admin returns the handler used by the admin save/load/delete flow.
func (r *Registry) Admin(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.admin[canonicalKey(name)]
	if !ok {
		return nil, ErrHandlerNotFound
	}
	return handler, nil
}

// Renderer returns the handler used for storefront rendering.
func (r *Registry) Renderer(name string) (InstanceRenderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.front[canonicalKey(name)]
	if !ok {
		return nil, ErrHandlerNotFound
	}
	return renderer, nil
}

// Names lists the registered module type names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func canonicalKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
