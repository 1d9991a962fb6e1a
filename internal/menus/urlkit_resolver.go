package menus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver. Route names
// default to the item type (page, category, post_category, post, catalog,
// all_posts).
type URLKitResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	LocaleGroups map[string]string
	Routes       map[ItemType]string
	SlugParam    string
	LocaleParam  string
}

// URLKitResolver resolves menu URLs through named routes. Types without a
// matching route resolve to "" so a chained resolver can take over.
type URLKitResolver struct {
	manager *urlkit.RouteManager

	defaultGroup string
	localeGroups map[string]string
	routes       map[ItemType]string
	slugParam    string
	localeParam  string

	mu         sync.RWMutex
	groupCache map[string]*urlkit.Group
}

func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	localeGroups := make(map[string]string, len(opts.LocaleGroups))
	for locale, group := range opts.LocaleGroups {
		localeGroups[strings.ToLower(strings.TrimSpace(locale))] = strings.TrimSpace(group)
	}
	return &URLKitResolver{
		manager:      opts.Manager,
		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		localeGroups: localeGroups,
		routes:       opts.Routes,
		slugParam:    opts.SlugParam,
		localeParam:  strings.TrimSpace(opts.LocaleParam),
		groupCache:   map[string]*urlkit.Group{},
	}
}

func (r *URLKitResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}
	groupPath := r.defaultGroup
	if path, ok := r.localeGroups[strings.ToLower(strings.TrimSpace(req.Locale))]; ok && path != "" {
		groupPath = path
	}
	if groupPath == "" {
		return "", nil
	}
	group, err := r.groupForPath(groupPath)
	if err != nil {
		return "", err
	}

	routeName := string(req.Type)
	if override, ok := r.routes[req.Type]; ok && strings.TrimSpace(override) != "" {
		routeName = strings.TrimSpace(override)
	}
	// Unknown routes and incomplete params defer to the next resolver.
	builder, err := safeBuilder(group, routeName)
	if err != nil || builder == nil {
		return "", nil
	}
	if slug := strings.TrimSpace(req.Slug); slug != "" {
		builder.WithParam(r.slugParam, slug)
	}
	if r.localeParam != "" && strings.TrimSpace(req.Locale) != "" {
		builder.WithParam(r.localeParam, strings.TrimSpace(req.Locale))
	}
	url, err := builder.Build()
	if err != nil {
		return "", nil
	}
	return url, nil
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// urlkit panics on unknown names; the helpers below turn that into errors.

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("menus: route %q not found", route)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("menus: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("menus: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
