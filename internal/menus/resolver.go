package menus

import (
	"context"
	"strings"
)

// ResolveRequest describes the link a resolver must build.
type ResolveRequest struct {
	Type   ItemType
	Slug   string
	Locale string
}

// URLResolver builds storefront URLs for resolved targets. An empty result
// lets the next resolver in the chain try.
type URLResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}

// PatternResolver builds the default storefront paths.
type PatternResolver struct{}

func (PatternResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	slug := strings.TrimSpace(req.Slug)
	switch req.Type {
	case ItemPage:
		return "/page/" + slug, nil
	case ItemCategory:
		return "/category/" + slug, nil
	case ItemPostCategory:
		return "/blog/category/" + slug, nil
	case ItemPost:
		return "/blog/" + slug, nil
	case ItemCatalog:
		return "/catalog", nil
	case ItemAllPosts:
		return "/blog", nil
	default:
		return "", nil
	}
}

type chainResolver []URLResolver

func (c chainResolver) Resolve(ctx context.Context, req ResolveRequest) (string, error) {
	var firstErr error
	for _, resolver := range c {
		url, err := resolver.Resolve(ctx, req)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if url != "" {
			return url, nil
		}
	}
	return "", firstErr
}

// ChainResolvers tries each resolver in order and falls back to the default
// patterns.
func ChainResolvers(resolvers ...URLResolver) URLResolver {
	chain := chainResolver{}
	for _, resolver := range resolvers {
		if resolver != nil {
			chain = append(chain, resolver)
		}
	}
	return append(chain, PatternResolver{})
}
