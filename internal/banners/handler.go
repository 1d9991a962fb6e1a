// Package banners implements the BannerModule, a row of promotional cards.
package banners

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/markdown"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const ModuleName = "BannerModule"

type Option func(*Handler)

func WithLogger(logger interfaces.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithUploadsPath(path string) Option {
	return func(h *Handler) {
		if path != "" {
			h.uploads = path
		}
	}
}

func WithMarkdown(renderer *markdown.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.markdown = renderer
		}
	}
}

type Handler struct {
	repo     Repository
	images   catalog.MediaRepository
	uploads  string
	markdown *markdown.Renderer
	logger   interfaces.Logger
}

var (
	_ modules.InstanceSaver    = (*Handler)(nil)
	_ modules.InstanceLoader   = (*Handler)(nil)
	_ modules.InstanceDeleter  = (*Handler)(nil)
	_ modules.InstanceRenderer = (*Handler)(nil)
)

func NewHandler(repo Repository, images catalog.MediaRepository, opts ...Option) *Handler {
	h := &Handler{
		repo:     repo,
		images:   images,
		uploads:  catalog.DefaultUploadsPath,
		markdown: markdown.NewRenderer(markdown.Options{}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Name() string { return ModuleName }

// SaveInstance stores the banner row and replaces its cards with
// banners[i][background_image_id|text|link_text|link_url].
func (h *Handler) SaveInstance(ctx context.Context, req modules.SaveRequest) (*modules.SaveResult, error) {
	form := req.Form
	interval := form.Int("scroll_interval", DefaultScrollInterval)
	if interval <= 0 {
		interval = DefaultScrollInterval
	}
	settings := map[string]any{
		"status":          form.Bool("status"),
		"show_arrows":     form.Bool("show_arrows"),
		"show_indicators": form.Bool("show_indicators"),
		"auto_scroll":     form.Bool("auto_scroll"),
		"scroll_interval": interval,
	}

	banner, err := h.repo.GetByModuleInstance(ctx, req.Instance.ID)
	if err != nil {
		if !errors.Is(err, ErrBannerNotFound) {
			return nil, err
		}
		banner = &Banner{ID: uuid.New(), ModuleInstanceID: req.Instance.ID}
	}
	banner.Title = form.String("title", "")
	banner.CardsInRow = form.Int("cards_in_row", DefaultCardsInRow)
	if banner.CardsInRow <= 0 {
		banner.CardsInRow = DefaultCardsInRow
	}
	if banner, err = h.repo.Save(ctx, banner); err != nil {
		return nil, err
	}

	entries := form.Collection("banners")
	items := make([]*Item, 0, len(entries))
	for i, entry := range entries {
		items = append(items, &Item{
			ID:                uuid.New(),
			Position:          entry.Position(i),
			BackgroundImageID: entry.UUID("background_image_id"),
			Text:              entry.String("text", ""),
			LinkText:          entry.String("link_text", ""),
			LinkURL:           entry.String("link_url", ""),
		})
	}
	if err := h.repo.ReplaceItems(ctx, banner.ID, items); err != nil {
		return nil, err
	}

	h.logger.Info("banners.save.completed", "instance_id", req.Instance.ID.String(), "items", len(items))
	return &modules.SaveResult{Settings: settings}, nil
}

func (h *Handler) LoadInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"module_instance": nil,
		"banner":          nil,
		"banner_items":    []*Item{},
		"settings":        map[string]any{},
	}
	if instance == nil {
		return data, nil
	}
	data["module_instance"] = instance
	data["settings"] = instance.SettingsMap()
	banner, items, err := h.load(ctx, instance.ID)
	if err != nil || banner == nil {
		return data, err
	}
	data["banner"] = banner
	data["banner_items"] = items
	return data, nil
}

func (h *Handler) load(ctx context.Context, moduleInstanceID uuid.UUID) (*Banner, []*Item, error) {
	banner, err := h.repo.GetByModuleInstance(ctx, moduleInstanceID)
	if err != nil {
		if errors.Is(err, ErrBannerNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	items, err := h.repo.ListItems(ctx, banner.ID)
	if err != nil {
		return nil, nil, err
	}
	return banner, items, nil
}

func (h *Handler) DelInstance(ctx context.Context, instance *modules.ModuleInstance) error {
	banner, _, err := h.load(ctx, instance.ID)
	if err != nil || banner == nil {
		return err
	}
	return h.repo.Delete(ctx, banner.ID)
}

// ItemView is a card ready for the storefront.
type ItemView struct {
	*Item
	TextHTML   string             `json:"text_html"`
	Background *catalog.ImageView `json:"background_image"`
}

func (h *Handler) GetInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"settings":     map[string]any{},
		"banner":       nil,
		"banner_items": []ItemView{},
	}
	if instance == nil {
		return data, nil
	}
	data["settings"] = instance.SettingsMap()
	banner, items, err := h.load(ctx, instance.ID)
	if err != nil || banner == nil {
		return data, err
	}
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			Item:       item,
			TextHTML:   h.markdown.RenderString(item.Text),
			Background: catalog.ResolveImage(ctx, h.images, h.uploads, item.BackgroundImageID),
		})
	}
	data["banner"] = banner
	data["banner_items"] = views
	return data, nil
}
