// Package galleries implements the GalleryModule.
package galleries

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/markdown"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const ModuleName = "GalleryModule"

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

// SaveInstance stores the gallery and its images[i][image_id|caption]
// entries. Entries without an image are dropped.
func (h *Handler) SaveInstance(ctx context.Context, req modules.SaveRequest) (*modules.SaveResult, error) {
	form := req.Form
	gallery, err := h.repo.GetByModuleInstance(ctx, req.Instance.ID)
	if err != nil {
		if !errors.Is(err, ErrGalleryNotFound) {
			return nil, err
		}
		gallery = &Gallery{ID: uuid.New(), ModuleInstanceID: req.Instance.ID}
	}
	gallery.Title = form.String("title", DefaultTitle)
	gallery.Description = form.String("description", "")
	if gallery, err = h.repo.Save(ctx, gallery); err != nil {
		return nil, err
	}

	items := []*Item{}
	for i, entry := range form.Collection("images") {
		imageID := entry.UUID("image_id")
		if imageID == nil {
			continue
		}
		items = append(items, &Item{
			ID:       uuid.New(),
			Position: entry.Position(i),
			ImageID:  *imageID,
			Caption:  entry.String("caption", ""),
		})
	}
	if err := h.repo.ReplaceItems(ctx, gallery.ID, items); err != nil {
		return nil, err
	}

	h.logger.Info("galleries.save.completed", "instance_id", req.Instance.ID.String(), "items", len(items))
	return &modules.SaveResult{Settings: map[string]any{"name": gallery.Title}}, nil
}

func (h *Handler) load(ctx context.Context, moduleInstanceID uuid.UUID) (*Gallery, []*Item, error) {
	gallery, err := h.repo.GetByModuleInstance(ctx, moduleInstanceID)
	if err != nil {
		if errors.Is(err, ErrGalleryNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	items, err := h.repo.ListItems(ctx, gallery.ID)
	if err != nil {
		return nil, nil, err
	}
	return gallery, items, nil
}

func (h *Handler) LoadInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"module_instance": nil,
		"gallery":         nil,
		"items":           []*Item{},
	}
	if instance == nil {
		return data, nil
	}
	data["module_instance"] = instance
	gallery, items, err := h.load(ctx, instance.ID)
	if err != nil || gallery == nil {
		return data, err
	}
	data["gallery"] = gallery
	data["items"] = items
	return data, nil
}

func (h *Handler) DelInstance(ctx context.Context, instance *modules.ModuleInstance) error {
	gallery, _, err := h.load(ctx, instance.ID)
	if err != nil || gallery == nil {
		return err
	}
	return h.repo.Delete(ctx, gallery.ID)
}

// ItemView is a gallery image ready for the storefront. Image is nil when the
// upload no longer exists.
type ItemView struct {
	*Item
	Image *catalog.ImageView `json:"image"`
}

func (h *Handler) GetInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"settings":         map[string]any{},
		"gallery":          nil,
		"items":            []ItemView{},
		"description_html": "",
	}
	if instance == nil {
		return data, nil
	}
	data["settings"] = instance.SettingsMap()
	gallery, items, err := h.load(ctx, instance.ID)
	if err != nil || gallery == nil {
		return data, err
	}
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		imageID := item.ImageID
		views = append(views, ItemView{
			Item:  item,
			Image: catalog.ResolveImage(ctx, h.images, h.uploads, &imageID),
		})
	}
	data["gallery"] = gallery
	data["items"] = views
	if strings.TrimSpace(gallery.Description) != "" {
		data["description_html"] = h.markdown.RenderString(gallery.Description)
	}
	return data, nil
}
