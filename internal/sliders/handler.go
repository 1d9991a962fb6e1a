// Package sliders implements the SliderModule: an image carousel whose slides
// carry their own call-to-action buttons.
package sliders

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

const ModuleName = "SliderModule"

type Option func(*Handler)

func WithLogger(logger interfaces.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithUploadsPath sets the storefront directory slide images are served from.
func WithUploadsPath(path string) Option {
	return func(h *Handler) {
		if path != "" {
			h.uploads = path
		}
	}
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(h *Handler) {
		if gen != nil {
			h.id = gen
		}
	}
}

type Handler struct {
	repo    Repository
	images  catalog.MediaRepository
	uploads string
	logger  interfaces.Logger
	id      func() uuid.UUID
}

var (
	_ modules.InstanceSaver    = (*Handler)(nil)
	_ modules.InstanceLoader   = (*Handler)(nil)
	_ modules.InstanceDeleter  = (*Handler)(nil)
	_ modules.InstanceRenderer = (*Handler)(nil)
)

func NewHandler(repo Repository, images catalog.MediaRepository, opts ...Option) *Handler {
	h := &Handler{
		repo:    repo,
		images:  images,
		uploads: catalog.DefaultUploadsPath,
		logger:  logging.NoOp(),
		id:      uuid.New,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Name() string { return ModuleName }

type slideInput struct {
	Title            string
	Description      string
	TitleColor       string
	DescriptionColor string
	LinkText         string
	LinkURL          string
}

func (in slideInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Length(0, 255)),
		validation.Field(&in.TitleColor, validation.Length(0, 20)),
		validation.Field(&in.DescriptionColor, validation.Length(0, 20)),
		validation.Field(&in.LinkText, validation.Length(0, 255)),
		validation.Field(&in.LinkURL, validation.Length(0, 255)),
	)
}

// SaveInstance stores the slider row and replaces its slides and buttons.
func (h *Handler) SaveInstance(ctx context.Context, req modules.SaveRequest) (*modules.SaveResult, error) {
	form := req.Form
	slides, err := h.parseSlides(form)
	if err != nil {
		return nil, err
	}

	settings := map[string]any{
		"name":            form.String("title", ""),
		"status":          form.Bool("status"),
		"show_arrows":     form.Bool("show_arrows"),
		"show_indicators": form.Bool("show_indicators"),
		"auto_scroll":     form.Bool("auto_scroll"),
		"scroll_interval": positiveOr(form.Int("scroll_interval", DefaultScrollInterval), DefaultScrollInterval),
	}

	slider, err := h.repo.GetByModuleInstance(ctx, req.Instance.ID)
	if err != nil {
		if !errors.Is(err, ErrSliderNotFound) {
			return nil, err
		}
		slider = &Slider{ID: h.id(), ModuleInstanceID: req.Instance.ID}
	}
	slider.Title = form.String("title", "")
	slider.Width = positiveOr(form.Int("width", DefaultWidth), DefaultWidth)
	slider.TransitionType = ParseTransition(form.String("transition_type", ""))
	slider.Status = form.Bool("status")
	slider.ShowArrows = form.Bool("show_arrows")
	slider.ShowIndicators = form.Bool("show_indicators")

	slider, err = h.repo.Save(ctx, slider)
	if err != nil {
		return nil, err
	}
	if err := h.repo.ReplaceSlides(ctx, slider.ID, slides); err != nil {
		return nil, err
	}

	h.logger.Info("sliders.save.completed", "instance_id", req.Instance.ID.String(), "slides", len(slides))
	return &modules.SaveResult{Settings: settings}, nil
}

// parseSlides reads slides[i][field] and slides[i][buttons][j][field].
func (h *Handler) parseSlides(form forms.Form) ([]*Slide, error) {
	entries := form.Collection("slides")
	slides := make([]*Slide, 0, len(entries))
	for i, entry := range entries {
		in := slideInput{
			Title:            entry.String("title", ""),
			Description:      entry.String("description", ""),
			TitleColor:       entry.String("title_color", ""),
			DescriptionColor: entry.String("description_color", ""),
			LinkText:         entry.String("link_text", ""),
			LinkURL:          entry.String("link_url", ""),
		}
		if err := in.Validate(); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("slide %s is invalid", entry.Index)).
				WithTextCode("SLIDER_SLIDE_INVALID")
		}
		slide := &Slide{
			ID:               h.id(),
			Position:         entry.Position(i),
			ImagePCID:        entry.UUID("image_pc_id"),
			ImageMobileID:    entry.UUID("image_mobile_id"),
			Title:            in.Title,
			Description:      in.Description,
			TitleColor:       in.TitleColor,
			DescriptionColor: in.DescriptionColor,
			LinkText:         in.LinkText,
			LinkURL:          in.LinkURL,
			Buttons:          []*Button{},
		}
		for j, button := range entry.Collection("buttons") {
			text, url := button.String("text", ""), button.String("url", "")
			if text == "" && url == "" {
				continue
			}
			slide.Buttons = append(slide.Buttons, &Button{
				ID:        h.id(),
				SlideID:   slide.ID,
				Text:      text,
				URL:       url,
				BgColor:   button.String("bg_color", ""),
				TextColor: button.String("text_color", ""),
				Order:     button.Position(j),
			})
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

func (h *Handler) LoadInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"module_instance": nil,
		"slider":          nil,
		"slides":          []*Slide{},
		"settings":        map[string]any{},
	}
	if instance == nil {
		return data, nil
	}
	data["module_instance"] = instance
	data["settings"] = instance.SettingsMap()

	slider, err := h.repo.GetByModuleInstance(ctx, instance.ID)
	if err != nil {
		if errors.Is(err, ErrSliderNotFound) {
			return data, nil
		}
		return nil, err
	}
	slides, err := h.repo.ListSlides(ctx, slider.ID)
	if err != nil {
		return nil, err
	}
	data["slider"] = slider
	data["slides"] = slides
	return data, nil
}

func (h *Handler) DelInstance(ctx context.Context, instance *modules.ModuleInstance) error {
	slider, err := h.repo.GetByModuleInstance(ctx, instance.ID)
	if err != nil {
		if errors.Is(err, ErrSliderNotFound) {
			return nil
		}
		return err
	}
	return h.repo.Delete(ctx, slider.ID)
}

// SlideView is a slide with its images resolved for the storefront.
type SlideView struct {
	*Slide
	ImagePC     *catalog.ImageView `json:"image_pc"`
	ImageMobile *catalog.ImageView `json:"image_mobile"`
}

func (h *Handler) GetInstanceData(ctx context.Context, instance *modules.ModuleInstance) (modules.Data, error) {
	data := modules.Data{
		"settings": map[string]any{},
		"slider":   nil,
		"slides":   []SlideView{},
	}
	if instance == nil {
		return data, nil
	}
	data["settings"] = instance.SettingsMap()

	slider, err := h.repo.GetByModuleInstance(ctx, instance.ID)
	if err != nil {
		if errors.Is(err, ErrSliderNotFound) {
			return data, nil
		}
		return nil, err
	}
	slides, err := h.repo.ListSlides(ctx, slider.ID)
	if err != nil {
		return nil, err
	}
	views := make([]SlideView, 0, len(slides))
	for _, slide := range slides {
		views = append(views, SlideView{
			Slide:       slide,
			ImagePC:     catalog.ResolveImage(ctx, h.images, h.uploads, slide.ImagePCID),
			ImageMobile: catalog.ResolveImage(ctx, h.images, h.uploads, slide.ImageMobileID),
		})
	}
	data["slider"] = slider
	data["slides"] = views
	return data, nil
}

func positiveOr(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}
