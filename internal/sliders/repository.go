package sliders

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSliderNotFound is returned when a module instance has no slider row.
var ErrSliderNotFound = errors.New("sliders: slider not found")

// Repository persists sliders. Every method joins the transaction carried by ctx.
type Repository interface {
	GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Slider, error)
	// Save inserts or updates slider by id.
	Save(ctx context.Context, slider *Slider) (*Slider, error)
	Delete(ctx context.Context, sliderID uuid.UUID) error
	// ListSlides returns the slides ordered by position, buttons included.
	ListSlides(ctx context.Context, sliderID uuid.UUID) ([]*Slide, error)
	// ReplaceSlides drops every slide and button of the slider and stores slides.
	ReplaceSlides(ctx context.Context, sliderID uuid.UUID, slides []*Slide) error
}
