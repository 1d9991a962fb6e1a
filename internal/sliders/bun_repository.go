package sliders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
)

type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByModuleInstance(ctx context.Context, moduleInstanceID uuid.UUID) (*Slider, error) {
	slider, err := storage.FindBy[Slider](ctx, r.db, "module_instance_id", moduleInstanceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSliderNotFound
	}
	return slider, wrapError(err)
}

func (r *BunRepository) Save(ctx context.Context, slider *Slider) (*Slider, error) {
	if slider.ID == uuid.Nil {
		slider.ID = uuid.New()
	}
	if err := storage.Upsert(ctx, r.db, slider, "id", "module_instance_id", "created_at"); err != nil {
		return nil, wrapError(err)
	}
	return slider, nil
}

func (r *BunRepository) Delete(ctx context.Context, sliderID uuid.UUID) error {
	if err := r.deleteSlides(ctx, sliderID); err != nil {
		return err
	}
	return wrapError(storage.DeleteBy[Slider](ctx, r.db, "id", sliderID))
}

func (r *BunRepository) ListSlides(ctx context.Context, sliderID uuid.UUID) ([]*Slide, error) {
	slides, err := storage.ListBy[Slide](ctx, r.db, "slider_id", sliderID, "sla.position ASC, sla.id ASC")
	if err != nil || len(slides) == 0 {
		return slides, wrapError(err)
	}
	ids := make([]uuid.UUID, 0, len(slides))
	for _, slide := range slides {
		ids = append(ids, slide.ID)
		slide.Buttons = []*Button{}
	}
	buttons, err := storage.ListIn[Button](ctx, r.db, "slide_id", ids, "slb.button_order ASC")
	if err != nil {
		return nil, wrapError(err)
	}
	bySlide := make(map[uuid.UUID]*Slide, len(slides))
	for _, slide := range slides {
		bySlide[slide.ID] = slide
	}
	for _, button := range buttons {
		if slide := bySlide[button.SlideID]; slide != nil {
			slide.Buttons = append(slide.Buttons, button)
		}
	}
	return slides, nil
}

func (r *BunRepository) ReplaceSlides(ctx context.Context, sliderID uuid.UUID, slides []*Slide) error {
	if err := r.deleteSlides(ctx, sliderID); err != nil {
		return err
	}
	buttons := []*Button{}
	for _, slide := range slides {
		slide.SliderID = sliderID
		for _, button := range slide.Buttons {
			button.SlideID = slide.ID
			buttons = append(buttons, button)
		}
	}
	if err := storage.InsertAll(ctx, r.db, slides); err != nil {
		return wrapError(err)
	}
	return wrapError(storage.InsertAll(ctx, r.db, buttons))
}

func (r *BunRepository) deleteSlides(ctx context.Context, sliderID uuid.UUID) error {
	existing, err := storage.ListBy[Slide](ctx, r.db, "slider_id", sliderID, "")
	if err != nil {
		return wrapError(err)
	}
	if len(existing) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(existing))
	for _, slide := range existing {
		ids = append(ids, slide.ID)
	}
	if err := storage.DeleteIn[Button](ctx, r.db, "slide_id", ids); err != nil {
		return wrapError(err)
	}
	return wrapError(storage.DeleteBy[Slide](ctx, r.db, "slider_id", sliderID))
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("sliders repository error: %w", err)
}
