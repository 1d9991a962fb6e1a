package sliders

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	sliders map[uuid.UUID]*Slider
	slides  map[uuid.UUID][]*Slide
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		sliders: map[uuid.UUID]*Slider{},
		slides:  map[uuid.UUID][]*Slide{},
	}
}

func (m *memoryRepository) GetByModuleInstance(_ context.Context, moduleInstanceID uuid.UUID) (*Slider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, slider := range m.sliders {
		if slider.ModuleInstanceID == moduleInstanceID {
			copied := *slider
			return &copied, nil
		}
	}
	return nil, ErrSliderNotFound
}

func (m *memoryRepository) Save(_ context.Context, slider *Slider) (*Slider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *slider
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.sliders[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m *memoryRepository) Delete(_ context.Context, sliderID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sliders, sliderID)
	delete(m.slides, sliderID)
	return nil
}

func (m *memoryRepository) ListSlides(_ context.Context, sliderID uuid.UUID) ([]*Slide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := cloneSlides(m.slides[sliderID])
	slices.SortStableFunc(out, func(a, b *Slide) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}

func (m *memoryRepository) ReplaceSlides(_ context.Context, sliderID uuid.UUID, slides []*Slide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := cloneSlides(slides)
	for _, slide := range stored {
		slide.SliderID = sliderID
		for _, button := range slide.Buttons {
			button.SlideID = slide.ID
		}
	}
	m.slides[sliderID] = stored
	return nil
}

// Snapshot implements storage.Snapshotter.
func (m *memoryRepository) Snapshot() func() {
	m.mu.RLock()
	sliders := make(map[uuid.UUID]*Slider, len(m.sliders))
	for id, slider := range m.sliders {
		copied := *slider
		sliders[id] = &copied
	}
	slides := make(map[uuid.UUID][]*Slide, len(m.slides))
	for id, stored := range m.slides {
		slides[id] = cloneSlides(stored)
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.sliders, m.slides = sliders, slides
		m.mu.Unlock()
	}
}

func cloneSlides(slides []*Slide) []*Slide {
	out := make([]*Slide, 0, len(slides))
	for _, slide := range slides {
		copied := *slide
		copied.Buttons = make([]*Button, 0, len(slide.Buttons))
		for _, button := range slide.Buttons {
			b := *button
			copied.Buttons = append(copied.Buttons, &b)
		}
		out = append(out, &copied)
	}
	return out
}
