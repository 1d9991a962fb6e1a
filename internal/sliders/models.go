package sliders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Transition is the animation between two slides.
type Transition string

const (
	TransitionSlide Transition = "slide"
	TransitionFade  Transition = "fade"
)

func ParseTransition(value string) Transition {
	if Transition(strings.ToLower(strings.TrimSpace(value))) == TransitionFade {
		return TransitionFade
	}
	return TransitionSlide
}

const (
	DefaultWidth          = 100
	DefaultScrollInterval = 5000
)

// Slider is the SliderModule row of a module instance.
type Slider struct {
	bun.BaseModel `bun:"table:slider_instances,alias:sli"`

	ID               uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ModuleInstanceID uuid.UUID  `bun:"module_instance_id,notnull,unique,type:uuid" json:"module_instance_id"`
	Title            string     `bun:"title,notnull" json:"title"`
	Width            int        `bun:"width,notnull" json:"width"`
	TransitionType   Transition `bun:"transition_type,notnull" json:"transition_type"`
	Status           bool       `bun:"status,notnull" json:"status"`
	ShowArrows       bool       `bun:"show_arrows,notnull" json:"show_arrows"`
	ShowIndicators   bool       `bun:"show_indicators,notnull" json:"show_indicators"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Slide is one picture of a slider. Buttons are loaded separately.
type Slide struct {
	bun.BaseModel `bun:"table:slider_items,alias:sla"`

	ID               uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	SliderID         uuid.UUID  `bun:"slider_id,notnull,type:uuid" json:"slider_id"`
	Position         int        `bun:"position,notnull" json:"position"`
	ImagePCID        *uuid.UUID `bun:"image_pc_id,type:uuid" json:"image_pc_id,omitempty"`
	ImageMobileID    *uuid.UUID `bun:"image_mobile_id,type:uuid" json:"image_mobile_id,omitempty"`
	Title            string     `bun:"title" json:"title"`
	Description      string     `bun:"description" json:"description"`
	TitleColor       string     `bun:"title_color" json:"title_color,omitempty"`
	DescriptionColor string     `bun:"description_color" json:"description_color,omitempty"`
	LinkText         string     `bun:"link_text" json:"link_text,omitempty"`
	LinkURL          string     `bun:"link_url" json:"link_url,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Buttons []*Button `bun:"-" json:"buttons"`
}

// Button is a call to action drawn on a slide.
type Button struct {
	bun.BaseModel `bun:"table:slider_buttons,alias:slb"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	SlideID   uuid.UUID `bun:"slide_id,notnull,type:uuid" json:"slide_id"`
	Text      string    `bun:"text,notnull" json:"text"`
	URL       string    `bun:"url" json:"url,omitempty"`
	BgColor   string    `bun:"bg_color" json:"bg_color,omitempty"`
	TextColor string    `bun:"text_color" json:"text_color,omitempty"`
	Order     int       `bun:"button_order,notnull" json:"order"`
}

func Models() []any {
	return []any{
		(*Slider)(nil),
		(*Slide)(nil),
		(*Button)(nil),
	}
}
