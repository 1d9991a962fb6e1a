package banners

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	DefaultCardsInRow     = 3
	DefaultScrollInterval = 5000
)

// Banner is the BannerModule row of a module instance.
type Banner struct {
	bun.BaseModel `bun:"table:banner_instances,alias:bni"`

	ID               uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ModuleInstanceID uuid.UUID `bun:"module_instance_id,notnull,unique,type:uuid" json:"module_instance_id"`
	Title            string    `bun:"title,notnull" json:"title"`
	CardsInRow       int       `bun:"cards_in_row,notnull" json:"cards_in_row"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Item is one card of a banner.
type Item struct {
	bun.BaseModel `bun:"table:banner_items,alias:bnt"`

	ID                uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	BannerID          uuid.UUID  `bun:"banner_id,notnull,type:uuid" json:"banner_id"`
	Position          int        `bun:"position,notnull" json:"position"`
	BackgroundImageID *uuid.UUID `bun:"background_image_id,type:uuid" json:"background_image_id,omitempty"`
	Text              string     `bun:"text" json:"text"`
	LinkText          string     `bun:"link_text" json:"link_text"`
	LinkURL           string     `bun:"link_url" json:"link_url"`
}

func Models() []any {
	return []any{(*Banner)(nil), (*Item)(nil)}
}
