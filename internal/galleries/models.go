package galleries

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const DefaultTitle = "My gallery"

// Gallery is the GalleryModule row of a module instance.
type Gallery struct {
	bun.BaseModel `bun:"table:gallery_instances,alias:gli"`

	ID               uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ModuleInstanceID uuid.UUID `bun:"module_instance_id,notnull,unique,type:uuid" json:"module_instance_id"`
	Title            string    `bun:"title,notnull" json:"title"`
	Description      string    `bun:"description" json:"description"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

type Item struct {
	bun.BaseModel `bun:"table:gallery_items,alias:glt"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	GalleryID uuid.UUID `bun:"gallery_id,notnull,type:uuid" json:"gallery_id"`
	Position  int       `bun:"position,notnull" json:"position"`
	ImageID   uuid.UUID `bun:"image_id,notnull,type:uuid" json:"image_id"`
	Caption   string    `bun:"caption" json:"caption"`
}

func Models() []any {
	return []any{(*Gallery)(nil), (*Item)(nil)}
}
