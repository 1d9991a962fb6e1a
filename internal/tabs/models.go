package tabs

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	DefaultTitle      = "Tabs"
	DefaultTabTitle   = "Tab"
	DefaultLimitCount = 8
)

// Mode selects where the products of a tab come from.
type Mode string

const (
	ModeCategory Mode = "category"
	ModeCustom   Mode = "custom"
	ModeAll      Mode = "all"
)

// ParseMode falls back to ModeCategory for unknown values.
func ParseMode(raw string) Mode {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ModeCustom, ModeAll:
		return mode
	default:
		return ModeCategory
	}
}

type TabsInstance struct {
	bun.BaseModel `bun:"table:tabs_instances,alias:tbi"`

	ID               uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ModuleInstanceID uuid.UUID `bun:"module_instance_id,notnull,unique,type:uuid" json:"module_instance_id"`
	Title            string    `bun:"title,notnull" json:"title"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Item is one tab. ProductIDs is only used in ModeCustom and is stored as a
// JSON list.
type Item struct {
	bun.BaseModel `bun:"table:tabs_items,alias:tbt"`

	ID             uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	TabsInstanceID uuid.UUID   `bun:"tabs_instance_id,notnull,type:uuid" json:"tabs_instance_id"`
	Position       int         `bun:"position,notnull" json:"position"`
	TabTitle       string      `bun:"tab_title,notnull" json:"tab_title"`
	Mode           Mode        `bun:"mode,notnull" json:"mode"`
	CategoryID     *uuid.UUID  `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	LimitCount     int         `bun:"limit_count,notnull" json:"limit_count"`
	ProductIDs     []uuid.UUID `bun:"product_ids" json:"product_ids"`
	ButtonText     string      `bun:"button_text" json:"button_text"`
}

func Models() []any {
	return []any{(*TabsInstance)(nil), (*Item)(nil)}
}
