package layouts

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OwnerType names the kind of content a layout belongs to.
type OwnerType string

const (
	OwnerPage OwnerType = "page"
	OwnerPost OwnerType = "post"
)

var ErrUnknownOwnerType = errors.New("layouts: unknown owner type")

// ParseOwnerType accepts "page" or "post" in any case.
func ParseOwnerType(value string) (OwnerType, error) {
	switch OwnerType(strings.ToLower(strings.TrimSpace(value))) {
	case OwnerPage:
		return OwnerPage, nil
	case OwnerPost:
		return OwnerPost, nil
	default:
		return "", ErrUnknownOwnerType
	}
}

// Owner identifies the page or post whose grid is being edited.
type Owner struct {
	Type OwnerType
	ID   uuid.UUID
}

func (o Owner) String() string {
	return string(o.Type) + ":" + o.ID.String()
}

// Cell is one column of one row of an owner's grid.
type Cell struct {
	bun.BaseModel `bun:"table:layout_cells,alias:lc"`

	ID               uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	OwnerType        OwnerType  `bun:"owner_type,notnull" json:"owner_type"`
	OwnerID          uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	RowIndex         int        `bun:"row_index,notnull,default:0" json:"row_index"`
	ColIndex         int        `bun:"col_index,notnull,default:0" json:"col_index"`
	ColWidth         int        `bun:"col_width,notnull,default:3" json:"col_width"`
	ModuleInstanceID *uuid.UUID `bun:"module_instance_id,type:uuid,nullzero" json:"module_instance_id,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (c *Cell) Owner() Owner {
	return Owner{Type: c.OwnerType, ID: c.OwnerID}
}

// Models lists the tables owned by this package.
func Models() []any {
	return []any{(*Cell)(nil)}
}
