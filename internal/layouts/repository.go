package layouts

import (
	"cmp"
	"context"

	"github.com/google/uuid"
)

// CellRepository persists layout cells. Every method joins the transaction
// carried by ctx when there is one.
type CellRepository interface {
	// ReplaceCells deletes every cell of owner and inserts cells.
	ReplaceCells(ctx context.Context, owner Owner, cells []*Cell) ([]*Cell, error)
	// ListCells returns owner's cells ordered by row then column.
	ListCells(ctx context.Context, owner Owner) ([]*Cell, error)
	// DetachInstance clears the instance reference of every cell bound to
	// instanceID and returns how many cells changed.
	DetachInstance(ctx context.Context, instanceID uuid.UUID) (int, error)
}

func compareCells(a, b *Cell) int {
	if c := cmp.Compare(a.RowIndex, b.RowIndex); c != 0 {
		return c
	}
	return cmp.Compare(a.ColIndex, b.ColIndex)
}
