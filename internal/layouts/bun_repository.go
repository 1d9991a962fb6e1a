package layouts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
)

// BunCellRepository stores cells in the layout_cells table.
type BunCellRepository struct {
	db *bun.DB
}

func NewBunCellRepository(db *bun.DB) *BunCellRepository {
	return &BunCellRepository{db: db}
}

func (r *BunCellRepository) ReplaceCells(ctx context.Context, owner Owner, cells []*Cell) ([]*Cell, error) {
	conn := storage.Conn(ctx, r.db)
	_, err := conn.NewDelete().
		Model((*Cell)(nil)).
		Where("owner_type = ?", owner.Type).
		Where("owner_id = ?", owner.ID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout_cells repository error: %w", err)
	}
	if len(cells) == 0 {
		return []*Cell{}, nil
	}
	now := time.Now().UTC()
	for _, cell := range cells {
		if cell.ID == uuid.Nil {
			cell.ID = uuid.New()
		}
		cell.OwnerType = owner.Type
		cell.OwnerID = owner.ID
		cell.CreatedAt = now
		cell.UpdatedAt = now
	}
	if _, err := conn.NewInsert().Model(&cells).Exec(ctx); err != nil {
		return nil, fmt.Errorf("layout_cells repository error: %w", err)
	}
	return cells, nil
}

func (r *BunCellRepository) ListCells(ctx context.Context, owner Owner) ([]*Cell, error) {
	cells := []*Cell{}
	err := storage.Conn(ctx, r.db).NewSelect().
		Model(&cells).
		Where("?TableAlias.owner_type = ?", owner.Type).
		Where("?TableAlias.owner_id = ?", owner.ID).
		OrderExpr("?TableAlias.row_index ASC, ?TableAlias.col_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout_cells repository error: %w", err)
	}
	return cells, nil
}

func (r *BunCellRepository) DetachInstance(ctx context.Context, instanceID uuid.UUID) (int, error) {
	res, err := storage.Conn(ctx, r.db).NewUpdate().
		Model((*Cell)(nil)).
		Set("module_instance_id = NULL").
		Set("updated_at = ?", time.Now().UTC()).
		Where("module_instance_id = ?", instanceID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("layout_cells repository error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}
