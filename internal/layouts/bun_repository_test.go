package layouts_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/csenitron/teamCMS/internal/adapters/storage"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/pkg/testsupport"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewIsolatedSQLiteDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, model := range layouts.Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(context.Background()); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	return db
}

func TestBunCellRepositoryReplaceListDetach(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)
	repo := layouts.NewBunCellRepository(db)
	svc := layouts.NewService(repo, stubRenderer{}, layouts.WithTransactor(storage.NewBunTransactor(db)))

	page := layouts.Owner{Type: layouts.OwnerPage, ID: uuid.New()}
	post := layouts.Owner{Type: layouts.OwnerPost, ID: page.ID}
	shared := uuid.New()

	raw := `[{"columns":[{"colIndex":1,"moduleInstanceId":"` + shared.String() + `"},{"colIndex":0,"colWidth":9}]}]`
	if _, err := svc.SaveLayout(ctx, page, raw); err != nil {
		t.Fatalf("save page: %v", err)
	}
	if _, err := svc.SaveLayout(ctx, post, `[{"columns":[{"moduleInstanceId":"`+shared.String()+`"}]}]`); err != nil {
		t.Fatalf("save post: %v", err)
	}
	if _, err := svc.SaveLayout(ctx, page, raw); err != nil {
		t.Fatalf("resave page: %v", err)
	}

	cells, err := svc.ListCells(ctx, page)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cells) != 2 || cells[0].ColIndex != 0 || cells[0].ColWidth != 9 || cells[1].ModuleInstanceID == nil {
		t.Fatalf("unexpected page cells %+v", cells)
	}

	detached, err := svc.DetachInstance(ctx, shared)
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if detached != 2 {
		t.Fatalf("expected 2 detached cells across owners, got %d", detached)
	}
	postCells, _ := svc.ListCells(ctx, post)
	if len(postCells) != 1 || postCells[0].ModuleInstanceID != nil {
		t.Fatalf("expected detached post cell, got %+v", postCells)
	}
}

func TestBunCellRepositoryResaveDropsRemovedRows(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)
	svc := layouts.NewService(layouts.NewBunCellRepository(db), stubRenderer{}, layouts.WithTransactor(storage.NewBunTransactor(db)))

	page := layouts.Owner{Type: layouts.OwnerPage, ID: uuid.New()}
	twoRows := `[
		{"rowIndex":0,"columns":[{"colIndex":0,"colWidth":6},{"colIndex":1,"colWidth":6}]},
		{"rowIndex":1,"columns":[{"colIndex":0,"colWidth":12}]}
	]`
	if _, err := svc.SaveLayout(ctx, page, twoRows); err != nil {
		t.Fatalf("save two rows: %v", err)
	}
	if _, err := svc.SaveLayout(ctx, page, `[{"rowIndex":0,"columns":[{"colIndex":0,"colWidth":4}]}]`); err != nil {
		t.Fatalf("save one row: %v", err)
	}

	cells, err := svc.ListCells(ctx, page)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("expected the second save to replace all cells, got %d", len(cells))
	}
	if cells[0].RowIndex != 0 || cells[0].ColWidth != 4 {
		t.Fatalf("unexpected remaining cell %+v", cells[0])
	}

	stored, err := db.NewSelect().Model((*layouts.Cell)(nil)).
		Where("owner_type = ?", page.Type).
		Where("owner_id = ?", page.ID).
		Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if stored != 1 {
		t.Fatalf("expected 1 stored row for the owner, got %d", stored)
	}
}
