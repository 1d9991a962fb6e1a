package tabs_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/csenitron/teamCMS/internal/tabs"
	"github.com/csenitron/teamCMS/pkg/testsupport"
)

func TestBunRepositoryStoresProductIDs(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := testsupport.NewIsolatedSQLiteDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	for _, model := range tabs.Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}

	repo := tabs.NewBunRepository(db)
	moduleInstanceID := uuid.New()
	instance, err := repo.Save(ctx, &tabs.TabsInstance{ModuleInstanceID: moduleInstanceID, Title: "Tabs"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	picked := []uuid.UUID{uuid.New(), uuid.New()}
	category := uuid.New()
	if err := repo.ReplaceItems(ctx, instance.ID, []*tabs.Item{
		{ID: uuid.New(), Position: 1, TabTitle: "Picked", Mode: tabs.ModeCustom, LimitCount: 8, ProductIDs: picked},
		{ID: uuid.New(), Position: 0, TabTitle: "Category", Mode: tabs.ModeCategory, CategoryID: &category, LimitCount: 4, ProductIDs: []uuid.UUID{}},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	items, err := repo.ListItems(ctx, instance.ID)
	if err != nil || len(items) != 2 {
		t.Fatalf("unexpected items %+v (%v)", items, err)
	}
	if items[0].CategoryID == nil || *items[0].CategoryID != category || items[0].LimitCount != 4 {
		t.Fatalf("unexpected category tab %+v", items[0])
	}
	if len(items[1].ProductIDs) != 2 || items[1].ProductIDs[0] != picked[0] || items[1].ProductIDs[1] != picked[1] {
		t.Fatalf("unexpected product ids %v", items[1].ProductIDs)
	}

	if err := repo.Delete(ctx, instance.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByModuleInstance(ctx, moduleInstanceID); err != tabs.ErrTabsNotFound {
		t.Fatalf("expected ErrTabsNotFound, got %v", err)
	}
}
