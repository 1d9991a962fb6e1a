package cms

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/csenitron/teamCMS/internal/banners"
	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/galleries"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/internal/sliders"
	"github.com/csenitron/teamCMS/internal/tabs"
)

// Models lists every bun model persisted by the CMS in creation order.
func Models() []any {
	groups := [][]any{
		catalog.Models(),
		modules.Models(),
		layouts.Models(),
		menus.Models(),
		sliders.Models(),
		banners.Models(),
		galleries.Models(),
		tabs.Models(),
	}
	var out []any
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

// CreateSchema creates the missing tables. Existing tables are left as they
// are; column changes need a migration.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("cms: schema needs a database")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("cms: create table for %T: %w", model, err)
		}
	}
	return nil
}
