package cms_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	cms "github.com/csenitron/teamCMS"
	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/di"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/pkg/testsupport"
)

func newDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewIsolatedSQLiteDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := cms.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return db
}

func testConfig() cms.Config {
	cfg := cms.DefaultConfig()
	cfg.Admin.SessionSecret = "0123456789abcdef0123456789abcdef"
	return cfg
}

func serve(t *testing.T, handler http.Handler, method, path string, form url.Values, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected %d got %d (%s)", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func moduleByName(t *testing.T, module *cms.Module, name string) *modules.Module {
	t.Helper()
	list, err := module.Modules().ListModules(context.Background())
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	for _, item := range list {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("module %s missing", name)
	return nil
}

func TestCMSOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	shoes := &catalog.Category{ID: uuid.New(), Name: "Shoes", Slug: "shoes"}
	boots := &catalog.Category{ID: uuid.New(), Name: "Boots", Slug: "boots", ParentID: &shoes.ID}
	for _, category := range []*catalog.Category{shoes, boots} {
		if _, err := db.NewInsert().Model(category).Exec(ctx); err != nil {
			t.Fatalf("insert category: %v", err)
		}
	}

	module, err := cms.New(testConfig(), di.WithBunDB(db))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := module.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}

	menu := moduleByName(t, module, "MenuModule")
	rec := serve(t, handler, http.MethodPost, "/admin/modules/"+menu.ID.String()+"/instance",
		url.Values{"menu_title": {"Shop"}, "is_main": {"1"}}, http.StatusSeeOther)
	location := rec.Header().Get("Location")
	menuInstanceID := location[strings.LastIndex(location, "/")+1:]

	rec = serve(t, handler, http.MethodPost, "/admin/menus/"+menuInstanceID+"/subcategories",
		url.Values{"category_id": {shoes.ID.String()}}, http.StatusOK)
	var populated struct {
		Created []map[string]any `json:"created"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &populated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(populated.Created) != 1 || populated.Created[0]["title"] != "Boots" {
		t.Fatalf("unexpected auto-populate result %s", rec.Body.String())
	}

	rec = serve(t, handler, http.MethodGet, "/menus/main", nil, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"Boots"`) {
		t.Fatalf("expected the populated item in the main menu, got %s", rec.Body.String())
	}

	pageID := uuid.NewString()
	layout := `[{"rowIndex":0,"columns":[{"colIndex":0,"colWidth":12,"moduleInstanceId":"` + menuInstanceID + `"}]}]`
	serve(t, handler, http.MethodPost, "/admin/layouts/page/"+pageID, url.Values{"layout_json": {layout}}, http.StatusSeeOther)

	rec = serve(t, handler, http.MethodGet, "/layouts/page/"+pageID, nil, http.StatusOK)
	var page struct {
		Sections []map[string]any `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Sections) != 1 || page.Sections[0]["module_name"] != "menumodule" {
		t.Fatalf("unexpected sections %s", rec.Body.String())
	}

	serve(t, handler, http.MethodPost, "/admin/cache/invalidate", url.Values{}, http.StatusNoContent)

	serve(t, handler, http.MethodPost, location+"/delete", url.Values{}, http.StatusSeeOther)
	rec = serve(t, handler, http.MethodGet, "/layouts/page/"+pageID, nil, http.StatusOK)
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Sections) != 1 || page.Sections[0]["empty"] != true {
		t.Fatalf("deleting an instance should leave an empty cell, got %s", rec.Body.String())
	}
}

func TestCMSFeatureToggles(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Admin = false
	cfg.Features.SeedModules = false

	module, err := cms.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := module.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	list, err := module.Modules().ListModules(context.Background())
	if err != nil || len(list) != 0 {
		t.Fatalf("seeding disabled, got %d modules (%v)", len(list), err)
	}

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	serve(t, handler, http.MethodGet, "/admin/modules", nil, http.StatusNotFound)
	serve(t, handler, http.MethodGet, "/menus/main", nil, http.StatusNotFound)
}

func TestCMSRejectsMissingSessionSecret(t *testing.T) {
	_, err := cms.New(cms.DefaultConfig())
	if !errors.Is(err, cms.ErrSessionSecretRequired) {
		t.Fatalf("expected ErrSessionSecretRequired, got %v", err)
	}
}
