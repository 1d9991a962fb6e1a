package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamcms.yaml")
	body := []byte(`storage:
  driver: sqlite
  dsn: "file:test.db?cache=shared"
cache:
  ttl: 5m
admin:
  base_path: /backoffice
  session_secret: file-secret
menus:
  default_max_depth: 4
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Storage.NormalizedDriver() != "sqlite3" || cfg.Storage.DSN != "file:test.db?cache=shared" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Cache.TTL != 5*time.Minute || !cfg.Cache.Enabled {
		t.Fatalf("unexpected cache %+v", cfg.Cache)
	}
	if cfg.Admin.BasePath != "/backoffice" || cfg.Admin.SessionName != "teamcms_admin" {
		t.Fatalf("unexpected admin %+v", cfg.Admin)
	}
	if cfg.Menus.DefaultMaxDepth != 4 || cfg.Menus.ImagesPath != "/static/uploads" {
		t.Fatalf("unexpected menus %+v", cfg.Menus)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CMS_ADMIN_SESSION_SECRET", "env-secret")
	t.Setenv("CMS_LOG_LEVEL", "debug")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Admin.SessionSecret != "env-secret" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Logging.Provider != "console" || !cfg.Features.SeedModules {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
