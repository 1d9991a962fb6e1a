package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	cms "github.com/csenitron/teamCMS"
	"github.com/csenitron/teamCMS/internal/adapters/storage"
	"github.com/csenitron/teamCMS/internal/di"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("teamcms: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("teamcms", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file (environment only when empty)")
	addr := fs.String("addr", ":8080", "HTTP listen address")
	migrateOnly := fs.Bool("migrate-only", false, "Create the schema, seed module definitions and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := cms.CreateSchema(ctx, db); err != nil {
		return err
	}
	module, err := cms.New(cfg, di.WithBunDB(db))
	if err != nil {
		return fmt.Errorf("build cms: %w", err)
	}
	if err := module.Bootstrap(ctx); err != nil {
		return fmt.Errorf("seed modules: %w", err)
	}
	if *migrateOnly {
		return nil
	}

	handler, err := module.Handler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("teamcms: listening on %s", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadConfig reads path when given and the CMS_* environment otherwise.
// Environment values override the file.
func loadConfig(path string) (cms.Config, error) {
	var cfg cms.Config
	if strings.TrimSpace(path) == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cms.Config{}, fmt.Errorf("read env config: %w", err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cms.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}
