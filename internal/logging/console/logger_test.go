package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/logging"
	"github.com/csenitron/teamCMS/internal/logging/console"
)

func TestConsoleLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 5, 2, 10, 30, 0, 0, time.UTC)
	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-42"})
	logger := provider.GetLogger("cms.menus").
		WithContext(ctx)
	logger = logging.WithFields(logger, map[string]any{"module": "cms.menus"})

	instanceID := uuid.MustParse("2f1f3f45-4df7-4d1f-9f0a-3e1c1e7f6a10")
	logger.Info("menus.save.completed", "instance_id", instanceID, "items", 4)

	got := strings.TrimSpace(buf.String())
	want := "2025-05-02T10:30:00Z INFO menus.save.completed instance_id=2f1f3f45-4df7-4d1f-9f0a-3e1c1e7f6a10 items=4 logger=cms.menus module=cms.menus request_id=req-42"
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("cms.layouts").Warn("layouts.cell.failed", "error", errors.New("handler blew up"))

	if !strings.Contains(buf.String(), `error="handler blew up"`) {
		t.Fatalf("expected quoted error, got %s", buf.String())
	}
}

func TestConsoleLoggerFiltersBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.ParseLevel("warn")
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("cms.test")
	logger.Info("dropped")
	logger.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "kept") {
		t.Fatalf("expected only the error entry, got %q", buf.String())
	}
}
