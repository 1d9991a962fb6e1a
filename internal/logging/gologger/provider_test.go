package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/csenitron/teamCMS/pkg/interfaces"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty"} {
		p, err := NewProvider(Config{Level: "debug", Format: format, Focus: []string{" cms.menus ", ""}})
		if err != nil {
			t.Fatalf("format %q: NewProvider returned error: %v", format, err)
		}

		logger := p.GetLogger("cms.menus")
		fields, ok := logger.(interfaces.FieldsLogger)
		if !ok {
			t.Fatalf("format %q: expected a FieldsLogger, got %T", format, logger)
		}
		child := fields.WithFields(map[string]any{"instance_id": "menu-1"})
		if child == nil {
			t.Fatalf("format %q: expected WithFields to return a logger", format)
		}
		child.Debug("menus.save.completed", "items", 3)
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &recordingLogger{}
	adapted := wrap(stub)

	adapted.Trace("menus.load", "instance_id", "a")
	adapted.Debug("layouts.render")
	adapted.Info("modules.seeded")
	adapted.Warn("layouts.cell.empty")
	adapted.Error("menus.save.failed")
	adapted.Fatal("cms.boot.failed")

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %v", len(wantCalls), stub.calls)
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "request")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
}

func TestAdapterFieldsAreCloned(t *testing.T) {
	stub := &recordingLogger{}
	adapted, ok := wrap(stub).(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("adapter should implement FieldsLogger")
	}

	fields := map[string]any{"module": "slider"}
	if adapted.WithFields(fields) == nil {
		t.Fatal("expected WithFields to return a logger")
	}
	fields["module"] = "banner"
	if len(stub.fields) != 1 || stub.fields[0]["module"] != "slider" {
		t.Fatalf("expected the fields to be cloned before handing off, got %v", stub.fields)
	}

	adapted.WithFields(nil)
	if len(stub.fields) != 1 {
		t.Fatalf("empty fields should not reach the underlying logger, got %d calls", len(stub.fields))
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[string]string{
		"trace":   glog.Trace,
		" DEBUG ": glog.Debug,
		"info":    glog.Info,
		"warning": glog.Warn,
		"error":   glog.Error,
		"fatal":   glog.Fatal,
		"":        "",
		"verbose": "",
	}
	for input, want := range cases {
		if got := levelFor(input); got != want {
			t.Fatalf("levelFor(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("cms.layouts")
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.Info("dropped")
}

type recordingLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*recordingLogger)(nil)
var _ glog.FieldsLogger = (*recordingLogger)(nil)

func (s *recordingLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *recordingLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *recordingLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *recordingLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *recordingLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *recordingLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *recordingLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *recordingLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
