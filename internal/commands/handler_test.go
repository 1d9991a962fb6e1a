package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/csenitron/teamCMS/internal/commands"
)

type pingCommand struct {
	Target string
}

func (pingCommand) Type() string { return "cms.test.ping" }

func (c pingCommand) Validate() error {
	if c.Target == "" {
		return errors.New("target required")
	}
	return nil
}

func TestHandlerRunsValidMessages(t *testing.T) {
	var got string
	h := commands.NewHandler(func(_ context.Context, msg pingCommand) error {
		got = msg.Target
		return nil
	})
	if err := h.Execute(context.Background(), pingCommand{Target: "menus"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "menus" {
		t.Fatalf("expected the command to run, got %q", got)
	}
}

func TestHandlerRejectsInvalidMessages(t *testing.T) {
	called := false
	h := commands.NewHandler(func(context.Context, pingCommand) error {
		called = true
		return nil
	})
	err := h.Execute(context.Background(), pingCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if called {
		t.Fatal("invalid messages must not execute")
	}
}

func TestHandlerCategorisesFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := commands.NewHandler(func(context.Context, pingCommand) error { return nil })
	if err := h.Execute(ctx, pingCommand{Target: "x"}); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected a command error for a cancelled context, got %v", err)
	}

	failing := commands.NewHandler(func(context.Context, pingCommand) error { return errors.New("boom") })
	if err := failing.Execute(context.Background(), pingCommand{Target: "x"}); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected a command error, got %v", err)
	}

	slow := commands.NewHandler(func(ctx context.Context, _ pingCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, commands.WithTimeout[pingCommand](10*time.Millisecond))
	if err := slow.Execute(context.Background(), pingCommand{Target: "x"}); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected a timeout error, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	own := goerrors.Wrap(errors.New("bad id"), goerrors.CategoryValidation, "bad id").WithTextCode("MENU_BAD_ID")
	h := commands.NewHandler(func(context.Context, pingCommand) error { return own })
	err := h.Execute(context.Background(), pingCommand{Target: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected the handler's own category, got %v", err)
	}
}

type retriedCommand struct{}

func (retriedCommand) Type() string    { return "cms.test.retried" }
func (retriedCommand) Validate() error { return nil }

func TestHandlerWorksWithDispatcherRetries(t *testing.T) {
	attempts := 0
	h := commands.NewHandler(func(context.Context, retriedCommand) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	}, commands.WithTimeout[retriedCommand](time.Second))

	sub := dispatcher.SubscribeCommand(h, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retriedCommand{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}
}
