package menuscmd_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	menuscmd "github.com/csenitron/teamCMS/internal/commands/menus"
	"github.com/csenitron/teamCMS/internal/menus"
)

type stubPopulator struct {
	calls    int
	category uuid.UUID
	instance uuid.UUID
	err      error
}

func (s *stubPopulator) AutoPopulateSubcategories(_ context.Context, categoryID, moduleInstanceID uuid.UUID) (*menus.AutoPopulateResult, error) {
	s.calls++
	s.category, s.instance = categoryID, moduleInstanceID
	if s.err != nil {
		return nil, s.err
	}
	return &menus.AutoPopulateResult{
		MenuInstanceID: moduleInstanceID,
		Created:        []*menus.MenuItem{{Title: "Boots"}},
		Skipped:        1,
	}, nil
}

func TestAutoPopulateCommandDeliversResult(t *testing.T) {
	populator := &stubPopulator{}
	handler := menuscmd.NewAutoPopulateSubcategoriesHandler(populator, nil)
	category, instance := uuid.New(), uuid.New()

	var result *menus.AutoPopulateResult
	err := handler.Execute(context.Background(), menuscmd.AutoPopulateSubcategoriesCommand{
		CategoryID:     category,
		MenuInstanceID: instance,
		OnResult:       func(r *menus.AutoPopulateResult) { result = r },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if populator.category != category || populator.instance != instance {
		t.Fatalf("unexpected arguments %+v", populator)
	}
	if result == nil || len(result.Created) != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestAutoPopulateCommandValidatesIDs(t *testing.T) {
	populator := &stubPopulator{}
	handler := menuscmd.NewAutoPopulateSubcategoriesHandler(populator, nil)
	err := handler.Execute(context.Background(), menuscmd.AutoPopulateSubcategoriesCommand{CategoryID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if populator.calls != 0 {
		t.Fatal("invalid commands must not reach the menu handler")
	}
}

func TestAutoPopulateCommandWrapsFailures(t *testing.T) {
	handler := menuscmd.NewAutoPopulateSubcategoriesHandler(&stubPopulator{err: menus.ErrMenuInstanceNotFound}, nil)
	err := handler.Execute(context.Background(), menuscmd.AutoPopulateSubcategoriesCommand{CategoryID: uuid.New(), MenuInstanceID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected a command error, got %v", err)
	}
}
