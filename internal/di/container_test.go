package di_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	cachecmd "github.com/csenitron/teamCMS/internal/commands/cache"
	menuscmd "github.com/csenitron/teamCMS/internal/commands/menus"
	"github.com/csenitron/teamCMS/internal/di"
	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/internal/runtimeconfig"
	"github.com/csenitron/teamCMS/pkg/interfaces"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Admin.SessionSecret = "0123456789abcdef0123456789abcdef"
	return cfg
}

func newContainer(t *testing.T, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(testConfig(), opts...)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if err := container.SeedModules(context.Background()); err != nil {
		t.Fatalf("SeedModules: %v", err)
	}
	return container
}

func moduleNamed(t *testing.T, svc modules.Service, name string) *modules.Module {
	t.Helper()
	list, err := svc.ListModules(context.Background())
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	for _, module := range list {
		if module.Name == name {
			return module
		}
	}
	t.Fatalf("module %s not seeded", name)
	return nil
}

func TestContainerRegistersBuiltInModules(t *testing.T) {
	container := newContainer(t)
	names := container.Registry().Names()
	if len(names) != 5 {
		t.Fatalf("expected 5 handlers, got %v", names)
	}
	for _, name := range []string{"MenuModule", "SliderModule", "BannerModule", "GalleryModule", "TabsModule"} {
		moduleNamed(t, container.ModuleService(), name)
	}
	if err := container.SeedModules(context.Background()); err != nil {
		t.Fatalf("seeding twice: %v", err)
	}
	list, _ := container.ModuleService().ListModules(context.Background())
	if len(list) != 5 {
		t.Fatalf("seeding must be idempotent, got %d modules", len(list))
	}
}

func TestContainerRendersALayout(t *testing.T) {
	ctx := context.Background()
	container := newContainer(t)
	gallery := moduleNamed(t, container.ModuleService(), "GalleryModule")

	instance, err := container.ModuleService().SaveInstance(ctx, modules.SaveInstanceRequest{
		ModuleID: gallery.ID,
		Form:     forms.New(url.Values{"title": {"Lookbook"}}),
	})
	if err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}

	owner := layouts.Owner{Type: layouts.OwnerPage, ID: uuid.New()}
	layout := `[{"rowIndex":0,"columns":[{"colIndex":0,"colWidth":12,"moduleInstanceId":"` + instance.ID.String() + `"}]}]`
	if _, err := container.LayoutService().SaveLayout(ctx, owner, layout); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	sections, err := container.LayoutService().Render(ctx, owner)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(sections) != 1 || sections[0].ModuleName != "gallerymodule" || sections[0].Empty() {
		t.Fatalf("unexpected sections %+v", sections)
	}
}

func TestContainerCommands(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryCatalog()
	shoes := store.PutCategory(&catalog.Category{Name: "Shoes", Slug: "shoes"})
	store.PutCategory(&catalog.Category{Name: "Boots", Slug: "boots", ParentID: &shoes.ID})
	container := newContainer(t, di.WithCatalog(store))
	menu := moduleNamed(t, container.ModuleService(), menus.ModuleName)

	instance, err := container.ModuleService().SaveInstance(ctx, modules.SaveInstanceRequest{
		ModuleID: menu.ID,
		Form:     forms.New(url.Values{"menu_title": {"Shop"}}),
	})
	if err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}

	var created int
	err = container.AutoPopulateCommand().Execute(ctx, menuscmd.AutoPopulateSubcategoriesCommand{
		CategoryID:     shoes.ID,
		MenuInstanceID: instance.ID,
		OnResult:       func(r *menus.AutoPopulateResult) { created = len(r.Created) },
	})
	if err != nil || created != 1 {
		t.Fatalf("auto-populate: created %d (%v)", created, err)
	}

	// Memory repositories have no cache to drop.
	if err := container.InvalidateCacheCommand().Execute(ctx, cachecmd.InvalidateCacheCommand{}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func TestContainerUsesTheLoggerProvider(t *testing.T) {
	provider := &recordingProvider{}
	newContainer(t, di.WithLoggerProvider(provider))
	if !provider.has("container.configured") {
		t.Fatalf("expected a container.configured entry, got %v", provider.messages)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := di.NewContainer(cfg); err == nil || !strings.Contains(err.Error(), "logging provider") {
		t.Fatalf("expected a config error, got %v", err)
	}
}

type recordingProvider struct {
	mu       sync.Mutex
	messages []string
}

func (p *recordingProvider) GetLogger(string) interfaces.Logger { return &recordingLogger{p: p} }

func (p *recordingProvider) has(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.messages {
		if m == msg {
			return true
		}
	}
	return false
}

type recordingLogger struct{ p *recordingProvider }

func (l *recordingLogger) record(msg string) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.messages = append(l.p.messages, msg)
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *recordingLogger) WithFields(map[string]any) interfaces.Logger   { return l }
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func TestContainerRollsBackRejectedSavesInMemory(t *testing.T) {
	ctx := context.Background()
	container := newContainer(t)
	svc := container.ModuleService()
	menu := moduleNamed(t, svc, "MenuModule")

	if _, err := svc.SaveInstance(ctx, modules.SaveInstanceRequest{
		ModuleID: menu.ID,
		Form:     forms.FromMap(map[string]string{"menu_title": "Main", "is_main": "on"}),
	}); err != nil {
		t.Fatalf("save main menu: %v", err)
	}

	_, err := svc.SaveInstance(ctx, modules.SaveInstanceRequest{
		ModuleID: menu.ID,
		Form: forms.FromMap(map[string]string{
			"menu_title":            "Broken",
			"is_main":               "on",
			"menu_item_0_title":     "Loop",
			"menu_item_0_parent_id": "index:0",
		}),
	})
	if !errors.Is(err, menus.ErrMenuItemCycle) {
		t.Fatalf("expected ErrMenuItemCycle, got %v", err)
	}

	groups, err := svc.ListInstanceOptions(ctx)
	if err != nil {
		t.Fatalf("ListInstanceOptions: %v", err)
	}
	count := 0
	for _, group := range groups {
		count += len(group.Options)
	}
	if count != 1 {
		t.Fatalf("the rejected save must not leave an instance behind, got %d", count)
	}

	data, err := container.MenuHandler().MenuByLocation(ctx, "main")
	if err != nil {
		t.Fatalf("MenuByLocation: %v", err)
	}
	if data["menu_title"] != "Main" {
		t.Fatalf("the first menu should still be main, got %v", data["menu_title"])
	}
}
