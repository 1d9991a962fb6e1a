package galleries_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/galleries"
	"github.com/csenitron/teamCMS/internal/modules"
)

func TestSaveAndRenderGallery(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryCatalog()
	first := store.PutImage(&catalog.Image{Filename: "one.jpg", Alt: "One"})
	second := store.PutImage(&catalog.Image{Filename: "two.jpg"})
	handler := galleries.NewHandler(galleries.NewMemoryRepository(), store)
	instance := &modules.ModuleInstance{ID: uuid.New()}

	result, err := handler.SaveInstance(ctx, modules.SaveRequest{Instance: instance, Created: true, Form: forms.New(url.Values{
		"description":         {"Our *best* work"},
		"images[2][image_id]": {second.ID.String()},
		"images[0][image_id]": {first.ID.String()},
		"images[0][caption]":  {"Front"},
		"images[1][caption]":  {"No image"},
	})})
	if err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}
	if result.Settings["name"] != galleries.DefaultTitle {
		t.Fatalf("expected the default title, got %+v", result.Settings)
	}
	instance.Settings = result.Settings

	data, err := handler.GetInstanceData(ctx, instance)
	if err != nil {
		t.Fatalf("GetInstanceData: %v", err)
	}
	items := data["items"].([]galleries.ItemView)
	if len(items) != 2 || items[0].Caption != "Front" || items[0].Image == nil || items[0].Image.Alt != "One" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[1].Image == nil || items[1].Image.URL != "/static/uploads/two.jpg" {
		t.Fatalf("unexpected second image %+v", items[1].Image)
	}
	if html := data["description_html"].(string); !strings.Contains(html, "<em>best</em>") {
		t.Fatalf("unexpected description html %q", html)
	}
	if data["settings"].(map[string]any)["name"] != galleries.DefaultTitle {
		t.Fatalf("unexpected settings %+v", data["settings"])
	}
}

func TestGalleryDefaultsAndDelete(t *testing.T) {
	ctx := context.Background()
	handler := galleries.NewHandler(galleries.NewMemoryRepository(), nil)

	data, err := handler.GetInstanceData(ctx, nil)
	if err != nil || data["gallery"] != nil || data["description_html"] != "" {
		t.Fatalf("unexpected default data %+v (%v)", data, err)
	}

	instance := &modules.ModuleInstance{ID: uuid.New()}
	if _, err := handler.SaveInstance(ctx, modules.SaveRequest{Instance: instance, Form: forms.New(url.Values{"title": {"Shop"}})}); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}
	loaded, err := handler.LoadInstanceData(ctx, instance)
	if err != nil || loaded["gallery"].(*galleries.Gallery).Title != "Shop" {
		t.Fatalf("unexpected loaded data %+v (%v)", loaded, err)
	}
	if err := handler.DelInstance(ctx, instance); err != nil {
		t.Fatalf("DelInstance: %v", err)
	}
	loaded, _ = handler.LoadInstanceData(ctx, instance)
	if loaded["gallery"] != nil {
		t.Fatalf("expected the gallery to be deleted")
	}
}
