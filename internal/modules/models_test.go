package modules_test

import (
	"testing"

	"github.com/csenitron/teamCMS/internal/modules"
)

func TestJSONObjectScanToleratesBadInput(t *testing.T) {
	cases := []any{nil, "", []byte("not json"), "[1,2]", 42}
	for _, input := range cases {
		var obj modules.JSONObject
		if err := obj.Scan(input); err != nil {
			t.Fatalf("scan %v: %v", input, err)
		}
		if obj == nil || len(obj) != 0 {
			t.Fatalf("expected empty object for %v, got %v", input, obj)
		}
	}

	var obj modules.JSONObject
	_ = obj.Scan(`{"name":"Main"}`)
	if obj["name"] != "Main" {
		t.Fatalf("expected decoded object, got %v", obj)
	}
}

func TestJSONObjectValueOfNil(t *testing.T) {
	var obj modules.JSONObject
	value, err := obj.Value()
	if err != nil || value != "{}" {
		t.Fatalf("expected {} for nil object, got %v (%v)", value, err)
	}
}

func TestModuleRenderName(t *testing.T) {
	module := &modules.Module{Name: "Menu Module"}
	if got := module.RenderName(); got != "menu_module" {
		t.Fatalf("expected menu_module, got %q", got)
	}
}
