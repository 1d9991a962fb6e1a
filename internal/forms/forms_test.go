package forms_test

import (
	"net/url"
	"testing"

	"github.com/csenitron/teamCMS/internal/forms"
)

func TestCollectionOrdersByNumericIndex(t *testing.T) {
	values := url.Values{}
	values.Set("slides[10][title]", "tenth")
	values.Set("slides[2][title]", "second")
	values.Set("slides[0][title]", "first")
	values.Set("other[0][title]", "ignored")

	entries := forms.New(values).Collection("slides")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"first", "second", "tenth"}
	for i, entry := range entries {
		if got := entry.String("title", ""); got != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got)
		}
	}
	if entries[2].Position(-1) != 10 {
		t.Fatalf("expected position 10, got %d", entries[2].Position(-1))
	}
}

func TestNestedCollectionsAndLists(t *testing.T) {
	values := url.Values{}
	values.Set("slides[0][buttons][1][text]", "Second")
	values.Set("slides[0][buttons][0][text]", "First")
	values.Set("slides[0][buttons][0][bg_color]", "#000")
	values["tabs[0][product_ids][]"] = []string{"a", " ", "b"}

	form := forms.New(values)
	buttons := form.Collection("slides")[0].Collection("buttons")
	if len(buttons) != 2 || buttons[0].String("text", "") != "First" || buttons[1].String("text", "") != "Second" {
		t.Fatalf("unexpected buttons %+v", buttons)
	}
	if buttons[0].String("bg_color", "") != "#000" {
		t.Fatalf("expected bg_color to be parsed")
	}

	ids := form.Collection("tabs")[0].List("product_ids")
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("expected blank ids to be dropped, got %v", ids)
	}
}

func TestScalarHelpers(t *testing.T) {
	form := forms.FromMap(map[string]string{
		"max_depth":   "x",
		"show_icons":  "on",
		"target_id":   "not-a-uuid",
		"menu_title":  "  Main  ",
		"empty_field": " ",
	})

	if got := form.Int("max_depth", 3); got != 3 {
		t.Fatalf("expected default for malformed int, got %d", got)
	}
	if !form.Bool("show_icons") || form.Bool("missing") {
		t.Fatal("unexpected checkbox parsing")
	}
	if form.UUID("target_id") != nil {
		t.Fatal("expected malformed uuid to be nil")
	}
	if form.String("menu_title", "") != "Main" {
		t.Fatalf("expected trimmed title, got %q", form.String("menu_title", ""))
	}
	if form.String("empty_field", "fallback") != "fallback" {
		t.Fatal("expected blank value to use default")
	}
}

func TestMalformedKeysAreIgnored(t *testing.T) {
	values := url.Values{}
	values.Set("images[0][caption", "broken")
	values.Set("images[1][caption]", "ok")

	entries := forms.New(values).Collection("images")
	if len(entries) != 1 || entries[0].Index != "1" {
		t.Fatalf("expected only the well formed entry, got %+v", entries)
	}
}
