package layouts_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/layouts"
)

func TestParseLayoutDefaults(t *testing.T) {
	id := uuid.New()
	raw := `[
		{"columns": [{"moduleInstanceId": "` + id.String() + `"}, {"colIndex": 1, "colWidth": 9}]},
		{"rowIndex": 5, "columns": [{"colIndex": 0, "colWidth": 12, "moduleInstanceId": ""}]}
	]`
	cells, err := layouts.ParseLayout(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	first := cells[0]
	if first.RowIndex != 0 || first.ColIndex != 0 || first.ColWidth != 3 || first.ModuleInstanceID == nil || *first.ModuleInstanceID != id {
		t.Fatalf("unexpected defaults %+v", first)
	}
	if cells[1].ColWidth != 9 || cells[1].ModuleInstanceID != nil {
		t.Fatalf("unexpected second cell %+v", cells[1])
	}
	if cells[2].RowIndex != 5 || cells[2].ColWidth != 12 {
		t.Fatalf("unexpected explicit row %+v", cells[2])
	}
}

func TestParseLayoutBlankIsEmpty(t *testing.T) {
	cells, err := layouts.ParseLayout("   ")
	if err != nil || len(cells) != 0 {
		t.Fatalf("expected empty layout, got %v (%v)", cells, err)
	}
}

func TestParseLayoutRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"rows":`,
		"wide column":   `[{"columns":[{"colWidth":13}]}]`,
		"zero width":    `[{"columns":[{"colWidth":0}]}]`,
		"negative col":  `[{"columns":[{"colIndex":-1}]}]`,
		"negative row":  `[{"rowIndex":-2,"columns":[{}]}]`,
		"bad instance":  `[{"columns":[{"moduleInstanceId":"abc"}]}]`,
		"numeric width": `[{"columns":[{"colWidth":"wide"}]}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := layouts.ParseLayout(raw); !errors.Is(err, layouts.ErrLayoutMalformed) {
				t.Fatalf("expected ErrLayoutMalformed, got %v", err)
			}
		})
	}
}

func TestParseOwnerType(t *testing.T) {
	if owner, err := layouts.ParseOwnerType(" Page "); err != nil || owner != layouts.OwnerPage {
		t.Fatalf("expected page, got %q (%v)", owner, err)
	}
	if _, err := layouts.ParseOwnerType("product"); !errors.Is(err, layouts.ErrUnknownOwnerType) {
		t.Fatalf("expected ErrUnknownOwnerType, got %v", err)
	}
}

func TestParseLayoutEditorFixture(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "editor_layout.json"))
	if err != nil {
		t.Fatalf("read editor payload: %v", err)
	}
	golden, err := os.ReadFile(filepath.Join("testdata", "editor_layout.golden.json"))
	if err != nil {
		t.Fatalf("read golden cells: %v", err)
	}
	var want []layouts.Cell
	if err := json.Unmarshal(golden, &want); err != nil {
		t.Fatalf("decode golden cells: %v", err)
	}

	got, err := layouts.ParseLayout(string(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(got))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.RowIndex != w.RowIndex || g.ColIndex != w.ColIndex || g.ColWidth != w.ColWidth {
			t.Fatalf("cell %d: got (%d,%d,%d) want (%d,%d,%d)", i, g.RowIndex, g.ColIndex, g.ColWidth, w.RowIndex, w.ColIndex, w.ColWidth)
		}
		if (g.ModuleInstanceID == nil) != (w.ModuleInstanceID == nil) {
			t.Fatalf("cell %d: instance presence differs", i)
		}
		if w.ModuleInstanceID != nil && *g.ModuleInstanceID != *w.ModuleInstanceID {
			t.Fatalf("cell %d: got instance %s want %s", i, g.ModuleInstanceID, w.ModuleInstanceID)
		}
	}
}
