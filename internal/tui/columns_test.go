package tui

import (
	"testing"

	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

func TestVisibleColumnKeysFollowPreferences(t *testing.T) {
	t.Parallel()
	p := &prefs.Prefs{VisibleColumns: []string{"value", "condition"}}

	keys := visibleColumnKeys(p)
	want := []string{"name", "value", "condition"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestBuildRowsMatchColumns(t *testing.T) {
	t.Parallel()
	p := &prefs.Prefs{VisibleColumns: []string{"value", "tags", "number"}}
	var v model.Amount
	if err := v.UnmarshalJSON([]byte("12.5")); err != nil {
		t.Fatal(err)
	}
	items := []model.Item{{
		Name:   "Dune",
		Value:  v,
		Tags:   []string{"sci-fi", "classic"},
		Number: 2,
	}}

	rows := buildRows(items, p)
	if len(rows) != 1 || len(rows[0]) != 4 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "Dune" || rows[0][2] != "sci-fi, classic" || rows[0][3] != "2" {
		t.Fatalf("row = %v", rows[0])
	}
}

func TestBuildColumnsNeverZeroWidth(t *testing.T) {
	t.Parallel()
	p := &prefs.Prefs{}
	for _, width := range []int{0, 10, 80, 200} {
		for _, col := range buildColumns(p, width) {
			if col.Width < 4 {
				t.Fatalf("width %d: column %q got width %d", width, col.Title, col.Width)
			}
		}
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()
	if got := truncateText("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncateText("a longer name", 6); got != "a lon…" {
		t.Fatalf("got %q", got)
	}
	if got := truncateText("x", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
