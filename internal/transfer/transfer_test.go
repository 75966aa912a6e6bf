package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/model"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL, api.WithSessionFile(filepath.Join(t.TempDir(), "session.json")))
	require.NoError(t, err)
	return c
}

func validArchive(t *testing.T, dir string) string {
	t.Helper()
	doc := model.ExportDocument{
		Version:    model.ExportVersion,
		ExportDate: "2026-08-30T10:00:00",
		Containers: []model.ExportContainer{{
			TempID: "t1",
			Name:   "Shelf",
			Categories: []model.ExportCategory{{TempID: "c1", Name: "Books"}},
			Items: []model.ExportItem{{CategoryTempID: "c1", Name: "Dune"}},
		}},
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "archive.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestExportSelectionToggle(t *testing.T) {
	t.Parallel()
	var sel ExportSelection
	sel.Toggle("a")
	sel.Toggle("b")
	sel.Toggle("a")
	assert.Equal(t, []string{"b"}, sel.IDs())
	assert.True(t, sel.Has("b"))
	assert.False(t, sel.Has("a"))

	sel.SelectAll([]model.Container{{ID: "x"}, {ID: "y"}})
	assert.Equal(t, []string{"x", "y"}, sel.IDs())
	sel.Clear()
	assert.Empty(t, sel.IDs())
}

func TestPreviewerKeepsLastGoodPreviewOnFailure(t *testing.T) {
	t.Parallel()
	fail := false
	mux := http.NewServeMux()
	mux.HandleFunc("/export/preview", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, `{"error":"overloaded"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"containers": []model.ExportPreviewEntry{
			{ID: "a", Name: "Shelf", CategoriesCount: 2, ItemsCount: 10, SizeMB: 1.5},
			{ID: "b", Name: "Attic", CategoriesCount: 1, ItemsCount: 4, SizeMB: 0.5},
		}})
	})

	p := NewPreviewer(newClient(t, mux), nil)
	sel := &ExportSelection{}
	sel.Toggle("a")
	sel.Toggle("b")

	require.NoError(t, p.Load(context.Background(), sel))
	require.Len(t, p.Entries(), 2)
	assert.InDelta(t, 2.0, p.TotalSizeMB(), 1e-9)

	fail = true
	err := p.Load(context.Background(), sel)
	require.Error(t, err)
	assert.Len(t, p.Entries(), 2, "failed refresh must keep the previous preview")
}

func TestPreviewerEmptySelectionSkipsServer(t *testing.T) {
	t.Parallel()
	p := NewPreviewer(newClient(t, http.NewServeMux()), nil)
	require.NoError(t, p.Load(context.Background(), &ExportSelection{}))
	assert.Empty(t, p.Entries())
}

func TestExporterWritesServerNamedFile(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/export/containers", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ContainerIDs  []string `json:"container_ids"`
			IncludeImages bool     `json:"include_images"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, []string{"a"}, in.ContainerIDs)
		assert.True(t, in.IncludeImages)
		w.Header().Set("Content-Disposition", `attachment; filename="libstock_export_2026-08-30.json"`)
		w.Write([]byte(`{"version":"1.0","containers":[]}`))
	})

	e := NewExporter(newClient(t, mux), nil)
	sel := &ExportSelection{IncludeImages: true}
	sel.Toggle("a")

	dir := t.TempDir()
	path, err := e.Run(context.Background(), sel, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "libstock_export_2026-08-30.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0","containers":[]}`, string(data))
}

func TestExporterDefaultFilenameFromClock(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/export/containers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	e := NewExporter(newClient(t, mux), nil)
	e.Now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	sel := &ExportSelection{}
	sel.Toggle("a")

	path, err := e.Run(context.Background(), sel, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "libstock_export_2026-09-01.json", filepath.Base(path))
}

func TestExporterRejectsEmptySelection(t *testing.T) {
	t.Parallel()
	e := NewExporter(newClient(t, http.NewServeMux()), nil)
	_, err := e.Run(context.Background(), &ExportSelection{}, t.TempDir())
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestReadExportDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	doc, err := ReadExportDocument(validArchive(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "Shelf", doc.Containers[0].Name)

	bad := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"hello":"world"}`), 0o644))
	_, err = ReadExportDocument(bad)
	assert.ErrorIs(t, err, ErrNotExportArchive)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version":"9.0","containers":[]}`), 0o644))
	_, err = ReadExportDocument(future)
	assert.ErrorIs(t, err, ErrArchiveVersion)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o644))
	_, err = ReadExportDocument(garbage)
	assert.ErrorIs(t, err, ErrNotExportArchive)
}

func TestImporterUploadsArchiveWithStrategy(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/import/containers", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "rename", r.FormValue("conflict_strategy"))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "archive.json", header.Filename)
		json.NewEncoder(w).Encode(map[string]any{"imported_containers": []model.ImportedContainer{
			{ID: "new1", Name: "Shelf (1)", CategoriesCount: 1, ItemsCount: 1},
		}})
	})

	im := NewImporter(newClient(t, mux), nil)
	rows, err := im.Run(context.Background(), validArchive(t, t.TempDir()), model.StrategyRename)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Shelf (1)", rows[0].Name)
}

func TestImporterRejectsBadArchiveBeforeUpload(t *testing.T) {
	t.Parallel()
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/import/containers", func(w http.ResponseWriter, r *http.Request) { called = true })

	im := NewImporter(newClient(t, mux), nil)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[]`), 0o644))
	_, err := im.Run(context.Background(), bad, model.StrategySkip)
	assert.ErrorIs(t, err, ErrNotExportArchive)
	assert.False(t, called, "invalid archive must not reach the server")
}
