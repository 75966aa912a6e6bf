package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PpairNode/LibStock/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := New("not a url")
	assert.Error(t, err)

	_, err = New("/relative/only")
	assert.Error(t, err)
}

func TestErrorNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error": "login required"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsUnauthorized(err))
			},
		},
		{
			name:   "404 not found",
			status: http.StatusNotFound,
			body:   `{"error": "Container not found"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
				assert.Contains(t, err.Error(), "Container not found")
			},
		},
		{
			name:   "403 treated as not found",
			status: http.StatusForbidden,
			body:   `{"error": "Access denied"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name:   "400 validation",
			status: http.StatusBadRequest,
			body:   `{"error": "Invalid item name length"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err))
				assert.Contains(t, err.Error(), "Invalid item name length")
			},
		},
		{
			name:   "413 validation",
			status: http.StatusRequestEntityTooLarge,
			body:   ``,
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err))
			},
		},
		{
			name:   "500 transient",
			status: http.StatusInternalServerError,
			body:   `{"error": "Internal server error"}`,
			check: func(t *testing.T, err error) {
				var te *TransientError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, http.StatusInternalServerError, te.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			_, err := c.ListContainers(context.Background())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestListItems_DecodesWireShape(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/container/c1/items", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"_id":"i1","container_id":"c1","category":"Books","name":"Atlas","value":12.5,"number":2},
			{"_id":"i2","container_id":"c1","category":"Maps","name":"Globe","value":"bad","number":1,"image_path":"x.png"}
		]`)
	}))

	items, err := c.ListItems(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	v, ok := items[0].Value.Float64()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = items[1].Value.Float64()
	assert.False(t, ok, "non-numeric historical value decodes as invalid")
	p, ok := items[1].Image.Path()
	assert.True(t, ok)
	assert.Equal(t, "x.png", p)
}

func TestCreateItem_SubmitShape(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Item added","id":"i9"}`)
	}))

	it := model.Item{
		Name:       "Map",
		CategoryID: "cat1",
		Category:   "Maps",
		Value:      model.NewAmount(10),
		Number:     1,
		Owner:      "ada",
	}
	it.Image = model.ImageUpload("ZGF0YQ==", ".png")

	id, err := c.CreateItem(context.Background(), "c1", it)
	require.NoError(t, err)
	assert.Equal(t, "i9", id)

	// The category reference rides in "category"; server-owned keys are gone.
	assert.Equal(t, "cat1", got["category"])
	assert.NotContains(t, got, "category_id")
	assert.NotContains(t, got, "_id")
	assert.NotContains(t, got, "container_id")
	assert.NotContains(t, got, "date_added")

	// Staged upload excludes any stored path (image_path XOR image_data).
	assert.Equal(t, "ZGF0YQ==", got["image_data"])
	assert.Equal(t, ".png", got["image_extension"])
	assert.NotContains(t, got, "image_path")
}

func TestImport_RendersServerListVerbatim(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "skip", r.FormValue("conflict_strategy"))
		w.WriteHeader(http.StatusCreated)
		// The colliding container "Books" was skipped server-side.
		_, _ = io.WriteString(w, `{
			"message": "Import successful",
			"imported_containers": [
				{"id":"c2","name":"Games","categories_count":3,"items_count":14}
			]
		}`)
	}))

	res, err := c.Import(context.Background(), strings.NewReader(`{"version":"1.0"}`), "export.json", model.StrategySkip)
	require.NoError(t, err)

	want := []model.ImportedContainer{
		{ID: "c2", Name: "Games", CategoriesCount: 3, ItemsCount: 14},
	}
	assert.Equal(t, want, res, "client renders exactly what the server reports")
}

func TestExportPreview(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, []any{"c1"}, in["container_ids"])
		_, _ = io.WriteString(w, `{"containers":[{"id":"c1","name":"Books","categories_count":2,"items_count":5,"total_size_mb":1.25}]}`)
	}))

	rows, err := c.ExportPreview(context.Background(), []string{"c1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.25, rows[0].SizeMB)
}

func TestExport_FilenameFromDisposition(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="libstock_export_20240101.json"`)
		_, _ = io.WriteString(w, `{"version":"1.0","containers":[]}`)
	}))

	name, rc, err := c.Export(context.Background(), []string{"c1"}, true)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "libstock_export_20240101.json", name)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"version":"1.0"`)
}

func TestSessionPersistsAcrossClients(t *testing.T) {
	t.Parallel()

	var lastCookie string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", Path: "/"})
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			lastCookie = c.Value
			_, _ = io.WriteString(w, `{"message":"hi","username":"ada"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"login required"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sessFile := filepath.Join(t.TempDir(), "session.json")

	c1, err := New(srv.URL, WithSessionFile(sessFile))
	require.NoError(t, err)
	require.NoError(t, c1.Login(context.Background(), "ada", "pw"))

	// A fresh client with the same session file is already authenticated.
	c2, err := New(srv.URL, WithSessionFile(sessFile))
	require.NoError(t, err)
	user, err := c2.CheckSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user)
	assert.Equal(t, "tok-1", lastCookie)

	// Logout clears the persisted session.
	_ = c2.Logout(context.Background())
	c3, err := New(srv.URL, WithSessionFile(sessFile))
	require.NoError(t, err)
	_, err = c3.CheckSession(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "cover.png", hdr.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)

		_, _ = io.WriteString(w, `{"image_path": "abc123.png"}`)
	}))

	path, err := c.UploadImage(context.Background(), "cover.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "abc123.png", path)
}

func TestMediaURL(t *testing.T) {
	t.Parallel()

	c, err := New("http://example.test:5000")
	require.NoError(t, err)

	assert.Equal(t, "http://example.test:5000/media/abc.png", c.MediaURL("abc.png"))
	// Legacy records stored full paths; only the filename survives.
	assert.Equal(t, "http://example.test:5000/media/abc.png", c.MediaURL("static/media/abc.png"))
	assert.Equal(t, "", c.MediaURL(""))
}
