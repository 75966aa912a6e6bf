package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PpairNode/LibStock/internal/model"
)

// Client is the gateway to the LibStock server. It is a thin request/response
// boundary: it normalizes errors into the taxonomy of errors.go and performs
// no retries, caching or local state beyond the session cookie.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
	sess *sessionStore
}

type Option func(*Client)

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithSessionFile persists the session cookie across invocations so separate
// CLI runs share one login.
func WithSessionFile(path string) Option {
	return func(c *Client) { c.sess = &sessionStore{path: path} }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: scheme and host required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sess != nil {
		if cookies := c.sess.load(); len(cookies) > 0 {
			c.http.Jar.SetCookies(c.base, cookies)
		}
	}
	return c, nil
}

func (c *Client) endpoint(p string) string {
	return c.base.String() + p
}

// do performs a JSON round trip. kind names the addressed entity for
// not-found normalization (e.g. "container").
func (c *Client) do(ctx context.Context, method, path string, in, out any, kind string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp, kind)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransientError{Status: resp.StatusCode, Message: "malformed server response: " + err.Error()}
	}
	return nil
}

// normalizeError maps a non-2xx response to exactly one taxonomy error.
// 403 is folded into not-found: an inaccessible container is as gone as a
// deleted one from the client's point of view.
func normalizeError(resp *http.Response, kind string) error {
	msg := serverMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden, http.StatusNotFound:
		return &NotFoundError{Kind: kind, Message: msg}
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return &ValidationError{Message: msg}
	default:
		return &TransientError{Status: resp.StatusCode, Message: msg}
	}
}

func serverMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

// Auth. The core consumes the session only as an authenticated/anonymous
// signal; credentials are never stored.

func (c *Client) Login(ctx context.Context, username, password string) error {
	in := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", in, nil, "user"); err != nil {
		return err
	}
	if c.sess != nil {
		if err := c.sess.save(c.http.Jar.Cookies(c.base)); err != nil {
			c.log.Warn("failed to persist session", "error", err)
		}
	}
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil, "user")
	if c.sess != nil {
		c.sess.clear()
	}
	return err
}

// CheckSession probes the authenticated landing endpoint and returns the
// session's username.
func (c *Client) CheckSession(ctx context.Context) (string, error) {
	var out struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &out, "session"); err != nil {
		return "", err
	}
	return out.Username, nil
}

// Containers.

func (c *Client) ListContainers(ctx context.Context) ([]model.Container, error) {
	var out []model.Container
	if err := c.do(ctx, http.MethodGet, "/containers", nil, &out, "container"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateContainer(ctx context.Context, name string) (model.Container, error) {
	var out struct {
		ID string `json:"id"`
	}
	in := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/container/add", in, &out, "container"); err != nil {
		return model.Container{}, err
	}
	return model.Container{ID: out.ID, Name: name}, nil
}

func (c *Client) RenameContainer(ctx context.Context, id, name string) error {
	in := map[string]string{"name": name}
	return c.do(ctx, http.MethodPost, "/container/update/"+id, in, nil, "container")
}

// DeleteContainer removes a container; the server cascades to its categories
// and items, so callers must drop any local references immediately.
func (c *Client) DeleteContainer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/container/delete/"+id, nil, nil, "container")
}

// Categories.

func (c *Client) ListCategories(ctx context.Context, containerID string) ([]model.Category, error) {
	var out []model.Category
	if err := c.do(ctx, http.MethodGet, "/container/"+containerID+"/categories", nil, &out, "container"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, containerID, name string) (model.Category, error) {
	var out struct {
		ID string `json:"id"`
	}
	in := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/container/"+containerID+"/category/add", in, &out, "category"); err != nil {
		return model.Category{}, err
	}
	return model.Category{ID: out.ID, Name: name, ContainerID: containerID}, nil
}

func (c *Client) RenameCategory(ctx context.Context, containerID, id, name string) error {
	in := map[string]string{"name": name}
	return c.do(ctx, http.MethodPost, "/container/"+containerID+"/category/update/"+id, in, nil, "category")
}

func (c *Client) DeleteCategory(ctx context.Context, containerID, id string) error {
	return c.do(ctx, http.MethodDelete, "/container/"+containerID+"/category/delete/"+id, nil, nil, "category")
}

// Items.

func (c *Client) ListItems(ctx context.Context, containerID string) ([]model.Item, error) {
	var out []model.Item
	if err := c.do(ctx, http.MethodGet, "/container/"+containerID+"/items", nil, &out, "container"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetItem(ctx context.Context, containerID, itemID string) (model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodGet, "/container/"+containerID+"/item/update/"+itemID, nil, &out, "item"); err != nil {
		return model.Item{}, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, containerID string, it model.Item) (string, error) {
	body, err := submitBody(it)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/container/"+containerID+"/item/add", body, &out, "item"); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) UpdateItem(ctx context.Context, containerID, itemID string, it model.Item) error {
	body, err := submitBody(it)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/container/"+containerID+"/item/update/"+itemID, body, nil, "item")
}

func (c *Client) DeleteItem(ctx context.Context, containerID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/container/"+containerID+"/item/delete/"+itemID, nil, nil, "item")
}

// submitBody reshapes an item for submission: the API takes the category
// reference in the "category" field, and server-owned fields are dropped.
func submitBody(it model.Item) (map[string]any, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["category"] = it.CategoryID
	delete(m, "category_id")
	delete(m, "_id")
	delete(m, "container_id")
	delete(m, "date_added")
	return m, nil
}

// Media.

// UploadImage uploads a staged image file and returns the stored image path.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload/image"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransientError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", normalizeError(resp, "image")
	}
	var out struct {
		ImagePath string `json:"image_path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransientError{Status: resp.StatusCode, Message: "malformed server response: " + err.Error()}
	}
	return out.ImagePath, nil
}

func (c *Client) MediaURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	// Stored paths are flat filenames; keep only the last segment.
	if i := strings.LastIndex(imagePath, "/"); i >= 0 {
		imagePath = imagePath[i+1:]
	}
	return c.endpoint("/media/" + imagePath)
}

// Bulk export/import.

func (c *Client) ExportPreview(ctx context.Context, containerIDs []string) ([]model.ExportPreviewEntry, error) {
	in := map[string]any{"container_ids": containerIDs}
	var out struct {
		Containers []model.ExportPreviewEntry `json:"containers"`
	}
	if err := c.do(ctx, http.MethodPost, "/export/preview", in, &out, "container"); err != nil {
		return nil, err
	}
	return out.Containers, nil
}

// Export requests the archive download. The returned reader streams the
// archive body; the caller must close it. filename is the server-suggested
// name, empty when the server sent none.
func (c *Client) Export(ctx context.Context, containerIDs []string, includeImages bool) (filename string, rc io.ReadCloser, err error) {
	in := map[string]any{
		"container_ids":  containerIDs,
		"include_images": includeImages,
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/export/containers"), bytes.NewReader(b))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, &TransientError{Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return "", nil, normalizeError(resp, "container")
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	return filename, resp.Body, nil
}

// Import uploads an export archive with the chosen conflict strategy and
// returns the server's per-container result summary verbatim.
func (c *Client) Import(ctx context.Context, archive io.Reader, filename string, strategy model.ImportStrategy) ([]model.ImportedContainer, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, archive); err != nil {
		return nil, err
	}
	if err := mw.WriteField("conflict_strategy", string(strategy)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/import/containers"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, normalizeError(resp, "archive")
	}
	var out struct {
		ImportedContainers []model.ImportedContainer `json:"imported_containers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransientError{Status: resp.StatusCode, Message: "malformed server response: " + err.Error()}
	}
	return out.ImportedContainers, nil
}
