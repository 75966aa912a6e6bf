// Package transfer drives container export and import against the server.
// The server owns the archive format and all conflict resolution; this side
// selects containers, sanity-checks archives before upload, and lands export
// files on disk without leaving partial writes behind.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/model"
)

var (
	ErrNoSelection      = errors.New("no containers selected")
	ErrNotExportArchive = errors.New("file is not an export archive")
	ErrArchiveVersion   = errors.New("unsupported archive version")
)

// ExportSelection tracks which containers an export will include and whether
// image payloads travel with it.
type ExportSelection struct {
	ids           []string
	IncludeImages bool
}

func (s *ExportSelection) IDs() []string { return s.ids }

func (s *ExportSelection) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle flips one container in or out of the selection, keeping selection
// order stable for the ones that stay.
func (s *ExportSelection) Toggle(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

func (s *ExportSelection) SelectAll(containers []model.Container) {
	s.ids = s.ids[:0]
	for _, c := range containers {
		s.ids = append(s.ids, c.ID)
	}
}

func (s *ExportSelection) Clear() { s.ids = nil }

// Previewer fetches server-side size estimates for the current selection.
// A failed refresh keeps the previous preview on screen alongside the error
// instead of blanking it.
type Previewer struct {
	client  *api.Client
	log     *slog.Logger
	entries []model.ExportPreviewEntry
}

func NewPreviewer(client *api.Client, log *slog.Logger) *Previewer {
	if log == nil {
		log = slog.Default()
	}
	return &Previewer{client: client, log: log}
}

func (p *Previewer) Entries() []model.ExportPreviewEntry { return p.entries }

// TotalSizeMB sums the server-reported estimates of the current preview.
func (p *Previewer) TotalSizeMB() float64 {
	var total float64
	for _, e := range p.entries {
		total += e.SizeMB
	}
	return total
}

func (p *Previewer) Load(ctx context.Context, sel *ExportSelection) error {
	if len(sel.IDs()) == 0 {
		p.entries = nil
		return nil
	}
	entries, err := p.client.ExportPreview(ctx, sel.IDs())
	if err != nil {
		p.log.Warn("export preview refresh failed", "error", err)
		return err
	}
	p.entries = entries
	return nil
}

// Exporter downloads an archive for a selection and writes it to a local
// file.
type Exporter struct {
	client *api.Client
	log    *slog.Logger

	// Now is the clock used for default filenames; tests pin it.
	Now func() time.Time
}

func NewExporter(client *api.Client, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{client: client, log: log, Now: time.Now}
}

// Run exports the selection into dir and returns the written path. The
// server's suggested filename wins when present; a failed download removes
// the partial file.
func (e *Exporter) Run(ctx context.Context, sel *ExportSelection, dir string) (string, error) {
	if len(sel.IDs()) == 0 {
		return "", ErrNoSelection
	}

	name, body, err := e.client.Export(ctx, sel.IDs(), sel.IncludeImages)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if name == "" {
		name = fmt.Sprintf("libstock_export_%s.json", e.Now().Format("2006-01-02"))
	}
	path := filepath.Join(dir, filepath.Base(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write export file: %w", err)
	}

	e.log.Info("export written", "path", path, "bytes", written, "containers", len(sel.IDs()))
	return path, nil
}

// ReadExportDocument parses and sanity-checks a local archive. It guards
// against uploading arbitrary JSON, not against a hostile file; the server
// re-validates everything.
func ReadExportDocument(path string) (*model.ExportDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	var doc model.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotExportArchive, err)
	}
	if doc.Version == "" || doc.Containers == nil {
		return nil, ErrNotExportArchive
	}
	if doc.Version != model.ExportVersion {
		return nil, fmt.Errorf("%w: %q", ErrArchiveVersion, doc.Version)
	}
	return &doc, nil
}

// Importer uploads a local archive and reports the server's result summary.
type Importer struct {
	client *api.Client
	log    *slog.Logger
}

func NewImporter(client *api.Client, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{client: client, log: log}
}

// Run checks the archive locally, then hands it to the server with the
// chosen conflict strategy. The returned rows come verbatim from the server,
// including names it rewrote for rename conflicts.
func (im *Importer) Run(ctx context.Context, path string, strategy model.ImportStrategy) ([]model.ImportedContainer, error) {
	doc, err := ReadExportDocument(path)
	if err != nil {
		return nil, err
	}
	im.log.Info("importing archive", "path", path, "containers", len(doc.Containers), "strategy", string(strategy))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}
	return im.client.Import(ctx, f, name, strategy)
}
