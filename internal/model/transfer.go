package model

import "fmt"

// ExportVersion is the archive format version this client understands.
const ExportVersion = "1.0"

// ImportStrategy decides how the server handles a container name collision
// during bulk import. The client only transports the choice; collision
// resolution (including the rename scheme) is entirely server-side.
type ImportStrategy string

const (
	StrategySkip    ImportStrategy = "skip"
	StrategyRename  ImportStrategy = "rename"
	StrategyReplace ImportStrategy = "replace"
)

func ParseImportStrategy(s string) (ImportStrategy, error) {
	switch ImportStrategy(s) {
	case StrategySkip, StrategyRename, StrategyReplace:
		return ImportStrategy(s), nil
	}
	return "", fmt.Errorf("unknown import strategy: %q (want skip, rename or replace)", s)
}

// ExportPreviewEntry is the server-computed preview row for one container.
// All numbers are authoritative from the server, never estimated locally.
type ExportPreviewEntry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CategoriesCount int     `json:"categories_count"`
	ItemsCount      int     `json:"items_count"`
	SizeMB          float64 `json:"total_size_mb"`
}

// ImportedContainer is one row of the server's import result summary.
type ImportedContainer struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CategoriesCount int    `json:"categories_count"`
	ItemsCount      int    `json:"items_count"`
}

// ExportDocument is the archive layout produced by the export endpoint.
// Categories and items are linked through temp ids local to the document.
type ExportDocument struct {
	Version    string            `json:"version"`
	ExportDate string            `json:"export_date"`
	Containers []ExportContainer `json:"containers"`
}

type ExportContainer struct {
	TempID     string           `json:"temp_id"`
	Name       string           `json:"name"`
	Categories []ExportCategory `json:"categories"`
	Items      []ExportItem     `json:"items"`
}

type ExportCategory struct {
	TempID string `json:"temp_id"`
	Name   string `json:"name"`
}

type ExportItem struct {
	CategoryTempID string   `json:"category_temp_id"`
	Name           string   `json:"name"`
	Owner          string   `json:"owner,omitempty"`
	Serie          string   `json:"serie,omitempty"`
	Description    string   `json:"description,omitempty"`
	Value          Amount   `json:"value"`
	DateCreated    string   `json:"date_created,omitempty"`
	Location       string   `json:"location,omitempty"`
	Creator        string   `json:"creator,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Comment        string   `json:"comment,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	Number         int      `json:"number,omitempty"`
	Edition        string   `json:"edition,omitempty"`
	ImagePath      string   `json:"image_path,omitempty"`
	ImageData      string   `json:"image_data,omitempty"`
	ImageExtension string   `json:"image_extension,omitempty"`
}
