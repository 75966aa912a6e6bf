// Package prefs persists the user's view preferences: visible optional
// columns, last selected container, and the category filter.
//
// The file lives in the client state dir and is intentionally best effort:
// missing or corrupt data loads as defaults. Every mutation is written
// through immediately so a reload mid-session never loses a choice.
package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// CategoryAll is the category filter sentinel meaning "no category filter".
// It is a prefs-level constant, distinct from any real category name.
const CategoryAll = "All"

const prefsFileName = "prefs.json"

// OptionalColumns returns the optional item-table columns in canonical render
// order. The name column is always shown and is not part of the set.
func OptionalColumns() []string {
	return []string{
		"serie",
		"description",
		"value",
		"date_created",
		"date_added",
		"location",
		"creator",
		"owner",
		"tags",
		"comment",
		"condition",
		"number",
		"edition",
	}
}

type Prefs struct {
	Version int `json:"version"`

	// VisibleColumns is the visible optional column set. nil means "never
	// configured" and defaults to all; an empty list is a real choice.
	VisibleColumns []string `json:"visibleColumns"`

	SelectedContainer string `json:"selectedContainer,omitempty"`
	SelectedCategory  string `json:"selectedCategory,omitempty"`
}

func defaults() *Prefs {
	return &Prefs{
		Version:          1,
		VisibleColumns:   OptionalColumns(),
		SelectedCategory: CategoryAll,
	}
}

func (p *Prefs) IsVisible(key string) bool {
	for _, k := range p.VisibleColumns {
		if k == key {
			return true
		}
	}
	return false
}

// normalize drops unknown column keys, reorders the set to canonical order,
// and restores the category sentinel when the field is empty.
func (p *Prefs) normalize() {
	if p.Version == 0 {
		p.Version = 1
	}
	if p.VisibleColumns != nil {
		known := make(map[string]bool, len(p.VisibleColumns))
		for _, k := range p.VisibleColumns {
			known[k] = true
		}
		cols := make([]string, 0, len(p.VisibleColumns))
		for _, k := range OptionalColumns() {
			if known[k] {
				cols = append(cols, k)
			}
		}
		p.VisibleColumns = cols
	} else {
		p.VisibleColumns = OptionalColumns()
	}
	if p.SelectedCategory == "" {
		p.SelectedCategory = CategoryAll
	}
}

type Store struct {
	Dir string
}

func (s Store) path() string {
	return filepath.Join(s.Dir, prefsFileName)
}

// Load never fails into a broken state: a missing or corrupt file yields the
// documented defaults.
func (s Store) Load() *Prefs {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return defaults()
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		return defaults()
	}
	p.normalize()
	return &p
}

func (s Store) Save(p *Prefs) error {
	if p == nil {
		return nil
	}
	if p.Version == 0 {
		p.Version = 1
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	path := s.path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SetSelectedContainer records the active container and persists immediately.
func (s Store) SetSelectedContainer(p *Prefs, id string) error {
	p.SelectedContainer = id
	return s.Save(p)
}

// SetSelectedCategory records the category filter and persists immediately.
func (s Store) SetSelectedCategory(p *Prefs, name string) error {
	if name == "" {
		name = CategoryAll
	}
	p.SelectedCategory = name
	return s.Save(p)
}

// ClearContainerSelection drops the container and category-filter choices in
// one persisted write. Used when the referenced container no longer exists.
func (s Store) ClearContainerSelection(p *Prefs) error {
	p.SelectedContainer = ""
	p.SelectedCategory = CategoryAll
	return s.Save(p)
}

// SetVisibleColumns replaces the whole visible set in one persisted write.
// Unknown keys are dropped and the canonical order restored.
func (s Store) SetVisibleColumns(p *Prefs, keys []string) error {
	p.VisibleColumns = keys
	if p.VisibleColumns == nil {
		p.VisibleColumns = []string{}
	}
	p.normalize()
	return s.Save(p)
}

// ToggleColumn flips the membership of key in the visible set and persists.
// Unknown keys are ignored. Render order always follows OptionalColumns,
// never insertion order.
func (s Store) ToggleColumn(p *Prefs, key string) error {
	valid := false
	for _, k := range OptionalColumns() {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		return nil
	}

	if p.IsVisible(key) {
		cols := make([]string, 0, len(p.VisibleColumns))
		for _, k := range p.VisibleColumns {
			if k != key {
				cols = append(cols, k)
			}
		}
		p.VisibleColumns = cols
	} else {
		p.VisibleColumns = append(p.VisibleColumns, key)
		p.normalize()
	}
	return s.Save(p)
}
