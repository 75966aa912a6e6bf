// Package hierarchy keeps the displayed container/category/item hierarchy
// coherent across asynchronous loads and CRUD acknowledgments.
//
// The Store is the single source of truth for "what is currently displayed".
// It is mutated only from the UI event loop, one handler at a time, so it
// carries no locks; handlers apply results atomically (replace-on-success)
// and never leave a half-updated hierarchy behind.
package hierarchy

import (
	"log/slog"

	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

// Phase is the view state of the hierarchy. Every failure path lands in one
// of these; there is no "silently stuck" state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Preferences is the persisted view-preference surface the store writes
// through. prefs.Store satisfies it via Adapter; tests inject a fake.
type Preferences interface {
	SelectedContainer() string
	SelectedCategory() string
	SetSelectedContainer(id string) error
	SetSelectedCategory(name string) error
	ClearContainerSelection() error
}

// Adapter bridges a prefs.Store and its loaded Prefs to the Preferences
// interface.
type Adapter struct {
	Store prefs.Store
	Prefs *prefs.Prefs
}

func (a Adapter) SelectedContainer() string { return a.Prefs.SelectedContainer }
func (a Adapter) SelectedCategory() string  { return a.Prefs.SelectedCategory }

func (a Adapter) SetSelectedContainer(id string) error {
	return a.Store.SetSelectedContainer(a.Prefs, id)
}

func (a Adapter) SetSelectedCategory(name string) error {
	return a.Store.SetSelectedCategory(a.Prefs, name)
}

func (a Adapter) ClearContainerSelection() error {
	return a.Store.ClearContainerSelection(a.Prefs)
}

type Store struct {
	prefs Preferences
	log   *slog.Logger

	phase Phase
	err   error

	containers []model.Container
	selectedID string
	categories []model.Category
	items      []model.Item
	detailID   string

	// epoch tags each selection's dependent fetches; responses carrying an
	// older epoch are discarded, never applied.
	epoch uint64
}

func NewStore(p Preferences, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{prefs: p, log: log}
}

func (s *Store) Phase() Phase                  { return s.phase }
func (s *Store) Err() error                    { return s.err }
func (s *Store) Epoch() uint64                 { return s.epoch }
func (s *Store) Containers() []model.Container { return s.containers }
func (s *Store) Categories() []model.Category  { return s.categories }
func (s *Store) Items() []model.Item           { return s.items }
func (s *Store) SelectedID() string            { return s.selectedID }

func (s *Store) Selected() (model.Container, bool) {
	for _, c := range s.containers {
		if c.ID == s.selectedID {
			return c, true
		}
	}
	return model.Container{}, false
}

// SetContainers installs a fresh container list. If the persisted container
// selection no longer resolves, both the container and category-filter
// preferences are cleared so a deleted container is never referenced after
// reload. The returned id is the still-valid persisted selection to restore
// ("" when there is none).
func (s *Store) SetContainers(list []model.Container) string {
	s.containers = list
	s.phase = PhaseReady
	s.err = nil

	want := s.prefs.SelectedContainer()
	if want == "" {
		return ""
	}
	for _, c := range list {
		if c.ID == want {
			return want
		}
	}
	s.log.Info("persisted container no longer exists, clearing selection", "container_id", want)
	if err := s.prefs.ClearContainerSelection(); err != nil {
		s.log.Warn("failed to clear container preference", "error", err)
	}
	s.resetSelection()
	return ""
}

// ContainersFailed marks the whole view failed; a container list that cannot
// be fetched leaves nothing meaningful to render.
func (s *Store) ContainersFailed(err error) {
	s.containers = nil
	s.resetSelection()
	s.phase = PhaseFailed
	s.err = err
}

// SelectContainer makes id the active container, resets the category filter
// to the sentinel, and clears the previous hierarchy before its replacement
// loads. The returned epoch must tag the dependent category/item fetches.
// An empty id clears the selection; ok is false and no fetch is needed.
func (s *Store) SelectContainer(id string) (epoch uint64, ok bool) {
	epoch, ok = s.activate(id)
	if !ok {
		return epoch, false
	}
	// Switching containers invalidates the previous category filter.
	if err := s.prefs.SetSelectedCategory(prefs.CategoryAll); err != nil {
		s.log.Warn("failed to persist category filter", "error", err)
	}
	return epoch, true
}

// RestoreContainer re-activates the persisted container on launch. Unlike a
// user-initiated switch, the persisted category filter stays in place; it is
// validated against the loaded categories by ApplyHierarchy.
func (s *Store) RestoreContainer(id string) (epoch uint64, ok bool) {
	return s.activate(id)
}

func (s *Store) activate(id string) (epoch uint64, ok bool) {
	if id == "" {
		if err := s.prefs.SetSelectedContainer(""); err != nil {
			s.log.Warn("failed to persist container selection", "error", err)
		}
		s.resetSelection()
		s.phase = PhaseReady
		return 0, false
	}

	s.selectedID = id
	s.categories = nil
	s.items = nil
	s.detailID = ""
	s.epoch++
	s.phase = PhaseLoading
	s.err = nil

	if err := s.prefs.SetSelectedContainer(id); err != nil {
		s.log.Warn("failed to persist container selection", "error", err)
	}
	return s.epoch, true
}

// ApplyHierarchy installs the categories and items fetched for the given
// epoch in one atomic step. A stale epoch (the user has moved on) is
// discarded without touching any state; the return value reports whether the
// result was applied.
func (s *Store) ApplyHierarchy(epoch uint64, categories []model.Category, items []model.Item) bool {
	if epoch != s.epoch || s.selectedID == "" {
		s.log.Debug("discarding stale hierarchy response", "epoch", epoch, "current", s.epoch)
		return false
	}

	// Only categories of the active container are selectable.
	kept := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.ContainerID == "" || c.ContainerID == s.selectedID {
			kept = append(kept, c)
		}
	}

	// A restored category filter must name a category of this container;
	// anything else falls back to the sentinel.
	if cat := s.prefs.SelectedCategory(); cat != "" && cat != prefs.CategoryAll {
		known := false
		for _, c := range kept {
			if c.Name == cat {
				known = true
				break
			}
		}
		if !known {
			if err := s.prefs.SetSelectedCategory(prefs.CategoryAll); err != nil {
				s.log.Warn("failed to reset category filter", "error", err)
			}
		}
	}

	s.categories = kept
	s.items = items
	s.phase = PhaseReady
	s.err = nil
	return true
}

// HierarchyFailed handles a failed category/item fetch for the given epoch:
// the container is unusable, so the store falls back to a consistent
// no-selection state instead of a half-populated hierarchy.
func (s *Store) HierarchyFailed(epoch uint64, err error) bool {
	if epoch != s.epoch || s.selectedID == "" {
		return false
	}
	if perr := s.prefs.ClearContainerSelection(); perr != nil {
		s.log.Warn("failed to clear container preference", "error", perr)
	}
	s.resetSelection()
	s.phase = PhaseFailed
	s.err = err
	return true
}

// ApplyItemCreated appends an item confirmed by the server. Items belonging
// to another container (stale acknowledgment after a switch) are ignored.
func (s *Store) ApplyItemCreated(it model.Item) {
	if s.selectedID == "" || (it.ContainerID != "" && it.ContainerID != s.selectedID) {
		return
	}
	s.items = append(s.items, it)
}

// ApplyItemUpdated replaces the stored item in place.
func (s *Store) ApplyItemUpdated(it model.Item) {
	for i := range s.items {
		if s.items[i].ID == it.ID {
			s.items[i] = it
			return
		}
	}
}

func (s *Store) ApplyItemDeleted(itemID string) {
	kept := s.items[:0:0]
	for _, it := range s.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	if s.detailID == itemID {
		s.detailID = ""
	}
}

// ApplyCategoryDeleted removes the category and detaches its items locally.
// The server decides their final categorization; until the next reload they
// render uncategorized rather than pointing at a dead reference.
func (s *Store) ApplyCategoryDeleted(categoryID string) {
	var removedName string
	kept := s.categories[:0:0]
	for _, c := range s.categories {
		if c.ID == categoryID {
			removedName = c.Name
			continue
		}
		kept = append(kept, c)
	}
	s.categories = kept

	for i := range s.items {
		if s.items[i].CategoryID == categoryID || (removedName != "" && s.items[i].Category == removedName) {
			s.items[i].CategoryID = ""
			s.items[i].Category = ""
		}
	}

	if removedName != "" {
		if err := s.prefs.SetSelectedCategory(prefs.CategoryAll); err != nil {
			s.log.Warn("failed to reset category filter", "error", err)
		}
	}
}

// ApplyContainerDeleted removes the container after a confirmed delete. The
// server has already cascaded, so a deleted active container resets the view
// to no-selection and clears the persisted preferences.
func (s *Store) ApplyContainerDeleted(containerID string) {
	kept := s.containers[:0:0]
	for _, c := range s.containers {
		if c.ID != containerID {
			kept = append(kept, c)
		}
	}
	s.containers = kept

	if s.selectedID == containerID {
		if err := s.prefs.ClearContainerSelection(); err != nil {
			s.log.Warn("failed to clear container preference", "error", err)
		}
		s.resetSelection()
		s.phase = PhaseReady
	}
}

// SelectDetail marks an item for the detail pane. The selection is
// independent of filtering but must reference a loaded item.
func (s *Store) SelectDetail(itemID string) bool {
	for _, it := range s.items {
		if it.ID == itemID {
			s.detailID = itemID
			return true
		}
	}
	return false
}

func (s *Store) ClearDetail() { s.detailID = "" }

// Detail returns the inspected item. When the underlying item has been
// removed the stale selection is cleared instead of showing dead data.
func (s *Store) Detail() (model.Item, bool) {
	if s.detailID == "" {
		return model.Item{}, false
	}
	for _, it := range s.items {
		if it.ID == s.detailID {
			return it, true
		}
	}
	s.detailID = ""
	return model.Item{}, false
}

func (s *Store) resetSelection() {
	s.selectedID = ""
	s.categories = nil
	s.items = nil
	s.detailID = ""
}
