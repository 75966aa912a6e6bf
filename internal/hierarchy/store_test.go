package hierarchy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

// fakePrefs records preference writes without touching disk.
type fakePrefs struct {
	container string
	category  string
	writes    int
}

func (f *fakePrefs) SelectedContainer() string { return f.container }
func (f *fakePrefs) SelectedCategory() string  { return f.category }

func (f *fakePrefs) SetSelectedContainer(id string) error {
	f.container = id
	f.writes++
	return nil
}

func (f *fakePrefs) SetSelectedCategory(name string) error {
	f.category = name
	f.writes++
	return nil
}

func (f *fakePrefs) ClearContainerSelection() error {
	f.container = ""
	f.category = prefs.CategoryAll
	f.writes++
	return nil
}

func containers(ids ...string) []model.Container {
	out := make([]model.Container, len(ids))
	for i, id := range ids {
		out[i] = model.Container{ID: id, Name: "container-" + id}
	}
	return out
}

func TestSetContainersKeepsValidPersistedSelection(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{container: "c2"}
	s := NewStore(fp, nil)

	restore := s.SetContainers(containers("c1", "c2"))
	if restore != "c2" {
		t.Fatalf("restore = %q, want c2", restore)
	}
	if fp.container != "c2" {
		t.Fatalf("preference was modified: %q", fp.container)
	}
	if s.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", s.Phase())
	}
}

func TestSetContainersClearsDeletedPersistedSelection(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{container: "gone", category: "Books"}
	s := NewStore(fp, nil)

	restore := s.SetContainers(containers("c1"))
	if restore != "" {
		t.Fatalf("restore = %q, want empty", restore)
	}
	if fp.container != "" {
		t.Fatalf("container preference not cleared: %q", fp.container)
	}
	if fp.category != prefs.CategoryAll {
		t.Fatalf("category preference = %q, want %q", fp.category, prefs.CategoryAll)
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("no container should be selected")
	}
}

func TestSelectContainerResetsFilterAndBumpsEpoch(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{category: "Books"}
	s := NewStore(fp, nil)
	s.SetContainers(containers("c1", "c2"))

	e1, ok := s.SelectContainer("c1")
	if !ok || e1 == 0 {
		t.Fatalf("SelectContainer = (%d, %v)", e1, ok)
	}
	if s.Phase() != PhaseLoading {
		t.Fatalf("phase = %v, want loading", s.Phase())
	}
	if fp.container != "c1" || fp.category != prefs.CategoryAll {
		t.Fatalf("prefs = (%q, %q)", fp.container, fp.category)
	}

	e2, _ := s.SelectContainer("c2")
	if e2 <= e1 {
		t.Fatalf("epoch did not advance: %d then %d", e1, e2)
	}
}

func TestRestoreContainerKeepsCategoryFilter(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{container: "c1", category: "Books"}
	s := NewStore(fp, nil)

	restore := s.SetContainers(containers("c1", "c2"))
	if restore != "c1" {
		t.Fatalf("restore = %q, want c1", restore)
	}
	epoch, ok := s.RestoreContainer(restore)
	if !ok {
		t.Fatal("RestoreContainer failed")
	}
	if fp.category != "Books" {
		t.Fatalf("category filter lost on restore: %q", fp.category)
	}

	applied := s.ApplyHierarchy(epoch, []model.Category{
		{ID: "k1", Name: "Books", ContainerID: "c1"},
	}, nil)
	if !applied {
		t.Fatal("hierarchy was not applied")
	}
	if fp.category != "Books" {
		t.Fatalf("category filter lost after load: %q", fp.category)
	}
}

func TestRestoredFilterForUnknownCategoryFallsBack(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{container: "c1", category: "Vanished"}
	s := NewStore(fp, nil)
	s.SetContainers(containers("c1"))

	epoch, ok := s.RestoreContainer("c1")
	if !ok {
		t.Fatal("RestoreContainer failed")
	}
	s.ApplyHierarchy(epoch, []model.Category{
		{ID: "k1", Name: "Books", ContainerID: "c1"},
	}, nil)

	if fp.category != prefs.CategoryAll {
		t.Fatalf("category = %q, want %q", fp.category, prefs.CategoryAll)
	}
}

func TestApplyHierarchyDiscardsStaleEpoch(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{}
	s := NewStore(fp, nil)
	s.SetContainers(containers("a", "b"))

	stale, _ := s.SelectContainer("a")
	current, _ := s.SelectContainer("b")

	oldCats := []model.Category{{ID: "ca", Name: "OldCat", ContainerID: "a"}}
	oldItems := []model.Item{{ID: "ia", Name: "old", ContainerID: "a"}}
	if s.ApplyHierarchy(stale, oldCats, oldItems) {
		t.Fatal("stale response must be discarded")
	}
	if s.Phase() != PhaseLoading {
		t.Fatalf("stale response changed phase to %v", s.Phase())
	}
	if len(s.Items()) != 0 {
		t.Fatalf("stale response installed items: %v", s.Items())
	}

	newCats := []model.Category{{ID: "cb", Name: "NewCat", ContainerID: "b"}}
	newItems := []model.Item{{ID: "ib", Name: "new", ContainerID: "b"}}
	if !s.ApplyHierarchy(current, newCats, newItems) {
		t.Fatal("current response must apply")
	}
	if s.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", s.Phase())
	}
	if !reflect.DeepEqual(s.Items(), newItems) {
		t.Fatalf("items = %v, want %v", s.Items(), newItems)
	}
}

func TestApplyHierarchyDropsForeignCategories(t *testing.T) {
	t.Parallel()
	s := NewStore(&fakePrefs{}, nil)
	s.SetContainers(containers("a"))
	e, _ := s.SelectContainer("a")

	cats := []model.Category{
		{ID: "c1", Name: "Mine", ContainerID: "a"},
		{ID: "c2", Name: "Foreign", ContainerID: "z"},
	}
	s.ApplyHierarchy(e, cats, nil)
	if got := s.Categories(); len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("categories = %v", got)
	}
}

func TestHierarchyFailedFallsBackToNoSelection(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{}
	s := NewStore(fp, nil)
	s.SetContainers(containers("a"))
	e, _ := s.SelectContainer("a")

	loadErr := errors.New("connection refused")
	if !s.HierarchyFailed(e, loadErr) {
		t.Fatal("failure for current epoch must apply")
	}
	if s.Phase() != PhaseFailed || !errors.Is(s.Err(), loadErr) {
		t.Fatalf("phase = %v, err = %v", s.Phase(), s.Err())
	}
	if s.SelectedID() != "" {
		t.Fatalf("selection not cleared: %q", s.SelectedID())
	}
	if fp.container != "" {
		t.Fatalf("container preference not cleared: %q", fp.container)
	}
	if len(s.Containers()) != 1 {
		t.Fatal("container list must survive a hierarchy failure")
	}
}

func TestItemDeletionClearsDetail(t *testing.T) {
	t.Parallel()
	s := NewStore(&fakePrefs{}, nil)
	s.SetContainers(containers("a"))
	e, _ := s.SelectContainer("a")
	s.ApplyHierarchy(e, nil, []model.Item{
		{ID: "i1", Name: "one", ContainerID: "a"},
		{ID: "i2", Name: "two", ContainerID: "a"},
	})

	if !s.SelectDetail("i2") {
		t.Fatal("SelectDetail failed for loaded item")
	}
	s.ApplyItemDeleted("i2")
	if _, ok := s.Detail(); ok {
		t.Fatal("detail must clear when its item is deleted")
	}
	if len(s.Items()) != 1 || s.Items()[0].ID != "i1" {
		t.Fatalf("items = %v", s.Items())
	}
}

func TestCategoryDeletionDetachesItemsAndResetsFilter(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{}
	s := NewStore(fp, nil)
	s.SetContainers(containers("a"))
	e, _ := s.SelectContainer("a")
	s.ApplyHierarchy(e,
		[]model.Category{{ID: "c1", Name: "Books", ContainerID: "a"}},
		[]model.Item{{ID: "i1", Name: "novel", ContainerID: "a", CategoryID: "c1", Category: "Books"}},
	)
	fp.category = "Books"

	s.ApplyCategoryDeleted("c1")
	if len(s.Categories()) != 0 {
		t.Fatalf("categories = %v", s.Categories())
	}
	it := s.Items()[0]
	if it.CategoryID != "" || it.Category != "" {
		t.Fatalf("item still references deleted category: %+v", it)
	}
	if fp.category != prefs.CategoryAll {
		t.Fatalf("filter = %q, want %q", fp.category, prefs.CategoryAll)
	}
}

func TestContainerDeletionResetsActiveSelection(t *testing.T) {
	t.Parallel()
	fp := &fakePrefs{}
	s := NewStore(fp, nil)
	s.SetContainers(containers("a", "b"))
	e, _ := s.SelectContainer("a")
	s.ApplyHierarchy(e, nil, []model.Item{{ID: "i1", ContainerID: "a"}})

	s.ApplyContainerDeleted("a")
	if s.SelectedID() != "" || len(s.Items()) != 0 {
		t.Fatalf("selection survived delete: %q, items %v", s.SelectedID(), s.Items())
	}
	if fp.container != "" {
		t.Fatalf("preference not cleared: %q", fp.container)
	}
	if len(s.Containers()) != 1 || s.Containers()[0].ID != "b" {
		t.Fatalf("containers = %v", s.Containers())
	}
}

func TestItemUpdateReplacesInPlace(t *testing.T) {
	t.Parallel()
	s := NewStore(&fakePrefs{}, nil)
	s.SetContainers(containers("a"))
	e, _ := s.SelectContainer("a")
	s.ApplyHierarchy(e, nil, []model.Item{
		{ID: "i1", Name: "before", ContainerID: "a"},
		{ID: "i2", Name: "other", ContainerID: "a"},
	})

	s.ApplyItemUpdated(model.Item{ID: "i1", Name: "after", ContainerID: "a"})
	if s.Items()[0].Name != "after" {
		t.Fatalf("items = %v", s.Items())
	}
	if s.Items()[1].Name != "other" {
		t.Fatal("unrelated item modified")
	}

	s.ApplyItemCreated(model.Item{ID: "i3", Name: "third", ContainerID: "a"})
	s.ApplyItemCreated(model.Item{ID: "ix", Name: "foreign", ContainerID: "z"})
	if len(s.Items()) != 3 {
		t.Fatalf("items = %v", s.Items())
	}
}
