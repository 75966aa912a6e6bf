package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/PpairNode/LibStock/internal/model"
)

// containerItem adapts a container to the bubbles list. The active container
// carries a marker so it stays identifiable while browsing others.
type containerItem struct {
	container model.Container
	active    bool
}

func (i containerItem) Title() string {
	if i.active {
		return "* " + i.container.Name
	}
	return i.container.Name
}

func (i containerItem) Description() string { return "" }
func (i containerItem) FilterValue() string { return i.container.Name }

func newContainerList(width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, width, height)
	l.Title = "Containers"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// syncContainerList rebuilds the list from the hierarchy store, preserving
// the cursor position when possible.
func (m *appModel) syncContainerList() {
	containers := m.hier.Containers()
	items := make([]list.Item, len(containers))
	for i, c := range containers {
		items[i] = containerItem{container: c, active: c.ID == m.hier.SelectedID()}
	}
	cursor := m.containerList.Index()
	m.containerList.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		m.containerList.Select(cursor)
	}
}

// selectListEntry moves the list cursor to the container with the given id.
func (m *appModel) selectListEntry(id string) {
	for i, c := range m.hier.Containers() {
		if c.ID == id {
			m.containerList.Select(i)
			return
		}
	}
}

func (m *appModel) cursorContainer() (model.Container, bool) {
	it, ok := m.containerList.SelectedItem().(containerItem)
	if !ok {
		return model.Container{}, false
	}
	return it.container, true
}
