package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/filter"
	"github.com/PpairNode/LibStock/internal/hierarchy"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.containerList.SetSize(m.leftPaneWidth()-2, m.height-4)
		m.refreshItems()
		return m, nil

	case sessionMsg:
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				m.statusErr = "not logged in (run: libstock login)"
			} else {
				m.statusErr = msg.err.Error()
			}
			return m, nil
		}
		m.username = msg.username
		return m, nil

	case spinner.TickMsg:
		// Tick only while a load is in flight.
		if m.hier.Phase() != hierarchy.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case containersMsg:
		if msg.err != nil {
			m.hier.ContainersFailed(msg.err)
			m.statusErr = msg.err.Error()
			m.syncContainerList()
			m.refreshItems()
			return m, nil
		}
		m.statusErr = ""
		restore := m.hier.SetContainers(msg.containers)
		m.syncContainerList()
		if restore != "" {
			m.selectListEntry(restore)
			if epoch, ok := m.hier.RestoreContainer(restore); ok {
				m.syncContainerList()
				return m, tea.Batch(m.fetchHierarchy(epoch, restore), m.spin.Tick)
			}
		}
		m.refreshItems()
		return m, nil

	case hierarchyMsg:
		if msg.err != nil {
			if m.hier.HierarchyFailed(msg.epoch, msg.err) {
				m.statusErr = msg.err.Error()
				m.refreshItems()
			}
			return m, nil
		}
		if m.hier.ApplyHierarchy(msg.epoch, msg.categories, msg.items) {
			m.statusErr = ""
			m.refreshItems()
		}
		return m, nil

	case itemDeletedMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.hier.ApplyItemDeleted(msg.itemID)
		m.refreshItems()
		return m, nil

	case containerDeletedMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.hier.ApplyContainerDeleted(msg.containerID)
		m.syncContainerList()
		m.refreshItems()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeColumns:
			return m.updateColumns(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == focusContainers {
			m.focus = focusItems
		} else {
			m.focus = focusContainers
		}
		return m, nil

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.searchQuery)
		m.search.Focus()
		return m, nil

	case "v":
		m.mode = modeColumns
		m.columnCursor = 0
		return m, nil

	case "f":
		m.cycleCategory()
		m.refreshItems()
		return m, nil

	case "r":
		return m, tea.Batch(m.fetchSession(), m.fetchContainers())

	case "esc":
		if _, ok := m.hier.Detail(); ok {
			m.hier.ClearDetail()
			return m, nil
		}
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.search.SetValue("")
			m.refreshItems()
			return m, nil
		}
		m.statusErr = ""
		return m, nil

	case "up", "k", "down", "j":
		if m.focus == focusContainers {
			var cmd tea.Cmd
			m.containerList, cmd = m.containerList.Update(msg)
			return m, cmd
		}
		if msg.String() == "up" || msg.String() == "k" {
			m.itemsTable.MoveUp(1)
		} else {
			m.itemsTable.MoveDown(1)
		}
		return m, nil

	case "enter":
		if m.focus == focusContainers {
			c, ok := m.cursorContainer()
			if !ok {
				return m, nil
			}
			if epoch, ok := m.hier.SelectContainer(c.ID); ok {
				m.syncContainerList()
				m.refreshItems()
				return m, tea.Batch(m.fetchHierarchy(epoch, c.ID), m.spin.Tick)
			}
			return m, nil
		}
		if it, ok := m.cursorItem(); ok {
			m.hier.SelectDetail(it.ID)
		}
		return m, nil

	case "d":
		if m.focus == focusContainers {
			if c, ok := m.cursorContainer(); ok {
				m.mode = modeConfirmDelete
				m.confirmKind = "container"
				m.confirmID = c.ID
				m.confirmName = c.Name
			}
			return m, nil
		}
		if it, ok := m.cursorItem(); ok {
			m.mode = modeConfirmDelete
			m.confirmKind = "item"
			m.confirmID = it.ID
			m.confirmName = it.Name
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.searchQuery = ""
		m.search.SetValue("")
		m.refreshItems()
		return m, nil
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		m.focus = focusItems
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// Live filtering: every keystroke narrows the table immediately.
	m.searchQuery = m.search.Value()
	m.refreshItems()
	return m, cmd
}

func (m appModel) updateColumns(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := prefs.OptionalColumns()
	switch msg.String() {
	case "esc", "v", "q":
		m.mode = modeBrowse
		return m, nil
	case "up", "k":
		if m.columnCursor > 0 {
			m.columnCursor--
		}
		return m, nil
	case "down", "j":
		if m.columnCursor < len(cols)-1 {
			m.columnCursor++
		}
		return m, nil
	case " ", "enter":
		key := cols[m.columnCursor]
		if err := m.prefsStore.ToggleColumn(m.prefs, key); err != nil {
			m.statusErr = err.Error()
		}
		m.refreshItems()
		return m, nil
	}
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		switch m.confirmKind {
		case "item":
			return m, m.deleteItem(m.hier.SelectedID(), m.confirmID)
		case "container":
			return m, m.deleteContainer(m.confirmID)
		}
		return m, nil
	case "n", "N", "esc":
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

// cycleCategory advances the persisted category filter through the sentinel
// and the loaded category names, wrapping around.
func (m *appModel) cycleCategory() {
	options := []string{prefs.CategoryAll}
	for _, c := range m.hier.Categories() {
		options = append(options, c.Name)
	}
	current := 0
	for i, name := range options {
		if name == m.prefs.SelectedCategory {
			current = i
			break
		}
	}
	next := options[(current+1)%len(options)]
	if err := m.prefsStore.SetSelectedCategory(m.prefs, next); err != nil {
		m.statusErr = err.Error()
	}
}

// refreshItems recomputes the visible item set and rebuilds the table,
// keeping the cursor on the same row index where possible.
func (m *appModel) refreshItems() {
	m.visible = filter.Visible(m.hier.Items(), m.prefs.SelectedCategory, m.searchQuery)

	w, h := m.itemsPaneSize()
	cursor := m.itemsTable.Cursor()
	m.itemsTable = newItemsTable(m.visible, m.prefs, w, h)
	if cursor >= len(m.visible) {
		cursor = len(m.visible) - 1
	}
	if cursor >= 0 {
		m.itemsTable.SetCursor(cursor)
	}
}

func (m *appModel) cursorItem() (model.Item, bool) {
	i := m.itemsTable.Cursor()
	if i < 0 || i >= len(m.visible) {
		return model.Item{}, false
	}
	return m.visible[i], true
}
