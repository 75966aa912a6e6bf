package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PpairNode/LibStock/internal/filter"
	"github.com/PpairNode/LibStock/internal/hierarchy"
	"github.com/PpairNode/LibStock/internal/prefs"
)

const minWidth = 40

func (m appModel) leftPaneWidth() int {
	w := m.width / 4
	if w < 20 {
		w = 20
	}
	if w > 36 {
		w = 36
	}
	return w
}

func (m appModel) itemsPaneSize() (width, height int) {
	width = m.width - m.leftPaneWidth() - 6
	if width < 20 {
		width = 80
	}
	height = m.height - 6
	if height < 5 {
		height = 20
	}
	if _, ok := m.hier.Detail(); ok {
		height /= 2
	}
	return width, height
}

func (m appModel) View() string {
	if m.width > 0 && m.width < minWidth {
		return "terminal too narrow"
	}

	header := m.viewHeader()
	body := m.viewBody()
	footer := m.viewFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m appModel) viewHeader() string {
	title := headerStyle.Render("LibStock")
	who := ""
	if m.username != "" {
		who = mutedStyle.Render(m.username)
	}
	where := ""
	if c, ok := m.hier.Selected(); ok {
		where = accentStyle.Render(c.Name)
	}
	parts := []string{title}
	if where != "" {
		parts = append(parts, where)
	}
	if who != "" {
		parts = append(parts, who)
	}
	return " " + strings.Join(parts, mutedStyle.Render("  ·  "))
}

func (m appModel) viewBody() string {
	if m.mode == modeColumns {
		return m.viewColumnsOverlay()
	}

	left := paneStyle(m.focus == focusContainers).
		Width(m.leftPaneWidth()).
		Render(m.viewContainers())
	right := paneStyle(m.focus == focusItems).
		Render(m.viewItems())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m appModel) viewContainers() string {
	if len(m.hier.Containers()) == 0 && m.hier.Phase() == hierarchy.PhaseFailed {
		return errorStyle.Render("unavailable")
	}
	return m.containerList.View()
}

func (m appModel) viewItems() string {
	if m.hier.SelectedID() == "" {
		switch m.hier.Phase() {
		case hierarchy.PhaseFailed:
			return errorStyle.Render("load failed") + "\n" + mutedStyle.Render("r to retry")
		default:
			return mutedStyle.Render("select a container (enter)")
		}
	}
	if m.hier.Phase() == hierarchy.PhaseLoading {
		return m.spin.View() + " " + mutedStyle.Render("loading…")
	}

	sections := []string{m.itemsTable.View()}
	if m.mode == modeSearch || m.searchQuery != "" {
		sections = append([]string{m.search.View()}, sections...)
	}
	if it, ok := m.hier.Detail(); ok {
		w, _ := m.itemsPaneSize()
		sections = append(sections, renderMarkdown(detailMarkdown(it), w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m appModel) viewColumnsOverlay() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Columns") + "\n")
	b.WriteString(mutedStyle.Render("space toggles, esc closes") + "\n\n")
	for i, key := range prefs.OptionalColumns() {
		check := "[ ]"
		if m.prefs.IsVisible(key) {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, columnTitles[key])
		if i == m.columnCursor {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(line)
		}
		b.WriteString(" " + line + "\n")
	}
	return paneStyle(true).Render(strings.TrimRight(b.String(), "\n"))
}

func (m appModel) viewFooter() string {
	if m.mode == modeConfirmDelete {
		return " " + errorStyle.Render(fmt.Sprintf("delete %s %q? (y/n)", m.confirmKind, m.confirmName))
	}

	var parts []string
	if m.hier.SelectedID() != "" {
		parts = append(parts, fmt.Sprintf("%d/%d items", len(m.visible), len(m.hier.Items())))
		parts = append(parts, fmt.Sprintf("total %.2f", filter.Total(m.visible)))
		if cat := m.prefs.SelectedCategory; cat != prefs.CategoryAll && cat != "" {
			parts = append(parts, "category: "+cat)
		}
	}
	if m.statusErr != "" {
		parts = append(parts, errorStyle.Render(m.statusErr))
	}
	parts = append(parts, mutedStyle.Render("/ search  f filter  v columns  d delete  r reload  q quit"))
	return " " + strings.Join(parts, "  ")
}
