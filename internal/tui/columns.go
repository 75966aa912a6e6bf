package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

// columnTitles maps column keys to header labels. The name column is always
// shown; everything else follows the persisted visibility choice.
var columnTitles = map[string]string{
	"name":         "Name",
	"serie":        "Serie",
	"description":  "Description",
	"value":        "Value",
	"date_created": "Created",
	"date_added":   "Added",
	"location":     "Location",
	"creator":      "Creator",
	"owner":        "Owner",
	"tags":         "Tags",
	"comment":      "Comment",
	"condition":    "Condition",
	"number":       "Nb",
	"edition":      "Edition",
}

// columnWeights drives proportional width allocation; wider concepts get
// more of the row.
var columnWeights = map[string]int{
	"name":         4,
	"serie":        2,
	"description":  4,
	"value":        1,
	"date_created": 2,
	"date_added":   2,
	"location":     2,
	"creator":      2,
	"owner":        2,
	"tags":         2,
	"comment":      3,
	"condition":    2,
	"number":       1,
	"edition":      1,
}

func visibleColumnKeys(p *prefs.Prefs) []string {
	keys := []string{"name"}
	for _, key := range prefs.OptionalColumns() {
		if p.IsVisible(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

func buildColumns(p *prefs.Prefs, width int) []table.Column {
	keys := visibleColumnKeys(p)
	total := 0
	for _, k := range keys {
		total += columnWeights[k]
	}
	// Account for the cell padding the table adds per column.
	avail := width - 2*len(keys)
	if avail < len(keys)*4 {
		avail = len(keys) * 4
	}

	cols := make([]table.Column, len(keys))
	for i, k := range keys {
		w := avail * columnWeights[k] / total
		if w < 4 {
			w = 4
		}
		cols[i] = table.Column{Title: columnTitles[k], Width: w}
	}
	return cols
}

func buildRows(items []model.Item, p *prefs.Prefs) []table.Row {
	keys := visibleColumnKeys(p)
	rows := make([]table.Row, len(items))
	for i, it := range items {
		row := make(table.Row, len(keys))
		for j, k := range keys {
			row[j] = cellValue(it, k)
		}
		rows[i] = row
	}
	return rows
}

func cellValue(it model.Item, key string) string {
	switch key {
	case "name":
		return it.Name
	case "serie":
		return it.Serie
	case "description":
		return it.Description
	case "value":
		return it.Value.String()
	case "date_created":
		return it.DateCreated
	case "date_added":
		return it.DateAdded
	case "location":
		return it.Location
	case "creator":
		return it.Creator
	case "owner":
		return it.Owner
	case "tags":
		return strings.Join(it.Tags, ", ")
	case "comment":
		return it.Comment
	case "condition":
		return string(it.Condition)
	case "number":
		if it.Number == 0 {
			return ""
		}
		return strconv.Itoa(it.Number)
	case "edition":
		return it.Edition
	}
	return ""
}

func newItemsTable(items []model.Item, p *prefs.Prefs, width, height int) table.Model {
	cols := buildColumns(p, width)
	rows := buildRows(items, p)
	for _, row := range rows {
		for j := range row {
			row[j] = truncateText(row[j], cols[j].Width)
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Bold(true).Foreground(colorChromeMutedFg).BorderBottom(true)
	st.Selected = st.Selected.Foreground(colorSelectedFg).Background(colorSelectedBg)
	t.SetStyles(st)
	return t
}

// truncateText shortens s to the given display width, ANSI-aware, with an
// ellipsis when something was cut.
func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return xansi.Cut(s, 0, width-1) + "…"
}
