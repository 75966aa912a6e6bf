package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/PpairNode/LibStock/internal/model"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width. Creating a renderer with WithAutoStyle
	// can trigger terminal capability queries that may block on some
	// terminals, so we pick the style once and cache per width.
	mdRenderers = map[int]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if hasDarkBackground {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	r := mdRenderers[width]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[width] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// detailMarkdown lays an item out as markdown for the detail pane.
func detailMarkdown(it model.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", it.Name)

	writeField := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s**: %s\n", label, value)
		}
	}
	writeField("Category", it.Category)
	writeField("Serie", it.Serie)
	writeField("Edition", it.Edition)
	writeField("Condition", string(it.Condition))
	writeField("Value", it.Value.String())
	if it.Number > 1 {
		writeField("Copies", strconv.Itoa(it.Number))
	}
	writeField("Creator", it.Creator)
	writeField("Owner", it.Owner)
	writeField("Location", it.Location)
	writeField("Created", it.DateCreated)
	writeField("Added", it.DateAdded)
	if len(it.Tags) > 0 {
		writeField("Tags", strings.Join(it.Tags, ", "))
	}
	if p, ok := it.Image.Path(); ok {
		writeField("Image", p)
	}

	if it.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", it.Description)
	}
	if it.Comment != "" {
		fmt.Fprintf(&b, "\n> %s\n", it.Comment)
	}
	return b.String()
}
