// Package filter derives the visible item set and its aggregates from the
// loaded hierarchy. It is pure: inputs are never mutated and no state is
// kept, so the view recomputes cheaply on every keystroke.
package filter

import (
	"strings"

	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/prefs"
)

// Visible applies the category filter and the free-text search, in that
// order, preserving the input order. The category match is exact and
// case-sensitive against the resolved category name; prefs.CategoryAll (or
// an empty string) disables it. The search term is matched case-insensitively
// as a substring of any text field or tag, never against the value or the
// dates.
func Visible(items []model.Item, category, search string) []model.Item {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if category != "" && category != prefs.CategoryAll && it.Category != category {
			continue
		}
		if needle != "" && !matches(it, needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(it model.Item, needle string) bool {
	fields := []string{
		it.Name,
		it.Serie,
		it.Description,
		it.Location,
		it.Creator,
		it.Owner,
		it.Comment,
		string(it.Condition),
		it.Edition,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Total sums value times count over the given items. Items with an
// unparseable value contribute zero, so the total is always a finite number.
func Total(items []model.Item) float64 {
	var sum float64
	for _, it := range items {
		sum += lineValue(it)
	}
	return sum
}

func lineValue(it model.Item) float64 {
	v, ok := it.Value.Float64()
	if !ok {
		return 0
	}
	n := it.Number
	if n <= 0 {
		n = 1
	}
	return v * float64(n)
}

// CategorySummary is one per-category aggregate row.
type CategorySummary struct {
	Category string  `json:"category"`
	Items    int     `json:"items"`
	Total    float64 `json:"total"`
}

// Summary aggregates items per resolved category name, in first-occurrence
// order, with uncategorized items grouped under an empty name at the end.
func Summary(items []model.Item) []CategorySummary {
	index := make(map[string]int)
	var out []CategorySummary
	var loose CategorySummary
	hasLoose := false

	for _, it := range items {
		if it.Category == "" {
			loose.Items++
			loose.Total += lineValue(it)
			hasLoose = true
			continue
		}
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategorySummary{Category: it.Category})
		}
		out[i].Items++
		out[i].Total += lineValue(it)
	}
	if hasLoose {
		out = append(out, loose)
	}
	return out
}
