package model

import "strings"

// NormalizeTags turns a comma-separated tag string into the canonical tag
// list: trimmed, empties dropped, duplicates removed keeping first occurrence.
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}
