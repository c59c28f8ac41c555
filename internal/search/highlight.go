package search

import (
	"regexp"
	"strings"
)

const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Highlight wraps every case-insensitive literal occurrence of query in mark tags.
// Fuzzy-only matches produce no span.
func Highlight(text, query string) string {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return MarkOpen + match + MarkClose
	})
}

// StripHighlights removes mark tags added by Highlight.
func StripHighlights(s string) string {
	return strings.NewReplacer(MarkOpen, "", MarkClose, "").Replace(s)
}

// highlightEntries sets highlighted name and description on each scored entry.
func highlightEntries(entries []ScoredEntry, query string) {
	for i := range entries {
		name := Highlight(entries[i].Name, query)
		entries[i].HighlightedName = &name
		if entries[i].Description != nil {
			desc := Highlight(*entries[i].Description, query)
			entries[i].HighlightedDescription = &desc
		}
	}
}
