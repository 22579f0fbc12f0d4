package view

import (
	"strings"

	"github.com/csheth/jot/internal/notes"
)

const tocTitleLimit = 20

// TOCEntry links a note title to where it is displayed.
type TOCEntry struct {
	Title    string
	Position int
	Page     int
}

// BuildTOC lists every note in display order with the page it falls on.
func BuildTOC(sorted []notes.Note, size int) []TOCEntry {
	out := make([]TOCEntry, 0, len(sorted))
	for i, note := range sorted {
		out = append(out, TOCEntry{
			Title:    TOCTitle(note.Content),
			Position: i,
			Page:     PageFor(i, size),
		})
	}
	return out
}

// TOCTitle is the first line of content cut to 20 characters, with "..."
// only when the line was longer.
func TOCTitle(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	first = strings.TrimSuffix(first, "\r")
	runes := []rune(first)
	if len(runes) <= tocTitleLimit {
		return first
	}
	return string(runes[:tocTitleLimit]) + "..."
}
