// Package view holds the pure transforms between a fetched note list and what
// the screen shows: filtering, ordering, pagination and the table of contents.
package view

import (
	"sort"
	"strings"

	"github.com/csheth/jot/internal/notes"
)

// DefaultItemsPerPage is used when no valid page size is configured.
const DefaultItemsPerPage = 20

// PageWindowSize is how many page numbers the pagination strip shows.
const PageWindowSize = 5

// Entry is a note placed in display order. Position is its index among all
// filtered notes, newest first, counting across pages.
type Entry struct {
	Note     notes.Note
	Position int
}

// Listing is everything needed to draw one page.
type Listing struct {
	Query   string
	Page    Page
	Entries []Entry
	TOC     []TOCEntry
	Window  []int
}

// Build filters, orders and paginates all, then derives the table of
// contents across every filtered note.
func Build(all []notes.Note, query string, requestedPage, size int) Listing {
	sorted := SortNewestFirst(Filter(all, query))
	page := Paginate(len(sorted), requestedPage, size)

	entries := make([]Entry, 0, page.End-page.Start)
	for i := page.Start; i < page.End; i++ {
		entries = append(entries, Entry{Note: sorted[i], Position: i})
	}
	return Listing{
		Query:   query,
		Page:    page,
		Entries: entries,
		TOC:     BuildTOC(sorted, page.Size),
		Window:  PageWindow(page.Number, page.Total, PageWindowSize),
	}
}

// Filter keeps notes whose content contains query, ignoring case. An empty
// query keeps everything.
func Filter(all []notes.Note, query string) []notes.Note {
	out := make([]notes.Note, 0, len(all))
	if query == "" {
		return append(out, all...)
	}
	needle := strings.ToLower(query)
	for _, note := range all {
		if strings.Contains(strings.ToLower(note.Content), needle) {
			out = append(out, note)
		}
	}
	return out
}

// SortNewestFirst orders notes by timestamp, newest first. Input is assumed
// to be in insertion order; ties keep the later-inserted note first and notes
// with unparseable timestamps go last.
func SortNewestFirst(in []notes.Note) []notes.Note {
	out := make([]notes.Note, len(in))
	for i, note := range in {
		out[len(in)-1-i] = note
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := out[i].Time()
		tj, okJ := out[j].Time()
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI != okJ:
			return okI
		default:
			return false
		}
	})
	return out
}
