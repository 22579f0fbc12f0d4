// Package printers renders notes and friends for the non-interactive
// commands.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/csheth/jot/internal/logging"
	"github.com/csheth/jot/internal/prefs"
	"github.com/csheth/jot/internal/view"
)

// PrettyPrint writes colored, human readable output to Out.
type PrettyPrint struct {
	Out io.Writer
	// ShowTOC appends the table of contents after a listing.
	ShowTOC bool
}

var (
	bold    = color.New(color.Bold)
	title   = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint)
	stamp   = color.New(color.FgHiYellow, color.Faint)
	marker  = color.New(color.FgCyan, color.Bold)
	warning = color.New(color.FgRed)
)

// Listing prints one page of notes newest first.
func (pp *PrettyPrint) Listing(l view.Listing) {
	heading := "Notes"
	if l.Query != "" {
		heading = fmt.Sprintf("Notes matching %q", l.Query)
	}
	_, _ = title.Fprint(pp.Out, heading)
	_, _ = faint.Fprintf(pp.Out, " - %s\n", l.Page.Showing())

	if len(l.Entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " none\n\n")
		return
	}

	for _, e := range l.Entries {
		_, _ = marker.Fprintf(pp.Out, "#%d", e.Position+1)
		_, _ = stamp.Fprintf(pp.Out, "  %s\n", e.Note.Timestamp)
		for _, line := range strings.Split(e.Note.Content, "\n") {
			_, _ = fmt.Fprintf(pp.Out, "    %s\n", line)
		}
		_, _ = fmt.Fprintln(pp.Out)
	}

	if l.Page.Total > 1 {
		_, _ = faint.Fprintf(pp.Out, "Page %d of %d\n", l.Page.Number, l.Page.Total)
	}
	if pp.ShowTOC {
		pp.TOC(l.TOC)
	}
}

// TOC prints the table of contents as position, page and title columns.
func (pp *PrettyPrint) TOC(entries []view.TOCEntry) {
	if len(entries) == 0 {
		return
	}
	_, _ = title.Fprintln(pp.Out, "Contents")

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("PAGE"), bold.Sprint("TITLE"))
	for _, e := range entries {
		tbl.AddRow(fmt.Sprintf("%d", e.Position+1), fmt.Sprintf("%d", e.Page), e.Title)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// References prints one Markdown reference per uploaded file.
func (pp *PrettyPrint) References(refs []string) {
	for _, ref := range refs {
		_, _ = fmt.Fprintln(pp.Out, ref)
	}
}

// Failure reports a per-item error without aborting the listing.
func (pp *PrettyPrint) Failure(subject string, err error) {
	_, _ = warning.Fprintf(pp.Out, "%s: %v\n", subject, err)
}

// LogEntries prints decoded log lines, newest first.
func (pp *PrettyPrint) LogEntries(entries []logging.Entry) {
	if len(entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " no log entries\n")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	tbl.Wrap = true
	for _, e := range entries {
		tbl.AddRow(faint.Sprint(e.Timestamp), levelColor(e.Level).Sprint(e.Level), e.Module, e.Message+formatDetails(e.Details))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Preferences prints the stored UI preferences.
func (pp *PrettyPrint) Preferences(p prefs.Preferences) {
	theme := string(p.Theme)
	if !p.ThemeSet {
		theme = faint.Sprint("(terminal default)")
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(prefs.KeyTheme), theme)
	tbl.AddRow(bold.Sprint(prefs.KeyTOCVisible), fmt.Sprintf("%t", p.TOCVisible))
	tbl.AddRow(bold.Sprint(prefs.KeyCurrentPage), fmt.Sprintf("%d", p.CurrentPage))
	tbl.AddRow(bold.Sprint(prefs.KeyItemsPerPage), fmt.Sprintf("%d", p.ItemsPerPage))
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func levelColor(level string) *color.Color {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return color.New(color.FgRed)
	case "WARN":
		return color.New(color.FgYellow)
	case "DEBUG":
		return faint
	}
	return color.New()
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return " " + strings.Join(parts, " ")
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
