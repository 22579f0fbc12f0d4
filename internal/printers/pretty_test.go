package printers

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/csheth/jot/internal/logging"
	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/prefs"
	"github.com/csheth/jot/internal/view"
)

func init() {
	color.NoColor = true
}

func sampleNotes() []notes.Note {
	return []notes.Note{
		{Content: "older note", Timestamp: "2024-01-01 10:00:00", Index: 0},
		{Content: "newer note\nsecond line", Timestamp: "2024-01-02 10:00:00", Index: 1},
		{Content: "a note with a rather long first line", Timestamp: "2024-01-03 10:00:00", Index: 2},
	}
}

func TestListingPrintsNewestFirst(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out, ShowTOC: true}
	pp.Listing(view.Build(sampleNotes(), "", 1, 2))

	got := out.String()
	for _, want := range []string{"Notes - Showing 1-2 of 3", "#1  2024-01-03 10:00:00", "    second line", "Page 1 of 2", "Contents", "a note with a rather..."} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "#1") > strings.Index(got, "#2") {
		t.Fatalf("entries out of order:\n%s", got)
	}
	if strings.Contains(got, "#3") {
		t.Fatalf("second page note printed on page one:\n%s", got)
	}
}

func TestListingEmptyQuery(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	pp.Listing(view.Build(sampleNotes(), "zebra", 1, 20))

	got := out.String()
	if !strings.Contains(got, `Notes matching "zebra" - Showing 0-0 of 0`) || !strings.Contains(got, "none") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestLogEntriesAndFailure(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	pp.LogEntries([]logging.Entry{{
		Timestamp: "2024-01-01T00:00:00.000Z",
		Level:     "WARN",
		Module:    "controller",
		Message:   "refresh failed",
		Details:   map[string]any{"seq": 2, "query": "x"},
	}})
	pp.Failure("missing.png", errors.New("no such file"))

	got := out.String()
	for _, want := range []string{"WARN", "controller", "refresh failed query=x seq=2", "missing.png: no such file"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPreferences(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	pp.Preferences(prefs.Preferences{TOCVisible: true, CurrentPage: 3, ItemsPerPage: 50})

	got := out.String()
	for _, want := range []string{"(terminal default)", "true", "3", "50"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	if err := JSON(&out, map[string]int{"count": 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if out.String() != "{\n  \"count\": 2\n}\n" {
		t.Fatalf("got %q", out.String())
	}
}
