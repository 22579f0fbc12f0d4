package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func windowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: height}
}

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name        string
		width       int
		height      int
		toc         bool
		notesWidth  int
		notesHeight int
		tocWidth    int
	}{
		{name: "standard", width: 80, height: 24, toc: true, notesWidth: 50, notesHeight: 13, tocWidth: 28},
		{name: "toc hidden", width: 80, height: 24, toc: false, notesWidth: 78, notesHeight: 13, tocWidth: 0},
		{name: "narrow drops toc", width: 60, height: 24, toc: true, notesWidth: 58, notesHeight: 13, tocWidth: 0},
		{name: "tiny", width: 20, height: 8, toc: true, notesWidth: minNotesWidth, notesHeight: minNotesHeight, tocWidth: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height, tc.toc)
			if layout.notesWidth != tc.notesWidth {
				t.Fatalf("notes width mismatch: got %d want %d", layout.notesWidth, tc.notesWidth)
			}
			if layout.notesHeight != tc.notesHeight {
				t.Fatalf("notes height mismatch: got %d want %d", layout.notesHeight, tc.notesHeight)
			}
			if layout.tocWidth != tc.tocWidth {
				t.Fatalf("toc width mismatch: got %d want %d", layout.tocWidth, tc.tocWidth)
			}
		})
	}
}

func TestViewFitsWindowHeight(t *testing.T) {
	env := newTestEnv(t, numberedNotes(30)...)
	env.refresh(t)
	env.m.Update(windowSize(100, 30))

	frame := env.m.View()
	if got := strings.Count(frame, "\n") + 1; got != 30 {
		t.Fatalf("frame height got %d want 30", got)
	}
}

func TestContentOffsetsTrackNotes(t *testing.T) {
	env := newTestEnv(t, "first line\nsecond line", "single")
	env.refresh(t)

	display := env.m.buildNotesContent()
	if len(display.offsets) != 2 {
		t.Fatalf("offsets got %d want 2", len(display.offsets))
	}
	lines := strings.Split(plain(display.content), "\n")
	for i, offset := range display.offsets {
		if !strings.Contains(lines[offset], "#") {
			t.Fatalf("offset %d points at %q, not a note header", i, lines[offset])
		}
	}
}
