package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/jot/internal/controller"
	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/prefs"
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusNotes
	focusTOC
)

func (f focusArea) String() string {
	switch f {
	case focusNotes:
		return "NOTES"
	case focusTOC:
		return "TOC"
	default:
		return "EDITOR"
	}
}

const appTitle = "jot"

const (
	editorPlaceholder = "Write a note. Ctrl+S saves, / searches, drop files to attach."
	copiedLabel       = "Copied"
	copyToastMessage  = "Note copied successfully"
	deleteConfirmText = "Are you sure you want to delete this note?"
	deleteFailedText  = "Failed to delete note"
)

const (
	copyAckDuration  = 2 * time.Second
	toastFadeAfter   = 2 * time.Second
	toastRemoveAfter = 2300 * time.Millisecond
)

// itemsPerPageOptions are the page sizes +/- step through.
var itemsPerPageOptions = []int{10, 20, 50, 100}

type refreshResultMsg struct {
	snapshot controller.Snapshot
	err      error
	then     func(*model) tea.Cmd
}

type saveResultMsg struct {
	saved bool
	err   error
}

type deleteResultMsg struct {
	position int
	err      error
}

type copyResultMsg struct {
	position int
	err      error
}

type uploadOutcome struct {
	path      string
	reference string
	err       error
}

type uploadResultMsg struct {
	outcomes []uploadOutcome
}

type searchFiredMsg struct {
	value string
}

type prefChangedMsg struct {
	change prefs.Change
}

type copyAckExpiredMsg struct {
	token int
}

type toastFadeMsg struct {
	id string
}

type toastExpiredMsg struct {
	id string
}

// confirmPrompt holds the note chosen when d was pressed, so a refresh that
// reorders the page while the prompt is open cannot change the target.
type confirmPrompt struct {
	note     notes.Note
	position int
	preview  string
}
