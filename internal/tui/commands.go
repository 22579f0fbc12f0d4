package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/jot/internal/controller"
	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/prefs"
)

type snapshotFunc func(context.Context) (controller.Snapshot, error)

func refreshJob(fetch snapshotFunc, then func(*model) tea.Cmd) jobFunc {
	return func(ctx context.Context) (tea.Msg, error) {
		snapshot, err := fetch(ctx)
		return refreshResultMsg{snapshot: snapshot, err: err, then: then}, err
	}
}

func saveJob(ctrl *controller.Controller, text string) jobFunc {
	return func(ctx context.Context) (tea.Msg, error) {
		saved, err := ctrl.Save(ctx, text)
		return saveResultMsg{saved: saved, err: err}, err
	}
}

func deleteJob(ctrl *controller.Controller, note notes.Note, position int) jobFunc {
	return func(ctx context.Context) (tea.Msg, error) {
		err := ctrl.Delete(ctx, note)
		return deleteResultMsg{position: position, err: err}, err
	}
}

func copyJob(ctrl *controller.Controller, note notes.Note, position int) jobFunc {
	return func(ctx context.Context) (tea.Msg, error) {
		_, err := ctrl.Copy(ctx, note)
		return copyResultMsg{position: position, err: err}, err
	}
}

// uploadJob uploads files in drop order. One failure does not stop the rest.
func uploadJob(ctrl *controller.Controller, paths []string) jobFunc {
	files := append([]string(nil), paths...)
	return func(ctx context.Context) (tea.Msg, error) {
		outcomes := make([]uploadOutcome, 0, len(files))
		var firstErr error
		for _, path := range files {
			up, err := ctrl.Upload(ctx, path)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			outcomes = append(outcomes, uploadOutcome{path: path, reference: up.Reference, err: err})
		}
		return uploadResultMsg{outcomes: outcomes}, firstErr
	}
}

// waitForSearch blocks until the debouncer fires.
func waitForSearch(d *controller.Debouncer) tea.Cmd {
	return func() tea.Msg {
		value, ok := <-d.C()
		if !ok {
			return nil
		}
		return searchFiredMsg{value: value}
	}
}

func waitForPrefChange(ch <-chan prefs.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return prefChangedMsg{change: change}
	}
}

func copyAckExpiry(token int) tea.Cmd {
	return tea.Tick(copyAckDuration, func(time.Time) tea.Msg {
		return copyAckExpiredMsg{token: token}
	})
}
