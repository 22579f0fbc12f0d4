package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/jot/internal/logging"
)

type jobKind string

const (
	jobKindRefresh jobKind = "refresh"
	jobKindSave    jobKind = "save"
	jobKindDelete  jobKind = "delete"
	jobKindCopy    jobKind = "copy"
	jobKindUpload  jobKind = "upload"
)

// label is shown beside the spinner while a job of this kind runs.
func (k jobKind) label() string {
	switch k {
	case jobKindRefresh:
		return "Loading notes"
	case jobKindSave:
		return "Saving"
	case jobKindDelete:
		return "Deleting"
	case jobKindCopy:
		return "Copying"
	case jobKindUpload:
		return "Uploading"
	}
	return string(k)
}

type jobState string

const (
	jobRunning jobState = "running"
	jobDone    jobState = "done"
	jobFailed  jobState = "failed"
)

type jobRecord struct {
	ID      string
	Kind    jobKind
	State   jobState
	Started time.Time
	Elapsed time.Duration
	Err     error
}

type jobStartedMsg struct {
	job jobRecord
}

// jobFinishedMsg carries the job's own result message, which Update
// dispatches after bookkeeping.
type jobFinishedMsg struct {
	job     jobRecord
	payload tea.Msg
}

type jobFunc func(context.Context) (tea.Msg, error)

// jobBus runs backend work off the update loop. active is only touched from
// Update.
type jobBus struct {
	seq    atomic.Uint64
	log    *logging.Logger
	active []jobRecord
}

func newJobBus(log *logging.Logger) *jobBus {
	return &jobBus{log: log}
}

func (b *jobBus) nextID(kind jobKind) string {
	return fmt.Sprintf("%s-%d", kind, b.seq.Add(1))
}

// Start announces the job, then runs fn in a command goroutine.
func (b *jobBus) Start(kind jobKind, fn jobFunc) tea.Cmd {
	rec := jobRecord{ID: b.nextID(kind), Kind: kind, State: jobRunning, Started: time.Now()}
	return tea.Sequence(
		func() tea.Msg { return jobStartedMsg{job: rec} },
		func() tea.Msg { return b.run(rec, fn) },
	)
}

func (b *jobBus) run(rec jobRecord, fn jobFunc) tea.Msg {
	payload, err := fn(context.Background())
	rec.Elapsed = time.Since(rec.Started)
	rec.State = jobDone
	if err != nil {
		rec.State = jobFailed
		rec.Err = err
	}
	b.log.Debug("jobs", "job finished", map[string]any{
		"id":      rec.ID,
		"state":   string(rec.State),
		"elapsed": rec.Elapsed.String(),
		"error":   err,
	})
	return jobFinishedMsg{job: rec, payload: payload}
}

// begin records a started job and reports whether it is the only one
// running, which is when the spinner needs kicking.
func (b *jobBus) begin(rec jobRecord) bool {
	b.active = append(b.active, rec)
	b.log.Debug("jobs", "job started", map[string]any{"id": rec.ID})
	return len(b.active) == 1
}

func (b *jobBus) finish(rec jobRecord) {
	for i, a := range b.active {
		if a.ID == rec.ID {
			b.active = append(b.active[:i], b.active[i+1:]...)
			return
		}
	}
}

func (b *jobBus) busy() bool {
	return len(b.active) > 0
}

// label describes the oldest running job, noting how many more are queued
// behind it.
func (b *jobBus) label() string {
	switch len(b.active) {
	case 0:
		return ""
	case 1:
		return b.active[0].Kind.label() + "..."
	}
	return fmt.Sprintf("%s... (+%d)", b.active[0].Kind.label(), len(b.active)-1)
}
