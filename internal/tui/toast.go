package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type toast struct {
	ID        string
	Message   string
	Fading    bool
	CreatedAt time.Time
}

// toastStore holds the toasts on screen. It is only touched from Update.
type toastStore struct {
	items []toast
}

func (s *toastStore) Add(message string) toast {
	t := toast{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.items = append(s.items, t)
	return t
}

func (s *toastStore) Fade(id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Fading = true
			return
		}
	}
}

func (s *toastStore) Remove(id string) {
	next := s.items[:0]
	for _, t := range s.items {
		if t.ID == id {
			continue
		}
		next = append(next, t)
	}
	s.items = next
}

func (s *toastStore) List() []toast {
	out := make([]toast, len(s.items))
	copy(out, s.items)
	return out
}

// scheduleToast fades the toast at toastFadeAfter and removes it at
// toastRemoveAfter.
func scheduleToast(id string) tea.Cmd {
	return tea.Batch(
		tea.Tick(toastFadeAfter, func(time.Time) tea.Msg { return toastFadeMsg{id: id} }),
		tea.Tick(toastRemoveAfter, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} }),
	)
}
