package prefs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports that a preference key was rewritten, possibly by another
// running instance.
type Change struct {
	Key string
}

var watchedKeys = map[string]struct{}{
	KeyTheme:        {},
	KeyTOCVisible:   {},
	KeyCurrentPage:  {},
	KeyItemsPerPage: {},
}

// Watch streams changes to preference files until ctx is cancelled. Bursts
// of writes to the same key are coalesced. The channel is closed when the
// watcher stops.
func (s *Store) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("prefs: create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("prefs: watch %s: %w", s.basePath, err)
	}

	changes := make(chan Change, 16)
	go func() {
		defer close(changes)
		defer watcher.Close()

		send := func(c Change) {
			select {
			case changes <- c:
			default:
			}
		}
		throttle := newKeyThrottle(50 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				key := filepath.Base(evt.Name)
				if _, known := watchedKeys[key]; !known {
					continue
				}
				throttle.Enqueue(key, send)
			}
		}
	}()
	return changes, nil
}

// keyThrottle delivers each pending key once per quiet period.
type keyThrottle struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool
}

func newKeyThrottle(delay time.Duration) *keyThrottle {
	return &keyThrottle{delay: delay, pending: map[string]struct{}{}}
}

func (t *keyThrottle) Enqueue(key string, send func(Change)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending[key] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
}

// flush sends under the lock so Stop cannot return while a send is in
// flight; send never blocks.
func (t *keyThrottle) flush(send func(Change)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	for key := range t.pending {
		send(Change{Key: key})
	}
	t.pending = map[string]struct{}{}
	t.timer = nil
}

func (t *keyThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
