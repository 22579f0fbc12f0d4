package controller

import (
	"net/url"
	"sync"
)

// Location is the address of the current view. The active search lives in
// its q parameter and is dropped entirely when empty.
type Location struct {
	mu    sync.RWMutex
	query string
}

// NewLocation starts at the root, searching for query when non-empty.
func NewLocation(query string) *Location {
	return &Location{query: query}
}

// Query is the active search, empty when none.
func (l *Location) Query() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.query
}

// SetQuery replaces the active search.
func (l *Location) SetQuery(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = query
}

// String renders the location as "/" or "/?q=...".
func (l *Location) String() string {
	u := url.URL{Path: "/"}
	if q := l.Query(); q != "" {
		u.RawQuery = url.Values{"q": []string{q}}.Encode()
	}
	return u.String()
}
