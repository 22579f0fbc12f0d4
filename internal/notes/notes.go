// Package notes is the client side of the notes backend: the Note model and a
// REST client for listing, searching, creating, deleting, reading and
// attaching.
package notes

import (
	"strings"
	"time"
)

// TimestampLayout is the format the backend stamps notes with.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Note is a single stored note. Notes are immutable once created.
type Note struct {
	Content   string `json:"content"`
	HTML      string `json:"html"`
	Timestamp string `json:"timestamp"`

	// Index is the note's position in the backend's insertion order, the
	// identity used by delete and content lookups. -1 when unknown.
	Index int `json:"-"`
}

// Time parses the note timestamp.
func (n Note) Time() (time.Time, bool) {
	value := strings.TrimSpace(n.Timestamp)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Same reports whether two notes describe the same stored entry.
func (n Note) Same(other Note) bool {
	return n.Timestamp == other.Timestamp && n.Content == other.Content
}

// Attachment describes an uploaded file.
type Attachment struct {
	Name  string
	Path  string
	MIME  string
	Image bool
}
