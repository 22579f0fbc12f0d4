package notes

import (
	"context"
	"fmt"
)

// Resolve finds the backend index of a displayed note. Notes shown from a
// search, or reordered for display, do not carry a trustworthy index, so the
// lookup matches timestamp and content against the full listing. A cached
// listing is tried first and refetched once on a miss.
func (c *Client) Resolve(ctx context.Context, note Note) (int, error) {
	if cached, ok := c.listing.Get(listingCacheKey); ok {
		if idx := indexOf(cached.([]Note), note); idx >= 0 {
			return idx, nil
		}
	}
	all, err := c.List(ctx)
	if err != nil {
		return -1, fmt.Errorf("notes: resolve: %w", err)
	}
	if idx := indexOf(all, note); idx >= 0 {
		return idx, nil
	}
	return -1, ErrNotFound
}

func indexOf(all []Note, note Note) int {
	// A known index is trusted only while it still points at the same note.
	if note.Index >= 0 && note.Index < len(all) && all[note.Index].Same(note) {
		return note.Index
	}
	for i, candidate := range all {
		if candidate.Same(note) {
			return i
		}
	}
	return -1
}
