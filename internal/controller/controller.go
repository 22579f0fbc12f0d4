// Package controller coordinates the notes view: it fetches notes, derives
// the visible page, and runs the user actions (save, delete, copy, upload)
// against the backend. All state that outlives a single call lives on the
// Controller, which is created once per program.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/csheth/jot/internal/logging"
	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/view"
)

const logModule = "controller"

// Backend is the slice of the notes client the controller drives.
type Backend interface {
	List(ctx context.Context) ([]notes.Note, error)
	Search(ctx context.Context, query string) ([]notes.Note, error)
	Create(ctx context.Context, text string) error
	Delete(ctx context.Context, index int) error
	Content(ctx context.Context, index int) (string, error)
	Resolve(ctx context.Context, note notes.Note) (int, error)
	UploadFile(ctx context.Context, path string) (notes.Attachment, error)
}

// PageState persists pagination between refreshes and runs.
type PageState interface {
	CurrentPage() int
	SetCurrentPage(page int) error
	ItemsPerPage() int
	SetItemsPerPage(n int) error
}

// Config wires a Controller.
type Config struct {
	Backend   Backend
	Pages     PageState
	Clipboard Clipboard
	Location  *Location
	Logger    *logging.Logger
}

// Controller is the notes view controller.
type Controller struct {
	backend  Backend
	pages    PageState
	clip     Clipboard
	location *Location
	log      *logging.Logger
	seq      atomic.Uint64
}

// Snapshot is the outcome of one refresh.
type Snapshot struct {
	Seq       uint64
	Location  string
	Listing   view.Listing
	FetchedAt time.Time
}

// Uploaded is a file attached through Upload.
type Uploaded struct {
	Attachment notes.Attachment
	Reference  string
}

// New builds a Controller. A nil Location starts without a query and a nil
// Clipboard uses the system clipboard.
func New(cfg Config) (*Controller, error) {
	if cfg.Backend == nil {
		return nil, errors.New("controller: backend is required")
	}
	if cfg.Pages == nil {
		return nil, errors.New("controller: page state is required")
	}
	if cfg.Location == nil {
		cfg.Location = NewLocation("")
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = SystemClipboard{}
	}
	return &Controller{
		backend:  cfg.Backend,
		pages:    cfg.Pages,
		clip:     cfg.Clipboard,
		location: cfg.Location,
		log:      cfg.Logger,
	}, nil
}

// Location is the current address, including any active search.
func (c *Controller) Location() *Location {
	return c.location
}

// ItemsPerPage is the persisted page size.
func (c *Controller) ItemsPerPage() int {
	return c.pages.ItemsPerPage()
}

// Refresh fetches notes for the current location and builds the page to
// show. Every call takes a new sequence number; only the latest one is
// accepted by Accept. On error the previous render should stay untouched.
func (c *Controller) Refresh(ctx context.Context) (Snapshot, error) {
	seq := c.seq.Add(1)
	query := c.location.Query()

	var (
		all []notes.Note
		err error
	)
	if query != "" {
		all, err = c.backend.Search(ctx, query)
	} else {
		all, err = c.backend.List(ctx)
	}
	if err != nil {
		c.log.Warn(logModule, "refresh failed", map[string]any{"seq": seq, "query": query, "error": err})
		return Snapshot{Seq: seq}, fmt.Errorf("refresh: %w", err)
	}

	listing := view.Build(all, query, c.pages.CurrentPage(), c.pages.ItemsPerPage())
	c.log.Debug(logModule, "refresh fetched", map[string]any{
		"seq":   seq,
		"query": query,
		"notes": listing.Page.Count,
		"page":  listing.Page.Number,
	})
	return Snapshot{
		Seq:       seq,
		Location:  c.location.String(),
		Listing:   listing,
		FetchedAt: time.Now(),
	}, nil
}

// Accept reports whether s came from the most recently issued refresh. When
// it did, the clamped page number is persisted.
func (c *Controller) Accept(s Snapshot) bool {
	if latest := c.seq.Load(); s.Seq != latest {
		c.log.Debug(logModule, "discarding stale refresh", map[string]any{"seq": s.Seq, "latest": latest})
		return false
	}
	if page := s.Listing.Page.Number; page != c.pages.CurrentPage() {
		if err := c.pages.SetCurrentPage(page); err != nil {
			c.log.Error(logModule, "persist page failed", map[string]any{"page": page, "error": err})
		}
	}
	return true
}

// GoToPage records page as current and refreshes.
func (c *Controller) GoToPage(ctx context.Context, page int) (Snapshot, error) {
	if err := c.pages.SetCurrentPage(page); err != nil {
		return Snapshot{}, err
	}
	return c.Refresh(ctx)
}

// SetItemsPerPage changes the page size, returns to the first page and
// refreshes.
func (c *Controller) SetItemsPerPage(ctx context.Context, n int) (Snapshot, error) {
	if err := c.pages.SetItemsPerPage(n); err != nil {
		return Snapshot{}, err
	}
	if err := c.pages.SetCurrentPage(1); err != nil {
		return Snapshot{}, err
	}
	return c.Refresh(ctx)
}

// Search points the location at query; an empty query clears the search.
func (c *Controller) Search(query string) {
	c.location.SetQuery(query)
}

// Save stores text as a new note. Empty text is ignored and reports false.
func (c *Controller) Save(ctx context.Context, text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	if err := c.backend.Create(ctx, text); err != nil {
		c.log.Error(logModule, "save failed", map[string]any{"error": err})
		return false, fmt.Errorf("save note: %w", err)
	}
	c.log.Info(logModule, "note saved", map[string]any{"length": len(text)})
	return true, nil
}

// Delete removes a displayed note. The backend addresses notes by insertion
// position, so the position is resolved at delete time.
func (c *Controller) Delete(ctx context.Context, note notes.Note) error {
	index, err := c.backend.Resolve(ctx, note)
	if err != nil {
		c.log.Error(logModule, "delete: resolve failed", map[string]any{"timestamp": note.Timestamp, "error": err})
		return fmt.Errorf("delete note: %w", err)
	}
	if err := c.backend.Delete(ctx, index); err != nil {
		c.log.Error(logModule, "delete failed", map[string]any{"index": index, "error": err})
		return fmt.Errorf("delete note: %w", err)
	}
	c.log.Info(logModule, "note deleted", map[string]any{"index": index, "timestamp": note.Timestamp})
	return nil
}

// Copy puts a note's raw text on the clipboard and returns it. The text is
// fetched from the backend, falling back to the content already loaded.
func (c *Controller) Copy(ctx context.Context, note notes.Note) (string, error) {
	text, err := c.content(ctx, note)
	if err != nil {
		if note.Content == "" {
			c.log.Error(logModule, "copy failed", map[string]any{"error": err})
			return "", fmt.Errorf("copy note: %w", err)
		}
		c.log.Warn(logModule, "copy: using loaded content", map[string]any{"error": err})
		text = note.Content
	}
	if err := c.clip.WriteAll(text); err != nil {
		c.log.Error(logModule, "copy: clipboard write failed", map[string]any{"error": err})
		return "", fmt.Errorf("copy note: %w", err)
	}
	return text, nil
}

// Content returns a note's raw text from the backend.
func (c *Controller) Content(ctx context.Context, note notes.Note) (string, error) {
	return c.content(ctx, note)
}

func (c *Controller) content(ctx context.Context, note notes.Note) (string, error) {
	index, err := c.backend.Resolve(ctx, note)
	if err != nil {
		return "", err
	}
	return c.backend.Content(ctx, index)
}

// Upload attaches one file and returns the Markdown that references it.
func (c *Controller) Upload(ctx context.Context, path string) (Uploaded, error) {
	attachment, err := c.backend.UploadFile(ctx, path)
	if err != nil {
		c.log.Error(logModule, "upload failed", map[string]any{"path": path, "error": err})
		return Uploaded{}, fmt.Errorf("upload %s: %w", path, err)
	}
	c.log.Info(logModule, "file uploaded", map[string]any{"path": path, "stored": attachment.Path, "mime": attachment.MIME})
	return Uploaded{
		Attachment: attachment,
		Reference:  view.Reference(attachment.Path, attachment.Image),
	}, nil
}
