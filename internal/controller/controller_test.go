package controller_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/jot/internal/controller"
	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/notestest"
	"github.com/csheth/jot/internal/prefs"
)

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func (f *fakeClipboard) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

type fixture struct {
	srv   *notestest.Server
	store *prefs.Store
	clip  *fakeClipboard
	ctrl  *controller.Controller
}

func newFixture(t *testing.T, seed ...string) fixture {
	t.Helper()
	srv := notestest.New(t, seed...)
	client, err := notes.NewClient(notes.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	store, err := prefs.Open(t.TempDir(), 20)
	require.NoError(t, err)
	clip := &fakeClipboard{}
	ctrl, err := controller.New(controller.Config{Backend: client, Pages: store, Clipboard: clip})
	require.NoError(t, err)
	return fixture{srv: srv, store: store, clip: clip, ctrl: ctrl}
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("note %02d", i)
	}
	return out
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := controller.New(controller.Config{})
	assert.Error(t, err)
}

func TestRefreshShowsNewestFirst(t *testing.T) {
	t.Parallel()

	f := newFixture(t, numbered(25)...)
	snap, err := f.ctrl.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, f.ctrl.Accept(snap))

	listing := snap.Listing
	assert.Equal(t, 1, listing.Page.Number)
	assert.Equal(t, 2, listing.Page.Total)
	require.Len(t, listing.Entries, 20)
	assert.Equal(t, "note 24", listing.Entries[0].Note.Content)
	assert.Len(t, listing.TOC, 25)
	assert.Equal(t, "/", snap.Location)
}

func TestRefreshClampsAndPersistsPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, numbered(25)...)
	require.NoError(t, f.store.SetCurrentPage(9))

	snap, err := f.ctrl.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Listing.Page.Number)
	assert.Len(t, snap.Listing.Entries, 5)
	require.True(t, f.ctrl.Accept(snap))
	assert.Equal(t, 2, f.store.CurrentPage())
}

func TestRefreshUsesSearchLocation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "Hello world", "other", "HELLO again")
	f.ctrl.Search("hello")

	snap, err := f.ctrl.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/?q=hello", snap.Location)
	assert.Equal(t, 1, f.srv.Calls("GET /notes/search"))
	require.Len(t, snap.Listing.Entries, 2)
	assert.Equal(t, "HELLO again", snap.Listing.Entries[0].Note.Content)

	f.ctrl.Search("")
	snap, err = f.ctrl.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/", snap.Location)
	assert.Len(t, snap.Listing.Entries, 3)
}

func TestRefreshFailureReturnsError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "a")
	f.srv.Fail("GET /notes", http.StatusInternalServerError)

	_, err := f.ctrl.Refresh(context.Background())
	require.Error(t, err)
	var statusErr *notes.StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestAcceptRejectsStaleSnapshots(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "a", "b")
	ctx := context.Background()

	first, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)
	second, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)

	// The first response arriving last must not win.
	assert.True(t, f.ctrl.Accept(second))
	assert.False(t, f.ctrl.Accept(first))
}

func TestConcurrentRefreshesOnlyLatestAccepted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, numbered(3)...)
	ctx := context.Background()

	const n = 8
	snaps := make([]controller.Snapshot, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := f.ctrl.Refresh(ctx)
			assert.NoError(t, err)
			snaps[i] = snap
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, snap := range snaps {
		if f.ctrl.Accept(snap) {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestGoToPageAndItemsPerPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, numbered(45)...)
	ctx := context.Background()

	snap, err := f.ctrl.GoToPage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Listing.Page.Number)
	assert.Len(t, snap.Listing.Entries, 5)
	assert.Equal(t, "note 04", snap.Listing.Entries[0].Note.Content)

	snap, err = f.ctrl.SetItemsPerPage(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Listing.Page.Number, "changing page size resets to page 1")
	assert.Equal(t, 5, snap.Listing.Page.Total)
	assert.Len(t, snap.Listing.Entries, 10)
	assert.Equal(t, 10, f.ctrl.ItemsPerPage())

	_, err = f.ctrl.SetItemsPerPage(ctx, 0)
	assert.Error(t, err)
}

func TestSaveThenRefreshShowsNote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.ctrl.Save(ctx, "")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 0, f.srv.Calls("POST /notes"))

	saved, err = f.ctrl.Save(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, saved)

	snap, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Listing.Entries, 1)
	assert.Equal(t, "abc", snap.Listing.Entries[0].Note.Content)
}

func TestSaveFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Fail("POST /notes", http.StatusInternalServerError)
	saved, err := f.ctrl.Save(context.Background(), "abc")
	assert.Error(t, err)
	assert.False(t, saved)
}

func TestDeleteResolvesBackendPosition(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "oldest", "middle", "newest")
	ctx := context.Background()

	snap, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)
	// Display order is newest first, so display 0 is backend position 2.
	target := snap.Listing.Entries[0].Note
	require.Equal(t, "newest", target.Content)

	require.NoError(t, f.ctrl.Delete(ctx, target))
	remaining := f.srv.Notes()
	require.Len(t, remaining, 2)
	assert.Equal(t, "oldest", remaining[0].Content)
	assert.Equal(t, "middle", remaining[1].Content)
}

func TestDeleteFromSearchResults(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "keep me", "drop me", "keep too")
	ctx := context.Background()
	f.ctrl.Search("drop")

	snap, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Listing.Entries, 1)
	require.NoError(t, f.ctrl.Delete(ctx, snap.Listing.Entries[0].Note))

	remaining := f.srv.Notes()
	require.Len(t, remaining, 2)
	assert.Equal(t, "keep me", remaining[0].Content)
	assert.Equal(t, "keep too", remaining[1].Content)
}

func TestDeleteMissingNote(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "a")
	err := f.ctrl.Delete(context.Background(), notes.Note{Content: "ghost", Timestamp: "2000-01-01 00:00:00", Index: -1})
	assert.True(t, notes.IsNotFound(err))
	assert.Len(t, f.srv.Notes(), 1)
}

func TestCopyUsesContentEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "first", "second")
	ctx := context.Background()
	snap, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)

	text, err := f.ctrl.Copy(ctx, snap.Listing.Entries[1].Note)
	require.NoError(t, err)
	assert.Equal(t, "first", text)
	assert.Equal(t, "first", f.clip.Text())
	assert.Equal(t, 1, f.srv.Calls("GET /notes/{index}/content"))
}

func TestCopyFallsBackToLoadedContent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "first")
	f.srv.Fail("GET /notes/{index}/content", http.StatusInternalServerError)
	ctx := context.Background()
	snap, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)

	text, err := f.ctrl.Copy(ctx, snap.Listing.Entries[0].Note)
	require.NoError(t, err)
	assert.Equal(t, "first", text)
	assert.Equal(t, "first", f.clip.Text())
}

func TestCopyClipboardFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "first")
	f.clip.err = controller.ErrClipboardUnsupported
	ctx := context.Background()
	snap, err := f.ctrl.Refresh(ctx)
	require.NoError(t, err)

	_, err = f.ctrl.Copy(ctx, snap.Listing.Entries[0].Note)
	assert.ErrorIs(t, err, controller.ErrClipboardUnsupported)
}

func TestUploadBuildsReference(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	dir := t.TempDir()
	png := filepath.Join(dir, "my file.png")
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(png, header, 0o644))

	up, err := f.ctrl.Upload(context.Background(), png)
	require.NoError(t, err)
	assert.Equal(t, "![my file.png](</attachments/my file.png>)", up.Reference)

	_, err = f.ctrl.Upload(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
