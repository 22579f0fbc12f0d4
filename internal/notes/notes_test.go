package notes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/notestest"
)

func newClient(t *testing.T, srv *notestest.Server) *notes.Client {
	t.Helper()
	client, err := notes.NewClient(notes.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsBadURLs(t *testing.T) {
	t.Parallel()

	cases := []string{"", "ftp://example.com", "://nope"}
	for _, raw := range cases {
		_, err := notes.NewClient(notes.Config{BaseURL: raw})
		assert.Error(t, err, "url %q", raw)
	}
}

func TestListAssignsInsertionIndices(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "first", "second", "third")
	client := newClient(t, srv)

	got, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, note := range got {
		assert.Equal(t, i, note.Index)
	}
	assert.Equal(t, "second", got[1].Content)
	assert.Contains(t, got[1].HTML, "<p>second</p>")

	ts, ok := got[0].Time()
	require.True(t, ok)
	assert.True(t, ts.Equal(notestest.Epoch), "got %v", ts)
}

func TestSearchIsCaseInsensitiveAndUnindexed(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "Hello world", "goodbye", "say HELLO")
	client := newClient(t, srv)

	got, err := client.Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, note := range got {
		assert.Equal(t, -1, note.Index)
	}
}

func TestCreateSendsJSONString(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t)
	client := newClient(t, srv)

	require.NoError(t, client.Create(context.Background(), "abc \"quoted\"\nline"))
	stored := srv.Notes()
	require.Len(t, stored, 1)
	assert.Equal(t, "abc \"quoted\"\nline", stored[0].Content)
}

func TestDeleteAndContentAddressByIndex(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "a", "b", "c")
	client := newClient(t, srv)
	ctx := context.Background()

	content, err := client.Content(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", content)

	require.NoError(t, client.Delete(ctx, 1))
	remaining := srv.Notes()
	require.Len(t, remaining, 2)
	assert.Equal(t, "c", remaining[1].Content)

	_, err = client.Content(ctx, 7)
	require.Error(t, err)
	assert.True(t, notes.IsNotFound(err))

	err = client.Delete(ctx, 7)
	var statusErr *notes.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "non-existent")
}

func TestGetReturnsSingleNote(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "a", "b")
	client := newClient(t, srv)

	note, err := client.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "b", note.Content)
	assert.Equal(t, 1, note.Index)
}

func TestServerErrorsBecomeStatusErrors(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "a")
	srv.Fail("GET /notes", http.StatusInternalServerError)
	client := newClient(t, srv)

	_, err := client.List(context.Background())
	var statusErr *notes.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "list", statusErr.Op)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.False(t, notes.IsNotFound(err))
}

func TestRequestTimeoutApplies(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "a")
	srv.Delay("GET /notes", time.Second)
	client, err := notes.NewClient(notes.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveFindsReorderedNotes(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "alpha", "beta", "gamma")
	client := newClient(t, srv)
	ctx := context.Background()

	found, err := client.Search(ctx, "gamma")
	require.NoError(t, err)
	require.Len(t, found, 1)

	idx, err := client.Resolve(ctx, found[0])
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 1, srv.Calls("GET /notes"))

	// Served from the cached listing.
	idx, err = client.Resolve(ctx, found[0])
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 1, srv.Calls("GET /notes"))

	// A write drops the cache, so the shifted position is picked up.
	require.NoError(t, client.Delete(ctx, 0))
	idx, err = client.Resolve(ctx, found[0])
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, srv.Calls("GET /notes"))
}

func TestResolveMissingNote(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t, "alpha")
	client := newClient(t, srv)

	_, err := client.Resolve(context.Background(), notes.Note{Content: "ghost", Timestamp: "2020-01-01 00:00:00", Index: -1})
	assert.ErrorIs(t, err, notes.ErrNotFound)
	assert.True(t, notes.IsNotFound(err))
}

func TestUploadFileDetectsImages(t *testing.T) {
	t.Parallel()

	srv := notestest.New(t)
	client := newClient(t, srv)
	dir := t.TempDir()

	png := filepath.Join(dir, "my file.png")
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(png, pngHeader, 0o644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("plain words"), 0o644))

	img, err := client.UploadFile(context.Background(), png)
	require.NoError(t, err)
	assert.True(t, img.Image)
	assert.Equal(t, "my file.png", img.Name)
	assert.Equal(t, "/attachments/my file.png", img.Path)

	doc, err := client.UploadFile(context.Background(), text)
	require.NoError(t, err)
	assert.False(t, doc.Image)

	uploads := srv.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "image/png", uploads[0].ContentType)
	assert.Equal(t, []byte("plain words"), uploads[1].Data)

	_, err = client.UploadFile(context.Background(), dir)
	assert.Error(t, err)
}

func TestUploadRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`""`))
	}))
	defer srv.Close()

	client, err := notes.NewClient(notes.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = client.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNoteTimeParsesKnownLayouts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		ok    bool
	}{
		{"2024-03-01 10:11:12", true},
		{"2024-03-01T10:11:12Z", true},
		{"2024-03-01T10:11:12", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tc := range cases {
		_, ok := notes.Note{Timestamp: tc.value}.Time()
		assert.Equal(t, tc.ok, ok, tc.value)
	}
}

func TestIsImage(t *testing.T) {
	t.Parallel()

	assert.True(t, notes.IsImage("image/png"))
	assert.True(t, notes.IsImage("Image/JPEG"))
	assert.False(t, notes.IsImage("text/plain; charset=utf-8"))
	assert.False(t, notes.IsImage(""))
}
