// Package notestest runs an in-process notes backend for tests. It keeps
// notes in insertion order, renders html with goldmark and addresses notes by
// position, the way the real backend does.
package notestest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yuin/goldmark"

	"github.com/csheth/jot/internal/notes"
)

// Epoch is the timestamp given to the first note created without an explicit
// time. Each later note is one minute newer.
var Epoch = time.Date(2024, time.January, 2, 9, 0, 0, 0, time.Local)

// Upload is a file received on /upload.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Server is a fake notes backend.
type Server struct {
	URL string

	srv      *httptest.Server
	md       goldmark.Markdown
	mu       sync.Mutex
	notes    []notes.Note
	uploads  []Upload
	calls    map[string]int
	failures map[string]int
	delays   map[string]time.Duration
	clock    time.Time
}

// New starts a server seeded with the given note contents, oldest first, and
// registers its shutdown with t.
func New(t testing.TB, seed ...string) *Server {
	t.Helper()
	s := &Server{
		md:       goldmark.New(),
		calls:    map[string]int{},
		failures: map[string]int{},
		delays:   map[string]time.Duration{},
		clock:    Epoch,
	}
	for _, content := range seed {
		s.add(content, s.tick())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /notes", s.route("GET /notes", s.handleList))
	mux.HandleFunc("POST /notes", s.route("POST /notes", s.handleCreate))
	mux.HandleFunc("GET /notes/search", s.route("GET /notes/search", s.handleSearch))
	mux.HandleFunc("GET /notes/{index}", s.route("GET /notes/{index}", s.handleGet))
	mux.HandleFunc("DELETE /notes/{index}", s.route("DELETE /notes/{index}", s.handleDelete))
	mux.HandleFunc("GET /notes/{index}/content", s.route("GET /notes/{index}/content", s.handleContent))
	mux.HandleFunc("POST /upload", s.route("POST /upload", s.handleUpload))

	s.srv = httptest.NewServer(mux)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Add stores a note with an explicit timestamp, bypassing HTTP.
func (s *Server) Add(content string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(content, at)
}

// Notes returns a copy of the stored notes in insertion order.
func (s *Server) Notes() []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notes.Note, len(s.notes))
	copy(out, s.notes)
	for i := range out {
		out[i].Index = i
	}
	return out
}

// Uploads returns the files received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Calls reports how many requests hit a route pattern such as "GET /notes".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Fail makes every later request on route answer with code. Zero clears it.
func (s *Server) Fail(route string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = code
}

// Delay holds every later request on route for d before answering.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

func (s *Server) route(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[name]++
		code := s.failures[name]
		delay := s.delays[name]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if code != 0 {
			http.Error(w, fmt.Sprintf("forced failure on %s", name), code)
			return
		}
		next(w, r)
	}
}

func (s *Server) tick() time.Time {
	at := s.clock
	s.clock = s.clock.Add(time.Minute)
	return at
}

func (s *Server) add(content string, at time.Time) {
	var html bytes.Buffer
	if err := s.md.Convert([]byte(content), &html); err != nil {
		html.Reset()
		html.WriteString(content)
	}
	s.notes = append(s.notes, notes.Note{
		Content:   content,
		HTML:      html.String(),
		Timestamp: at.Format(notes.TimestampLayout),
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]notes.Note{}, s.notes...)
	s.mu.Unlock()
	writeJSON(w, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))
	s.mu.Lock()
	out := []notes.Note{}
	for _, note := range s.notes {
		if strings.Contains(strings.ToLower(note.Content), query) {
			out = append(out, note)
		}
	}
	s.mu.Unlock()
	writeJSON(w, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var content string
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.mu.Lock()
	s.add(strings.ReplaceAll(content, "---", "<hr>"), s.tick())
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	idx, ok := s.index(r)
	var note notes.Note
	if ok {
		note = s.notes[idx]
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "request for non-existent note", http.StatusBadRequest)
		return
	}
	writeJSON(w, note)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	idx, ok := s.index(r)
	if ok {
		s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "request for non-existent note", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	idx, ok := s.index(r)
	var content string
	if ok {
		content = s.notes[idx].Content
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, content)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	s.mu.Unlock()
	writeJSON(w, "/attachments/"+header.Filename)
}

// index must be called with s.mu held.
func (s *Server) index(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || idx < 0 || idx >= len(s.notes) {
		return 0, false
	}
	return idx, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
