// Package prefs persists UI preferences between runs. Values are stored as
// strings, one file per key, in a diskv directory.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Keys of the persisted preferences.
const (
	KeyTheme        = "theme"
	KeyTOCVisible   = "tocVisible"
	KeyCurrentPage  = "currentPage"
	KeyItemsPerPage = "itemsPerPage"
)

// Theme is the color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(value string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Preferences is a snapshot of every stored value.
type Preferences struct {
	Theme        Theme
	ThemeSet     bool
	TOCVisible   bool
	CurrentPage  int
	ItemsPerPage int
}

// Store reads and writes preferences.
type Store struct {
	d                   *diskv.Diskv
	basePath            string
	defaultItemsPerPage int
}

// Open creates the preference directory if needed.
func Open(basePath string, defaultItemsPerPage int) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("prefs: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("prefs: create %s: %w", basePath, err)
	}
	if defaultItemsPerPage < 1 {
		defaultItemsPerPage = 20
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:  basePath,
			Transform: func(string) []string { return []string{} },
			// Other instances write the same files, so reads always hit disk.
			CacheSizeMax: 0,
		}),
		basePath:            basePath,
		defaultItemsPerPage: defaultItemsPerPage,
	}, nil
}

// Path is the directory holding the preference files.
func (s *Store) Path() string {
	return s.basePath
}

// Load reads every preference, applying defaults.
func (s *Store) Load() Preferences {
	theme, set := s.Theme()
	return Preferences{
		Theme:        theme,
		ThemeSet:     set,
		TOCVisible:   s.TOCVisible(),
		CurrentPage:  s.CurrentPage(),
		ItemsPerPage: s.ItemsPerPage(),
	}
}

// Theme returns the stored theme; false when none has been chosen.
func (s *Store) Theme() (Theme, bool) {
	return ParseTheme(s.get(KeyTheme))
}

func (s *Store) SetTheme(theme Theme) error {
	return s.set(KeyTheme, string(theme))
}

// TOCVisible is true unless "false" was stored.
func (s *Store) TOCVisible() bool {
	return s.get(KeyTOCVisible) != "false"
}

func (s *Store) SetTOCVisible(visible bool) error {
	return s.set(KeyTOCVisible, strconv.FormatBool(visible))
}

// CurrentPage is the stored page, 1 when absent or invalid.
func (s *Store) CurrentPage() int {
	return s.positive(KeyCurrentPage, 1)
}

func (s *Store) SetCurrentPage(page int) error {
	if page < 1 {
		page = 1
	}
	return s.set(KeyCurrentPage, strconv.Itoa(page))
}

// ItemsPerPage is the stored page size, the configured default when absent
// or invalid.
func (s *Store) ItemsPerPage() int {
	return s.positive(KeyItemsPerPage, s.defaultItemsPerPage)
}

func (s *Store) SetItemsPerPage(n int) error {
	if n < 1 {
		return fmt.Errorf("prefs: items per page must be positive, got %d", n)
	}
	return s.set(KeyItemsPerPage, strconv.Itoa(n))
}

// Reset removes every stored preference.
func (s *Store) Reset() error {
	return s.d.EraseAll()
}

func (s *Store) positive(key string, fallback int) int {
	n, err := strconv.Atoi(s.get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *Store) get(key string) string {
	if !s.d.Has(key) {
		return ""
	}
	raw, err := s.d.Read(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (s *Store) set(key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("prefs: write %s: %w", key, err)
	}
	return nil
}
