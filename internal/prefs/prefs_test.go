package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prefs"), 20)
	require.NoError(t, err)
	return store
}

func TestDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	got := openStore(t).Load()
	assert.Equal(t, Preferences{TOCVisible: true, CurrentPage: 1, ItemsPerPage: 20}, got)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	require.NoError(t, store.SetTheme(ThemeDark))
	require.NoError(t, store.SetTOCVisible(false))
	require.NoError(t, store.SetCurrentPage(4))
	require.NoError(t, store.SetItemsPerPage(50))

	reopened, err := Open(store.Path(), 20)
	require.NoError(t, err)
	assert.Equal(t, Preferences{
		Theme:        ThemeDark,
		ThemeSet:     true,
		TOCVisible:   false,
		CurrentPage:  4,
		ItemsPerPage: 50,
	}, reopened.Load())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	write := func(key, value string) {
		require.NoError(t, os.WriteFile(filepath.Join(store.Path(), key), []byte(value), 0o644))
	}
	write(KeyTheme, "sepia")
	write(KeyTOCVisible, "nope")
	write(KeyCurrentPage, "NaN")
	write(KeyItemsPerPage, "-5")

	got := store.Load()
	assert.False(t, got.ThemeSet)
	assert.True(t, got.TOCVisible, "only the literal false hides the panel")
	assert.Equal(t, 1, got.CurrentPage)
	assert.Equal(t, 20, got.ItemsPerPage)

	write(KeyCurrentPage, "0")
	assert.Equal(t, 1, store.CurrentPage())
	write(KeyTheme, " Light\n")
	theme, ok := store.Theme()
	assert.True(t, ok)
	assert.Equal(t, ThemeLight, theme)
}

func TestSetterGuards(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	assert.Error(t, store.SetItemsPerPage(0))
	require.NoError(t, store.SetCurrentPage(-2))
	assert.Equal(t, 1, store.CurrentPage())
}

func TestConfiguredDefaultPageSize(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, store.ItemsPerPage())

	store, err = Open(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, store.ItemsPerPage())

	_, err = Open("", 20)
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	require.NoError(t, store.SetTheme(ThemeLight))
	require.NoError(t, store.Reset())
	_, ok := store.Theme()
	assert.False(t, ok)
	require.NoError(t, store.SetCurrentPage(2))
	assert.Equal(t, 2, store.CurrentPage())
}

func TestThemeToggle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeDark, Theme("").Toggle())
}

func TestWatchSeesOtherInstanceWrites(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	other, err := Open(store.Path(), 20)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, other.SetTheme(ThemeDark))
	require.NoError(t, other.SetTheme(ThemeLight))

	select {
	case change := <-changes:
		assert.Equal(t, KeyTheme, change.Key)
	case <-time.After(3 * time.Second):
		t.Fatal("no change event received")
	}
	theme, _ := store.Theme()
	assert.Equal(t, ThemeLight, theme)

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel not closed after cancel")
		}
	}
}
