package logging

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "jot.log")
	logger, err := New(Options{Path: path})
	require.NoError(t, err)

	logger.Info("controller", "refresh complete", map[string]any{"notes": 3})
	logger.Error("controller", "delete failed", map[string]any{"error": errors.New("boom")})
	logger.Debug("controller", "hidden below info", nil)
	require.NoError(t, logger.Sync())

	entries, err := logger.Entries("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "ERROR", entries[0].Level)
	assert.Equal(t, "delete failed", entries[0].Message)
	assert.Equal(t, "boom", entries[0].Details["error"])
	assert.Equal(t, "controller", entries[1].Module)
	assert.EqualValues(t, 3, entries[1].Details["notes"])
}

func TestLoggerLeavesCallerDetailsAlone(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jot.log")
	logger, err := New(Options{Path: path})
	require.NoError(t, err)

	boom := errors.New("boom")
	details := map[string]any{"error": boom, "index": 2}
	logger.Error("controller", "delete failed", details)
	require.NoError(t, logger.Sync())

	assert.Equal(t, boom, details["error"], "error value should not be flattened in place")
	assert.Len(t, details, 2)

	entries, err := logger.Entries("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Details["error"])
}

func TestEntriesFiltersAndLimits(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jot.log")
	logger, err := New(Options{Path: path, Verbose: true})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		logger.Warn("notes", "slow", map[string]any{"i": i})
	}
	logger.Debug("notes", "visible when verbose", nil)
	require.NoError(t, logger.Sync())

	warns, err := ReadEntries(path, "WARN", 2)
	require.NoError(t, err)
	require.Len(t, warns, 2)
	assert.EqualValues(t, 3, warns[0].Details["i"])

	debug, err := ReadEntries(path, "DEBUG", 0)
	require.NoError(t, err)
	assert.Len(t, debug, 1)
}

func TestNilAndNopLoggersAreSilent(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger
	nilLogger.Info("x", "y", nil)
	assert.NoError(t, nilLogger.Sync())
	assert.Equal(t, "", nilLogger.Path())

	nop, err := New(Options{})
	require.NoError(t, err)
	nop.Error("x", "y", nil)
	entries, err := nop.Entries("", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
