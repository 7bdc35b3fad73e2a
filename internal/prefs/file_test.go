package prefs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, "Test Plugin", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.Set("answer", 42))
	got, ok := s.Get("answer")
	require.True(t, ok)
	assert.EqualValues(t, 42, got)

	// A second store over the same file sees the committed value.
	s2, err := NewJSONStore(dir, "Test Plugin", nil, nil)
	require.NoError(t, err)
	got, ok = s2.Get("answer")
	require.True(t, ok)
	assert.EqualValues(t, 42, got)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewDynamicStore(t.TempDir(), "Test Plugin", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Keys())

	_, ok := s.Get("anything")
	assert.False(t, ok)
}

func TestFileStore_Defaults(t *testing.T) {
	defaults := map[string]any{
		"greeting": "hello",
		"options":  map[string]any{"a": 1, "b": 2},
	}
	s, err := NewJSONStore(t.TempDir(), "Test Plugin", defaults, nil)
	require.NoError(t, err)

	got, ok := s.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	// Dict-valued defaults merge under stored values.
	require.NoError(t, s.Set("options", map[string]any{"b": 20, "c": 30}))
	got, ok = s.Get("options")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1, "b": 20, "c": 30}, got)

	assert.Equal(t, []string{"greeting", "options"}, s.Keys())
}

func TestFileStore_RejectsEmptyKey(t *testing.T) {
	s, err := NewJSONStore(t.TempDir(), "Test Plugin", nil, nil)
	require.NoError(t, err)

	err = s.Set("", 1)
	var kerr *KeyError
	require.ErrorAs(t, err, &kerr)
}

func TestFileStore_BatchDefersCommit(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, "Test Plugin", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set("seed", 1))

	err = s.Batch(func(b Store) error {
		require.NoError(t, b.Set("a", 1))
		require.NoError(t, b.Set("b", 2))

		// Nothing is flushed while the batch is open.
		onDisk := readJSONFile(t, s.Path())
		assert.NotContains(t, onDisk, "a")
		return nil
	})
	require.NoError(t, err)

	onDisk := readJSONFile(t, s.Path())
	assert.Contains(t, onDisk, "a")
	assert.Contains(t, onDisk, "b")
}

func TestFileStore_RefreshSeesExternalChange(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, "Test Plugin", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set("mode", "old"))

	writeJSONFile(t, s.Path(), map[string]any{"mode": "new"})

	got, _ := s.Get("mode")
	assert.Equal(t, "old", got, "stale until Refresh")

	require.NoError(t, s.Refresh())
	got, _ = s.Get("mode")
	assert.Equal(t, "new", got)
}

func TestFileStore_WatchRefreshes(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, "Test Plugin", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set("mode", "old"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx))

	writeJSONFile(t, s.Path(), map[string]any{"mode": "new"})

	assert.Eventually(t, func() bool {
		got, _ := s.Get("mode")
		return got == "new"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFileStore_Paths(t *testing.T) {
	dir := t.TempDir()

	j, err := NewJSONStore(dir, "My Plugin", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plugins", "My Plugin.json"), j.Path())

	d, err := NewDynamicStore(dir, "My Plugin", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dynamic", "My Plugin.json"), d.Path())
}

func readJSONFile(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))
	return data
}

func writeJSONFile(t *testing.T, path string, data map[string]any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}
