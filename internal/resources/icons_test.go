package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemedNames(t *testing.T) {
	assert.Equal(t, []string{
		"images/save-for-dark-theme.png",
		"images/dark/save.png",
		"images/save.png",
	}, ThemedNames("images/save.png", "dark"))

	assert.Equal(t, []string{"images/save.png"},
		ThemedNames("images/save.png", ""))
}

func TestIcons_ThemedArchiveLookup(t *testing.T) {
	path := writeZip(t, map[string]string{
		"images/save.png":      "plain",
		"images/dark/save.png": "dark-dir",
		"images/open.png":      "plain-open",
	})
	a, err := OpenArchive(path, nil)
	require.NoError(t, err)

	ic := &Icons{Theme: "dark", Archive: a}
	assert.Equal(t, "dark-dir", string(ic.Get("images/save.png")))
	assert.Equal(t, "plain-open", string(ic.Get("images/open.png")), "falls through to the plain name")
}

func TestIcons_OverrideWinsOverArchive(t *testing.T) {
	archivePath := writeZip(t, map[string]string{"images/save.png": "bundled"})
	a, err := OpenArchive(archivePath, nil)
	require.NoError(t, err)

	configDir := t.TempDir()
	override, err := LocalResourcePath(configDir, "My Plugin", "save.png")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(override, []byte("user"), 0o644))

	ic := &Icons{ConfigDir: configDir, Plugin: "My Plugin", Archive: a}
	assert.Equal(t, "user", string(ic.Get("images/save.png")))
}

func TestIcons_FallbackAndMiss(t *testing.T) {
	ic := &Icons{
		Fallback: func(name string) []byte {
			if name == "images/known.png" {
				return []byte("host")
			}
			return nil
		},
	}
	assert.Equal(t, "host", string(ic.Get("images/known.png")))
	assert.Nil(t, ic.Get("images/unknown.png"))
}

func TestIcons_CachesResults(t *testing.T) {
	configDir := t.TempDir()
	override, err := LocalResourcePath(configDir, "P", "save.png")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(override, []byte("v1"), 0o644))

	ic := &Icons{ConfigDir: configDir, Plugin: "P"}
	assert.Equal(t, "v1", string(ic.Get("images/save.png")))

	// Later changes on disk are not observed.
	require.NoError(t, os.WriteFile(override, []byte("v2"), 0o644))
	assert.Equal(t, "v1", string(ic.Get("images/save.png")))
}

func TestImageMap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	got, err := ImageMap(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a.png": filepath.Join(dir, "a.png"),
		"b.png": filepath.Join(dir, "b.png"),
	}, got)

	empty, err := ImageMap(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalResourcePath_CreatesDirectory(t *testing.T) {
	configDir := t.TempDir()
	path, err := LocalResourcePath(configDir, "My Plugin", "icons/save.png")
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(configDir, "resources", "images", "My Plugin", "icons", "save.png"),
		path)

	info, err := os.Stat(filepath.Join(configDir, "resources", "images", "My Plugin"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
