package resources

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Icons resolves named icons for one plugin. Resolution order for each
// name: the user's override directory, then the plugin archive, then the
// Fallback hook. Theme-specific variants are probed before the plain name.
// Results, including misses, are cached for the life of the resolver.
type Icons struct {
	// ConfigDir is the host configuration directory holding user
	// overrides under resources/images/<plugin>/.
	ConfigDir string
	// Plugin is the plugin name used for the override subdirectory.
	Plugin string
	// Theme is the active UI theme, typically "light" or "dark". Empty
	// disables themed lookups.
	Theme string
	// Archive supplies bundled icons. Optional.
	Archive *Archive
	// Fallback is consulted when neither overrides nor the archive have
	// the icon. Optional.
	Fallback func(name string) []byte
	// Log defaults to slog.Default.
	Log *slog.Logger

	mu    sync.Mutex
	cache map[string][]byte
}

// ThemedNames returns the candidate names probed for an icon under the
// given theme, most specific first: the -for-<theme>-theme suffix variant,
// the <theme>/ subdirectory variant, then the name itself.
func ThemedNames(name, theme string) []string {
	name = normalizeName(name)
	if theme == "" {
		return []string{name}
	}
	dir, base := path.Split(name)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return []string{
		dir + stem + "-for-" + theme + "-theme" + ext,
		dir + theme + "/" + base,
		name,
	}
}

// Get resolves one icon by name, nil when nothing provides it.
func (ic *Icons) Get(name string) []byte {
	name = normalizeName(name)

	ic.mu.Lock()
	if ic.cache == nil {
		ic.cache = map[string][]byte{}
	}
	if data, ok := ic.cache[name]; ok {
		ic.mu.Unlock()
		return data
	}
	ic.mu.Unlock()

	data := ic.resolve(name)
	ic.mu.Lock()
	ic.cache[name] = data
	ic.mu.Unlock()
	return data
}

func (ic *Icons) resolve(name string) []byte {
	for _, candidate := range ThemedNames(name, ic.Theme) {
		if data := ic.fromOverride(candidate); data != nil {
			return data
		}
	}
	if ic.Archive != nil {
		for _, candidate := range ThemedNames(name, ic.Theme) {
			if data, err := ic.Archive.Load(candidate); err == nil {
				return data
			}
		}
	}
	if ic.Fallback != nil {
		if data := ic.Fallback(name); data != nil {
			return data
		}
	}
	ic.logger().Debug("icon not found", "plugin", ic.Plugin, "name", name, "theme", ic.Theme)
	return nil
}

// fromOverride reads a user-supplied icon. Override files live outside the
// archive's images/ namespace, so that prefix is stripped before probing.
func (ic *Icons) fromOverride(name string) []byte {
	if ic.ConfigDir == "" || ic.Plugin == "" {
		return nil
	}
	rel := strings.TrimPrefix(name, imageDir)
	full := filepath.Join(ic.ConfigDir, "resources", "images", ic.Plugin, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil
	}
	return data
}

func (ic *Icons) logger() *slog.Logger {
	if ic.Log != nil {
		return ic.Log
	}
	return slog.Default()
}

// ImageMap lists the PNG files in an override directory, sorted by name. A
// missing directory is an empty map, not an error.
func ImageMap(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		out[e.Name()] = filepath.Join(dir, e.Name())
	}
	return out, nil
}

// LocalResourcePath returns the override path for a plugin resource under
// the host configuration directory, creating the directory so callers can
// drop files in.
func LocalResourcePath(configDir, plugin, name string) (string, error) {
	dir := filepath.Join(configDir, "resources", "images", plugin)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(normalizeName(name))), nil
}
