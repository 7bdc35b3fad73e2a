// Package plugin ties the toolkit together for one plugin: its identity,
// its preference stores and its bundled resources, wired from the host
// environment it runs in.
package plugin

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lectern-dev/lectern/internal/library"
	"github.com/lectern-dev/lectern/internal/prefs"
	"github.com/lectern-dev/lectern/internal/resources"
)

// Info identifies a plugin.
type Info struct {
	// Name is the display name, also used as the preference filename.
	Name string
	// Version is the release triple.
	Version Version
	// PrefsNamespace keys library preferences; defaults to Name.
	PrefsNamespace string
	// DebugPrefix tags the plugin's log lines; defaults to Name.
	DebugPrefix string
	// ArchivePath locates the plugin zip. Empty when running unpacked.
	ArchivePath string
}

// Version is a semantic release triple.
type Version [3]int

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// Namespace returns the library-preference namespace for the plugin.
func (i Info) Namespace() string {
	if i.PrefsNamespace != "" {
		return i.PrefsNamespace
	}
	return i.Name
}

func (i Info) debugPrefix() string {
	if i.DebugPrefix != "" {
		return i.DebugPrefix
	}
	return i.Name
}

// Context is the composition root handed to plugin code: it lazily opens
// the plugin archive and icon resolver and constructs preference stores
// bound to the host environment.
type Context struct {
	Info Info
	// ConfigDir is the host configuration directory.
	ConfigDir string
	// Theme is the active UI theme ("light", "dark", ...).
	Theme string
	// IconFallback lets the host serve icons the plugin does not bundle.
	IconFallback func(name string) []byte

	log *slog.Logger

	mu      sync.Mutex
	archive *resources.Archive
	icons   *resources.Icons
}

// NewContext builds a plugin context. The logger gains the plugin's debug
// prefix; nil falls back to slog.Default.
func NewContext(info Info, configDir, theme string, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	return &Context{
		Info:      info,
		ConfigDir: configDir,
		Theme:     theme,
		log:       log.With("plugin", info.debugPrefix()),
	}
}

// Log returns the plugin-tagged logger.
func (c *Context) Log() *slog.Logger { return c.log }

// Archive opens the plugin zip on first use.
func (c *Context) Archive() (*resources.Archive, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.archiveLocked()
}

func (c *Context) archiveLocked() (*resources.Archive, error) {
	if c.archive != nil {
		return c.archive, nil
	}
	if c.Info.ArchivePath == "" {
		return nil, fmt.Errorf("plugin %s: no archive path configured", c.Info.Name)
	}
	a, err := resources.OpenArchive(c.Info.ArchivePath, c.log)
	if err != nil {
		return nil, err
	}
	c.archive = a
	return a, nil
}

// Icons returns the plugin's icon resolver. The archive is attached when it
// can be opened; otherwise icons resolve from overrides and the fallback.
func (c *Context) Icons() *resources.Icons {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.icons != nil {
		return c.icons
	}
	archive, err := c.archiveLocked()
	if err != nil {
		c.log.Debug("icons running without archive", "error", err)
	}
	c.icons = &resources.Icons{
		ConfigDir: c.ConfigDir,
		Plugin:    c.Info.Name,
		Theme:     c.Theme,
		Archive:   archive,
		Fallback:  c.IconFallback,
		Log:       c.log,
	}
	return c.icons
}

// JSONPrefs opens the plugin's persistent JSON preference file.
func (c *Context) JSONPrefs(defaults map[string]any) (*prefs.FileStore, error) {
	return prefs.NewJSONStore(c.ConfigDir, c.Info.Name, defaults, c.log)
}

// DynamicPrefs opens the plugin's session-scoped preference file.
func (c *Context) DynamicPrefs(defaults map[string]any) (*prefs.FileStore, error) {
	return prefs.NewDynamicStore(c.ConfigDir, c.Info.Name, defaults, c.log)
}

// LibraryPrefs opens the plugin's namespaced store inside a library.
func (c *Context) LibraryPrefs(lib *library.Library, defaults map[string]any) (*prefs.LibraryStore, error) {
	return lib.Prefs(c.Info.Namespace(), "", defaults)
}
