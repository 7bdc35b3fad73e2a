// Package resources loads files bundled inside a plugin's zip archive, with
// an icon resolver that honors per-theme variants and user overrides placed
// under the host's configuration directory.
package resources

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// NotFoundError reports a resource name absent from the archive.
type NotFoundError struct {
	Archive string
	Name    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found in %s", e.Name, e.Archive)
}

// Archive reads named entries out of a plugin zip file. Entries matching the
// image glob are loaded once up front; everything else is read on demand and
// cached. All methods are safe for concurrent use.
type Archive struct {
	path string
	log  *slog.Logger

	mu    sync.Mutex
	cache map[string][]byte
	names map[string]struct{}
}

// imageDir holds the entries preloaded when an archive is opened.
const imageDir = "images/"

// OpenArchive opens the plugin zip at archivePath and preloads its PNG
// images. extra names are preloaded alongside; a missing extra is not an
// error, it just stays unavailable.
func OpenArchive(archivePath string, log *slog.Logger, extra ...string) (*Archive, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &Archive{
		path:  archivePath,
		log:   log,
		cache: map[string][]byte{},
		names: map[string]struct{}{},
	}

	want := map[string]struct{}{}
	for _, name := range extra {
		want[normalizeName(name)] = struct{}{}
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open plugin archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		name := normalizeName(f.Name)
		a.names[name] = struct{}{}

		_, wanted := want[name]
		if !wanted && !(strings.HasPrefix(name, imageDir) && strings.HasSuffix(name, ".png")) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("preload %s from %s: %w", name, archivePath, err)
		}
		a.cache[name] = data
	}
	log.Debug("opened plugin archive", "path", archivePath, "entries", len(a.names), "preloaded", len(a.cache))
	return a, nil
}

// Path returns the archive file path.
func (a *Archive) Path() string { return a.path }

// Has reports whether the archive contains the named entry.
func (a *Archive) Has(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.names[normalizeName(name)]
	return ok
}

// Names lists every entry in the archive.
func (a *Archive) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.names))
	for name := range a.names {
		out = append(out, name)
	}
	return out
}

// Load returns the bytes of one entry, reading from the zip if it was not
// preloaded. Absent entries yield a NotFoundError.
func (a *Archive) Load(name string) ([]byte, error) {
	name = normalizeName(name)

	a.mu.Lock()
	if data, ok := a.cache[name]; ok {
		a.mu.Unlock()
		return data, nil
	}
	if _, ok := a.names[name]; !ok {
		a.mu.Unlock()
		return nil, &NotFoundError{Archive: a.path, Name: name}
	}
	a.mu.Unlock()

	r, err := zip.OpenReader(a.path)
	if err != nil {
		return nil, fmt.Errorf("open plugin archive %s: %w", a.path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if normalizeName(f.Name) != name {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", name, a.path, err)
		}
		a.mu.Lock()
		a.cache[name] = data
		a.mu.Unlock()
		return data, nil
	}
	return nil, &NotFoundError{Archive: a.path, Name: name}
}

// LoadMany returns the named entries that exist, keyed by name. Missing
// names are skipped rather than failing the whole batch.
func (a *Archive) LoadMany(names ...string) (map[string][]byte, error) {
	out := map[string][]byte{}
	for _, name := range names {
		data, err := a.Load(name)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, err
		}
		out[normalizeName(name)] = data
	}
	return out, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// normalizeName makes archive lookups tolerant of OS-style separators and
// leading slashes.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return strings.TrimPrefix(path.Clean(name), "/")
}
