package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileStore is a JSON-file-backed preference store. Two layouts exist under
// the config dir: the per-installation store at plugins/<name>.json and the
// per-machine dynamic store at dynamic/<name>.json. Both behave identically;
// only the backing path differs.
type FileStore struct {
	path     string
	defaults map[string]any
	log      *slog.Logger

	mu       sync.RWMutex
	data     map[string]any
	batching bool
}

// NewJSONStore opens the per-installation preference file for a plugin.
// A missing file is an empty store, created on first commit.
func NewJSONStore(configDir, pluginName string, defaults map[string]any, log *slog.Logger) (*FileStore, error) {
	return newFileStore(filepath.Join(configDir, "plugins", pluginName+".json"), defaults, log)
}

// NewDynamicStore opens the per-machine dynamic preference file for a plugin.
func NewDynamicStore(configDir, pluginName string, defaults map[string]any, log *slog.Logger) (*FileStore, error) {
	return newFileStore(filepath.Join(configDir, "dynamic", pluginName+".json"), defaults, log)
}

func newFileStore(path string, defaults map[string]any, log *slog.Logger) (*FileStore, error) {
	if log == nil {
		log = slog.Default()
	}
	if defaults == nil {
		defaults = map[string]any{}
	}
	s := &FileStore{path: path, defaults: defaults, log: log}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Refresh re-reads the backing file, dropping any uncommitted state.
func (s *FileStore) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() error {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.data = map[string]any{}
		return nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), kjson.Parser()); err != nil {
		return fmt.Errorf("load preferences %s: %w", s.path, err)
	}
	s.data = k.Raw()
	return nil
}

func (s *FileStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.data, s.defaults, key)
}

func (s *FileStore) Set(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.commitLocked()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key) // missing keys are ignored
	return s.commitLocked()
}

func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return unionKeys(s.data, s.defaults)
}

// Batch defers commits for the duration of fn and flushes once on exit.
func (s *FileStore) Batch(fn func(Store) error) error {
	s.mu.Lock()
	s.batching = true
	s.mu.Unlock()

	err := fn(s)

	s.mu.Lock()
	s.batching = false
	commitErr := s.commitLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	return commitErr
}

func (s *FileStore) commitLocked() error {
	if s.batching {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preference dir: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

// Watch refreshes the store whenever the backing file is rewritten by
// another process, until ctx is cancelled. The watch is on the parent
// directory because commits (ours and the host's) replace the file.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start preference watcher: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		watcher.Close()
		return fmt.Errorf("create preference dir: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch preference dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.Refresh(); err != nil {
					s.log.Warn("preference refresh after external change failed",
						"path", s.path, "err", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("preference watcher error", "path", s.path, "err", err)
			}
		}
	}()
	return nil
}

var _ Store = (*FileStore)(nil)
