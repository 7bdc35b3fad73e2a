package prefs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// namespacedKey is how the host scopes plugin blobs inside the shared
// per-library preference table.
func namespacedKey(namespace, key string) string {
	return "namespaced:" + namespace + ":" + key
}

// LibraryStore keeps one plugin's settings blob inside the library database's
// preference table, under a plugin-specific namespace. The backing library
// can change underneath us (the user switches libraries, another instance
// writes), so every read path re-synchronizes first.
type LibraryStore struct {
	db        *sql.DB
	namespace string
	key       string
	defaults  map[string]any
	log       *slog.Logger

	data     map[string]any
	batching bool
}

// NewLibraryStore opens the namespaced blob stored under key (conventionally
// "settings") in the given library database.
func NewLibraryStore(db *sql.DB, namespace, key string, defaults map[string]any, log *slog.Logger) (*LibraryStore, error) {
	if namespace == "" {
		return nil, &KeyError{Key: namespace, Reason: "namespace must be a non-empty string"}
	}
	if key == "" {
		key = "settings"
	}
	if defaults == nil {
		defaults = map[string]any{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &LibraryStore{db: db, namespace: namespace, key: key, defaults: defaults, log: log}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Namespace returns the plugin namespace the blob is scoped under.
func (s *LibraryStore) Namespace() string { return s.namespace }

// Refresh re-reads the blob from the preference table.
func (s *LibraryStore) Refresh() error {
	var raw string
	err := s.db.QueryRow(`SELECT val FROM preferences WHERE key = ?`, namespacedKey(s.namespace, s.key)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		s.data = map[string]any{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read namespaced preference %s: %w", s.key, err)
	}
	data := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fmt.Errorf("decode namespaced preference %s: %w", s.key, err)
	}
	s.data = data
	return nil
}

// refreshForRead keeps reads consistent with the live library without
// letting a transient failure panic a read path; the stale view is served
// and the failure logged.
func (s *LibraryStore) refreshForRead() {
	if s.batching {
		// inside a batch the buffered view is authoritative
		return
	}
	if err := s.Refresh(); err != nil {
		s.log.Warn("namespaced preference refresh failed", "namespace", s.namespace, "err", err)
	}
}

func (s *LibraryStore) Get(key string) (any, bool) {
	s.refreshForRead()
	return lookup(s.data, s.defaults, key)
}

func (s *LibraryStore) Set(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.refreshForRead()
	s.data[key] = value
	return s.commit()
}

func (s *LibraryStore) Delete(key string) error {
	s.refreshForRead()
	delete(s.data, key)
	return s.commit()
}

func (s *LibraryStore) Keys() []string {
	s.refreshForRead()
	return unionKeys(s.data, s.defaults)
}

// Batch buffers writes and flushes the blob once on exit. The blob is
// re-read on entry so the batch starts from the live state.
func (s *LibraryStore) Batch(fn func(Store) error) error {
	if err := s.Refresh(); err != nil {
		return err
	}
	s.batching = true
	err := fn(s)
	s.batching = false

	commitErr := s.commit()
	if err != nil {
		return err
	}
	return commitErr
}

func (s *LibraryStore) commit() error {
	if s.batching {
		return nil
	}
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode namespaced preference %s: %w", s.key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO preferences (key, val) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET val = excluded.val`,
		namespacedKey(s.namespace, s.key), string(raw),
	)
	if err != nil {
		return fmt.Errorf("write namespaced preference %s: %w", s.key, err)
	}
	return nil
}

var _ Store = (*LibraryStore)(nil)
