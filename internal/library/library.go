// Package library reads a calibre-style e-book library: a directory whose
// metadata.db SQLite file owns the book schema, custom-column definitions
// and a key/value preference table. The database shape is the host
// application's; this package only reads it, except for the preference rows
// it is explicitly asked to write.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/lectern-dev/lectern/internal/field"
	"github.com/lectern-dev/lectern/internal/prefs"
)

// DatabaseName is the metadata database file inside a library directory.
const DatabaseName = "metadata.db"

// Library is an open handle on one library's metadata database.
type Library struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens the library at path, which may be the library directory or the
// metadata.db file itself.
func Open(path string, log *slog.Logger) (*Library, error) {
	if log == nil {
		log = slog.Default()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	if info.IsDir() {
		dir := path
		path = filepath.Join(dir, DatabaseName)
		// The sqlite driver would happily create an empty database here;
		// a directory without one is not a library.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s is not a library: no %s: %w", dir, DatabaseName, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping library database: %w", err)
	}
	return &Library{db: db, path: path, log: log}, nil
}

// OpenDB wraps an already-open metadata database. Used by tests and by hosts
// that manage the connection themselves.
func OpenDB(db *sql.DB, log *slog.Logger) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{db: db, log: log}
}

// Close releases the database handle.
func (l *Library) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Path returns the metadata database path, empty for OpenDB handles.
func (l *Library) Path() string { return l.path }

// DB exposes the underlying handle for callers composing their own stores.
func (l *Library) DB() *sql.DB { return l.db }

// FieldMetadata builds the raw field-metadata mapping for the library: the
// built-in baseline merged with the custom_columns rows. Always a fresh
// read; there is no cache to go stale.
func (l *Library) FieldMetadata(ctx context.Context) (map[string]field.Record, error) {
	records := builtinRecords()

	custom, err := l.customColumns(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range custom {
		rec, err := c.record()
		if err != nil {
			return nil, err
		}
		records["#"+c.Label] = rec
		if c.Datatype == "series" {
			records["#"+c.Label+"_index"] = c.indexCompanion()
		}
	}
	return records, nil
}

// Columns classifies the library's current field metadata.
func (l *Library) Columns(ctx context.Context) (*field.Set, error) {
	records, err := l.FieldMetadata(ctx)
	if err != nil {
		return nil, err
	}
	return field.NewSetFromRecords(records)
}

// Prefs opens the plugin-namespaced preference store backed by this
// library's preference table.
func (l *Library) Prefs(namespace, key string, defaults map[string]any) (*prefs.LibraryStore, error) {
	return prefs.NewLibraryStore(l.db, namespace, key, defaults, l.log)
}

// preference reads one raw preference row into out. Missing rows leave out
// untouched and report false.
func (l *Library) preference(ctx context.Context, key string, out any) (bool, error) {
	var raw string
	err := l.db.QueryRowContext(ctx, `SELECT val FROM preferences WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read preference %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode preference %s: %w", key, err)
	}
	return true, nil
}

func (l *Library) writePreference(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key, err)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO preferences (key, val) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET val = excluded.val`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("write preference %s: %w", key, err)
	}
	return nil
}

// VirtualLibraries returns the named book filters defined in the library,
// name to search expression.
func (l *Library) VirtualLibraries(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if _, err := l.preference(ctx, "virtual_libraries", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SavedSearches returns the saved searches defined in the library.
func (l *Library) SavedSearches(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if _, err := l.preference(ctx, "saved_searches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllBookIDs returns every book id in the library, ascending.
func (l *Library) AllBookIDs(ctx context.Context) ([]int64, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list book ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan book id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IdentifierTypes returns the distinct identifier types used in the library
// (isbn, doi, ...), lowercased and sorted.
func (l *Library) IdentifierTypes(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT DISTINCT type FROM identifiers`)
	if err != nil {
		return nil, fmt.Errorf("list identifier types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan identifier type: %w", err)
		}
		types = append(types, strings.ToLower(t))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(types)
	return types, nil
}

// markedKey is the preference row holding the marked-book labels, stored as
// book id -> label.
const markedKey = "marked_books"

// MarkedBooks returns the marked books grouped by lowercased label.
func (l *Library) MarkedBooks(ctx context.Context) (map[string][]int64, error) {
	raw := map[string]string{}
	if _, err := l.preference(ctx, markedKey, &raw); err != nil {
		return nil, err
	}

	out := map[string][]int64{}
	for idStr, label := range raw {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("marked books: bad book id %q: %w", idStr, err)
		}
		label = strings.ToLower(label)
		out[label] = append(out[label], id)
	}
	for _, ids := range out {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return out, nil
}

// SetMarkedBooks assigns a label to the given books. Unless appendTo is set,
// books previously carrying the label lose it first; reset drops every label
// before applying. Labels are case-insensitive.
func (l *Library) SetMarkedBooks(ctx context.Context, label string, ids []int64, appendTo, reset bool) error {
	label = strings.ToLower(label)

	raw := map[string]string{}
	if !reset {
		if _, err := l.preference(ctx, markedKey, &raw); err != nil {
			return err
		}
	}
	if !appendTo {
		for id, v := range raw {
			if v == label {
				delete(raw, id)
			}
		}
	}
	for _, id := range ids {
		raw[strconv.FormatInt(id, 10)] = label
	}
	return l.writePreference(ctx, markedKey, raw)
}
