package testutil

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	_ "embed"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var librarySchema string

// NewLibraryDB creates a metadata database on disk in a test temp dir with
// the schema this module touches, and returns the open handle plus the file
// path. The handle is closed when the test finishes.
func NewLibraryDB(t testing.TB) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "metadata.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(librarySchema)
	require.NoError(t, err)
	return db, path
}

// InsertBook adds a book row and returns its id.
func InsertBook(t testing.TB, db *sql.DB, title string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO books (title, path) VALUES (?, ?)`, title, title)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertIdentifier attaches an identifier of the given type to a book.
func InsertIdentifier(t testing.TB, db *sql.DB, book int64, typ, val string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO identifiers (book, type, val) VALUES (?, ?, ?)`, book, typ, val)
	require.NoError(t, err)
}

// CustomColumn describes one custom_columns row for test fixtures.
type CustomColumn struct {
	Label         string
	Name          string
	Datatype      string
	Display       map[string]any
	IsMultiple    bool
	MarkForDelete bool
}

// InsertCustomColumn adds a custom-column definition and returns its id.
func InsertCustomColumn(t testing.TB, db *sql.DB, c CustomColumn) int64 {
	t.Helper()

	display := "{}"
	if c.Display != nil {
		raw, err := json.Marshal(c.Display)
		require.NoError(t, err)
		display = string(raw)
	}
	if c.Name == "" {
		c.Name = c.Label
	}
	res, err := db.Exec(
		`INSERT INTO custom_columns (label, name, datatype, mark_for_delete, editable, display, is_multiple, normalized)
		 VALUES (?, ?, ?, ?, 1, ?, ?, ?)`,
		c.Label, c.Name, c.Datatype, c.MarkForDelete, display, c.IsMultiple, c.Datatype != "composite")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SetPreference writes a raw preference row, JSON-encoding the value.
func SetPreference(t testing.TB, db *sql.DB, key string, value any) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	_, err = db.Exec(
		`INSERT INTO preferences (key, val) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET val = excluded.val`,
		key, string(raw))
	require.NoError(t, err)
}
