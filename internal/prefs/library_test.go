package prefs

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openPrefsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "metadata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE preferences (
		id INTEGER PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		val TEXT NOT NULL
	)`)
	require.NoError(t, err)
	return db
}

func TestLibraryStore_RoundTrip(t *testing.T) {
	db := openPrefsDB(t)
	s, err := NewLibraryStore(db, "TestPlugin", "settings", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.Set("threshold", 0.75))
	got, ok := s.Get("threshold")
	require.True(t, ok)
	assert.EqualValues(t, 0.75, got)

	// The blob lands under the namespaced key.
	var raw string
	require.NoError(t, db.QueryRow(
		`SELECT val FROM preferences WHERE key = ?`, "namespaced:TestPlugin:settings",
	).Scan(&raw))
	assert.JSONEq(t, `{"threshold": 0.75}`, raw)
}

func TestLibraryStore_RefreshSeesExternalChange(t *testing.T) {
	db := openPrefsDB(t)
	s, err := NewLibraryStore(db, "TestPlugin", "settings", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set("mode", "old"))

	// Another process rewrites the blob underneath us.
	_, err = db.Exec(
		`UPDATE preferences SET val = ? WHERE key = ?`,
		`{"mode":"new"}`, "namespaced:TestPlugin:settings",
	)
	require.NoError(t, err)

	// Reads re-synchronize on their own; no explicit Refresh needed here.
	got, ok := s.Get("mode")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestLibraryStore_BatchFlushesOnce(t *testing.T) {
	db := openPrefsDB(t)
	s, err := NewLibraryStore(db, "TestPlugin", "settings", nil, nil)
	require.NoError(t, err)

	err = s.Batch(func(b Store) error {
		require.NoError(t, b.Set("a", 1))
		require.NoError(t, b.Set("b", 2))

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM preferences`).Scan(&n))
		assert.Zero(t, n, "no commit while the batch is open")

		// Buffered values are visible inside the batch.
		got, ok := b.Get("a")
		require.True(t, ok)
		assert.EqualValues(t, 1, got)
		return nil
	})
	require.NoError(t, err)

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.EqualValues(t, 2, got)
}

func TestLibraryStore_Defaults(t *testing.T) {
	db := openPrefsDB(t)
	s, err := NewLibraryStore(db, "TestPlugin", "", map[string]any{"limit": 10}, nil)
	require.NoError(t, err)

	got, ok := s.Get("limit")
	require.True(t, ok)
	assert.EqualValues(t, 10, got)

	require.NoError(t, s.Set("limit", 20))
	got, _ = s.Get("limit")
	assert.EqualValues(t, 20, got)
}

func TestLibraryStore_RequiresNamespace(t *testing.T) {
	db := openPrefsDB(t)
	_, err := NewLibraryStore(db, "", "settings", nil, nil)
	var kerr *KeyError
	require.ErrorAs(t, err, &kerr)
}

func TestLibraryStore_ReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT val FROM preferences`).
		WillReturnError(sql.ErrConnDone)

	_, err = NewLibraryStore(db, "TestPlugin", "settings", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLibraryStore_CorruptBlob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT val FROM preferences`).
		WillReturnRows(sqlmock.NewRows([]string{"val"}).AddRow("not-json"))

	_, err = NewLibraryStore(db, "TestPlugin", "settings", nil, nil)
	require.Error(t, err)
}
