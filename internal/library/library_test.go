package library

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-dev/lectern/internal/field"
	"github.com/lectern-dev/lectern/internal/testutil"
)

func openLibrary(t *testing.T) *Library {
	t.Helper()
	db, _ := testutil.NewLibraryDB(t)
	return OpenDB(db, testutil.NewTestLogger(t))
}

func TestOpen_ResolvesDirectory(t *testing.T) {
	db, path := testutil.NewLibraryDB(t)
	require.NoError(t, db.Close())

	l, err := Open(filepath.Dir(path), testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, path, l.Path())
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_DirectoryWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "not a library")

	// Opening must not leave an empty database behind.
	assert.NoFileExists(t, filepath.Join(dir, DatabaseName))
}

func TestFieldMetadata_MergesCustomColumns(t *testing.T) {
	l := openLibrary(t)
	testutil.InsertCustomColumn(t, l.DB(), testutil.CustomColumn{
		Label: "genre", Name: "Genre", Datatype: "text", IsMultiple: true,
	})
	testutil.InsertCustomColumn(t, l.DB(), testutil.CustomColumn{
		Label: "saga", Name: "Saga", Datatype: "series",
	})
	testutil.InsertCustomColumn(t, l.DB(), testutil.CustomColumn{
		Label: "old", Name: "Old", Datatype: "text", MarkForDelete: true,
	})

	records, err := l.FieldMetadata(context.Background())
	require.NoError(t, err)

	// Baseline survives the merge.
	assert.Contains(t, records, "title")
	assert.Contains(t, records, "identifiers")

	genre, ok := records["#genre"]
	require.True(t, ok)
	assert.True(t, genre.IsCustom)
	assert.Equal(t, "|", genre.IsMultiple["cache_to_list"])
	assert.True(t, genre.IsCategory)

	// Series columns bring their index companion, published as non-custom.
	saga, ok := records["#saga"]
	require.True(t, ok)
	assert.Equal(t, "series", saga.Datatype)
	index, ok := records["#saga_index"]
	require.True(t, ok)
	assert.Equal(t, "float", index.Datatype)
	assert.False(t, index.IsCustom)
	assert.Equal(t, "Saga [index]", index.Name)

	assert.NotContains(t, records, "#old", "columns pending delete are ignored")
}

func TestColumns_ClassifiesLibrary(t *testing.T) {
	l := openLibrary(t)
	testutil.InsertCustomColumn(t, l.DB(), testutil.CustomColumn{
		Label: "genre", Datatype: "text", IsMultiple: true,
	})
	testutil.InsertCustomColumn(t, l.DB(), testutil.CustomColumn{
		Label: "saga", Datatype: "series",
	})
	testutil.InsertCustomColumn(t, l.DB(), testutil.CustomColumn{
		Label: "status", Datatype: "enumeration",
		Display: map[string]any{"enum_values": []string{"read", "unread"}},
	})

	set, err := l.Columns(context.Background())
	require.NoError(t, err)

	col, ok := set.Get("#genre")
	require.True(t, ok)
	assert.Equal(t, field.KindTags, col.Kind())

	col, ok = set.Get("#saga")
	require.True(t, ok)
	assert.Equal(t, field.KindSeries, col.Kind())

	col, ok = set.Get("#saga_index")
	require.True(t, ok)
	assert.Equal(t, field.KindSeriesIndex, col.Kind())

	col, ok = set.Get("#status")
	require.True(t, ok)
	assert.Equal(t, field.KindEnumeration, col.Kind())

	col, ok = set.Get("identifiers")
	require.True(t, ok)
	assert.Equal(t, field.KindIdentifiers, col.Kind())
}

func TestPrefs_BackedByPreferencesTable(t *testing.T) {
	l := openLibrary(t)
	s, err := l.Prefs("MyPlugin", "", map[string]any{"limit": 5})
	require.NoError(t, err)

	got, ok := s.Get("limit")
	require.True(t, ok)
	assert.EqualValues(t, 5, got)

	require.NoError(t, s.Set("limit", 9))
	var raw string
	require.NoError(t, l.DB().QueryRow(
		`SELECT val FROM preferences WHERE key = ?`, "namespaced:MyPlugin:settings",
	).Scan(&raw))
	assert.JSONEq(t, `{"limit": 9}`, raw)
}

func TestVirtualLibrariesAndSavedSearches(t *testing.T) {
	l := openLibrary(t)

	vls, err := l.VirtualLibraries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vls)

	testutil.SetPreference(t, l.DB(), "virtual_libraries",
		map[string]string{"Unread": "tags:=unread"})
	testutil.SetPreference(t, l.DB(), "saved_searches",
		map[string]string{"Long": "size:>1000"})

	vls, err = l.VirtualLibraries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Unread": "tags:=unread"}, vls)

	searches, err := l.SavedSearches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Long": "size:>1000"}, searches)
}

func TestAllBookIDs(t *testing.T) {
	l := openLibrary(t)
	ids, err := l.AllBookIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	a := testutil.InsertBook(t, l.DB(), "Alpha")
	b := testutil.InsertBook(t, l.DB(), "Beta")

	ids, err = l.AllBookIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{a, b}, ids)
}

func TestIdentifierTypes(t *testing.T) {
	l := openLibrary(t)
	a := testutil.InsertBook(t, l.DB(), "Alpha")
	b := testutil.InsertBook(t, l.DB(), "Beta")
	testutil.InsertIdentifier(t, l.DB(), a, "ISBN", "123")
	testutil.InsertIdentifier(t, l.DB(), a, "doi", "10.1/x")
	testutil.InsertIdentifier(t, l.DB(), b, "isbn", "456")

	types, err := l.IdentifierTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"doi", "isbn"}, types)
}

func TestFieldMetadata_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, label, name, datatype`).
		WillReturnError(sql.ErrConnDone)

	l := OpenDB(db, testutil.NewTestLogger(t))
	_, err = l.FieldMetadata(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkedBooks(t *testing.T) {
	ctx := context.Background()
	l := openLibrary(t)

	marked, err := l.MarkedBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, marked)

	require.NoError(t, l.SetMarkedBooks(ctx, "Keep", []int64{3, 1}, false, false))
	marked, err = l.MarkedBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int64{"keep": {1, 3}}, marked)

	// Replacing reassigns the label, appending extends it.
	require.NoError(t, l.SetMarkedBooks(ctx, "keep", []int64{5}, false, false))
	marked, err = l.MarkedBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int64{"keep": {5}}, marked)

	require.NoError(t, l.SetMarkedBooks(ctx, "keep", []int64{7}, true, false))
	marked, err = l.MarkedBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int64{"keep": {5, 7}}, marked)

	// Reset drops every other label.
	require.NoError(t, l.SetMarkedBooks(ctx, "other", []int64{9}, false, false))
	require.NoError(t, l.SetMarkedBooks(ctx, "keep", []int64{2}, false, true))
	marked, err = l.MarkedBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int64{"keep": {2}}, marked)
}
