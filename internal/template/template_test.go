package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-dev/lectern/internal/field"
)

func TestWrapStripIsTemplate(t *testing.T) {
	wrapped := Wrap("{title} - {authors}")
	assert.Equal(t, "TEMPLATE: {title} - {authors}", wrapped)
	assert.True(t, IsTemplate(wrapped))
	assert.False(t, IsTemplate("{title}"))
	assert.Equal(t, "{title} - {authors}", Strip(wrapped))
	assert.Equal(t, "plain", Strip("plain"))
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []string
	}{
		{"single", "{title}", []string{"title"}},
		{"several", "{title} by {authors}", []string{"title", "authors"}},
		{"with format", "{series_index:0>3s}", []string{"series_index"}},
		{"custom column", "{#genre}", []string{"#genre"}},
		{"deduplicated", "{title}/{title}", []string{"title"}},
		{"wrapped", "TEMPLATE: {title}", []string{"title"}},
		{"program mode", "program: field('title')", nil},
		{"pseudo-field alone", "{template}", nil},
		{"pseudo-field among fields", "{template} {title}", []string{"title"}},
		{"no fields", "plain text", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.template))
		})
	}
}

func testSet(t *testing.T) *field.Set {
	t.Helper()
	set, err := field.NewSetFromRecords(map[string]field.Record{
		"title":  {Label: "title", Datatype: "text", Kind: "field", Name: "Title"},
		"sort":   {Label: "sort", Datatype: "text", Kind: "field", Name: "Title sort"},
		"#genre": {Label: "genre", Datatype: "text", IsCustom: true, Kind: "field", Name: "Genre"},
	})
	require.NoError(t, err)
	return set
}

func TestCheck(t *testing.T) {
	set := testSet(t)

	assert.NoError(t, Check("{title} ({#genre})", set))
	assert.NoError(t, Check("{template}", set), "the pseudo-field is always valid")
	assert.NoError(t, Check("{template} {title}", set))
	assert.NoError(t, Check("program: field('nope')", set))
	assert.NoError(t, Check("{title_sort}", set), "sort column is exposed under its lookup name")

	err := Check("{publisher}", set)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Msg, "publisher")

	err = Check("{title", set)
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Msg, "unbalanced")
}

func TestCheckOutput(t *testing.T) {
	assert.NoError(t, CheckOutput("{title}", "A Book"))

	err := CheckOutput("{title}", "TEMPLATE_ERROR: unknown field xyz")
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "unknown field xyz", terr.Msg)

	err = CheckOutput("{titel}", "EXCEPTION: Unknown identifier titel")
	require.ErrorAs(t, err, &terr)
}
