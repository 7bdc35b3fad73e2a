package library

import "github.com/lectern-dev/lectern/internal/field"

// builtinRecords is the baseline field metadata every library carries before
// custom columns are merged in. The shape mirrors what the host application
// publishes for its standard book schema; values this package does not
// consume are still kept so classification sees the real record.
func builtinRecords() map[string]field.Record {
	commaSep := map[string]any{"cache_to_list": ",", "ui_to_list": ",", "list_to_ui": ", "}
	authorSep := map[string]any{"cache_to_list": ",", "ui_to_list": "&", "list_to_ui": " & "}

	return map[string]field.Record{
		"authors": {
			Label: "authors", Datatype: "text", IsMultiple: authorSep,
			Table: "authors", Column: "name", LinkColumn: "author", CategorySort: "sort",
			Kind: "field", Name: "Authors", SearchTerms: []string{"authors", "author"},
			IsCategory: true, IsEditable: true,
		},
		"series": {
			Label: "series", Datatype: "series",
			Table: "series", Column: "name", LinkColumn: "series", CategorySort: "(title_sort(name))",
			Kind: "field", Name: "Series", SearchTerms: []string{"series"},
			IsCategory: true, IsEditable: true,
		},
		"formats": {
			Label: "formats", Datatype: "text", IsMultiple: commaSep,
			Kind: "field", Name: "Formats", SearchTerms: []string{"formats", "format"},
			IsCategory: true, IsEditable: true,
		},
		"publisher": {
			Label: "publisher", Datatype: "text",
			Table: "publishers", Column: "name", LinkColumn: "publisher", CategorySort: "name",
			Kind: "field", Name: "Publisher", SearchTerms: []string{"publisher"},
			IsCategory: true, IsEditable: true,
		},
		"rating": {
			Label: "rating", Datatype: "rating",
			Table: "ratings", Column: "rating", LinkColumn: "rating", CategorySort: "rating",
			Kind: "field", Name: "Rating", SearchTerms: []string{"rating"},
			IsCategory: true, IsEditable: true,
		},
		"news": {
			Label: "news", Table: "news", Column: "name", CategorySort: "name",
			Kind: "category", Name: "News",
			IsCategory: true,
		},
		"tags": {
			Label: "tags", Datatype: "text", IsMultiple: commaSep,
			Table: "tags", Column: "name", LinkColumn: "tag", CategorySort: "name",
			Kind: "field", Name: "Tags", SearchTerms: []string{"tags", "tag"},
			IsCategory: true, IsEditable: true,
		},
		"identifiers": {
			Label: "identifiers", Datatype: "text", IsCSP: true,
			Kind: "field", Name: "Identifiers", SearchTerms: []string{"identifiers", "identifier", "isbn"},
			IsCategory: true, IsEditable: true,
		},
		"languages": {
			Label: "languages", Datatype: "text", IsMultiple: commaSep,
			Table: "languages", Column: "lang_code", LinkColumn: "lang_code", CategorySort: "lang_code",
			Kind: "field", Name: "Languages", SearchTerms: []string{"languages", "language"},
			IsCategory: true, IsEditable: true,
		},
		"au_map": {
			Label: "au_map", Datatype: "text",
			IsMultiple: map[string]any{"cache_to_list": ",", "ui_to_list": nil, "list_to_ui": nil},
			Kind:       "field", Name: "",
		},
		"author_sort": {
			Label: "author_sort", Datatype: "text",
			Kind: "field", Name: "Author sort", SearchTerms: []string{"author_sort"},
			IsEditable: true,
		},
		"comments": {
			Label: "comments", Datatype: "comments",
			Display: map[string]any{"interpret_as": "html", "heading_position": "hide"},
			Kind:    "field", Name: "Comments", SearchTerms: []string{"comments", "comment"},
			IsEditable: true,
		},
		"cover": {
			Label: "cover", Datatype: "int",
			Kind: "field", Name: "Cover", SearchTerms: []string{"cover"},
		},
		"id": {
			Label: "id", Datatype: "int",
			Kind: "field", SearchTerms: []string{"id"},
		},
		"last_modified": {
			Label: "last_modified", Datatype: "datetime",
			Display: map[string]any{"date_format": "dd MMM yyyy"},
			Kind:    "field", Name: "Modified", SearchTerms: []string{"last_modified"},
			IsEditable: true,
		},
		"marked": {
			Label: "marked", Datatype: "text",
			Kind: "field", SearchTerms: []string{"marked"},
		},
		"ondevice": {
			Label: "ondevice", Datatype: "text",
			Kind: "field", Name: "On device", SearchTerms: []string{"ondevice"},
		},
		"path": {
			Label: "path", Datatype: "text",
			Kind: "field", Name: "Path",
		},
		"pubdate": {
			Label: "pubdate", Datatype: "datetime",
			Display: map[string]any{"date_format": "MMM yyyy"},
			Kind:    "field", Name: "Published", SearchTerms: []string{"pubdate"},
			IsEditable: true,
		},
		"series_index": {
			Label: "series_index", Datatype: "float",
			Kind: "field", SearchTerms: []string{"series_index"},
			IsEditable: true,
		},
		"series_sort": {
			Label: "series_sort", Datatype: "text",
			Kind: "field", Name: "Series sort",
		},
		"size": {
			Label: "size", Datatype: "float",
			Kind: "field", Name: "Size", SearchTerms: []string{"size"},
		},
		"sort": {
			Label: "sort", Datatype: "text",
			Kind: "field", Name: "Title sort", SearchTerms: []string{"title_sort"},
			IsEditable: true,
		},
		"timestamp": {
			Label: "timestamp", Datatype: "datetime",
			Display: map[string]any{"date_format": "dd MMM yyyy"},
			Kind:    "field", Name: "Date", SearchTerms: []string{"date"},
			IsEditable: true,
		},
		"title": {
			Label: "title", Datatype: "text",
			Kind: "field", Name: "Title", SearchTerms: []string{"title"},
			IsEditable: true,
		},
		"uuid": {
			Label: "uuid", Datatype: "text",
			Kind: "field", SearchTerms: []string{"uuid"},
		},
	}
}
