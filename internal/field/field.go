// Package field classifies the field-metadata records of a calibre-style
// e-book library into semantic column kinds.
//
// The host library exposes one raw metadata record per field (built-in or
// user-defined). This package turns that mapping into immutable Column
// descriptors, assigns each exactly one Kind via an ordered rule table, and
// layers the query operations plugins need on top (filter by kind, custom
// versus built-in, category fields, template field lists).
package field

// Kind is the semantic classification of a column.
type Kind string

// The full set of column kinds. A well-formed field record maps to exactly
// one of these.
const (
	KindNames         Kind = "names"
	KindTags          Kind = "tags"
	KindTitle         Kind = "title"
	KindText          Kind = "text"
	KindSeries        Kind = "series"
	KindSeriesIndex   Kind = "series_index"
	KindFloat         Kind = "float"
	KindInteger       Kind = "integer"
	KindCover         Kind = "cover"
	KindDatetime      Kind = "datetime"
	KindRating        Kind = "rating"
	KindBool          Kind = "bool"
	KindEnumeration   Kind = "enumeration"
	KindIdentifiers   Kind = "identifiers"
	KindComments      Kind = "comments"
	KindHTML          Kind = "html"
	KindMarkdown      Kind = "markdown"
	KindLongText      Kind = "long_text"
	KindCompositeText Kind = "composite_text"
	KindCompositeTag  Kind = "composite_tag"
	KindNews          Kind = "news"
)

// Kinds returns every kind the classifier can assign, in rule-table order.
func Kinds() []Kind {
	kinds := make([]Kind, len(ruleTable))
	for i, r := range ruleTable {
		kinds[i] = r.kind
	}
	return kinds
}

// TemplateField is the pseudo-field prepended to the addressable-field list.
// It is not a real column; it signals "value comes from a template".
const TemplateField = "{template}"
