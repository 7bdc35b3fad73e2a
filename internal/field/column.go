package field

import (
	"fmt"
	"strings"
)

// Column is a read-only descriptor over one field's metadata record. It is
// built fresh from host state on each query and never mutated in place.
type Column struct {
	key      string
	rec      Record
	display  displayOptions
	multiple *Multiple
	kind     Kind
}

// NewColumn builds and classifies a descriptor from the host's internal
// field key and its raw record. Classification failure is fatal: it means
// the host schema is one this code does not understand.
func NewColumn(key string, rec Record) (*Column, error) {
	display, err := decodeDisplay(rec.Display)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}

	c := &Column{
		key:     key,
		rec:     rec,
		display: display,
	}
	if rec.IsCSP {
		m := cspMultiple
		c.multiple = &m
	} else {
		c.multiple = decodeMultiple(rec.IsMultiple)
	}

	kind, err := classify(c)
	if err != nil {
		return nil, err
	}
	c.kind = kind
	return c, nil
}

// Name is the unique lookup key for the column: the label prefixed with '#'
// for user-defined fields, so built-in and custom names cannot clash. The
// built-in 'sort' field is exposed under its search name 'title_sort'.
func (c *Column) Name() string {
	if c.IsCustom() {
		return "#" + c.rec.Label
	}
	if c.rec.Label == "sort" {
		return "title_sort"
	}
	return c.rec.Label
}

// Kind reports the single semantic kind assigned by the rule table.
func (c *Column) Kind() Kind { return c.kind }

// Label is the bare column label, never '#'-prefixed.
func (c *Column) Label() string { return c.rec.Label }

// Datatype is the host storage datatype (text, int, float, bool, datetime,
// rating, series, composite, comments).
func (c *Column) Datatype() string { return c.rec.Datatype }

// DisplayName is the heading text shown for the column in the host UI.
func (c *Column) DisplayName() string { return c.rec.Name }

// Description is the user-supplied description, if any.
func (c *Column) Description() string { return c.display.Description }

// IsCustom reports whether the field is user-defined. This is derived from
// the '#' key prefix, not from the record's own is_custom flag: the host
// does not mark the index companion of a custom series column as custom.
func (c *Column) IsCustom() bool { return strings.HasPrefix(c.key, "#") }

// srcIsCustom is the record's own flag. It differs from IsCustom exactly for
// custom series-index companions, and the float/series-index disambiguation
// depends on that difference.
func (c *Column) srcIsCustom() bool { return c.rec.IsCustom }

// IsCategory reports whether the field is a tag-browser category.
func (c *Column) IsCategory() bool { return c.rec.IsCategory }

// IsCSP reports whether the field stores colon-separated key:value pairs.
func (c *Column) IsCSP() bool { return c.rec.IsCSP }

// IsEditable reports whether the host allows writes to the field.
func (c *Column) IsEditable() bool { return c.rec.IsEditable }

// IsComposite reports whether the value is computed from a template rather
// than stored.
func (c *Column) IsComposite() bool { return c.rec.Datatype == "composite" }

// IsMultiple reports whether the column holds a list of values.
func (c *Column) IsMultiple() bool { return c.multiple != nil }

// Multiple returns the split/join separators, or nil for single-valued
// columns.
func (c *Column) Multiple() *Multiple { return c.multiple }

// Record returns the raw host record the column was built from.
func (c *Column) Record() Record { return c.rec }

// SearchTerms lists the search aliases of the field.
func (c *Column) SearchTerms() []string { return c.rec.SearchTerms }

func (c *Column) String() string {
	return fmt.Sprintf("<%s {kind=%s}>", c.Name(), c.kind)
}

// EnumValues returns the permitted values of an enumeration column, with a
// leading empty entry for "unset". Nil for any other kind.
func (c *Column) EnumValues() []string {
	if c.kind != KindEnumeration {
		return nil
	}
	return append([]string{""}, c.display.EnumValues...)
}

// EnumColors returns the per-value colors of an enumeration column, or nil.
func (c *Column) EnumColors() []string {
	if c.kind != KindEnumeration {
		return nil
	}
	return c.display.EnumColors
}

// HeadingPosition reports where comments-like columns draw their heading
// (hide, above, side). Empty for non-comments kinds.
func (c *Column) HeadingPosition() string {
	if !c.isCommentsLike() {
		return ""
	}
	return c.display.HeadingPosition
}

// UseDecorations reports the decoration flag of text, enumeration and
// composite-text columns.
func (c *Column) UseDecorations() bool {
	switch c.kind {
	case KindText, KindEnumeration, KindCompositeText:
		return c.display.UseDecorations
	}
	return false
}

// AllowHalfStars reports whether a rating column accepts half stars.
func (c *Column) AllowHalfStars() bool {
	return c.kind == KindRating && c.display.AllowHalfStars
}

// CompositeSort reports how a composite column sorts (text, number, date,
// bool). Empty for non-composite columns.
func (c *Column) CompositeSort() string {
	if !c.IsComposite() {
		return ""
	}
	return c.display.CompositeSort
}

// CompositeTemplate returns the template expression of a composite column.
func (c *Column) CompositeTemplate() string {
	if !c.IsComposite() {
		return ""
	}
	return c.display.CompositeTemplate
}

// CompositeMakeCategory reports whether a composite column is shown in the
// tag browser.
func (c *Column) CompositeMakeCategory() bool {
	return c.IsComposite() && c.display.MakeCategory
}

// CompositeContainsHTML reports whether a composite column renders HTML.
func (c *Column) CompositeContainsHTML() bool {
	return c.IsComposite() && c.display.ContainsHTML
}

// NumberFormat returns the format string of a float column, if any.
func (c *Column) NumberFormat() string {
	if c.kind != KindFloat {
		return ""
	}
	return c.display.NumberFormat
}

func (c *Column) isCommentsLike() bool {
	switch c.kind {
	case KindComments, KindHTML, KindMarkdown, KindLongText:
		return true
	}
	return false
}
