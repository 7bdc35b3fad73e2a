package field

import (
	"sort"
)

// Scope restricts a query to custom fields, built-in fields, or both.
type Scope int

const (
	ScopeAny Scope = iota
	ScopeCustom
	ScopeBuiltin
)

func (s Scope) admits(c *Column) bool {
	switch s {
	case ScopeCustom:
		return c.IsCustom()
	case ScopeBuiltin:
		return !c.IsCustom()
	default:
		return true
	}
}

// Set is the classified view over one library's field metadata, keyed by
// column name. It is recomputed from the host's live metadata on each build;
// there is no cache to invalidate.
type Set struct {
	columns map[string]*Column
}

// NewSet classifies a raw host field-metadata mapping. Records without a
// label are skipped (the host uses label-less entries for internal slots).
// Any record the rule table cannot place fails the whole build.
func NewSet(raw map[string]map[string]any) (*Set, error) {
	records := make(map[string]Record, len(raw))
	for key, rawRec := range raw {
		rec, err := DecodeRecord(rawRec)
		if err != nil {
			return nil, err
		}
		records[key] = rec
	}
	return NewSetFromRecords(records)
}

// NewSetFromRecords is NewSet for callers that already hold typed records.
func NewSetFromRecords(records map[string]Record) (*Set, error) {
	s := &Set{columns: make(map[string]*Column, len(records))}
	for key, rec := range records {
		if rec.Label == "" {
			continue
		}
		col, err := NewColumn(key, rec)
		if err != nil {
			return nil, err
		}
		s.columns[col.Name()] = col
	}
	return s, nil
}

// Len reports the number of classified columns.
func (s *Set) Len() int { return len(s.columns) }

// Get looks up a column by name. A missing name is absence, not an error.
func (s *Set) Get(name string) (*Column, bool) {
	c, ok := s.columns[name]
	return c, ok
}

// Names returns every column name, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Where returns the columns matching the predicate, sorted by name.
func (s *Set) Where(pred func(*Column) bool) []*Column {
	var out []*Column
	for _, name := range s.Names() {
		c := s.columns[name]
		if pred == nil || pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// ByKind returns the columns of one kind within the scope.
func (s *Set) ByKind(kind Kind, scope Scope) []*Column {
	return s.Where(func(c *Column) bool {
		return c.Kind() == kind && scope.admits(c)
	})
}

// All returns the columns in scope, optionally including composites. When
// composites are included with ScopeAny the scope filter is skipped
// entirely, matching the host convention for "give me everything".
func (s *Set) All(scope Scope, includeComposite bool) []*Column {
	return s.Where(func(c *Column) bool {
		return admitComposite(c, scope, includeComposite)
	})
}

// Categories returns the tag-browser category columns in scope.
func (s *Set) Categories(scope Scope, includeComposite bool) []*Column {
	return s.Where(func(c *Column) bool {
		return c.IsCategory() && admitComposite(c, scope, includeComposite)
	})
}

func admitComposite(c *Column, scope Scope, includeComposite bool) bool {
	if !includeComposite && c.IsComposite() {
		return false
	}
	if includeComposite && scope == ScopeAny {
		return true
	}
	return scope.admits(c)
}

// possibleFieldSkip lists the host-internal fields that templating UIs must
// never offer.
var possibleFieldSkip = map[string]bool{
	"id":             true,
	"au_map":         true,
	"timestamp":      true,
	"formats":        true,
	"ondevice":       true,
	"news":           true,
	"series_sort":    true,
	"path":           true,
	"in_tag_browser": true,
}

// PossibleFields computes the two host-wide field lists used by templating
// UIs: every addressable field (with the {template} pseudo-field first) and
// the writable subset (composites are computed, so they are dropped). Both
// are alphabetically sorted.
func (s *Set) PossibleFields() (all []string, writable []string) {
	for name, c := range s.columns {
		if possibleFieldSkip[name] {
			continue
		}
		all = append(all, name)
		if !c.IsComposite() {
			writable = append(writable, name)
		}
	}
	sort.Strings(all)
	sort.Strings(writable)
	all = append([]string{TemplateField}, all...)
	return all, writable
}

// standardColumns is the fixed built-in list offered by column pickers.
var standardColumns = []string{
	"title", "authors", "tags", "series", "publisher", "pubdate", "rating",
	"languages", "last_modified", "timestamp", "comments", "author_sort",
	"title_sort", "marked", "id", "path",
}

// PossibleColumns returns the standard built-in column names followed by the
// sorted custom columns, excluding composites and series-index companions
// (neither can be a real table column).
func (s *Set) PossibleColumns() []string {
	var custom []string
	for name, c := range s.columns {
		if c.IsCustom() && !c.IsComposite() && c.Kind() != KindSeriesIndex {
			custom = append(custom, name)
		}
	}
	sort.Strings(custom)
	out := make([]string, 0, len(standardColumns)+len(custom))
	out = append(out, standardColumns...)
	return append(out, custom...)
}
