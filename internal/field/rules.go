package field

// rule pairs a kind with the predicate that claims a column for it.
type rule struct {
	kind  Kind
	match func(*Column) bool
}

// ruleTable is evaluated in order, first match wins. The order is deliberate:
// attribute-forced kinds (colon-separated pairs, the news category) come
// before label special cases, which come before the general datatype rules.
// The predicates are written to be mutually exclusive on well-formed records,
// and classify verifies that by scanning the whole table: a record matching
// zero rules or more than one is a schema the classifier does not understand.
var ruleTable = []rule{
	// Any colon-separated-pairs field is identifiers, whatever its datatype.
	{KindIdentifiers, func(c *Column) bool {
		return c.IsCSP()
	}},
	// The news category has no datatype at all.
	{KindNews, func(c *Column) bool {
		return c.rec.Label == "news"
	}},
	{KindNames, func(c *Column) bool {
		return !c.IsCSP() && isNames(c)
	}},
	{KindTags, func(c *Column) bool {
		return !c.IsCSP() && !isNames(c) &&
			(c.rec.Label == "tags" || (c.rec.Datatype == "text" && c.IsMultiple()))
	}},
	{KindTitle, func(c *Column) bool {
		return c.rec.Label == "title" ||
			(c.rec.Datatype == "comments" && c.display.InterpretAs == "short-text")
	}},
	{KindText, func(c *Column) bool {
		return c.rec.Datatype == "text" && !c.IsMultiple() &&
			c.rec.Label != "comments" && c.rec.Label != "title"
	}},
	{KindSeries, func(c *Column) bool {
		return c.rec.Datatype == "series"
	}},
	// The built-in 'size' field is a float whatever its record says, and the
	// built-in 'series_index' is never a plain float. Beyond the label
	// special cases the split depends on the record's own is_custom flag:
	// the index companion of a custom series column has datatype float but
	// is not marked custom, and must classify as a series index.
	{KindFloat, func(c *Column) bool {
		return c.rec.Label == "size" ||
			(c.rec.Datatype == "float" && c.srcIsCustom() && c.rec.Label != "series_index")
	}},
	{KindSeriesIndex, func(c *Column) bool {
		return c.rec.Label != "size" &&
			(c.rec.Label == "series_index" || (c.rec.Datatype == "float" && !c.srcIsCustom()))
	}},
	{KindCover, func(c *Column) bool {
		return c.rec.Label == "cover"
	}},
	{KindInteger, func(c *Column) bool {
		return c.rec.Datatype == "int" && c.rec.Label != "cover"
	}},
	{KindDatetime, func(c *Column) bool {
		return c.rec.Datatype == "datetime"
	}},
	{KindRating, func(c *Column) bool {
		return c.rec.Datatype == "rating"
	}},
	{KindBool, func(c *Column) bool {
		return c.rec.Datatype == "bool"
	}},
	{KindEnumeration, func(c *Column) bool {
		return c.rec.Datatype == "enumeration"
	}},
	// Comments sub-kinds are selected by display.interpret_as; short-text was
	// claimed by the title rule, and anything unrecognized or absent reads as
	// plain comments.
	{KindHTML, func(c *Column) bool {
		return isComments(c) && c.display.InterpretAs == "html"
	}},
	{KindMarkdown, func(c *Column) bool {
		return isComments(c) && c.display.InterpretAs == "markdown"
	}},
	{KindLongText, func(c *Column) bool {
		return isComments(c) && c.display.InterpretAs == "long-text"
	}},
	{KindComments, func(c *Column) bool {
		if !isComments(c) {
			return false
		}
		switch c.display.InterpretAs {
		case "html", "markdown", "long-text", "short-text":
			return false
		}
		return true
	}},
	{KindCompositeText, func(c *Column) bool {
		return c.IsComposite() && c.IsMultiple()
	}},
	{KindCompositeTag, func(c *Column) bool {
		return c.IsComposite() && !c.IsMultiple()
	}},
}

func isNames(c *Column) bool {
	return c.rec.Label == "authors" ||
		(c.rec.Datatype == "text" && c.IsMultiple() && c.display.IsNames)
}

func isComments(c *Column) bool {
	return c.rec.Datatype == "comments" && c.rec.Label != "title"
}

// classify assigns the column's kind. It walks the whole table so that the
// exactly-one invariant is checked up front rather than discovered later as
// a misfiled column.
func classify(c *Column) (Kind, error) {
	var matched []Kind
	for _, r := range ruleTable {
		if r.match(c) {
			matched = append(matched, r.kind)
		}
	}
	if len(matched) != 1 {
		return "", &InvalidColumnError{Name: c.Name(), Label: c.rec.Label, Matched: matched}
	}
	return matched[0], nil
}
