package field

import (
	"fmt"
	"strings"
)

// InvalidColumnError reports a field record the rule table does not
// understand: either no rule matched, or more than one did. It signals that
// the host's field-metadata schema has drifted from what this classifier was
// written against, and is not recoverable.
type InvalidColumnError struct {
	Name    string
	Label   string
	Matched []Kind
}

func (e *InvalidColumnError) Error() string {
	if len(e.Matched) == 0 {
		return fmt.Sprintf("field %q (label %q): no classification rule matched", e.Name, e.Label)
	}
	kinds := make([]string, len(e.Matched))
	for i, k := range e.Matched {
		kinds[i] = string(k)
	}
	return fmt.Sprintf("field %q (label %q): ambiguous classification: %s", e.Name, e.Label, strings.Join(kinds, ", "))
}

// UnknownColumnError reports a lookup of a column name that does not exist
// in the set. Unlike InvalidColumnError it is recoverable: query-layer
// lookups return absence instead of raising it, and only the validation
// helpers surface it.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("no column named %q", e.Name)
}

// ValidationError reports a user-supplied value that the host would reject:
// a string that is not a boolean, a value outside a column's enumeration.
type ValidationError struct {
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
}
