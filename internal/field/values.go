package field

import (
	"slices"
	"strings"
)

// ParseBool interprets a string the way the host does when a user types a
// boolean: yes/y/true/1 and no/n/false/0, case-insensitive. Anything else is
// a ValidationError.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	}
	return false, &ValidationError{Value: value, Reason: "not a boolean"}
}

// ValidateEnumValue checks that value is permitted for the named enumeration
// column. A missing column is an UnknownColumnError; a column of another
// kind or a value outside the enumeration is a ValidationError.
func ValidateEnumValue(s *Set, name, value string) error {
	col, ok := s.Get(name)
	if !ok {
		return &UnknownColumnError{Name: name}
	}
	if col.Kind() != KindEnumeration {
		return &ValidationError{Value: value, Reason: "column " + name + " is not an enumeration"}
	}
	if !slices.Contains(col.EnumValues(), value) {
		return &ValidationError{Value: value, Reason: "not a value of the enumeration " + name}
	}
	return nil
}
