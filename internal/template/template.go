// Package template helps plugins store and validate host template
// expressions inside ordinary text fields: prefixed wrapping, field
// extraction and checking template references against a column set.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lectern-dev/lectern/internal/field"
)

const (
	// Prefix marks a text value as holding a template.
	Prefix = "TEMPLATE: "
	// ErrorPrefix marks template output the host rejected.
	ErrorPrefix = "TEMPLATE_ERROR: "
	// Field is the pseudo-field users pick to supply a free-form template.
	Field = field.TemplateField
)

// Error reports a problem found while checking a template.
type Error struct {
	Template string
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %q: %s", e.Template, e.Msg)
}

// IsTemplate reports whether the value carries the template prefix.
func IsTemplate(s string) bool {
	return strings.HasPrefix(s, Prefix)
}

// Wrap marks a raw template for storage in a text field.
func Wrap(template string) string {
	return Prefix + template
}

// Strip removes the template prefix, returning the input unchanged when the
// prefix is absent.
func Strip(s string) string {
	return strings.TrimPrefix(s, Prefix)
}

// fieldRef matches {name} or {name:format} references in single-function
// templates.
var fieldRef = regexp.MustCompile(`\{([A-Za-z#][A-Za-z0-9_#]*)(?::[^}]*)?\}`)

// Fields returns the column lookup names a template references. Program-mode
// templates are opaque to this extraction and yield nothing, and the
// {template} pseudo-field is not a column reference.
func Fields(template string) []string {
	template = Strip(template)
	if strings.HasPrefix(strings.TrimSpace(template), "program:") {
		return nil
	}
	var names []string
	seen := map[string]struct{}{}
	for _, m := range fieldRef.FindAllStringSubmatch(template, -1) {
		if m[0] == Field {
			continue
		}
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Check verifies that a template's braces balance and that every field it
// references exists in the column set. Program-mode templates pass the
// reference check; their identifiers are resolved by the host at render
// time.
func Check(template string, set *field.Set) error {
	if err := checkBraces(Strip(template)); err != nil {
		return err
	}
	for _, name := range Fields(template) {
		if _, ok := set.Get(name); !ok {
			return &Error{Template: Strip(template), Msg: fmt.Sprintf("unknown field %q", name)}
		}
	}
	return nil
}

func checkBraces(template string) error {
	depth := 0
	for _, r := range template {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return &Error{Template: template, Msg: "unbalanced braces"}
			}
		}
	}
	if depth != 0 {
		return &Error{Template: template, Msg: "unbalanced braces"}
	}
	return nil
}

// errorMarkers are the failure phrases the host's template engine embeds in
// rendered output.
var errorMarkers = []string{
	"unknown function",
	"unknown identifier",
	"unknown field",
	"assign requires the first parameter be an id",
	"missing closing parenthesis",
	"incorrect number of arguments for function",
	"expression is not function or constant",
}

// CheckOutput inspects rendered template output for the host's embedded
// error phrases. It returns nil when the output looks clean.
func CheckOutput(template, output string) error {
	if strings.HasPrefix(output, ErrorPrefix) {
		return &Error{Template: Strip(template), Msg: strings.TrimPrefix(output, ErrorPrefix)}
	}
	lower := strings.ToLower(output)
	for _, marker := range errorMarkers {
		if strings.Contains(lower, marker) {
			return &Error{Template: Strip(template), Msg: output}
		}
	}
	return nil
}
