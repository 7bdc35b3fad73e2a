package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lectern-dev/lectern/internal/field"
)

// customColumn is one row of the library's custom_columns table.
type customColumn struct {
	ID         int64
	Label      string
	Name       string
	Datatype   string
	Editable   bool
	Display    string
	IsMultiple bool
	Normalized bool
}

func (l *Library) customColumns(ctx context.Context) ([]customColumn, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, label, name, datatype, editable, display, is_multiple, normalized
		 FROM custom_columns WHERE mark_for_delete = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read custom columns: %w", err)
	}
	defer rows.Close()

	var cols []customColumn
	for rows.Next() {
		var c customColumn
		var display sql.NullString
		if err := rows.Scan(&c.ID, &c.Label, &c.Name, &c.Datatype, &c.Editable,
			&display, &c.IsMultiple, &c.Normalized); err != nil {
			return nil, fmt.Errorf("scan custom column: %w", err)
		}
		if display.Valid {
			c.Display = display.String
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// record converts a custom-column row into the raw field-metadata record the
// host would publish for it.
func (c customColumn) record() (field.Record, error) {
	display := map[string]any{}
	if c.Display != "" {
		if err := json.Unmarshal([]byte(c.Display), &display); err != nil {
			return field.Record{}, fmt.Errorf("custom column %q: decode display: %w", c.Label, err)
		}
	}

	var isMultiple map[string]any
	if c.IsMultiple {
		// Text columns cache with '|' because values may contain commas;
		// composites are rendered, so a comma split is safe.
		sep := "|"
		if c.Datatype == "composite" {
			sep = ","
		}
		isMultiple = map[string]any{"cache_to_list": sep, "ui_to_list": ",", "list_to_ui": ", "}
	}

	isCategory := false
	switch c.Datatype {
	case "text", "series", "enumeration", "bool":
		isCategory = true
	case "composite":
		isCategory, _ = display["make_category"].(bool)
	}

	return field.Record{
		Label:        c.Label,
		Datatype:     c.Datatype,
		Display:      display,
		IsMultiple:   isMultiple,
		IsCustom:     true,
		IsCategory:   isCategory,
		IsEditable:   c.Editable,
		Kind:         "field",
		Name:         c.Name,
		Colnum:       int(c.ID),
		Table:        fmt.Sprintf("custom_column_%d", c.ID),
		Column:       "value",
		LinkColumn:   "value",
		CategorySort: "value",
		SearchTerms:  []string{"#" + c.Label},
	}, nil
}

// indexCompanion builds the series-index record paired with a custom series
// column. Its is_custom flag stays false: that is how the host publishes it,
// and the float/series-index classification split relies on it.
func (c customColumn) indexCompanion() field.Record {
	return field.Record{
		Label:      c.Label + "_index",
		Datatype:   "float",
		Display:    map[string]any{},
		IsEditable: c.Editable,
		Kind:       "field",
		Name:       c.Name + " [index]",
		Colnum:     int(c.ID),
	}
}
