package field

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Record is one raw field-metadata record as the host library publishes it.
// The shape is owned by the host; this package only reads it.
type Record struct {
	Label        string         `mapstructure:"label"`
	Datatype     string         `mapstructure:"datatype"`
	Display      map[string]any `mapstructure:"display"`
	IsMultiple   map[string]any `mapstructure:"is_multiple"`
	IsCustom     bool           `mapstructure:"is_custom"`
	IsCategory   bool           `mapstructure:"is_category"`
	IsCSP        bool           `mapstructure:"is_csp"`
	IsEditable   bool           `mapstructure:"is_editable"`
	Kind         string         `mapstructure:"kind"`
	Name         string         `mapstructure:"name"`
	Colnum       int            `mapstructure:"colnum"`
	Table        string         `mapstructure:"table"`
	Column       string         `mapstructure:"column"`
	LinkColumn   string         `mapstructure:"link_column"`
	CategorySort string         `mapstructure:"category_sort"`
	RecIndex     int            `mapstructure:"rec_index"`
	SearchTerms  []string       `mapstructure:"search_terms"`
}

// DecodeRecord converts a raw host record into a Record. Null values for
// string fields (the host uses them for fields like news) decode to "".
func DecodeRecord(raw map[string]any) (Record, error) {
	var rec Record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Record{}, fmt.Errorf("build record decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Record{}, fmt.Errorf("decode field record: %w", err)
	}
	return rec, nil
}

// displayOptions is the typed view over the free-form display block.
// Only the keys the classifier and the kind-gated accessors care about.
type displayOptions struct {
	IsNames           bool     `mapstructure:"is_names"`
	InterpretAs       string   `mapstructure:"interpret_as"`
	EnumValues        []string `mapstructure:"enum_values"`
	EnumColors        []string `mapstructure:"enum_colors"`
	HeadingPosition   string   `mapstructure:"heading_position"`
	UseDecorations    bool     `mapstructure:"use_decorations"`
	AllowHalfStars    bool     `mapstructure:"allow_half_stars"`
	CompositeSort     string   `mapstructure:"composite_sort"`
	CompositeTemplate string   `mapstructure:"composite_template"`
	MakeCategory      bool     `mapstructure:"make_category"`
	ContainsHTML      bool     `mapstructure:"contains_html"`
	NumberFormat      string   `mapstructure:"number_format"`
	Description       string   `mapstructure:"description"`
}

func decodeDisplay(raw map[string]any) (displayOptions, error) {
	var d displayOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &d,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return displayOptions{}, fmt.Errorf("build display decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return displayOptions{}, fmt.Errorf("decode display block: %w", err)
	}
	return d, nil
}

// Multiple holds the split/join separators of a multiple-valued column.
type Multiple struct {
	// UIToList splits a value typed in the UI into a list.
	UIToList string
	// ListToUI joins a list back into a displayable string.
	ListToUI string
	// CacheToList splits the stored cache representation.
	CacheToList string
}

// cspMultiple is the separator set forced onto colon-separated-pair fields,
// which the host always treats as multiple-valued.
var cspMultiple = Multiple{UIToList: ",", ListToUI: ", ", CacheToList: ","}

func decodeMultiple(raw map[string]any) *Multiple {
	if len(raw) == 0 {
		return nil
	}
	m := &Multiple{}
	if v, ok := raw["ui_to_list"].(string); ok {
		m.UIToList = v
	}
	if v, ok := raw["list_to_ui"].(string); ok {
		m.ListToUI = v
	}
	if v, ok := raw["cache_to_list"].(string); ok {
		m.CacheToList = v
	}
	return m
}
