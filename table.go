package newsfetch

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Table is a batch re-keyed against the union of all field names, so every
// output format shares identical columns.
type Table struct {
	Columns []string

	// Rows are aligned with Columns. A key a record does not carry is
	// filled with the empty string; an absent optional value is nil.
	Rows [][]any
}

// NewTable builds a Table from records. Columns appear in first-seen order.
func NewTable(records []*Record) *Table {
	var columns []string
	index := make(map[string]int)
	values := make([]map[string]any, len(records))

	for i, r := range records {
		m := make(map[string]any)
		for _, f := range r.Fields() {
			if _, ok := index[f.Key]; !ok {
				index[f.Key] = len(columns)
				columns = append(columns, f.Key)
			}
			m[f.Key] = f.Value
		}
		values[i] = m
	}

	rows := make([][]any, len(records))
	for i, m := range values {
		row := make([]any, len(columns))
		for j, col := range columns {
			v, ok := m[col]
			if !ok {
				v = ""
			}
			row[j] = v
		}
		rows[i] = row
	}

	return &Table{Columns: columns, Rows: rows}
}

// CellText renders a value as text. Nested maps, slices and structs are
// serialized as compact JSON.
func CellText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// MaxCellLength is the spreadsheet cell character limit.
const MaxCellLength = 32767

// TruncationMarker is appended to cell text cut at MaxCellLength.
const TruncationMarker = " [truncated]"

// SanitizeCell renders a value for a spreadsheet cell. In order it
// serializes structured values, strips control characters and invisible
// direction marks, trims whitespace, truncates to MaxCellLength characters
// and quote-prefixes text that a spreadsheet would evaluate as a formula.
func SanitizeCell(v any) string {
	s := CellText(v)
	s = strings.Map(dropInvisible, s)
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > MaxCellLength {
		s = string([]rune(s)[:MaxCellLength]) + TruncationMarker
	}
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		s = "'" + s
	}
	return s
}

func dropInvisible(r rune) rune {
	switch {
	case r < 0x20, r == 0x7f:
		return -1
	case r == '\u200b', r == '\u200c', r == '\u200d', r == '\u200e', r == '\u200f', r == '\u2060', r == '\ufeff':
		return -1
	}
	return r
}

func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(m))
}
