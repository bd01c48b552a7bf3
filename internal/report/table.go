// Package report holds the named output tables of a pass and the code that
// assembles, formats and exports them.
package report

import (
	"strconv"
	"time"
)

// Table is one independently consumable output. Cells keep their computed
// type (int, float64, string, pointers for nullable fields) so counts stay
// exact; formatting happens only when a table is rendered or exported.
type Table struct {
	Name    string
	Title   string
	Columns []string
	Rows    [][]any
}

func NewTable(name, title string, columns ...string) *Table {
	return &Table{Name: name, Title: title, Columns: columns, Rows: make([][]any, 0)}
}

// Append adds one row. values must line up with Columns.
func (t *Table) Append(values ...any) {
	t.Rows = append(t.Rows, values)
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Strings returns every row formatted as text, nulls as empty strings.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = Cell(v)
		}
	}
	return out
}

// Cell formats one value for display or export.
func Cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case int:
		return strconv.Itoa(v)
	case *int:
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	default:
		return ""
	}
}
