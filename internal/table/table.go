package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
)

// missingMarkers are the cell spellings read as a missing value.
var missingMarkers = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// FormatFloat renders a number the shortest way that parses back to the same value.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MetricsTable is an ordered set of named columns over rows of raw cell text.
// Cells keep the uploaded spelling; numeric access parses on demand.
type MetricsTable struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table. Column names must be unique and every row must have one
// cell per column.
func New(columns []string, rows [][]string) (*MetricsTable, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, &wcetErrors.ParseError{ErrorMsg: "duplicate column name", Column: name}
		}
		index[name] = i
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, &wcetErrors.ParseError{
				ErrorMsg: fmt.Sprintf("expected %d fields, found %d", len(columns), len(row)),
				Row:      r + 1,
			}
		}
	}
	return &MetricsTable{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    rows,
	}, nil
}

// Columns returns the column names in table order.
func (t *MetricsTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *MetricsTable) Len() int {
	return len(t.rows)
}

func (t *MetricsTable) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Cell returns the raw text of a cell, or "" when the column does not exist.
func (t *MetricsTable) Cell(row int, column string) string {
	c, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][c]
}

// Column returns a copy of the raw cells of one column.
func (t *MetricsTable) Column(column string) ([]string, bool) {
	c, ok := t.index[column]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, true
}

// Float parses a cell. Missing cells yield NaN with a nil error.
func (t *MetricsTable) Float(row int, column string) (float64, error) {
	c, ok := t.index[column]
	if !ok {
		return math.NaN(), &wcetErrors.ParseError{ErrorMsg: "column not found", Column: column}
	}
	cell := t.rows[row][c]
	if IsMissing(cell) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN(), &wcetErrors.ParseError{
			ErrorMsg: fmt.Sprintf("value %q is not numeric", cell),
			Row:      row + 1,
			Column:   column,
		}
	}
	return v, nil
}

// Clone returns a deep copy.
func (t *MetricsTable) Clone() *MetricsTable {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append([]string(nil), row...)
	}
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &MetricsTable{columns: append([]string(nil), t.columns...), index: index, rows: rows}
}

// Drop removes the named columns that exist and ignores the rest. It returns
// the names that were actually removed.
func (t *MetricsTable) Drop(columns ...string) []string {
	remove := make(map[int]bool)
	var dropped []string
	for _, name := range columns {
		if c, ok := t.index[name]; ok && !remove[c] {
			remove[c] = true
			dropped = append(dropped, name)
		}
	}
	if len(remove) == 0 {
		return nil
	}
	keep := make([]int, 0, len(t.columns)-len(remove))
	for c := range t.columns {
		if !remove[c] {
			keep = append(keep, c)
		}
	}
	newColumns := make([]string, len(keep))
	t.index = make(map[string]int, len(keep))
	for i, c := range keep {
		newColumns[i] = t.columns[c]
		t.index[newColumns[i]] = i
	}
	for r, row := range t.rows {
		newRow := make([]string, len(keep))
		for i, c := range keep {
			newRow[i] = row[c]
		}
		t.rows[r] = newRow
	}
	t.columns = newColumns
	return dropped
}

// SetColumn overwrites a column in place, or appends it when absent.
func (t *MetricsTable) SetColumn(column string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", column, len(values), len(t.rows))
	}
	if c, ok := t.index[column]; ok {
		for i, row := range t.rows {
			row[c] = values[i]
		}
		return nil
	}
	t.index[column] = len(t.columns)
	t.columns = append(t.columns, column)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], values[i])
	}
	return nil
}

// SetFloatColumn formats values and stores them with SetColumn.
func (t *MetricsTable) SetFloatColumn(column string, values []float64) error {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = FormatFloat(v)
	}
	return t.SetColumn(column, cells)
}

// Head returns a copy of the first n rows.
func (t *MetricsTable) Head(n int) *MetricsTable {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	head := t.Clone()
	head.rows = head.rows[:n]
	return head
}

// Select returns a copy holding only the named columns, in the given order.
// Names not present in the table are skipped.
func (t *MetricsTable) Select(columns ...string) *MetricsTable {
	var picked []string
	var idx []int
	seen := make(map[string]bool, len(columns))
	for _, name := range columns {
		if c, ok := t.index[name]; ok && !seen[name] {
			seen[name] = true
			picked = append(picked, name)
			idx = append(idx, c)
		}
	}
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		out := make([]string, len(idx))
		for i, c := range idx {
			out[i] = row[c]
		}
		rows[r] = out
	}
	selected, _ := New(picked, rows)
	return selected
}

// Records returns the header followed by every row, suitable for CSV writing.
func (t *MetricsTable) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Columns())
	for _, row := range t.rows {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

// Rows returns the data rows as column-name keyed maps, used for JSON previews.
func (t *MetricsTable) Rows() []map[string]string {
	out := make([]map[string]string, len(t.rows))
	for r, row := range t.rows {
		m := make(map[string]string, len(t.columns))
		for c, name := range t.columns {
			m[name] = row[c]
		}
		out[r] = m
	}
	return out
}
