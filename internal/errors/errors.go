package errors

import (
	"fmt"
	"strings"
)

// ParseError is returned when an upload is not valid tabular text or a model
// input cell cannot be read as a number.
type ParseError struct {
	ErrorMsg string
	Row      int // 1-based data row, 0 when not row specific
	Column   string
}

func (m *ParseError) Error() string {
	switch {
	case m.Row > 0 && m.Column != "":
		return fmt.Sprintf("parse error at row %d, column %q: %s", m.Row, m.Column, m.ErrorMsg)
	case m.Column != "":
		return fmt.Sprintf("parse error in column %q: %s", m.Column, m.ErrorMsg)
	default:
		return "parse error: " + m.ErrorMsg
	}
}

// InsufficientDataError is returned when a column that needs median
// imputation has no value to take a median from.
type InsufficientDataError struct {
	Column string
}

func (m *InsufficientDataError) Error() string {
	return fmt.Sprintf("column %q has no non-missing values to impute from", m.Column)
}

// SchemaDiff describes how a set of columns differs from a declared schema.
type SchemaDiff struct {
	Missing   []string `json:"missing"`
	Extra     []string `json:"extra"`
	Reordered []string `json:"reordered"`
}

// Empty reports whether the columns matched the schema exactly.
func (d SchemaDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Reordered) == 0
}

func (d SchemaDiff) String() string {
	var parts []string
	if len(d.Missing) > 0 {
		parts = append(parts, "missing ["+strings.Join(d.Missing, ", ")+"]")
	}
	if len(d.Extra) > 0 {
		parts = append(parts, "extra ["+strings.Join(d.Extra, ", ")+"]")
	}
	if len(d.Reordered) > 0 {
		parts = append(parts, "reordered ["+strings.Join(d.Reordered, ", ")+"]")
	}
	if len(parts) == 0 {
		return "no differences"
	}
	return strings.Join(parts, "; ")
}

// SchemaMismatchError is returned when a table does not carry the columns a
// model or the input schema requires.
type SchemaMismatchError struct {
	Schema string
	Diff   SchemaDiff
}

func (m *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema %q mismatch: %s", m.Schema, m.Diff)
}

// ModelLoadError is returned when a model artifact is missing or unusable.
type ModelLoadError struct {
	Path     string
	ErrorMsg string
	Err      error
}

func (m *ModelLoadError) Error() string {
	if m.Err != nil {
		return fmt.Sprintf("failed to load model %s: %s: %v", m.Path, m.ErrorMsg, m.Err)
	}
	return fmt.Sprintf("failed to load model %s: %s", m.Path, m.ErrorMsg)
}

func (m *ModelLoadError) Unwrap() error {
	return m.Err
}
