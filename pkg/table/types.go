// Package table loads delimited experiment matrices into typed, immutable columns.
package table

import (
	"errors"
	"fmt"
)

// Kind tags how a column is interpreted by the scoring pass.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindList:
		return "list"
	default:
		return "text"
	}
}

// Cell is a single value of a column.
type Cell struct {
	Raw     string  // trimmed source text
	Num     float64 // parsed value, valid when Numeric is true
	Numeric bool
	Missing bool
}

// Column holds every cell of one CSV column in row order.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell

	min, max float64
	hasRange bool
}

// Range returns the column's min and max over non-missing cells.
// ok is false for non-numeric columns and for columns with no values.
func (c *Column) Range() (min, max float64, ok bool) {
	return c.min, c.max, c.hasRange
}

// Table is a loaded matrix. It is not modified after Load returns.
type Table struct {
	Columns    []*Column
	ForkColumn string
	ListColumn string

	rows  int
	index map[string]int
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Column looks up a column by its cleaned name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Columns[i], true
}

// Names returns the column names in header order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmpty is returned when the input has no header row.
	ErrEmpty = errors.New("no header row")
)

// LoadError reports why a table could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading table: %v", e.Err)
	}
	return fmt.Sprintf("loading table %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
