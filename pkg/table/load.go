package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Options controls how a matrix is read.
type Options struct {
	// ForkColumn is the required fork-count column. Empty disables the check.
	ForkColumn string
	// ListColumn holds separator-joined tokens. Optional.
	ListColumn string
	// Comma is the field delimiter; 0 means ','.
	Comma rune
	// Required lists additional columns that must be present.
	Required []string
}

// naTokens are treated as missing values, matching the usual spreadsheet/pandas set.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// Load reads the CSV file at path.
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// Read parses a CSV stream into a Table.
func Read(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Err: ErrEmpty}
		}
		return nil, &LoadError{Err: fmt.Errorf("reading header: %w", err)}
	}

	t := &Table{
		ForkColumn: opts.ForkColumn,
		ListColumn: opts.ListColumn,
		index:      make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := uniqueName(strings.TrimSpace(h), t.index)
		t.index[name] = i
		t.Columns = append(t.Columns, &Column{Name: name})
	}

	required := opts.Required
	if opts.ForkColumn != "" {
		required = append([]string{opts.ForkColumn}, required...)
	}
	for _, name := range required {
		if _, ok := t.index[name]; !ok {
			return nil, &LoadError{Err: fmt.Errorf("%w %q", ErrMissingColumn, name)}
		}
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("reading row: %w", err)}
		}
		if len(rec) > len(header) {
			return nil, &LoadError{Err: fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))}
		}
		for i, col := range t.Columns {
			var raw string
			if i < len(rec) {
				raw = rec[i]
			}
			col.Cells = append(col.Cells, parseCell(raw))
		}
		t.rows++
	}

	for _, col := range t.Columns {
		switch col.Name {
		case opts.ForkColumn:
			col.Kind = KindText
		case opts.ListColumn:
			col.Kind = KindList
		default:
			coerce(col)
		}
	}

	return t, nil
}

func parseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if naTokens[s] {
		return Cell{Raw: s, Missing: true}
	}
	c := Cell{Raw: s}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		c.Num = f
		c.Numeric = true
	}
	return c
}

// coerce tags the column numeric only if every non-missing cell parsed.
func coerce(col *Column) {
	col.Kind = KindNumeric
	col.min, col.max = math.Inf(1), math.Inf(-1)
	for _, c := range col.Cells {
		if c.Missing {
			continue
		}
		if !c.Numeric {
			col.Kind = KindText
			col.hasRange = false
			return
		}
		col.hasRange = true
		col.min = math.Min(col.min, c.Num)
		col.max = math.Max(col.max, c.Num)
	}
	if !col.hasRange {
		col.min, col.max = 0, 0
	}
}

func uniqueName(name string, seen map[string]int) string {
	if _, ok := seen[name]; !ok {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%d", name, i)
		if _, ok := seen[candidate]; !ok {
			return candidate
		}
	}
}
