package table_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkscope/forkscope/pkg/table"
)

func matrixOpts() table.Options {
	return table.Options{ForkColumn: "num_forks", ListColumn: "ENABLED_OPS"}
}

func TestReadAssignsColumnKinds(t *testing.T) {
	in := " num_forks , x ,mode,ENABLED_OPS\n" +
		"1,5,fast,a-b\n" +
		"0,3,slow,a\n" +
		"2,,fast,c\n"

	tbl, err := table.Read(strings.NewReader(in), matrixOpts())
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"num_forks", "x", "mode", "ENABLED_OPS"}, tbl.Names())

	x, ok := tbl.Column("x")
	require.True(t, ok)
	assert.Equal(t, table.KindNumeric, x.Kind)
	assert.True(t, x.Cells[2].Missing)
	min, max, ok := x.Range()
	assert.True(t, ok)
	assert.Equal(t, 3.0, min)
	assert.Equal(t, 5.0, max)

	mode, _ := tbl.Column("mode")
	assert.Equal(t, table.KindText, mode.Kind)
	_, _, ok = mode.Range()
	assert.False(t, ok)

	ops, _ := tbl.Column("ENABLED_OPS")
	assert.Equal(t, table.KindList, ops.Kind)
	assert.Equal(t, "a-b", ops.Cells[0].Raw)

	forks, _ := tbl.Column("num_forks")
	assert.Equal(t, table.KindText, forks.Kind, "fork column is parsed per row, not coerced")
}

func TestReadPartialNumericColumnStaysText(t *testing.T) {
	in := "num_forks,threads\n1,4\n0,eight\n1,16\n"

	tbl, err := table.Read(strings.NewReader(in), matrixOpts())
	require.NoError(t, err)

	col, _ := tbl.Column("threads")
	assert.Equal(t, table.KindText, col.Kind)
	assert.True(t, col.Cells[0].Numeric, "cells keep their own parse result")
	assert.False(t, col.Cells[1].Numeric)
}

func TestReadMissingTokens(t *testing.T) {
	in := "num_forks,x\n1,NaN\n1,N/A\n1, \n1,7\n"

	tbl, err := table.Read(strings.NewReader(in), matrixOpts())
	require.NoError(t, err)

	col, _ := tbl.Column("x")
	assert.Equal(t, table.KindNumeric, col.Kind)
	for i := 0; i < 3; i++ {
		assert.True(t, col.Cells[i].Missing, "row %d", i)
	}
	min, max, ok := col.Range()
	assert.True(t, ok)
	assert.Equal(t, 7.0, min)
	assert.Equal(t, 7.0, max)
}

func TestReadAllMissingColumnHasNoRange(t *testing.T) {
	tbl, err := table.Read(strings.NewReader("num_forks,x\n1,\n0,\n"), matrixOpts())
	require.NoError(t, err)

	col, _ := tbl.Column("x")
	_, _, ok := col.Range()
	assert.False(t, ok)
}

func TestReadShortRowsArePadded(t *testing.T) {
	tbl, err := table.Read(strings.NewReader("num_forks,x,y\n1,2\n"), matrixOpts())
	require.NoError(t, err)

	y, _ := tbl.Column("y")
	require.Len(t, y.Cells, 1)
	assert.True(t, y.Cells[0].Missing)
}

func TestReadDuplicateHeaders(t *testing.T) {
	tbl, err := table.Read(strings.NewReader("num_forks,x, x\n1,2,3\n"), matrixOpts())
	require.NoError(t, err)
	assert.Equal(t, []string{"num_forks", "x", "x.1"}, tbl.Names())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   table.Options
		target error
	}{
		{name: "empty input", input: "", opts: matrixOpts(), target: table.ErrEmpty},
		{name: "missing fork column", input: "x,y\n1,2\n", opts: matrixOpts(), target: table.ErrMissingColumn},
		{
			name:   "missing extra required column",
			input:  "label\np1\n",
			opts:   table.Options{Required: []string{"label", "val"}},
			target: table.ErrMissingColumn,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := table.Read(strings.NewReader(tc.input), tc.opts)
			require.Error(t, err)

			var le *table.LoadError
			assert.True(t, errors.As(err, &le))
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestReadTooManyFields(t *testing.T) {
	_, err := table.Read(strings.NewReader("num_forks,x\n1,2,3\n"), matrixOpts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadCustomDelimiter(t *testing.T) {
	opts := matrixOpts()
	opts.Comma = ';'
	tbl, err := table.Read(strings.NewReader("num_forks;x\n1;2\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"num_forks", "x"}, tbl.Names())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte("num_forks,x\n1,2\n"), 0o644))

	tbl, err := table.Load(path, matrixOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoadErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n"), 0o644))

	_, err := table.Load(path, matrixOpts())
	var le *table.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)
	assert.ErrorIs(t, err, table.ErrMissingColumn)

	_, err = table.Load(filepath.Join(dir, "nope.csv"), matrixOpts())
	require.True(t, errors.As(err, &le))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
