package heatmap

import (
	"errors"
	"fmt"
	"math"

	"github.com/forkscope/forkscope/pkg/scoring"
	"github.com/forkscope/forkscope/pkg/table"
)

// Input column names of a heatmap CSV.
const (
	LabelColumn = "label"
	ValueColumn = "val"
)

// LoadSamples reads a label,val CSV. Rows without a value are dropped.
func LoadSamples(path string) ([]Sample, error) {
	tbl, err := table.Load(path, table.Options{Required: []string{LabelColumn, ValueColumn}})
	if err != nil {
		return nil, err
	}
	samples, err := SamplesFromTable(tbl)
	var le *table.LoadError
	if errors.As(err, &le) {
		le.Path = path
	}
	return samples, err
}

// SamplesFromTable extracts samples from an already loaded table.
func SamplesFromTable(tbl *table.Table) ([]Sample, error) {
	labels, ok := tbl.Column(LabelColumn)
	if !ok {
		return nil, &table.LoadError{Err: fmt.Errorf("%w %q", table.ErrMissingColumn, LabelColumn)}
	}
	values, ok := tbl.Column(ValueColumn)
	if !ok {
		return nil, &table.LoadError{Err: fmt.Errorf("%w %q", table.ErrMissingColumn, ValueColumn)}
	}
	if values.Kind != table.KindNumeric {
		return nil, &table.LoadError{Err: fmt.Errorf("column %q is not numeric", ValueColumn)}
	}

	samples := make([]Sample, 0, tbl.Len())
	for i, v := range values.Cells {
		if v.Missing {
			continue
		}
		if math.IsInf(v.Num, 0) {
			return nil, &table.LoadError{Err: fmt.Errorf("row %d: %w %q", i+1, ErrNonFinite, v.Raw)}
		}
		samples = append(samples, Sample{Label: labels.Cells[i].Raw, Value: v.Num})
	}
	return samples, nil
}

// SamplesFromFeatures turns ranked scores into heatmap samples, keeping rank order.
func SamplesFromFeatures(features []scoring.FeatureScore) []Sample {
	samples := make([]Sample, len(features))
	for i, f := range features {
		samples[i] = Sample{Label: f.Feature, Value: float64(f.Score)}
	}
	return samples
}
