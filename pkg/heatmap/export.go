package heatmap

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the exporter writes to.
const SheetName = "Heatmap"

// Sample is one labeled value of a heatmap.
type Sample struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

var (
	// ErrNoSamples is returned when there is nothing to export.
	ErrNoSamples = errors.New("no samples to export")
	// ErrNonFinite is returned for infinite or NaN values, which have no
	// place on the gradient.
	ErrNonFinite = errors.New("non-finite value")
)

// ExportError reports why a heatmap could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting heatmap %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// bounds returns the min and max value over samples.
func bounds(samples []Sample) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		min = math.Min(min, s.Value)
		max = math.Max(max, s.Value)
	}
	return min, max
}

// Colors returns the hex color of every sample against the batch range.
func Colors(samples []Sample) []string {
	min, max := bounds(samples)
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = HexFor(s.Value, min, max)
	}
	return out
}

// Export writes samples to an xlsx workbook at path. The header row is
// Label, Score; each label cell is filled with its gradient color.
func Export(samples []Sample, path string) error {
	if len(samples) == 0 {
		return &ExportError{Path: path, Err: ErrNoSamples}
	}
	for _, s := range samples {
		if math.IsInf(s.Value, 0) || math.IsNaN(s.Value) {
			return &ExportError{Path: path, Err: fmt.Errorf("%w for %q", ErrNonFinite, s.Label)}
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("naming sheet: %w", err)}
	}
	if err := f.SetSheetRow(SheetName, "A1", &[]any{"Label", "Score"}); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("writing header: %w", err)}
	}

	styles := make(map[string]int)
	for i, color := range Colors(samples) {
		row := i + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, labelCell, &[]any{samples[i].Label, samples[i].Value}); err != nil {
			return &ExportError{Path: path, Err: fmt.Errorf("writing row %d: %w", row, err)}
		}

		style, ok := styles[color]
		if !ok {
			var err error
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			})
			if err != nil {
				return &ExportError{Path: path, Err: fmt.Errorf("creating style %s: %w", color, err)}
			}
			styles[color] = style
		}
		if err := f.SetCellStyle(SheetName, labelCell, labelCell, style); err != nil {
			return &ExportError{Path: path, Err: fmt.Errorf("styling %s: %w", labelCell, err)}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// OutputPath derives the workbook path from an input path:
// dir/name.csv becomes dir/name_heatmap.xlsx.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_heatmap.xlsx"
}
