package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/forkscope/forkscope/pkg/heatmap"
	"github.com/forkscope/forkscope/pkg/scoring"
)

// TerminalRenderer renders the ranked scores as "<feature>: <score>" lines.
// With Color set, each line takes the heatmap color of its score.
type TerminalRenderer struct {
	Color bool
}

func (r *TerminalRenderer) Render(w io.Writer, result *scoring.Result) error {
	lr := lipgloss.NewRenderer(w)
	if r.Color {
		lr.SetColorProfile(termenv.TrueColor)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	bold := lr.NewStyle().Bold(true)

	title := fmt.Sprintf("Final Fork Correlation Scores (%s):", result.Policy.Title())
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Render(title))
	fmt.Fprintln(w, strings.Repeat("-", len(title)))

	if len(result.Features) == 0 {
		fmt.Fprintln(w, "No features scored.")
		return nil
	}

	colors := heatmap.Colors(heatmap.SamplesFromFeatures(result.Features))
	for i, f := range result.Features {
		line := fmt.Sprintf("%s: %d", f.Feature, f.Score)
		if r.Color {
			line = lr.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
