package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/forkscope/forkscope/pkg/heatmap"
	"github.com/forkscope/forkscope/pkg/scoring"
)

// MarkdownRenderer produces a Markdown summary suitable for CI job summaries.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *scoring.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## Fork correlation (%s)\n\n", result.Policy.Title())
	if result.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", result.Source)
	}
	fmt.Fprintf(&b, "Rows: %d scored / %d skipped / %d ignored of %d\n\n",
		result.Stats.RowsScored, result.Stats.RowsSkipped, result.Stats.RowsGated, result.Stats.Rows)

	if len(result.Features) == 0 {
		b.WriteString("No features scored.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	colors := heatmap.Colors(heatmap.SamplesFromFeatures(result.Features))
	b.WriteString("| Feature | Score | Color |\n")
	b.WriteString("|---------|------:|-------|\n")
	for i, f := range result.Features {
		fmt.Fprintf(&b, "| `%s` | %d | %s |\n", escapeCell(f.Feature), f.Score, colors[i])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
