// Package surface defines output rendering for forkscope results.
// Implementations handle different output targets: terminal, JSON,
// Markdown, and Prometheus text exposition.
package surface

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/forkscope/forkscope/pkg/scoring"
)

// Renderer produces formatted output from a Result.
type Renderer interface {
	// Render writes the formatted result to the writer.
	Render(w io.Writer, result *scoring.Result) error
}

// Meta identifies one scoring run in machine-readable outputs.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
}

// Formats lists the accepted --output values.
var Formats = []string{"text", "json", "markdown", "prom"}

// New returns the renderer for a format name.
func New(format string, meta Meta, color bool) (Renderer, error) {
	switch format {
	case "", "text":
		return &TerminalRenderer{Color: color}, nil
	case "json":
		return &JSONRenderer{Meta: meta}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "prom", "prometheus":
		return &PromRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// ColorEnabled reports whether colored output should be written to f.
func ColorEnabled(f *os.File) bool {
	if noColor() {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
