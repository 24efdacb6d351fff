package scoring

import (
	"fmt"
	"io"
)

// EventKind classifies trace events.
type EventKind string

const (
	EventRow        EventKind = "ROW"
	EventRowSkipped EventKind = "ROW_SKIPPED"
	EventScore      EventKind = "SCORE"
	EventSkip       EventKind = "SKIP"
)

// Event is one scoring decision (or skipped unit of work) emitted during a pass.
type Event struct {
	Kind    EventKind `json:"kind"`
	Row     int       `json:"row"`
	Forks   int       `json:"forks"`
	Column  string    `json:"column,omitempty"`
	Feature string    `json:"feature,omitempty"` // key the delta applies to; differs from Column for list tokens
	Value   string    `json:"value,omitempty"`
	Label   string    `json:"label,omitempty"`
	Note    string    `json:"note,omitempty"`
	Delta   int       `json:"delta"`
	Token   bool      `json:"token,omitempty"` // Feature is a list-column token
}

// IsToken reports whether the event concerns a list-column token.
func (e Event) IsToken() bool {
	return e.Token
}

// Sink receives trace events in emission order.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// NopSink discards events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// Collector keeps every event in memory.
type Collector struct {
	Events []Event
}

func (c *Collector) Emit(e Event) { c.Events = append(c.Events, e) }

// TextSink writes the human-readable trace, one line per event.
type TextSink struct {
	W io.Writer
}

func (s *TextSink) Emit(e Event) {
	fmt.Fprintln(s.W, FormatEvent(e))
}

// FormatEvent renders an event as a single trace line.
func FormatEvent(e Event) string {
	switch e.Kind {
	case EventRow:
		return fmt.Sprintf("Row %d | %s = %d", e.Row, e.Column, e.Forks)
	case EventRowSkipped:
		return fmt.Sprintf("Row %d | %s = %q | %s", e.Row, e.Column, e.Value, e.Note)
	}

	if e.IsToken() {
		return fmt.Sprintf("  %s -> '%s' | %s", e.Column, e.Feature, e.Note)
	}
	if e.Value == "" {
		return fmt.Sprintf("  %s | %s", e.Column, e.Note)
	}
	if e.Label == "" {
		return fmt.Sprintf("  %s=%s | %s", e.Column, e.Value, e.Note)
	}
	return fmt.Sprintf("  %s=%s (%s) | %s", e.Column, e.Value, e.Label, e.Note)
}
