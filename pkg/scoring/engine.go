package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/forkscope/forkscope/pkg/table"
)

// DefaultSeparator joins tokens in the list column.
const DefaultSeparator = "-"

// Engine runs one Rule over every row of a table and produces a Result.
type Engine struct {
	rule      Rule
	sink      Sink
	separator string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink routes trace events to s.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithSeparator sets the list-column token separator.
func WithSeparator(sep string) Option {
	return func(e *Engine) {
		if sep != "" {
			e.separator = sep
		}
	}
}

// NewEngine creates a scoring engine for the given rule.
func NewEngine(rule Rule, opts ...Option) *Engine {
	e := &Engine{rule: rule, sink: NopSink{}, separator: DefaultSeparator}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Policy returns the policy of the engine's rule.
func (e *Engine) Policy() Policy { return e.rule.Policy() }

// Score makes a single pass over t. Malformed cells never fail the pass;
// they are reported as trace events and skipped.
func (e *Engine) Score(t *table.Table) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("table is nil")
	}
	forkCol, ok := t.Column(t.ForkColumn)
	if !ok {
		return nil, fmt.Errorf("%w %q", table.ErrMissingColumn, t.ForkColumn)
	}

	p := &pass{
		engine: e,
		scores: NewScoreMap(),
		result: &Result{Policy: e.rule.Policy()},
	}
	p.result.Stats.Rows = t.Len()

	for row := 0; row < t.Len(); row++ {
		fc := forkCol.Cells[row]
		forks, ok := parseForks(fc)
		if !ok {
			p.result.Stats.RowsSkipped++
			e.sink.Emit(Event{
				Kind:   EventRowSkipped,
				Row:    row,
				Column: forkCol.Name,
				Value:  fc.Raw,
				Note:   "fork count unparseable, row skipped",
			})
			continue
		}
		if !e.rule.Gate(forks) {
			p.result.Stats.RowsGated++
			e.sink.Emit(Event{
				Kind:   EventRowSkipped,
				Row:    row,
				Forks:  forks,
				Column: forkCol.Name,
				Value:  fc.Raw,
				Note:   "no fork, row ignored",
			})
			continue
		}

		p.result.Stats.RowsScored++
		e.sink.Emit(Event{Kind: EventRow, Row: row, Forks: forks, Column: forkCol.Name})

		for _, col := range t.Columns {
			if col == forkCol {
				continue
			}
			cell := col.Cells[row]
			if col.Kind == table.KindList {
				p.scoreTokens(row, forks, col, cell)
				continue
			}
			if cell.Missing {
				p.skip(row, forks, col.Name, "missing, skipped")
				continue
			}
			p.apply(row, forks, col.Name, col.Name, cell.Raw, false, e.rule.Scalar(col, cell, forks))
		}
	}

	p.result.Scores = p.scores
	p.result.Features = Rank(p.scores)
	return p.result, nil
}

// pass holds the mutable state of one Score call.
type pass struct {
	engine *Engine
	scores *ScoreMap
	result *Result
}

func (p *pass) scoreTokens(row, forks int, col *table.Column, cell table.Cell) {
	if cell.Missing || cell.Raw == "" {
		p.skip(row, forks, col.Name, "blank, skipped")
		return
	}
	for _, tok := range splitTokens(cell.Raw, p.engine.separator) {
		p.apply(row, forks, col.Name, tok, cell.Raw, true, p.engine.rule.Token(forks))
	}
}

func (p *pass) apply(row, forks int, column, feature, value string, token bool, d Decision) {
	ev := Event{
		Kind:    EventSkip,
		Row:     row,
		Forks:   forks,
		Column:  column,
		Feature: feature,
		Value:   value,
		Label:   d.Label,
		Note:    d.Note,
		Token:   token,
	}
	if d.Counted {
		p.scores.Add(feature, d.Delta)
		p.result.Stats.Decisions++
		ev.Kind = EventScore
		ev.Delta = d.Delta
	}
	p.engine.sink.Emit(ev)
}

func (p *pass) skip(row, forks int, column, note string) {
	p.engine.sink.Emit(Event{Kind: EventSkip, Row: row, Forks: forks, Column: column, Note: note})
}

// splitTokens splits s on sep, trims every token and drops empty ones.
func splitTokens(s, sep string) []string {
	var out []string
	for _, tok := range strings.Split(s, sep) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// parseForks reads an integer fork count. Float text is truncated toward
// zero and clamped to the int range; missing, non-numeric and infinite
// values are rejected.
func parseForks(c table.Cell) (int, bool) {
	if c.Missing {
		return 0, false
	}
	if n, err := strconv.Atoi(c.Raw); err == nil {
		return n, true
	}
	if !c.Numeric || math.IsInf(c.Num, 0) || math.IsNaN(c.Num) {
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which is already out of range.
	switch v := math.Trunc(c.Num); {
	case v >= float64(math.MaxInt):
		return math.MaxInt, true
	case v <= float64(math.MinInt):
		return math.MinInt, true
	default:
		return int(v), true
	}
}
