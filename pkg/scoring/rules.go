package scoring

import (
	"github.com/forkscope/forkscope/pkg/table"
)

// Rule is the per-policy scoring strategy. The Engine owns the traversal;
// a Rule only decides what a single value or token is worth.
type Rule interface {
	// Policy identifies the rule.
	Policy() Policy
	// Gate reports whether a row with the given fork count contributes at all.
	Gate(forks int) bool
	// Scalar scores a non-missing cell of an ordinary column.
	Scalar(col *table.Column, cell table.Cell, forks int) Decision
	// Token scores one token of the list column.
	Token(forks int) Decision
}

// Decision is the outcome of scoring one value.
// Counted decisions register the feature key even when Delta is zero.
type Decision struct {
	Counted bool
	Delta   int
	Label   string // short classification: "MAX", "MIN", "enabled", ...
	Note    string // human-readable outcome
}

func counted(delta int, label, note string) Decision {
	return Decision{Counted: true, Delta: delta, Label: label, Note: note}
}

func skipped(label, note string) Decision {
	return Decision{Label: label, Note: note}
}

var notNumeric = skipped("NOT NUMERIC", "min/max unavailable, skipped")

func forkToken(forks int) Decision {
	if forks > 0 {
		return counted(1, "", "forked -> +1")
	}
	return counted(-1, "", "no fork -> -1")
}

type addOnlyRule struct{}

func (addOnlyRule) Policy() Policy      { return AddOnly }
func (addOnlyRule) Gate(forks int) bool { return forks > 0 }

func (addOnlyRule) Scalar(col *table.Column, cell table.Cell, forks int) Decision {
	_, max, ok := col.Range()
	if !ok || col.Kind != table.KindNumeric {
		return notNumeric
	}
	if cell.Num == max {
		return counted(1, "MAX", "forked -> +1")
	}
	return counted(0, "not MAX", "no score change")
}

func (addOnlyRule) Token(forks int) Decision {
	return counted(1, "", "forked -> +1")
}

type neutralRule struct{}

func (neutralRule) Policy() Policy      { return Neutral }
func (neutralRule) Gate(forks int) bool { return true }

func (neutralRule) Scalar(col *table.Column, cell table.Cell, forks int) Decision {
	min, max, ok := col.Range()
	if !ok || col.Kind != table.KindNumeric {
		return notNumeric
	}
	if min == max {
		return skipped("CONSTANT", "skipped")
	}

	isMax := cell.Num == max
	isMin := cell.Num == min
	switch {
	case isMax && forks > 0:
		return counted(1, "MAX", "forked -> +1")
	case isMax && forks == 0:
		return counted(-1, "MAX", "no fork -> -1")
	case isMin && forks > 0:
		return counted(-1, "MIN", "forked -> -1")
	case isMin:
		return counted(-1, "MIN", "no fork -> -1")
	default:
		return counted(0, "neutral", "no score change")
	}
}

func (neutralRule) Token(forks int) Decision { return forkToken(forks) }

type mismatchRule struct{}

func (mismatchRule) Policy() Policy      { return Mismatch }
func (mismatchRule) Gate(forks int) bool { return true }

func (mismatchRule) Scalar(col *table.Column, cell table.Cell, forks int) Decision {
	// Only numeric columns can be disabled; a "0" in a text column is a setting.
	enabled := col.Kind != table.KindNumeric || cell.Num != 0

	switch {
	case enabled && forks > 0:
		return counted(1, "enabled", "forked -> +1")
	case enabled && forks == 0:
		return counted(-1, "mismatch", "enabled, no fork -> -1")
	case !enabled && forks > 0:
		return counted(-1, "mismatch", "disabled, forked -> -1")
	case enabled:
		return counted(0, "enabled", "no score change")
	default:
		return counted(0, "disabled", "no score change")
	}
}

func (mismatchRule) Token(forks int) Decision { return forkToken(forks) }
