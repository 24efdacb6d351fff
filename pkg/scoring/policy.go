package scoring

import (
	"fmt"
	"strings"
)

// Policy selects the scoring rule applied to every row.
type Policy int

const (
	// Mismatch treats non-zero values as enabled and penalizes enabled/fork disagreement.
	Mismatch Policy = iota
	// Neutral rewards column maxima on forked rows, penalizes minima, ignores interior values.
	Neutral
	// AddOnly only looks at forked rows and never decrements.
	AddOnly
)

// Policies lists every policy in display order.
var Policies = []Policy{Mismatch, Neutral, AddOnly}

// PolicyNames returns the canonical names of Policies, comma separated.
func PolicyNames() string {
	names := make([]string, len(Policies))
	for i, p := range Policies {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

func (p Policy) String() string {
	switch p {
	case Neutral:
		return "neutral"
	case AddOnly:
		return "addonly"
	default:
		return "mismatch"
	}
}

// Title is the human-readable policy name used in report headers.
func (p Policy) Title() string {
	switch p {
	case Neutral:
		return "Min/max neutral"
	case AddOnly:
		return "Add-only"
	default:
		return "Mismatch"
	}
}

// Rule returns the scoring strategy for the policy.
func (p Policy) Rule() Rule {
	switch p {
	case Neutral:
		return neutralRule{}
	case AddOnly:
		return addOnlyRule{}
	default:
		return mismatchRule{}
	}
}

// ParsePolicy maps a user-supplied name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mismatch", "":
		return Mismatch, nil
	case "neutral", "minmax-neutral", "minmax":
		return Neutral, nil
	case "addonly", "add-only", "minmax-addonly":
		return AddOnly, nil
	default:
		return Mismatch, fmt.Errorf("unknown policy %q (want one of %s)", s, PolicyNames())
	}
}
