// Package scoring implements the forkscope fork-correlation engine.
// It walks an experiment matrix row by row and scores every parameter and
// enabled-op token by how strongly it co-occurs with forks.
package scoring

// Result is the complete output of scoring one matrix.
// Immutable once computed.
type Result struct {
	Policy   Policy         `json:"-"`
	Source   string         `json:"source,omitempty"`
	Scores   *ScoreMap      `json:"-"`
	Features []FeatureScore `json:"features"` // ranked, highest first
	Stats    Stats          `json:"stats"`
}

// FeatureScore is one ranked entry of a Result.
type FeatureScore struct {
	Feature string `json:"feature"`
	Score   int    `json:"score"`
}

// Stats summarizes a scoring pass.
type Stats struct {
	Rows        int `json:"rows"`         // data rows in the table
	RowsScored  int `json:"rows_scored"`  // rows that passed the fork parse and the policy gate
	RowsSkipped int `json:"rows_skipped"` // rows with an unparseable fork count
	RowsGated   int `json:"rows_gated"`   // rows the policy ignored
	Decisions   int `json:"decisions"`    // counted scoring decisions
}
