package surface

import (
	"encoding/json"
	"io"
	"time"

	"github.com/forkscope/forkscope/pkg/scoring"
)

// JSONRenderer marshals a Result to indented JSON.
type JSONRenderer struct {
	Meta Meta
}

// Document is the JSON shape of a scoring run.
type Document struct {
	RunID       string                 `json:"run_id,omitempty"`
	Source      string                 `json:"source,omitempty"`
	Policy      string                 `json:"policy"`
	GeneratedAt string                 `json:"generated_at,omitempty"`
	Stats       scoring.Stats          `json:"stats"`
	Features    []scoring.FeatureScore `json:"features"`
}

// NewDocument builds the JSON document for result.
func NewDocument(meta Meta, result *scoring.Result) Document {
	doc := Document{
		RunID:    meta.RunID,
		Source:   result.Source,
		Policy:   result.Policy.String(),
		Stats:    result.Stats,
		Features: result.Features,
	}
	if !meta.GeneratedAt.IsZero() {
		doc.GeneratedAt = meta.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if doc.Features == nil {
		doc.Features = []scoring.FeatureScore{}
	}
	return doc
}

func (r *JSONRenderer) Render(w io.Writer, result *scoring.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r.Meta, result))
}
