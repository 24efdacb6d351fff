package scoring

import "encoding/json"

// ScoreMap accumulates integer scores per feature key and remembers the
// order in which keys were first referenced.
type ScoreMap struct {
	keys   []string
	scores map[string]int
}

// NewScoreMap returns an empty ScoreMap.
func NewScoreMap() *ScoreMap {
	return &ScoreMap{scores: make(map[string]int)}
}

// Add registers key (at zero) if unseen and adds delta to it.
func (m *ScoreMap) Add(key string, delta int) {
	if _, ok := m.scores[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.scores[key] += delta
}

// Get returns the score for key and whether it was ever registered.
func (m *ScoreMap) Get(key string) (int, bool) {
	v, ok := m.scores[key]
	return v, ok
}

// Len returns the number of registered keys.
func (m *ScoreMap) Len() int { return len(m.keys) }

// Keys returns the keys in first-insertion order.
func (m *ScoreMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalJSON encodes the map as a plain object.
func (m *ScoreMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.scores)
}
