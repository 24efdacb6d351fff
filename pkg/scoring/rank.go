package scoring

import "sort"

// Rank orders the scores highest first. Equal scores keep the order in
// which their keys were first registered.
func Rank(m *ScoreMap) []FeatureScore {
	ranked := make([]FeatureScore, 0, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		ranked = append(ranked, FeatureScore{Feature: k, Score: v})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
