package complexity

import (
	"sort"

	"studioscan/internal/config"
)

// Score computes the diagnostic weighted complexity score: a dot product
// of the normalized metrics and their configured weights, floored at zero.
// A negative total (typically driven by the negative test-coverage weight)
// is clamped, not reported. The score never decides the complexity label.
func Score(n NormalizedMetrics, weights config.MetricWeights) float64 {
	score := 0.0
	for _, mv := range n.Values() {
		score += mv.Value * weights.For(mv.Name)
	}
	if score < 0 {
		return 0.0
	}
	return score
}

// TopContributors returns the topN largest positive weightxvalue products
// in descending order. Zero and negative contributions are excluded; ties
// keep the fixed metric declaration order.
func TopContributors(n NormalizedMetrics, weights config.MetricWeights, topN int) []Contributor {
	var contributions []Contributor
	for _, mv := range n.Values() {
		c := mv.Value * weights.For(mv.Name)
		if c > 0 {
			contributions = append(contributions, Contributor{Metric: mv.Name, Contribution: c})
		}
	}

	sort.SliceStable(contributions, func(a, b int) bool {
		return contributions[a].Contribution > contributions[b].Contribution
	})

	if len(contributions) > topN {
		contributions = contributions[:topN]
	}
	return contributions
}

// ScoreBand maps the diagnostic score onto a label-shaped band for
// reporting. It exists alongside the LOC classifier deliberately: the band
// is informational, the classifier is authoritative.
func ScoreBand(score float64, thresholds config.ScoreThresholds) string {
	switch {
	case score < thresholds.SimpleMax:
		return "simple"
	case score < thresholds.MediumMax:
		return "medium"
	case score < thresholds.ComplexMax:
		return "complex"
	default:
		return "very_complex"
	}
}
