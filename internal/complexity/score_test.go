package complexity

import (
	"testing"

	"studioscan/internal/config"
)

func TestScoreDotProduct(t *testing.T) {
	weights := config.MetricWeights{Loc: 2.0, FunctionCount: 1.0}
	n := NormalizedMetrics{Loc: 0.5, FunctionCount: 0.25}

	if got := Score(n, weights); got != 1.25 {
		t.Errorf("Score = %f, want 1.25", got)
	}
}

func TestScoreClampsNegative(t *testing.T) {
	weights := config.MetricWeights{TestCoverageFlag: -0.8}
	n := NormalizedMetrics{TestCoverageFlag: 1.0}

	if got := Score(n, weights); got != 0 {
		t.Errorf("Score = %f, want 0 (clamped)", got)
	}
}

func TestTestCoverageReducesScore(t *testing.T) {
	weights := config.DefaultConfig().Weights
	n := NormalizedMetrics{Loc: 0.5, AvgCyclomatic: 0.4}

	without := Score(n, weights)
	n.TestCoverageFlag = 1.0
	with := Score(n, weights)

	if with >= without {
		t.Errorf("tested score %f should be below untested %f", with, without)
	}
}

func TestTopContributors(t *testing.T) {
	weights := config.MetricWeights{
		Loc:              1.5,
		AvgCyclomatic:    2.0,
		SQLQueryCount:    1.2,
		DynamicCodeFlag:  2.5,
		TestCoverageFlag: -0.8,
	}
	n := NormalizedMetrics{
		Loc:              0.8, // 1.2
		AvgCyclomatic:    0.5, // 1.0
		SQLQueryCount:    0.5, // 0.6
		DynamicCodeFlag:  1.0, // 2.5
		TestCoverageFlag: 1.0, // negative, excluded
	}

	top := TopContributors(n, weights, 3)
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	want := []string{"dynamic_code_flag", "loc", "avg_cyclomatic_complexity"}
	for i, name := range want {
		if top[i].Metric != name {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Metric, name)
		}
	}
	for _, c := range top {
		if c.Contribution <= 0 {
			t.Errorf("%s contribution %f, must be positive", c.Metric, c.Contribution)
		}
	}
}

func TestTopContributorsFewerThanN(t *testing.T) {
	weights := config.MetricWeights{Loc: 1.0}
	n := NormalizedMetrics{Loc: 0.3}

	top := TopContributors(n, weights, 3)
	if len(top) != 1 {
		t.Errorf("len = %d, want 1", len(top))
	}
}

func TestScoreBand(t *testing.T) {
	th := config.DefaultConfig().Thresholds

	cases := []struct {
		score float64
		want  string
	}{
		{0.0, "simple"},
		{0.99, "simple"},
		{1.0, "medium"},
		{2.49, "medium"},
		{2.5, "complex"},
		{4.49, "complex"},
		{4.5, "very_complex"},
	}
	for _, tc := range cases {
		if got := ScoreBand(tc.score, th); got != tc.want {
			t.Errorf("ScoreBand(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
