package complexity

import (
	"math"

	"studioscan/internal/config"
)

// fileTypesCeiling is the fixed ceiling for the distinct-file-type mix.
const fileTypesCeiling = 5

// Normalize rescales raw metrics into [0.0, 1.0]. LOC uses a log scale so
// large outliers compress instead of saturating immediately; all other
// counts clamp linearly against their configured ceilings. A ceiling of
// zero or less normalizes to 0.
func Normalize(m RawMetrics, limits config.MetricLimits) NormalizedMetrics {
	locNorm := 0.0
	if limits.LocMax > 0 {
		locNorm = math.Min(1.0, math.Log1p(float64(m.Loc))/math.Log1p(float64(limits.LocMax)))
	}

	dynamicFlag := 0.0
	if m.DynamicCodeFlag > 0 {
		dynamicFlag = 1.0
	}
	testFlag := 0.0
	if m.HasTests {
		testFlag = 1.0
	}

	return NormalizedMetrics{
		Loc:               locNorm,
		FunctionCount:     clamp(float64(m.FunctionCount), limits.FunctionsMax),
		AvgCyclomatic:     clamp(m.AvgCyclomatic, limits.CyclomaticMax),
		BranchCount:       clamp(float64(m.BranchCount), limits.BranchesMax),
		SQLQueryCount:     clamp(float64(m.SQLQueryCount), limits.SQLQueriesMax),
		ExternalCallCount: clamp(float64(m.ExternalCallCount), limits.ExternalCallsMax),
		UIElementCount:    clamp(float64(m.UIElementCount), limits.UIElementsMax),
		DynamicCodeFlag:   dynamicFlag,
		FileTypesMix:      clamp(float64(m.FileTypeCount()), fileTypesCeiling),
		TestCoverageFlag:  testFlag,
	}
}

func clamp(value float64, max int) float64 {
	if max <= 0 {
		return 0.0
	}
	return math.Min(1.0, value/float64(max))
}
