package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"studioscan/internal/complexity"
	"studioscan/internal/config"
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResultHuman renders one analysis result as a terminal summary.
func printResultHuman(result *complexity.Result, thresholds config.ScoreThresholds) {
	fmt.Printf("Complexity: %s\n", result.Label)
	fmt.Printf("Score:      %.2f (band: %s, diagnostic only)\n",
		result.WeightedScore, complexity.ScoreBand(result.WeightedScore, thresholds))
	fmt.Printf("Files:      %d analyzed\n", result.RawMetrics.FilesAnalyzed)
	fmt.Println()

	m := result.RawMetrics
	fmt.Printf("  loc: %d  functions: %d  avg cyclomatic: %.1f (max %d)\n",
		m.Loc, m.FunctionCount, m.AvgCyclomatic, m.MaxCyclomatic)
	fmt.Printf("  branches: %d  sql: %d  external calls: %d  ui elements: %d\n",
		m.BranchCount, m.SQLQueryCount, m.ExternalCallCount, m.UIElementCount)
	if m.DynamicCodeFlag > 0 {
		fmt.Printf("  dynamic code detected\n")
	}
	if m.HasTests {
		fmt.Printf("  tests present\n")
	}

	if len(result.TopContributors) > 0 {
		var parts []string
		for _, c := range result.TopContributors {
			parts = append(parts, fmt.Sprintf("%s (%.2f)", c.Metric, c.Contribution))
		}
		fmt.Printf("  score drivers: %s\n", strings.Join(parts, ", "))
	}

	if len(m.Errors) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, e := range m.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
