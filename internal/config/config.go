// Package config holds the externally loaded estimator configuration.
// All values are read once at startup and treated as immutable for the
// lifetime of the process; concurrent reads are safe.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// MetricLimits are the ceilings used to normalize raw metrics into [0,1].
type MetricLimits struct {
	LocMax           int `json:"locMax" mapstructure:"locMax"`
	FunctionsMax     int `json:"functionsMax" mapstructure:"functionsMax"`
	CyclomaticMax    int `json:"cyclomaticMax" mapstructure:"cyclomaticMax"`
	BranchesMax      int `json:"branchesMax" mapstructure:"branchesMax"`
	SQLQueriesMax    int `json:"sqlQueriesMax" mapstructure:"sqlQueriesMax"`
	ExternalCallsMax int `json:"externalCallsMax" mapstructure:"externalCallsMax"`
	UIElementsMax    int `json:"uiElementsMax" mapstructure:"uiElementsMax"`
}

// MetricWeights are the per-metric weights for the diagnostic complexity
// score. TestCoverageFlag is negative by convention: tests reduce the score.
type MetricWeights struct {
	Loc              float64 `json:"loc" mapstructure:"loc"`
	FunctionCount    float64 `json:"functionCount" mapstructure:"functionCount"`
	AvgCyclomatic    float64 `json:"avgCyclomatic" mapstructure:"avgCyclomatic"`
	BranchCount      float64 `json:"branchCount" mapstructure:"branchCount"`
	SQLQueryCount    float64 `json:"sqlQueryCount" mapstructure:"sqlQueryCount"`
	ExternalCalls    float64 `json:"externalCalls" mapstructure:"externalCalls"`
	UIElementCount   float64 `json:"uiElementCount" mapstructure:"uiElementCount"`
	DynamicCodeFlag  float64 `json:"dynamicCodeFlag" mapstructure:"dynamicCodeFlag"`
	FileTypesMix     float64 `json:"fileTypesMix" mapstructure:"fileTypesMix"`
	TestCoverageFlag float64 `json:"testCoverageFlag" mapstructure:"testCoverageFlag"`
}

// For returns the weight for a metric name as used in NormalizedMetrics
// iteration. Unknown names weigh zero.
func (w MetricWeights) For(name string) float64 {
	switch name {
	case "loc":
		return w.Loc
	case "function_count":
		return w.FunctionCount
	case "avg_cyclomatic_complexity":
		return w.AvgCyclomatic
	case "branch_count":
		return w.BranchCount
	case "sql_query_count":
		return w.SQLQueryCount
	case "external_call_count":
		return w.ExternalCalls
	case "ui_element_count":
		return w.UIElementCount
	case "dynamic_code_flag":
		return w.DynamicCodeFlag
	case "file_types_mix":
		return w.FileTypesMix
	case "test_coverage_flag":
		return w.TestCoverageFlag
	}
	return 0
}

// ScoreThresholds band the diagnostic weighted score. The bands never drive
// the complexity label; they are surfaced for reporting only.
type ScoreThresholds struct {
	SimpleMax  float64 `json:"simpleMax" mapstructure:"simpleMax"`
	MediumMax  float64 `json:"mediumMax" mapstructure:"mediumMax"`
	ComplexMax float64 `json:"complexMax" mapstructure:"complexMax"`
}

// BandMultipliers scale the baseline hours per complexity label.
type BandMultipliers struct {
	Simple      float64 `json:"simple" mapstructure:"simple"`
	Medium      float64 `json:"medium" mapstructure:"medium"`
	Complex     float64 `json:"complex" mapstructure:"complex"`
	VeryComplex float64 `json:"veryComplex" mapstructure:"veryComplex"`
}

// For returns the multiplier for a canonical complexity label.
// Unknown labels scale by 1.
func (m BandMultipliers) For(label string) float64 {
	switch label {
	case "simple":
		return m.Simple
	case "medium":
		return m.Medium
	case "complex":
		return m.Complex
	case "very_complex":
		return m.VeryComplex
	}
	return 1.0
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Config represents the complete studioscan configuration
type Config struct {
	Version     int    `json:"version" mapstructure:"version"`
	ProjectRoot string `json:"projectRoot" mapstructure:"projectRoot"`

	// RuleFile is the time-metrics document holding complexity_rules,
	// indicator_patterns and time_metrics sections.
	RuleFile string `json:"ruleFile" mapstructure:"ruleFile"`

	Limits      MetricLimits    `json:"limits" mapstructure:"limits"`
	Weights     MetricWeights   `json:"weights" mapstructure:"weights"`
	Thresholds  ScoreThresholds `json:"thresholds" mapstructure:"thresholds"`
	Multipliers BandMultipliers `json:"multipliers" mapstructure:"multipliers"`
	Logging     LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		ProjectRoot: ".",
		RuleFile:    "time_metrics.json",
		Limits: MetricLimits{
			LocMax:           2000,
			FunctionsMax:     50,
			CyclomaticMax:    15,
			BranchesMax:      100,
			SQLQueriesMax:    30,
			ExternalCallsMax: 10,
			UIElementsMax:    50,
		},
		Weights: MetricWeights{
			Loc:              1.5,
			FunctionCount:    1.0,
			AvgCyclomatic:    2.0,
			BranchCount:      0.8,
			SQLQueryCount:    1.2,
			ExternalCalls:    1.5,
			UIElementCount:   0.6,
			DynamicCodeFlag:  2.5,
			FileTypesMix:     0.5,
			TestCoverageFlag: -0.8,
		},
		Thresholds: ScoreThresholds{
			SimpleMax:  1.0,
			MediumMax:  2.5,
			ComplexMax: 4.5,
		},
		Multipliers: BandMultipliers{
			Simple:      0.85,
			Medium:      1.0,
			Complex:     1.4,
			VeryComplex: 1.9,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from the given file, layering it over the
// defaults. A missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile looks for .studioscan/config.json under the project root.
// Returns empty string when there is none.
func FindConfigFile(projectRoot string) string {
	path := filepath.Join(projectRoot, ".studioscan", "config.json")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
