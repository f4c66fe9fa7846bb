package complexity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleDocument is the analyzer-facing slice of the time-metrics document:
// the per-component-type LOC thresholds and the indicator pattern table.
// The time_metrics section of the same file belongs to the estimate
// package.
type RuleDocument struct {
	ComplexityRules   Rules        `json:"complexity_rules" yaml:"complexity_rules"`
	IndicatorPatterns PatternTable `json:"indicator_patterns" yaml:"indicator_patterns"`
}

// LoadRuleDocument reads the rule document from a JSON or YAML file
// (chosen by extension). A missing file yields an empty document rather
// than an error: partial configs are allowed during setup, and the
// absence of complexity_rules only becomes fatal at classification time.
func LoadRuleDocument(path string) (*RuleDocument, error) {
	doc := &RuleDocument{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read rule document %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse rule document %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse rule document %s: %w", path, err)
		}
	}

	return doc, nil
}
