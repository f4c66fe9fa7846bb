// Package estimate turns classified components into effort hours: a
// strict baseline lookup in the time-metrics table, scaled by the
// configured per-band multiplier.
package estimate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	scanerrors "studioscan/internal/errors"
)

// Breakdown splits an effort baseline into its phases, in hours.
type Breakdown struct {
	Development  float64 `json:"development" yaml:"development"`
	Requirements float64 `json:"requirements" yaml:"requirements"`
	Testing      float64 `json:"testing" yaml:"testing"`
}

// Total returns the summed hours across phases.
func (b Breakdown) Total() float64 {
	return b.Development + b.Requirements + b.Testing
}

// Table maps component type -> complexity label -> baseline hours. Every
// lookup is strict: an absent type or label is fatal, never defaulted.
type Table map[string]map[string]Breakdown

// timeDocument is the estimate-facing slice of the time-metrics document.
type timeDocument struct {
	TimeMetrics Table `json:"time_metrics" yaml:"time_metrics"`
}

// LoadTable reads the time_metrics section of the rule document at path.
// Unlike the complexity rules, a missing or empty table is fatal right
// away: there is no estimation at all without baselines.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scanerrors.NewScanError(
				scanerrors.TimeMetricsMissing,
				fmt.Sprintf("time-metrics document not found: %s", path),
				nil,
			)
		}
		return nil, scanerrors.NewScanError(
			scanerrors.TimeMetricsMissing,
			fmt.Sprintf("failed to read time-metrics document %s", path),
			err,
		)
	}

	var doc timeDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, scanerrors.NewScanError(
			scanerrors.TimeMetricsMissing,
			fmt.Sprintf("failed to parse time-metrics document %s", path),
			err,
		)
	}

	if len(doc.TimeMetrics) == 0 {
		return nil, scanerrors.NewScanError(
			scanerrors.TimeMetricsMissing,
			fmt.Sprintf("time-metrics document %s has no time_metrics section", path),
			nil,
		)
	}

	return doc.TimeMetrics, nil
}

// Hours returns the baseline breakdown for a component type and canonical
// complexity label. Both dimensions are strict lookups; the error names
// the valid keys so a typo in the table is immediately visible.
func (t Table) Hours(componentType, label string) (Breakdown, error) {
	byLabel, ok := t[componentType]
	if !ok {
		return Breakdown{}, scanerrors.NewScanError(
			scanerrors.TimeEntryMissing,
			fmt.Sprintf("no time metrics for component type %q (have: %s)",
				componentType, strings.Join(sortedKeys(t), ", ")),
			nil,
		)
	}

	if b, ok := byLabel[label]; ok {
		return b, nil
	}

	// Older tables spell labels loosely ("moderate", "Very Complex");
	// accept a key whose canonical form matches. Keys that are not a
	// recognized spelling stay misses rather than defaulting to medium.
	for _, key := range sortedLabelKeys(byLabel) {
		if canonicalLabel(key) == label {
			return byLabel[key], nil
		}
	}

	return Breakdown{}, scanerrors.NewScanError(
		scanerrors.TimeEntryMissing,
		fmt.Sprintf("no time metrics for complexity %q of component type %q (have: %s)",
			label, componentType, strings.Join(sortedLabelKeys(byLabel), ", ")),
		nil,
	)
}

// NormalizeLabel maps free-form complexity spellings from older rule
// documents onto the canonical labels. Unknown spellings fall back to
// medium.
func NormalizeLabel(label string) string {
	if c := canonicalLabel(label); c != "" {
		return c
	}
	return "medium"
}

// canonicalLabel returns the canonical label for a recognized spelling,
// or "" for anything else.
func canonicalLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "simple":
		return "simple"
	case "medium", "moderate":
		return "medium"
	case "complex":
		return "complex"
	case "very_complex", "very complex":
		return "very_complex"
	}
	return ""
}

func sortedKeys(t Table) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedLabelKeys(m map[string]Breakdown) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
