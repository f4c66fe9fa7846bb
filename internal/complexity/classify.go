package complexity

import (
	"fmt"
	"sort"

	scanerrors "studioscan/internal/errors"
)

// Levels lists the complexity levels in matching order. Classification
// returns the first level whose rule matches, so the order is part of the
// contract.
var Levels = []string{"simple", "medium", "complex", "very_complex"}

// LevelRule is one level's LOC thresholds for a component type. A rule
// with only MinLoc is satisfied purely by the lower bound, which is how
// the unbounded top tier is expressed.
type LevelRule struct {
	MinLoc *int `json:"min_loc,omitempty" yaml:"min_loc,omitempty"`
	MaxLoc *int `json:"max_loc,omitempty" yaml:"max_loc,omitempty"`
}

// Rules maps componentType -> level -> thresholds. The table is externally
// supplied; its absence is a fatal configuration error at classification
// time, never a soft default.
type Rules map[string]map[string]LevelRule

// Classify maps the component's LOC onto a complexity label using the
// component type's rule entries, checking levels in fixed order.
//
// LOC thresholds are the only determinant. Indicators and the weighted
// score are informational; they never affect matching. Missing component
// type, missing rule table, missing type entry, and a LOC no level claims
// are all fatal: guessing "medium" here would silently corrupt every
// downstream hour estimate.
func Classify(componentType string, metrics RawMetrics, rules Rules) (string, error) {
	if componentType == "" {
		return "", scanerrors.NewScanError(
			scanerrors.ComponentTypeMissing,
			"cannot determine complexity without a component type",
			nil,
		)
	}
	if len(rules) == 0 {
		return "", scanerrors.NewScanError(
			scanerrors.RulesMissing,
			"no complexity rules loaded; ensure the rule document has a complexity_rules section",
			nil,
		)
	}

	typeRules, ok := rules[componentType]
	if !ok || len(typeRules) == 0 {
		return "", scanerrors.NewScanError(
			scanerrors.RuleEntryMissing,
			fmt.Sprintf("no complexity rules for component type %q (available: %v)",
				componentType, ruleTypes(rules)),
			nil,
		)
	}

	// First level that matches wins, so a component always gets the lowest
	// applicable complexity.
	for _, level := range Levels {
		if matchesLevel(typeRules[level], metrics.Loc) {
			return level, nil
		}
	}

	return "", scanerrors.NewScanError(
		scanerrors.RuleUnmatched,
		fmt.Sprintf("no complexity level matched for type %q at loc=%d; check the %s thresholds",
			componentType, metrics.Loc, componentType),
		nil,
	).WithDetails(typeRules)
}

// matchesLevel checks a level's LOC thresholds. max_loc rules match when
// loc <= max_loc; min_loc rules require loc >= min_loc and, when max_loc
// is present too, loc <= max_loc.
func matchesLevel(rule LevelRule, loc int) bool {
	if rule.MinLoc == nil && rule.MaxLoc == nil {
		return false
	}

	if rule.MinLoc != nil {
		if loc < *rule.MinLoc {
			return false
		}
		if rule.MaxLoc == nil {
			return true
		}
	}

	if rule.MaxLoc != nil {
		return loc <= *rule.MaxLoc
	}

	return false
}

func ruleTypes(rules Rules) []string {
	types := make([]string, 0, len(rules))
	for t := range rules {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
