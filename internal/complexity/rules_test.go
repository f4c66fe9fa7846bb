package complexity

import (
	"path/filepath"
	"testing"
)

func TestLoadRuleDocumentJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "time_metrics.json", `{
		"complexity_rules": {
			"field": {
				"simple": {"max_loc": 10},
				"very_complex": {"min_loc": 81}
			}
		}
	}`)

	doc, err := LoadRuleDocument(path)
	if err != nil {
		t.Fatal(err)
	}

	rule := doc.ComplexityRules["field"]["simple"]
	if rule.MaxLoc == nil || *rule.MaxLoc != 10 {
		t.Errorf("simple.max_loc = %v, want 10", rule.MaxLoc)
	}
	top := doc.ComplexityRules["field"]["very_complex"]
	if top.MinLoc == nil || *top.MinLoc != 81 {
		t.Errorf("very_complex.min_loc = %v, want 81", top.MinLoc)
	}
}

func TestLoadRuleDocumentYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", `complexity_rules:
  view:
    simple:
      max_loc: 30
indicator_patterns:
  orm_patterns:
    orm_calls:
      - '\.search\('
`)

	doc, err := LoadRuleDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	rule := doc.ComplexityRules["view"]["simple"]
	if rule.MaxLoc == nil || *rule.MaxLoc != 30 {
		t.Errorf("simple.max_loc = %v, want 30", rule.MaxLoc)
	}
	if len(doc.IndicatorPatterns["orm_patterns"]["orm_calls"]) != 1 {
		t.Error("indicator_patterns should be loaded")
	}
}

func TestLoadRuleDocumentMissingFile(t *testing.T) {
	doc, err := LoadRuleDocument(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not be an immediate error: %v", err)
	}
	if len(doc.ComplexityRules) != 0 {
		t.Error("missing file should load as an empty document")
	}
}

func TestLoadRuleDocumentMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{not json`)

	if _, err := LoadRuleDocument(path); err == nil {
		t.Error("malformed document must fail to load")
	}
}
