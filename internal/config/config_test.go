package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Limits.LocMax != 2000 {
		t.Errorf("LocMax = %d, want 2000", cfg.Limits.LocMax)
	}
	if cfg.Weights.TestCoverageFlag >= 0 {
		t.Errorf("TestCoverageFlag weight = %f, must be negative", cfg.Weights.TestCoverageFlag)
	}
	if cfg.Multipliers.Simple != 0.85 || cfg.Multipliers.VeryComplex != 1.9 {
		t.Errorf("multipliers = %+v", cfg.Multipliers)
	}
	if cfg.RuleFile != "time_metrics.json" {
		t.Errorf("RuleFile = %s", cfg.RuleFile)
	}
}

func TestWeightsFor(t *testing.T) {
	w := DefaultConfig().Weights

	cases := map[string]float64{
		"loc":                       1.5,
		"function_count":            1.0,
		"avg_cyclomatic_complexity": 2.0,
		"branch_count":              0.8,
		"sql_query_count":           1.2,
		"external_call_count":       1.5,
		"ui_element_count":          0.6,
		"dynamic_code_flag":         2.5,
		"file_types_mix":            0.5,
		"test_coverage_flag":        -0.8,
		"unknown_metric":            0,
	}
	for name, want := range cases {
		if got := w.For(name); got != want {
			t.Errorf("For(%s) = %f, want %f", name, got, want)
		}
	}
}

func TestMultipliersFor(t *testing.T) {
	m := DefaultConfig().Multipliers

	if m.For("complex") != 1.4 {
		t.Errorf("For(complex) = %f, want 1.4", m.For("complex"))
	}
	if m.For("unheard_of") != 1.0 {
		t.Errorf("unknown label must scale by 1, got %f", m.For("unheard_of"))
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.LocMax != 2000 {
		t.Error("missing config must fall back to defaults")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"limits": {"locMax": 500},
		"multipliers": {"complex": 2.0},
		"logging": {"level": "debug"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.LocMax != 500 {
		t.Errorf("LocMax = %d, want 500", cfg.Limits.LocMax)
	}
	if cfg.Multipliers.Complex != 2.0 {
		t.Errorf("Complex = %f, want 2.0", cfg.Multipliers.Complex)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %s, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Weights.Loc != 1.5 {
		t.Errorf("Weights.Loc = %f, want default 1.5", cfg.Weights.Loc)
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	if got := FindConfigFile(root); got != "" {
		t.Errorf("FindConfigFile = %s, want empty", got)
	}

	dir := filepath.Join(root, ".studioscan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(root); got != path {
		t.Errorf("FindConfigFile = %s, want %s", got, path)
	}
}
