package estimate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	scanerrors "studioscan/internal/errors"
)

const tableJSON = `{
	"time_metrics": {
		"field": {
			"simple": {"development": 1.0, "requirements": 0.5, "testing": 0.5},
			"medium": {"development": 3.0, "requirements": 1.0, "testing": 1.0}
		}
	}
}`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func wantCode(t *testing.T, err error, code scanerrors.ErrorCode) {
	t.Helper()
	var se *scanerrors.ScanError
	if !errors.As(err, &se) {
		t.Fatalf("expected ScanError, got %T: %v", err, err)
	}
	if se.Code != code {
		t.Fatalf("error code = %s, want %s", se.Code, code)
	}
}

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(writeDoc(t, "time_metrics.json", tableJSON))
	if err != nil {
		t.Fatal(err)
	}

	b, err := table.Hours("field", "simple")
	if err != nil {
		t.Fatal(err)
	}
	if b.Total() != 2.0 {
		t.Errorf("Total = %f, want 2.0", b.Total())
	}
	if b.Development != 1.0 {
		t.Errorf("Development = %f, want 1.0", b.Development)
	}
}

func TestLoadTableYAML(t *testing.T) {
	table, err := LoadTable(writeDoc(t, "time_metrics.yaml", `time_metrics:
  view:
    simple:
      development: 2.0
      requirements: 0.5
      testing: 0.5
`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Hours("view", "simple"); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTableMissingFileIsFatal(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "absent.json"))
	wantCode(t, err, scanerrors.TimeMetricsMissing)
}

func TestLoadTableEmptySectionIsFatal(t *testing.T) {
	_, err := LoadTable(writeDoc(t, "empty.json", `{"complexity_rules": {}}`))
	wantCode(t, err, scanerrors.TimeMetricsMissing)
}

func TestHoursUnknownComponentType(t *testing.T) {
	table, err := LoadTable(writeDoc(t, "time_metrics.json", tableJSON))
	if err != nil {
		t.Fatal(err)
	}

	_, err = table.Hours("webhook", "simple")
	wantCode(t, err, scanerrors.TimeEntryMissing)
	if !strings.Contains(err.Error(), "field") {
		t.Errorf("error should list the valid component types: %v", err)
	}
}

func TestHoursUnknownLabel(t *testing.T) {
	table, err := LoadTable(writeDoc(t, "time_metrics.json", tableJSON))
	if err != nil {
		t.Fatal(err)
	}

	_, err = table.Hours("field", "very_complex")
	wantCode(t, err, scanerrors.TimeEntryMissing)
	if !strings.Contains(err.Error(), "simple") {
		t.Errorf("error should list the valid labels: %v", err)
	}
}

// A table keyed with loose label spellings still serves the canonical
// labels, but an unrecognized key never stands in for medium.
func TestHoursAcceptsLooseLabelSpellings(t *testing.T) {
	table := Table{
		"field": {
			"moderate":     {Development: 3, Requirements: 1, Testing: 1},
			"Very Complex": {Development: 8, Requirements: 2, Testing: 3},
			"weird":        {Development: 99},
		},
	}

	b, err := table.Hours("field", "medium")
	if err != nil {
		t.Fatal(err)
	}
	if b.Development != 3 {
		t.Errorf("Development = %f, want 3 from the moderate entry", b.Development)
	}

	b, err = table.Hours("field", "very_complex")
	if err != nil {
		t.Fatal(err)
	}
	if b.Development != 8 {
		t.Errorf("Development = %f, want 8 from the Very Complex entry", b.Development)
	}

	_, err = table.Hours("field", "simple")
	wantCode(t, err, scanerrors.TimeEntryMissing)
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"simple":       "simple",
		"Moderate":     "medium",
		"medium":       "medium",
		"complex":      "complex",
		"very_complex": "very_complex",
		"Very Complex": "very_complex",
		"weird":        "medium",
		"":             "medium",
	}
	for in, want := range cases {
		if got := NormalizeLabel(in); got != want {
			t.Errorf("NormalizeLabel(%q) = %s, want %s", in, got, want)
		}
	}
}
