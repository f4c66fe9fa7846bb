package complexity

import (
	"errors"
	"testing"

	scanerrors "studioscan/internal/errors"
)

func intp(v int) *int { return &v }

func testRules() Rules {
	return Rules{
		"field": {
			"simple":       {MaxLoc: intp(10)},
			"medium":       {MaxLoc: intp(30)},
			"complex":      {MaxLoc: intp(80)},
			"very_complex": {MinLoc: intp(81)},
		},
	}
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

func TestClassifyBoundaries(t *testing.T) {
	rules := testRules()

	cases := []struct {
		loc  int
		want string
	}{
		{0, "simple"},
		{10, "simple"},
		{11, "medium"},
		{30, "medium"},
		{31, "complex"},
		{80, "complex"},
		{81, "very_complex"},
		{5000, "very_complex"},
	}

	for _, tc := range cases {
		label, err := Classify("field", RawMetrics{Loc: tc.loc}, rules)
		if err != nil {
			t.Fatalf("Classify(loc=%d): %v", tc.loc, err)
		}
		if label != tc.want {
			t.Errorf("Classify(loc=%d) = %s, want %s", tc.loc, label, tc.want)
		}
	}
}

func TestClassifyIgnoresEverythingButLoc(t *testing.T) {
	rules := testRules()

	// Heavy structural metrics but tiny LOC: still simple.
	m := RawMetrics{
		Loc:             5,
		FunctionCount:   40,
		TotalCyclomatic: 200,
		AvgCyclomatic:   5.0,
		BranchCount:     90,
		SQLQueryCount:   25,
		DynamicCodeFlag: 1,
	}
	label, err := Classify("field", m, rules)
	if err != nil {
		t.Fatal(err)
	}
	if label != "simple" {
		t.Errorf("label = %s, want simple: only LOC decides", label)
	}
}

func TestClassifyMissingComponentType(t *testing.T) {
	_, err := Classify("", RawMetrics{Loc: 5}, testRules())
	wantCode(t, err, scanerrors.ComponentTypeMissing)
}

func TestClassifyNoRules(t *testing.T) {
	_, err := Classify("field", RawMetrics{Loc: 5}, nil)
	wantCode(t, err, scanerrors.RulesMissing)

	_, err = Classify("field", RawMetrics{Loc: 5}, Rules{})
	wantCode(t, err, scanerrors.RulesMissing)
}

func TestClassifyUnknownComponentType(t *testing.T) {
	_, err := Classify("webhook", RawMetrics{Loc: 5}, testRules())
	wantCode(t, err, scanerrors.RuleEntryMissing)
}

func TestClassifyNoMatchingLevel(t *testing.T) {
	// Gap between medium and very_complex: loc 50 matches nothing.
	rules := Rules{
		"view": {
			"simple":       {MaxLoc: intp(10)},
			"medium":       {MaxLoc: intp(30)},
			"very_complex": {MinLoc: intp(100)},
		},
	}
	_, err := Classify("view", RawMetrics{Loc: 50}, rules)
	wantCode(t, err, scanerrors.RuleUnmatched)
}

func TestClassifyMinAndMaxBounds(t *testing.T) {
	rules := Rules{
		"view": {
			"medium": {MinLoc: intp(10), MaxLoc: intp(20)},
		},
	}

	if _, err := Classify("view", RawMetrics{Loc: 9}, rules); err == nil {
		t.Error("loc below min_loc must not match")
	}
	label, err := Classify("view", RawMetrics{Loc: 15}, rules)
	if err != nil || label != "medium" {
		t.Errorf("got (%s, %v), want (medium, nil)", label, err)
	}
	if _, err := Classify("view", RawMetrics{Loc: 21}, rules); err == nil {
		t.Error("loc above max_loc must not match")
	}
}

func TestClassifyEveryLocGetsExactlyOneLabel(t *testing.T) {
	rules := testRules()
	for loc := 0; loc <= 300; loc++ {
		if _, err := Classify("field", RawMetrics{Loc: loc}, rules); err != nil {
			t.Fatalf("loc=%d unclassified: %v", loc, err)
		}
	}
}

func TestClassifyMonotonicInLoc(t *testing.T) {
	rules := testRules()
	ordinal := map[string]int{}
	for i, level := range Levels {
		ordinal[level] = i
	}

	prev := -1
	for loc := 0; loc <= 300; loc++ {
		label, err := Classify("field", RawMetrics{Loc: loc}, rules)
		if err != nil {
			t.Fatal(err)
		}
		if ordinal[label] < prev {
			t.Fatalf("label ordinal decreased at loc=%d (%s)", loc, label)
		}
		prev = ordinal[label]
	}
}
