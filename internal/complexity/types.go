// Package complexity measures the source footprint of Odoo Studio
// customizations. It turns raw source text into structural metrics,
// normalizes and scores them, and classifies each component against
// externally configured per-type LOC thresholds.
package complexity

// RawMetrics is the per-file (or merged per-component) structural
// measurement. Counts merge by summation, maxima by max, file types by
// union, and the dynamic-code flag by OR.
type RawMetrics struct {
	// Loc is lines of code after stripping blanks, comments, and
	// docstrings (Python) or wrapper boilerplate (XML views).
	Loc int `json:"loc"`

	// FunctionCount is the number of function/method definitions
	FunctionCount int `json:"functionCount"`

	// TotalCyclomatic is the sum of per-function cyclomatic complexities
	TotalCyclomatic int `json:"totalCyclomatic"`

	// AvgCyclomatic is TotalCyclomatic / FunctionCount, 0 with no functions
	AvgCyclomatic float64 `json:"avgCyclomatic"`

	// MaxCyclomatic is the highest per-function cyclomatic complexity
	MaxCyclomatic int `json:"maxCyclomatic"`

	// BranchCount counts branching constructs (if/while/for/try/except/match),
	// with elif chains deliberately counted twice
	BranchCount int `json:"branchCount"`

	// SQLQueryCount counts ORM and raw SQL call sites
	SQLQueryCount int `json:"sqlQueryCount"`

	// ExternalCallCount counts HTTP/API call sites
	ExternalCallCount int `json:"externalCallCount"`

	// UIElementCount counts view/template UI constructs
	UIElementCount int `json:"uiElementCount"`

	// DynamicCodeFlag is 1 when eval/exec style constructs are present
	DynamicCodeFlag int `json:"dynamicCodeFlag"`

	// FileTypes is the set of distinct file types in the component
	FileTypes map[string]bool `json:"fileTypes"`

	// HasTests is true when a test file was detected next to the sources
	HasTests bool `json:"hasTests"`

	// FilesAnalyzed is the number of files that contributed metrics
	FilesAnalyzed int `json:"filesAnalyzed"`

	// Errors holds per-file, non-fatal analysis problems in order
	Errors []string `json:"errors,omitempty"`
}

// NewRawMetrics returns an empty RawMetrics with an initialized type set.
func NewRawMetrics() RawMetrics {
	return RawMetrics{FileTypes: make(map[string]bool)}
}

// AddFileType records a file type on the metrics.
func (m *RawMetrics) AddFileType(ft string) {
	if m.FileTypes == nil {
		m.FileTypes = make(map[string]bool)
	}
	m.FileTypes[ft] = true
}

// FileTypeCount returns the number of distinct file types.
func (m *RawMetrics) FileTypeCount() int {
	return len(m.FileTypes)
}

// Merge folds another file's metrics into this aggregate. Counts sum,
// maxima take the max, file types union, and the average cyclomatic
// complexity is recomputed from the merged totals.
func (m *RawMetrics) Merge(other RawMetrics) {
	m.Loc += other.Loc
	m.FunctionCount += other.FunctionCount
	m.TotalCyclomatic += other.TotalCyclomatic
	m.BranchCount += other.BranchCount
	m.SQLQueryCount += other.SQLQueryCount
	m.ExternalCallCount += other.ExternalCallCount
	m.UIElementCount += other.UIElementCount
	if other.DynamicCodeFlag > m.DynamicCodeFlag {
		m.DynamicCodeFlag = other.DynamicCodeFlag
	}
	for ft := range other.FileTypes {
		m.AddFileType(ft)
	}
	m.FilesAnalyzed += other.FilesAnalyzed
	m.Errors = append(m.Errors, other.Errors...)

	if m.FunctionCount > 0 {
		m.AvgCyclomatic = float64(m.TotalCyclomatic) / float64(m.FunctionCount)
	}
	if other.MaxCyclomatic > m.MaxCyclomatic {
		m.MaxCyclomatic = other.MaxCyclomatic
	}
}

// NormalizedMetrics holds the raw metrics rescaled to [0.0, 1.0].
// Created once per RawMetrics and never mutated.
type NormalizedMetrics struct {
	Loc               float64 `json:"loc"`
	FunctionCount     float64 `json:"functionCount"`
	AvgCyclomatic     float64 `json:"avgCyclomatic"`
	BranchCount       float64 `json:"branchCount"`
	SQLQueryCount     float64 `json:"sqlQueryCount"`
	ExternalCallCount float64 `json:"externalCallCount"`
	UIElementCount    float64 `json:"uiElementCount"`
	DynamicCodeFlag   float64 `json:"dynamicCodeFlag"`
	FileTypesMix      float64 `json:"fileTypesMix"`
	TestCoverageFlag  float64 `json:"testCoverageFlag"`
}

// MetricValue pairs a metric name with a value, preserving declaration
// order for deterministic iteration.
type MetricValue struct {
	Name  string
	Value float64
}

// Values returns the normalized metrics in fixed declaration order. The
// scorer and top-contributor selection depend on this order for stable
// tie-breaking.
func (n NormalizedMetrics) Values() []MetricValue {
	return []MetricValue{
		{"loc", n.Loc},
		{"function_count", n.FunctionCount},
		{"avg_cyclomatic_complexity", n.AvgCyclomatic},
		{"branch_count", n.BranchCount},
		{"sql_query_count", n.SQLQueryCount},
		{"external_call_count", n.ExternalCallCount},
		{"ui_element_count", n.UIElementCount},
		{"dynamic_code_flag", n.DynamicCodeFlag},
		{"file_types_mix", n.FileTypesMix},
		{"test_coverage_flag", n.TestCoverageFlag},
	}
}

// Contributor is one metric's weighted contribution to the score.
type Contributor struct {
	Metric       string  `json:"metric"`
	Contribution float64 `json:"contribution"`
}

// Result is the full analysis outcome for one component. Constructed once
// per AnalyzeFiles call; immutable afterwards.
type Result struct {
	RawMetrics RawMetrics        `json:"rawMetrics"`
	Normalized NormalizedMetrics `json:"normalizedMetrics"`

	// WeightedScore is diagnostic only; the label is decided by LOC rules
	WeightedScore float64 `json:"weightedScore"`

	// Label is the authoritative complexity classification
	Label string `json:"complexityLabel"`

	// TopContributors are the three largest positive weightxvalue products
	TopContributors []Contributor `json:"topContributors"`

	// Indicators are informational domain signals; never used for matching
	Indicators Indicators `json:"indicators"`

	// SourceFiles lists the files that were successfully analyzed
	SourceFiles []string `json:"sourceFiles"`
}
