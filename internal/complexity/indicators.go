package complexity

import (
	"regexp"
	"strings"
)

// Indicators are domain-specific structural signals detected from source
// text. They are informational only: attached to results for the caller's
// reference, never consulted by the classifier.
type Indicators struct {
	// Field indicators
	HasCompute         bool `json:"hasCompute"`
	HasRelated         bool `json:"hasRelated"`
	HasCurrencyCompute bool `json:"hasCurrencyCompute"`

	// ORM indicators
	ORMCallCount    int  `json:"ormCallCount"`
	HasSearchBrowse bool `json:"hasSearchBrowse"`
	HasSQLQuery     bool `json:"hasSqlQuery"`
	CrossModelCalls bool `json:"crossModelCalls"`

	// View indicators
	HasAttrsDomain    bool `json:"hasAttrsDomain"`
	HasWidgetOverride bool `json:"hasWidgetOverride"`
	HasJSClass        bool `json:"hasJsClass"`
	IsFormTreeKanban  bool `json:"isFormTreeKanban"`
	XPathCount        int  `json:"xpathCount"`

	// QWeb indicators
	HasQWebDirectives bool `json:"hasQwebDirectives"`
	HasTIf            bool `json:"hasTIf"`
	HasTForeach       bool `json:"hasTForeach"`
	TForeachCount     int  `json:"tForeachCount"`
	HasTCall          bool `json:"hasTCall"`
	HasTRaw           bool `json:"hasTRaw"`
	HasNestedLoops    bool `json:"hasNestedLoops"`
	IsPDFOutput       bool `json:"isPdfOutput"`
	IsLabelOutput     bool `json:"isLabelOutput"`

	// Action indicators
	HasPythonCode   bool `json:"hasPythonCode"`
	HasExternalAPI  bool `json:"hasExternalApi"`
	HasTransaction  bool `json:"hasTransaction"`
	HasMultiCompany bool `json:"hasMultiCompany"`
	HasEnvContext   bool `json:"hasEnvContext"`

	// Control flow indicators
	HasLoop        bool `json:"hasLoop"`
	HasConditional bool `json:"hasConditional"`
	MethodCount    int  `json:"methodCount"`

	// Report indicators
	HasCustomPaperformat bool `json:"hasCustomPaperformat"`
	HasCustomModel       bool `json:"hasCustomModel"`
	HasBarcodeQR         bool `json:"hasBarcodeQr"`

	// Automation indicators
	HasDomainFilter    bool `json:"hasDomainFilter"`
	TriggerFieldsCount int  `json:"triggerFieldsCount"`
}

// Merge folds another file's indicators into this aggregate: booleans by
// OR, counts by SUM.
func (i *Indicators) Merge(other Indicators) {
	i.HasCompute = i.HasCompute || other.HasCompute
	i.HasRelated = i.HasRelated || other.HasRelated
	i.HasCurrencyCompute = i.HasCurrencyCompute || other.HasCurrencyCompute
	i.HasSearchBrowse = i.HasSearchBrowse || other.HasSearchBrowse
	i.HasSQLQuery = i.HasSQLQuery || other.HasSQLQuery
	i.CrossModelCalls = i.CrossModelCalls || other.CrossModelCalls
	i.HasAttrsDomain = i.HasAttrsDomain || other.HasAttrsDomain
	i.HasWidgetOverride = i.HasWidgetOverride || other.HasWidgetOverride
	i.HasJSClass = i.HasJSClass || other.HasJSClass
	i.IsFormTreeKanban = i.IsFormTreeKanban || other.IsFormTreeKanban
	i.HasQWebDirectives = i.HasQWebDirectives || other.HasQWebDirectives
	i.HasTIf = i.HasTIf || other.HasTIf
	i.HasTForeach = i.HasTForeach || other.HasTForeach
	i.HasTCall = i.HasTCall || other.HasTCall
	i.HasTRaw = i.HasTRaw || other.HasTRaw
	i.HasNestedLoops = i.HasNestedLoops || other.HasNestedLoops
	i.IsPDFOutput = i.IsPDFOutput || other.IsPDFOutput
	i.IsLabelOutput = i.IsLabelOutput || other.IsLabelOutput
	i.HasPythonCode = i.HasPythonCode || other.HasPythonCode
	i.HasExternalAPI = i.HasExternalAPI || other.HasExternalAPI
	i.HasTransaction = i.HasTransaction || other.HasTransaction
	i.HasMultiCompany = i.HasMultiCompany || other.HasMultiCompany
	i.HasEnvContext = i.HasEnvContext || other.HasEnvContext
	i.HasLoop = i.HasLoop || other.HasLoop
	i.HasConditional = i.HasConditional || other.HasConditional
	i.HasCustomPaperformat = i.HasCustomPaperformat || other.HasCustomPaperformat
	i.HasCustomModel = i.HasCustomModel || other.HasCustomModel
	i.HasBarcodeQR = i.HasBarcodeQR || other.HasBarcodeQR
	i.HasDomainFilter = i.HasDomainFilter || other.HasDomainFilter

	i.ORMCallCount += other.ORMCallCount
	i.XPathCount += other.XPathCount
	i.TForeachCount += other.TForeachCount
	i.MethodCount += other.MethodCount
	i.TriggerFieldsCount += other.TriggerFieldsCount
}

// PatternTable maps category -> pattern group name -> regex sources, as
// supplied by the indicator_patterns section of the rule document.
type PatternTable map[string]map[string][]string

// DefaultPatternTable returns the built-in indicator patterns, used when
// the rule document has no indicator_patterns section.
func DefaultPatternTable() PatternTable {
	return PatternTable{
		"orm_patterns": {
			"orm_calls":     {`self\.env\[`, `\.search\(`, `\.browse\(`, `\.create\(`, `\.write\(`, `\.unlink\(`, `\.filtered\(`, `\.mapped\(`, `\.sorted\(`},
			"search_browse": {`\.search\(`, `\.browse\(`, `\.search_read\(`},
			"sql_query":     {`cr\.execute`, `self\._cr\.execute`, `self\.env\.cr\.execute`},
		},
		"field_patterns": {
			"has_compute":      {`compute\s*=`, `@api\.depends`},
			"has_related":      {`related\s*=`},
			"currency_compute": {`currency_id`, `company_currency`, `amount_.*currency`},
		},
		"view_patterns": {
			"xpath":            {`<xpath`},
			"attrs_domain":     {`attrs\s*=\s*["']\{`},
			"widget_override":  {`widget\s*=`},
			"js_class":         {`js_class\s*=`},
			"form_tree_kanban": {`<(form|tree|kanban)\s`},
		},
		"qweb_patterns": {
			"t_foreach":       {`t-foreach\s*=`},
			"t_call":          {`t-call\s*=`},
			"t_raw":           {`t-raw\s*=`, `t-out\s*=`},
			"t_if":            {`t-if\s*=`},
			"qweb_directives": {`t-(if|foreach|call|set|esc|raw|out)\s*=`},
		},
		"action_patterns": {
			"python_code":   {`code\s*=`},
			"external_api":  {`requests\.`, `urllib`, `http\.client`},
			"transaction":   {`with_context`, `env\.cr\.savepoint`, `\.sudo\(`},
			"multi_company": {`company_id`, `allowed_company_ids`},
			"env_context":   {`\.with_context\(`, `\.env\.context`},
		},
		"control_flow_patterns": {
			"loop":        {`for\s+\w+\s+in\s+`, `while\s+`},
			"conditional": {`\bif\s+`, `\belif\s+`},
			"method_def":  {`def\s+\w+\s*\(`},
		},
		"report_patterns": {
			"paperformat":  {`paperformat`, `paper_format`},
			"barcode_qr":   {`barcode`, `qrcode`, `QR`},
			"report_model": {`AbstractModel`, `report\.`},
		},
	}
}

var crossModelPattern = regexp.MustCompile(`self\.env\[['"]([^'"]+)['"]\]`)

// Detector tags domain-specific structural signals independent of the
// numeric metrics. Patterns compile once at construction; the detector is
// pure afterwards.
type Detector struct {
	compiled map[string][]*regexp.Regexp
}

// NewDetector builds a Detector from the given pattern table; a nil table
// selects the defaults. All patterns compile case-insensitively.
func NewDetector(table PatternTable) *Detector {
	if table == nil {
		table = DefaultPatternTable()
	}
	compiled := make(map[string][]*regexp.Regexp)
	for category, groups := range table {
		for name, sources := range groups {
			key := category + "." + name
			for _, src := range sources {
				re, err := regexp.Compile(`(?i)` + src)
				if err != nil {
					// Malformed externally supplied pattern; skip it rather
					// than failing the whole detector.
					continue
				}
				compiled[key] = append(compiled[key], re)
			}
		}
	}
	return &Detector{compiled: compiled}
}

func (d *Detector) countMatches(content, key string) int {
	total := 0
	for _, re := range d.compiled[key] {
		total += len(re.FindAllStringIndex(content, -1))
	}
	return total
}

func (d *Detector) hasMatch(content, key string) bool {
	return d.countMatches(content, key) > 0
}

// Detect tags indicators in a single file's content. fileType is the bare
// extension ("py", "xml", "js").
func (d *Detector) Detect(content, fileType string) Indicators {
	var ind Indicators

	if fileType == "py" {
		ind.HasCompute = d.hasMatch(content, "field_patterns.has_compute")
		ind.HasRelated = d.hasMatch(content, "field_patterns.has_related")
		ind.HasCurrencyCompute = d.hasMatch(content, "field_patterns.currency_compute")

		ind.ORMCallCount = d.countMatches(content, "orm_patterns.orm_calls")
		ind.HasSearchBrowse = d.hasMatch(content, "orm_patterns.search_browse")
		ind.HasSQLQuery = d.hasMatch(content, "orm_patterns.sql_query")

		// Cross-model: more than one distinct model referenced via env subscripts
		models := make(map[string]bool)
		for _, m := range crossModelPattern.FindAllStringSubmatch(content, -1) {
			models[m[1]] = true
		}
		ind.CrossModelCalls = len(models) > 1

		ind.HasPythonCode = true
		ind.HasExternalAPI = d.hasMatch(content, "action_patterns.external_api")
		ind.HasTransaction = d.hasMatch(content, "action_patterns.transaction")
		ind.HasMultiCompany = d.hasMatch(content, "action_patterns.multi_company")
		ind.HasEnvContext = d.hasMatch(content, "action_patterns.env_context")

		ind.HasLoop = d.hasMatch(content, "control_flow_patterns.loop")
		ind.HasConditional = d.hasMatch(content, "control_flow_patterns.conditional")
		ind.MethodCount = d.countMatches(content, "control_flow_patterns.method_def")

		ind.HasCustomModel = d.hasMatch(content, "report_patterns.report_model")
		ind.HasBarcodeQR = d.hasMatch(content, "report_patterns.barcode_qr")
	}

	if fileType == "xml" {
		ind.XPathCount = d.countMatches(content, "view_patterns.xpath")
		ind.HasAttrsDomain = d.hasMatch(content, "view_patterns.attrs_domain")
		ind.HasWidgetOverride = d.hasMatch(content, "view_patterns.widget_override")
		ind.HasJSClass = d.hasMatch(content, "view_patterns.js_class")
		ind.IsFormTreeKanban = d.hasMatch(content, "view_patterns.form_tree_kanban")

		ind.HasQWebDirectives = d.hasMatch(content, "qweb_patterns.qweb_directives")
		ind.HasTIf = d.hasMatch(content, "qweb_patterns.t_if")
		ind.HasTForeach = d.hasMatch(content, "qweb_patterns.t_foreach")
		ind.TForeachCount = d.countMatches(content, "qweb_patterns.t_foreach")
		ind.HasTCall = d.hasMatch(content, "qweb_patterns.t_call")
		ind.HasTRaw = d.hasMatch(content, "qweb_patterns.t_raw")
		ind.HasNestedLoops = ind.TForeachCount > 1

		lower := strings.ToLower(content)
		ind.IsPDFOutput = strings.Contains(lower, "report") || strings.Contains(lower, "pdf")
		ind.IsLabelOutput = strings.Contains(lower, "label") || strings.Contains(lower, "barcode")

		ind.HasCustomPaperformat = d.hasMatch(content, "report_patterns.paperformat")
		ind.HasBarcodeQR = d.hasMatch(content, "report_patterns.barcode_qr")

		ind.HasDomainFilter = strings.Contains(lower, "domain")
	}

	return ind
}
