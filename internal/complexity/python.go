package complexity

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// pythonStructure holds the AST-derived part of the Python metrics.
type pythonStructure struct {
	FunctionCount   int
	TotalCyclomatic int
	AvgCyclomatic   float64
	MaxCyclomatic   int
	BranchCount     int
}

// PythonAnalyzer turns Python source text into a RawMetrics record.
// Pattern tables compile once at construction; instances are pure and
// reusable.
type PythonAnalyzer struct {
	sqlPatterns      []*regexp.Regexp
	externalPatterns []*regexp.Regexp
	dynamicPatterns  []*regexp.Regexp
}

// NewPythonAnalyzer creates a Python analyzer.
func NewPythonAnalyzer() *PythonAnalyzer {
	return &PythonAnalyzer{
		sqlPatterns: compileAll(
			`\.(search|browse|create|write|unlink)\s*\(`,
			`\.(read|read_group|search_read|search_count)\s*\(`,
			`self\.env\[`,
			`(?i)execute\s*\(\s*["'](?:SELECT|INSERT|UPDATE|DELETE)`,
			`_sql_constraints`,
			`cr\.execute`,
		),
		externalPatterns: compileAll(
			`requests\.(get|post|put|delete|patch)\s*\(`,
			`urllib`,
			`http\.client`,
			`aiohttp`,
			`httpx`,
		),
		dynamicPatterns: compileAll(
			`\beval\s*\(`,
			`\bexec\s*\(`,
			`__import__\s*\(`,
			`importlib\.import_module`,
			`getattr\s*\([^,]+,\s*[^)]+\)\s*\(`,
		),
	}
}

func compileAll(sources ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		patterns = append(patterns, regexp.MustCompile(src))
	}
	return patterns
}

func countPatterns(content string, patterns []*regexp.Regexp) int {
	count := 0
	for _, re := range patterns {
		count += len(re.FindAllStringIndex(content, -1))
	}
	return count
}

// Analyze computes metrics for one Python source file. A syntax error is
// not fatal: it is recorded in Errors and the metrics keep whatever was
// computed from the text alone (LOC and pattern counts); the structural
// metrics stay at zero.
func (a *PythonAnalyzer) Analyze(ctx context.Context, content, path string) RawMetrics {
	metrics := NewRawMetrics()
	metrics.AddFileType("py")

	metrics.Loc = countPythonLoc(content)

	st, err := parsePythonStructure(ctx, []byte(content))
	if err != nil {
		name := path
		if name == "" {
			name = "source"
		}
		metrics.Errors = append(metrics.Errors, fmt.Sprintf("syntax error in %s: %v", name, err))
	} else {
		metrics.FunctionCount = st.FunctionCount
		metrics.TotalCyclomatic = st.TotalCyclomatic
		metrics.AvgCyclomatic = st.AvgCyclomatic
		metrics.MaxCyclomatic = st.MaxCyclomatic
		metrics.BranchCount = st.BranchCount
	}

	metrics.SQLQueryCount = countPatterns(content, a.sqlPatterns)
	metrics.ExternalCallCount = countPatterns(content, a.externalPatterns)
	if countPatterns(content, a.dynamicPatterns) > 0 {
		// Binary flag, not a count: one eval is as dynamic as ten.
		metrics.DynamicCodeFlag = 1
	}

	metrics.FilesAnalyzed = 1
	return metrics
}

// countPythonLoc counts non-blank, non-comment lines, skipping docstring
// blocks. A line carrying both the opening and closing triple quote is a
// docstring line, not two toggles.
func countPythonLoc(content string) int {
	count := 0
	inDocstring := false

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		triples := strings.Count(stripped, `"""`) + strings.Count(stripped, "'''")
		if triples > 0 {
			if triples == 2 {
				continue
			}
			if triples == 1 {
				inDocstring = !inDocstring
				continue
			}
		}
		if inDocstring {
			continue
		}
		if strings.HasPrefix(stripped, "#") {
			continue
		}
		count++
	}

	return count
}

var computePattern = regexp.MustCompile(`compute\s*=\s*['"]([^'"]+)['"]`)

// ExtractFieldContent extracts only the named field's definition, plus its
// compute method when the definition declares one, from a Python model
// file. Multi-line definitions are captured via paren-depth tracking, the
// compute method body via indentation-block scanning. Returns false when
// the field is not found.
func (a *PythonAnalyzer) ExtractFieldContent(content, fieldName string) (string, bool) {
	lines := strings.Split(content, "\n")
	var extracted []string

	fieldPattern := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(fieldName) + `\s*=\s*fields\.`)
	computeMethod := ""
	fieldFound := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !fieldPattern.MatchString(line) {
			continue
		}
		fieldFound = true

		fieldLines := []string{line}
		openParens := strings.Count(line, "(") - strings.Count(line, ")")
		for openParens > 0 && i+1 < len(lines) {
			i++
			fieldLines = append(fieldLines, lines[i])
			openParens += strings.Count(lines[i], "(") - strings.Count(lines[i], ")")
		}
		extracted = append(extracted, fieldLines...)

		if m := computePattern.FindStringSubmatch(strings.Join(fieldLines, "\n")); m != nil {
			computeMethod = m[1]
		}
		break
	}

	if computeMethod != "" {
		methodPattern := regexp.MustCompile(`^\s*def\s+` + regexp.QuoteMeta(computeMethod) + `\s*\(`)
		for i := 0; i < len(lines); i++ {
			line := lines[i]
			if !methodPattern.MatchString(line) {
				continue
			}

			methodLines := []string{line}
			baseIndent := len(line) - len(strings.TrimLeft(line, " \t"))
			for i++; i < len(lines); i++ {
				next := lines[i]
				if strings.TrimSpace(next) == "" {
					methodLines = append(methodLines, next)
					continue
				}
				nextIndent := len(next) - len(strings.TrimLeft(next, " \t"))
				if nextIndent <= baseIndent {
					break
				}
				methodLines = append(methodLines, next)
			}
			extracted = append(extracted, methodLines...)
			break
		}
	}

	if !fieldFound {
		return "", false
	}
	return strings.Join(extracted, "\n"), true
}
