package complexity

import (
	"regexp"
	"strings"
)

// ScriptAnalyzer turns JavaScript source text into a RawMetrics record.
// It is purely pattern-based: no AST, and no block-comment handling (an
// accepted simplification).
type ScriptAnalyzer struct {
	functionPatterns []*regexp.Regexp
	uiPatterns       []*regexp.Regexp
	externalPatterns []*regexp.Regexp
	branchPatterns   []*regexp.Regexp
}

// NewScriptAnalyzer creates a JavaScript analyzer.
func NewScriptAnalyzer() *ScriptAnalyzer {
	return &ScriptAnalyzer{
		functionPatterns: compileAll(
			`function\s+\w+\s*\(`,
			`\w+\s*:\s*function\s*\(`,
			`=>`,
			`async\s+\w+\s*\(`,
		),
		uiPatterns: compileAll(
			`\.template\s*=`,
			`_renderElement`,
			`\.widget\s*=`,
			`Component\.extend`,
			`<t\s+t-`,
		),
		externalPatterns: compileAll(
			`fetch\s*\(`,
			`XMLHttpRequest`,
			`\$\.ajax`,
			`axios`,
		),
		branchPatterns: compileAll(
			`\bif\s*\(`,
			`\belse\s`,
			`\bswitch\s*\(`,
			`\bcase\s`,
			`\bfor\s*\(`,
			`\bwhile\s*\(`,
		),
	}
}

// Analyze computes metrics for one JavaScript source file.
func (a *ScriptAnalyzer) Analyze(content, path string) RawMetrics {
	metrics := NewRawMetrics()
	metrics.AddFileType("js")

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped != "" && !strings.HasPrefix(stripped, "//") {
			metrics.Loc++
		}
	}

	metrics.FunctionCount = countPatterns(content, a.functionPatterns)
	metrics.UIElementCount = countPatterns(content, a.uiPatterns)
	metrics.ExternalCallCount = countPatterns(content, a.externalPatterns)
	metrics.BranchCount = countPatterns(content, a.branchPatterns)

	metrics.FilesAnalyzed = 1
	return metrics
}
