package complexity

import (
	"regexp"
	"strings"
)

// XMLAnalyzer turns Odoo XML documents (views, QWeb templates, automation
// records, data files) into a RawMetrics record. It is structural-regex
// based: view documents are reduced to their arch content before counting,
// and automation records are treated as configuration.
type XMLAnalyzer struct {
	uiPatterns []*regexp.Regexp

	archPattern    *regexp.Regexp
	archPatternAlt *regexp.Regexp

	automationPattern *regexp.Regexp
	domainPattern     *regexp.Regexp

	ignoreLinePatterns []*regexp.Regexp
}

// NewXMLAnalyzer creates an XML analyzer.
func NewXMLAnalyzer() *XMLAnalyzer {
	return &XMLAnalyzer{
		uiPatterns: compileAll(
			`<field\s`,
			`<button\s`,
			`<widget\s`,
			`<group\s`,
			`<notebook\s`,
			`<page\s`,
			`<tree\s`,
			`<form\s`,
			`<kanban\s`,
			`<search\s`,
			`<xpath\s`,
			`<t\s+t-`,
		),
		archPattern:       regexp.MustCompile(`(?is)<field\s+name=["']arch["'][^>]*type=["']xml["'][^>]*>\s*(.*?)\s*</field>`),
		archPatternAlt:    regexp.MustCompile(`(?is)<field\s+name=["']arch["'][^>]*>\s*(.*?)\s*</field>`),
		automationPattern: regexp.MustCompile(`(?i)model=["']base\.automation["']`),
		domainPattern:     regexp.MustCompile(`(?is)<field\s+name=["']filter_domain["'][^>]*>(.*?)</field>`),
		ignoreLinePatterns: compileAll(
			`^\s*</`,
			`(?i)^\s*<data\s*>?\s*$`,
			`(?i)^\s*<template\s*[^>]*>\s*$`,
		),
	}
}

// Analyze computes metrics for one XML document.
//
// Automation records are configuration, not code: LOC is 1 regardless of
// file length, unless the filter_domain holds more than 3 parenthesized
// groups, in which case the group count stands in for filter complexity.
// View documents count only the meaningful lines of their arch content;
// everything else counts non-blank lines verbatim.
func (a *XMLAnalyzer) Analyze(content, path string) RawMetrics {
	metrics := NewRawMetrics()
	metrics.AddFileType("xml")

	if a.automationPattern.MatchString(content) {
		metrics.Loc = 1
		if m := a.domainPattern.FindStringSubmatch(content); m != nil {
			conditionCount := strings.Count(strings.TrimSpace(m[1]), "(")
			if conditionCount > 3 {
				metrics.Loc = conditionCount
			}
		}
		metrics.FilesAnalyzed = 1
		return metrics
	}

	analysisContent := content
	if arch, ok := a.extractArchContent(content); ok {
		metrics.Loc = a.countMeaningfulLines(arch)
		analysisContent = arch
	} else {
		metrics.Loc = countNonBlankLines(content)
	}

	for _, re := range a.uiPatterns {
		metrics.UIElementCount += len(re.FindAllStringIndex(analysisContent, -1))
	}

	metrics.FilesAnalyzed = 1
	return metrics
}

// countMeaningfulLines counts lines of arch content, skipping closing tags
// and bare wrapper-tag lines.
func (a *XMLAnalyzer) countMeaningfulLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		ignore := false
		for _, re := range a.ignoreLinePatterns {
			if re.MatchString(stripped) {
				ignore = true
				break
			}
		}
		if !ignore {
			count++
		}
	}
	return count
}

// extractArchContent pulls the inner content of every arch field in the
// document; the surrounding record/data boilerplate is ignored. Multiple
// views in one file are concatenated.
func (a *XMLAnalyzer) extractArchContent(content string) (string, bool) {
	matches := a.archPattern.FindAllStringSubmatch(content, -1)
	if matches == nil {
		matches = a.archPatternAlt.FindAllStringSubmatch(content, -1)
	}
	if matches == nil {
		return "", false
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m[1])
	}
	return strings.Join(parts, "\n"), true
}

func countNonBlankLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
