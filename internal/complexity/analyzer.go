package complexity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"studioscan/internal/config"
	scanerrors "studioscan/internal/errors"
)

// DefaultScanPatterns are the directory-scan globs: a non-recursive
// extension filter over the analyzable file types.
var DefaultScanPatterns = []string{"*.py", "*.xml", "*.js"}

// Analyzer dispatches files to the per-language analyzers, merges their
// metrics and indicators into one component-level record, and drives
// classification. It is synchronous and side-effect-free apart from
// reading the given paths; independent calls are safe to run in parallel.
type Analyzer struct {
	limits  config.MetricLimits
	weights config.MetricWeights
	rules   Rules

	detector *Detector
	python   *PythonAnalyzer
	xml      *XMLAnalyzer
	script   *ScriptAnalyzer
}

// NewAnalyzer creates an analyzer with the given configuration, rule
// table and indicator patterns (nil patterns select the defaults).
func NewAnalyzer(cfg *config.Config, rules Rules, patterns PatternTable) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Analyzer{
		limits:   cfg.Limits,
		weights:  cfg.Weights,
		rules:    rules,
		detector: NewDetector(patterns),
		python:   NewPythonAnalyzer(),
		xml:      NewXMLAnalyzer(),
		script:   NewScriptAnalyzer(),
	}
}

// NewAnalyzerFromRuleFile creates an analyzer configured from a rule
// document on disk.
func NewAnalyzerFromRuleFile(cfg *config.Config, rulePath string) (*Analyzer, error) {
	doc, err := LoadRuleDocument(rulePath)
	if err != nil {
		return nil, err
	}
	var patterns PatternTable
	if len(doc.IndicatorPatterns) > 0 {
		patterns = doc.IndicatorPatterns
	}
	return NewAnalyzer(cfg, doc.ComplexityRules, patterns), nil
}

// fileContent pairs a file's analyzed content with its bare type, for
// indicator detection across the whole component.
type fileContent struct {
	content  string
	fileType string
}

// AnalyzeFiles analyzes all files belonging to one logical component and
// classifies the merged result. componentType is mandatory.
//
// When fieldName is given, Python files contribute only that field's
// definition (plus its compute method) instead of the whole file; a field
// with no definition in the file counts as a trivial one-line declaration.
//
// Per-file problems (missing file, unreadable file, syntax errors)
// accumulate in the result's Errors. If no file at all could be analyzed,
// or the classification preconditions fail, the error is fatal.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, componentType, fieldName string) (*Result, error) {
	combined := NewRawMetrics()
	var analyzed []string
	var contents []fileContent

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			combined.Errors = append(combined.Errors, fmt.Sprintf("file not found: %s", path))
			continue
		}

		content, err := readSource(path)
		if err != nil {
			combined.Errors = append(combined.Errors, fmt.Sprintf("error reading %s: %v", path, err))
			continue
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".py":
			if fieldName != "" {
				extracted, found := a.python.ExtractFieldContent(content, fieldName)
				if found {
					m := a.python.Analyze(ctx, extracted, path)
					combined.Merge(m)
					contents = append(contents, fileContent{extracted, "py"})
				} else {
					// Studio fields without an explicit definition are plain
					// one-line declarations.
					combined.Loc++
					combined.AddFileType("py")
					combined.FilesAnalyzed++
					contents = append(contents, fileContent{fieldName + " = fields.Char()", "py"})
				}
			} else {
				m := a.python.Analyze(ctx, content, path)
				combined.Merge(m)
				contents = append(contents, fileContent{content, "py"})
			}
		case ".xml":
			m := a.xml.Analyze(content, path)
			combined.Merge(m)
			contents = append(contents, fileContent{content, "xml"})
		case ".js":
			m := a.script.Analyze(content, path)
			combined.Merge(m)
			contents = append(contents, fileContent{content, "js"})
		default:
			// Unknown extension: raw non-blank line count, no structural
			// metrics.
			ft := strings.TrimPrefix(ext, ".")
			if ft == "" {
				ft = "unknown"
			}
			combined.Loc += countNonBlankLines(content)
			combined.AddFileType(ft)
			combined.FilesAnalyzed++
			contents = append(contents, fileContent{content, ft})
		}
		analyzed = append(analyzed, path)
	}

	indicators := a.detectAll(contents)
	combined.HasTests = detectTests(paths)

	// Silent degraded output is worse than stopping the pipeline.
	if combined.FilesAnalyzed == 0 {
		return nil, scanerrors.NewScanError(
			scanerrors.NoFilesAnalyzed,
			fmt.Sprintf("no files were successfully analyzed (requested: %v)", paths),
			nil,
		).WithDetails(map[string]interface{}{
			"requestedFiles": paths,
			"errors":         combined.Errors,
		})
	}

	label, err := Classify(componentType, combined, a.rules)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(combined, a.limits)
	score := Score(normalized, a.weights)

	return &Result{
		RawMetrics:      combined,
		Normalized:      normalized,
		WeightedScore:   score,
		Label:           label,
		TopContributors: TopContributors(normalized, a.weights, 3),
		Indicators:      indicators,
		SourceFiles:     analyzed,
	}, nil
}

// AnalyzeDirectory analyzes every file in a directory matching the given
// glob patterns (DefaultScanPatterns when nil).
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string, patterns []string, componentType string) (*Result, error) {
	if patterns == nil {
		patterns = DefaultScanPatterns
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	return a.AnalyzeFiles(ctx, files, componentType, "")
}

func (a *Analyzer) detectAll(contents []fileContent) Indicators {
	var merged Indicators
	for _, fc := range contents {
		ind := a.detector.Detect(fc.content, fc.fileType)
		merged.Merge(ind)
	}
	return merged
}

// readSource reads a file as UTF-8 with lossy fallback: invalid byte
// sequences become replacement characters instead of failing the file.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// detectTests reports whether any analyzed file has a matching test file:
// a sibling named test_<name>, or test_<name> inside a tests/ directory
// adjacent to the file's parent. Pure existence check, no content
// inspection.
func detectTests(paths []string) bool {
	for _, path := range paths {
		testName := "test_" + filepath.Base(path)

		sibling := filepath.Join(filepath.Dir(path), testName)
		if _, err := os.Stat(sibling); err == nil {
			return true
		}

		testsDir := filepath.Join(filepath.Dir(path), "..", "tests")
		if _, err := os.Stat(testsDir); err == nil {
			if _, err := os.Stat(filepath.Join(testsDir, testName)); err == nil {
				return true
			}
		}
	}
	return false
}

// ResolveSourceLocation expands a source_location string into concrete
// file paths. Accepts direct file paths, directories (scanned recursively
// for Python and XML sources), and glob patterns, resolved against base
// when relative. Surrounding backticks from markdown-ish TOML values are
// tolerated.
func ResolveSourceLocation(location, base string) []string {
	location = strings.Trim(strings.TrimSpace(location), "`")
	if location == "" {
		return nil
	}

	path := location
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, location)
	}

	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return []string{path}
		}
		return collectSources(path)
	}

	if strings.Contains(location, "*") {
		matches, err := filepath.Glob(filepath.Join(base, location))
		if err != nil {
			return nil
		}
		return matches
	}

	return nil
}

func collectSources(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".py", ".xml":
			files = append(files, path)
		}
		return nil
	})
	return files
}
