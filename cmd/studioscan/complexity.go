package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"studioscan/internal/complexity"
	"studioscan/internal/config"
	scanerrors "studioscan/internal/errors"
)

var (
	complexityType   string
	complexityField  string
	complexityRules  string
	complexityFormat string
)

var complexityCmd = &cobra.Command{
	Use:   "complexity [paths...]",
	Short: "Analyze and classify the complexity of component sources",
	Long: `Analyzes the given files, directories or globs as one logical component
and classifies its complexity against the LOC thresholds for the
component type.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComplexity,
}

func init() {
	complexityCmd.Flags().StringVarP(&complexityType, "type", "t", "", "component type (field|view|server_action|automation|report)")
	complexityCmd.Flags().StringVar(&complexityField, "field", "", "analyze only this field definition within the Python sources")
	complexityCmd.Flags().StringVar(&complexityRules, "rules", "", "time-metrics document (default: <project>/time_metrics.json)")
	complexityCmd.Flags().StringVarP(&complexityFormat, "format", "f", "human", "output format (human|json)")
	_ = complexityCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(complexityCmd)
}

func runComplexity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if !complexity.IsAvailable() {
		log.Warn("built without cgo: Python structural metrics (functions, cyclomatic, branches) are unavailable", nil)
	}

	analyzer, err := newAnalyzer(cfg, complexityRules)
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range args {
		resolved := complexity.ResolveSourceLocation(arg, cfg.ProjectRoot)
		if len(resolved) == 0 {
			// Keep unresolvable args so the analyzer reports them as
			// missing files instead of silently narrowing the input.
			resolved = []string{arg}
		}
		paths = append(paths, resolved...)
	}

	result, err := analyzer.AnalyzeFiles(cmd.Context(), paths, complexityType, complexityField)
	if err != nil {
		return err
	}

	log.Debug("analysis complete", map[string]interface{}{
		"files": result.RawMetrics.FilesAnalyzed,
		"label": result.Label,
	})

	if complexityFormat == "json" {
		return printJSON(result)
	}
	printResultHuman(result, cfg.Thresholds)
	return nil
}

// newAnalyzer builds an analyzer from the rule document, preferring the
// explicit --rules path over the configured one.
func newAnalyzer(cfg *config.Config, rulesFlag string) (*complexity.Analyzer, error) {
	rulePath := resolveRulePath(cfg, rulesFlag)

	analyzer, err := complexity.NewAnalyzerFromRuleFile(cfg, rulePath)
	if err != nil {
		return nil, scanerrors.NewScanError(
			scanerrors.InternalError,
			fmt.Sprintf("failed to load rule document %s", rulePath),
			err,
		)
	}
	return analyzer, nil
}

// resolveRulePath picks the rule document path: an explicit flag is used
// as given, the configured default is anchored at the project root.
func resolveRulePath(cfg *config.Config, rulesFlag string) string {
	if rulesFlag != "" {
		return rulesFlag
	}
	path := cfg.RuleFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return path
}
