package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"studioscan/internal/complexity"
	"studioscan/internal/estimate"
	"studioscan/internal/export"
	"studioscan/internal/featuremap"
	"studioscan/internal/storage"
)

var (
	estimateMap      string
	estimateRules    string
	estimateOut      string
	estimateSnapshot string
	estimateTOML     string
	estimateCompress bool
	estimateNoStore  bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate effort hours for a feature/user-story map",
	Long: `Analyzes every component referenced by the feature map, classifies its
complexity, looks up the baseline hours in the time-metrics table and
scales them by the configured band multiplier. The run is recorded in
the project's run history.`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateMap, "map", "m", "feature_user_story_map.toml", "feature map file, relative to the project root")
	estimateCmd.Flags().StringVar(&estimateRules, "rules", "", "time-metrics document (default: <project>/time_metrics.json)")
	estimateCmd.Flags().StringVarP(&estimateOut, "out", "o", "", "write the markdown report to this file instead of stdout")
	estimateCmd.Flags().StringVar(&estimateSnapshot, "snapshot", "", "write a JSON snapshot of the run to this file")
	estimateCmd.Flags().StringVar(&estimateTOML, "toml", "", "write a TOML snapshot of the run to this file")
	estimateCmd.Flags().BoolVar(&estimateCompress, "compress", false, "zstd-compress the JSON snapshot")
	estimateCmd.Flags().BoolVar(&estimateNoStore, "no-store", false, "skip recording the run in the history database")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if !complexity.IsAvailable() {
		log.Warn("built without cgo: Python structural metrics (functions, cyclomatic, branches) are unavailable", nil)
	}

	mapPath := estimateMap
	if !filepath.IsAbs(mapPath) {
		mapPath = filepath.Join(cfg.ProjectRoot, mapPath)
	}
	features, err := featuremap.Load(mapPath)
	if err != nil {
		return err
	}
	log.Info("loaded feature map", map[string]interface{}{
		"path":     mapPath,
		"features": len(features),
	})

	rulePath := resolveRulePath(cfg, estimateRules)
	table, err := estimate.LoadTable(rulePath)
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(cfg, estimateRules)
	if err != nil {
		return err
	}

	estimator := estimate.New(cfg, table, analyzer, cfg.ProjectRoot,
		log.With(map[string]interface{}{"map": filepath.Base(mapPath)}))
	report, err := estimator.EstimateAll(cmd.Context(), features)
	if err != nil {
		return err
	}

	snap := export.NewSnapshot(report, version)

	out := os.Stdout
	if estimateOut != "" {
		f, err := os.Create(estimateOut)
		if err != nil {
			return fmt.Errorf("failed to create report file %s: %w", estimateOut, err)
		}
		defer f.Close()
		out = f
	}
	if err := export.WriteMarkdown(out, snap); err != nil {
		return err
	}

	snapshotPath := ""
	if estimateSnapshot != "" {
		snapshotPath, err = export.WriteJSONFile(estimateSnapshot, snap, estimateCompress)
		if err != nil {
			return err
		}
		log.Info("wrote snapshot", map[string]interface{}{"path": snapshotPath})
	}
	if estimateTOML != "" {
		f, err := os.Create(estimateTOML)
		if err != nil {
			return fmt.Errorf("failed to create TOML snapshot %s: %w", estimateTOML, err)
		}
		if err := export.WriteTOML(f, snap); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if !estimateNoStore {
		// Run history is best effort; a broken local database must not
		// discard a finished estimate.
		if err := recordRun(cmd, cfg.ProjectRoot, snap, snapshotPath); err != nil {
			log.Warn("failed to record run history", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

func recordRun(cmd *cobra.Command, projectRoot string, snap *export.Snapshot, snapshotPath string) error {
	db, err := storage.Open(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.RecordRun(cmd.Context(), snap, snapshotPath)
}
