package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studioscan/internal/storage"
)

var (
	runsLimit  int
	runsFormat string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded estimation runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs to list")
	runsCmd.Flags().StringVarP(&runsFormat, "format", "f", "human", "output format (human|json)")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.ProjectRoot)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}

	if runsFormat == "json" {
		return printJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No estimation runs recorded yet.")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %8s  %10s  %11s\n", "RUN", "WHEN", "FEATURES", "COMPONENTS", "TOTAL HOURS")
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %8d  %10d  %11.1f\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04"), r.FeatureCount, r.ComponentCount, r.TotalHours)
	}
	return nil
}
