package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studioscan/internal/config"
	scanerrors "studioscan/internal/errors"
)

var (
	flagConfig    string
	flagProject   string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "studioscan",
	Short: "Complexity analysis and effort estimation for Odoo Studio customizations",
	Long: `studioscan statically analyzes the Python, XML and JS sources of Odoo
Studio customizations, classifies each component's complexity, and turns
a feature/user-story map into an effort estimate in hours.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .studioscan/config.json under the project root)")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", ".", "project root directory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (human|json)")
}

// Execute runs the root command and maps failures to the process exit
// code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration: file config layered over
// defaults, then the global flags on top.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.FindConfigFile(flagProject)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flagProject != "" {
		cfg.ProjectRoot = flagProject
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
	return cfg, nil
}

// printError writes an error to stderr. ScanErrors get their code and
// suggested fixes; anything else prints as-is.
func printError(err error) {
	var se *scanerrors.ScanError
	if errors.As(err, &se) {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", se.Code, se.Message)
		for _, fix := range se.SuggestedFixes {
			switch fix.Type {
			case scanerrors.RunCommand:
				fmt.Fprintf(os.Stderr, "  Try: %s\n", fix.Command)
			case scanerrors.EditFile:
				fmt.Fprintf(os.Stderr, "  Edit %s: %s\n", fix.File, fix.Description)
			case scanerrors.OpenDocs:
				fmt.Fprintf(os.Stderr, "  See: %s\n", fix.URL)
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
