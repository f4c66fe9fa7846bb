package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studioscan/internal/complexity"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build capabilities",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studioscan %s\n", version)
		if complexity.IsAvailable() {
			fmt.Println("python structural analysis: available (cgo)")
		} else {
			fmt.Println("python structural analysis: unavailable (built without cgo)")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
