// Package cli implements the relaypick command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relaypick",
	Short: "relaypick — pick and transform relay configurations",
	Long: `relaypick selects a bounded, weighted-random subset of relay
configurations from a pool directory and writes each selected relay to a
renamed, optionally field-overridden output file.

Selection honors inclusion/exclusion rules, per-relay or per-group priority
overrides (prefer/shun), per-group quotas and a global cap. A fixed --seed
makes a run fully reproducible.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
