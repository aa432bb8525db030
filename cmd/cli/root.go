// Package cli implements the riskengine command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskengine",
	Short: "AERA Level 3 vulnerability risk analytics pipeline.",
	Long: `riskengine runs the nightly Level 3 analytics pass over the
vulnerability profile population: risk scoring, cluster and anomaly model
fitting, region aggregation with drift detection, and the model audit trail.`,

	SilenceUsage: true,
}

// Execute parses the command line and runs the selected command. A failed
// command exits non-zero so the scheduler can detect it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
