package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aera-platform/riskengine/pkg/constants"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the binary and model versions.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("riskengine %s (model %s, default version %s)\n",
			version, constants.ModelName, constants.DefaultModelVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
