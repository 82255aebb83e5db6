package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackhale98/PDT/cmd/pdt/commands"
	"github.com/jackhale98/PDT/config"
	"github.com/jackhale98/PDT/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pdt",
	Short: "PDT - Tolerance stack-up analysis",
	Long: `PDT - Tolerance stack-up analysis for mechanical design.

PDT analyzes dimensional tolerance chains with worst-case, RSS, and
Monte Carlo methods, including GD&T position tolerances with material
condition bonus and 3D small-displacement torsor propagation.

Available commands:
  tol     - Manage and analyze tolerance stackups
  feat    - Manage toleranced features
  version - Show version information

Examples:
  pdt tol new "Cover Gap"          # Create a stackup file
  pdt tol show TOL-xxxx.yaml       # Display a stackup and stored results
  pdt tol analyze TOL-xxxx.yaml    # Run the analysis chain
  pdt feat bounds FEAT-xxxx.yaml   # Show a feature's 6-DOF deviation bounds`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs := false
		if cfg, err := config.Load(); err == nil {
			jsonLogs = cfg.Output.JSON
		}
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity")

	rootCmd.AddCommand(commands.TolCmd)
	rootCmd.AddCommand(commands.FeatCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
