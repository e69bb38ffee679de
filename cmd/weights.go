package cmd

import (
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/spf13/cobra"
)

// weightsCmd displays the active weight tables.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Display the composite formulas and active weights",
	Long: `Show the situation and metric weights behind both composite kinds.

Includes custom weights, tiers and the percentile window from .matchup.yaml.
No metrics are fetched - this is purely informational.

Examples:
  # Show default weights
  matchup weights

  # View with custom weights from config file
  matchup weights --config .matchup.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeights(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display weights", err)
		}
	},
}
