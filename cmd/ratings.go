package cmd

import (
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/spf13/cobra"
)

// ratingsCmd shows the ranked per-team scores.
var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Show teams ranked by defense or offense score.",
	Long: `Rate every team on a 0-100 scale and print them from strongest to weakest.

Defense scores reward suppressing chances; offense scores reward creating them.
Each score is a weighted blend of per-60 metrics across even strength, power
play and penalty kill, scaled between two league percentiles.

Examples:
  # Top ten defensive teams
  matchup ratings --kind defense --limit 10

  # Offense scores blended with last season as of week 4, dotted codes
  matchup ratings --kind offense --blend --week 4 --dotted-codes`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRatings(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot rate teams", err)
		}
	},
}
