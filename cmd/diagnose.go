package cmd

import (
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/spf13/cobra"
)

// diagnoseCmd prints the diagnostics of a build.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check the metric distributions behind the scores.",
	Long: `Run a full build and print only its diagnostics.

Reports summary statistics and normality tests per metric, the raw composite
distribution per kind with its outlier teams, highly correlated metric pairs
and data issues such as schedule teams without a score.

Examples:
  # Diagnostics as a table
  matchup diagnose --schedule schedule.xlsx

  # Diagnostics as JSON
  matchup diagnose --schedule schedule.xlsx --output json --output-file diagnostics.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDiagnose(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run diagnostics", err)
		}
	},
}
