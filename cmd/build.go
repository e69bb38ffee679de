package cmd

import (
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/spf13/cobra"
)

// buildCmd runs the whole pipeline and writes every output.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rate every team and write all lookups, tables and diagnostics.",
	Long: `Fetch the season metrics, rate every team and join the scores onto the schedule.

Writes into --output-dir:
- defense_lookup and offense_lookup, one row per team per game
- team_week, games and strength of schedule per team per week
- team_defense_scores and team_offense_scores, the ranked per-team tables
- diagnostics.json, distribution and correlation checks of the inputs

Text output writes CSV files. When a history backend is configured, the
run and every team score are recorded.

Examples:
  # Build from the network with the default schedule layout
  matchup build --schedule schedule.xlsx

  # Blend last season in during week 3 and write parquet files
  matchup build --schedule schedule.xlsx --blend --week 3 --output parquet

  # Replay a saved snapshot
  matchup build --metrics-file metrics.parquet --schedule schedule.csv --output-dir out`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuild(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build outputs", err)
		}
	},
}
