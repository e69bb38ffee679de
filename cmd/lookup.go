package cmd

import (
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/spf13/cobra"
)

// lookupCmd shows the opponent score of every scheduled game.
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Show each scheduled game with the opponent's score.",
	Long: `Join the opponent's defense or offense score onto every scheduled game.

Rows carry the week, date, venue and whether the game falls on a light
night. Use --team and --week to narrow the rows.

Examples:
  # Boston's opponents by defensive strength
  matchup lookup --schedule schedule.xlsx --team BOS

  # Offensive strength of every week 5 opponent
  matchup lookup --schedule schedule.xlsx --kind offense --week 5`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLookup(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build lookup", err)
		}
	},
}

// teamWeeksCmd shows the weekly schedule strength.
var teamWeeksCmd = &cobra.Command{
	Use:   "teamweeks",
	Short: "Show games, light nights and strength of schedule per team per week.",
	Long: `Aggregate the lookups into one row per team per week.

SOS is the mean opponent defense score and OffSOS the mean opponent offense
score. The matchup label grades the week from Excellent to Difficult.

Examples:
  # Every week for Seattle
  matchup teamweeks --schedule schedule.xlsx --team SEA

  # All teams in week 12 as CSV
  matchup teamweeks --schedule schedule.xlsx --week 12 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTeamWeeks(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build team weeks", err)
		}
	},
}
