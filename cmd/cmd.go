// Package cmd defines the command-line interface for matchup.
package cmd

import (
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(teamWeeksCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the metrics subcommands to the parent metrics command
	metricsCmd.AddCommand(metricsExportCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("season", contract.DefaultSeason, "Season label such as 20252026")
	rootCmd.PersistentFlags().String("prior-season", "", "Season blended in early on (default: the season before)")
	rootCmd.PersistentFlags().Bool("blend", false, "Blend prior-season scores into the current season")
	rootCmd.PersistentFlags().IntP("week", "w", 0, "Scoring week, also narrows lookups to that week (0 = all weeks)")
	rootCmd.PersistentFlags().Int("total-weeks", contract.DefaultTotalWeeks, "Number of weeks in the regular season")
	rootCmd.PersistentFlags().Float64("percentile-low", contract.DefaultPercentileLow, "Lower percentile of the scaling window")
	rootCmd.PersistentFlags().Float64("percentile-high", contract.DefaultPercentileHigh, "Upper percentile of the scaling window")
	rootCmd.PersistentFlags().String("kind", string(schema.Defense), "Score kind: defense or offense")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultLimit, "Number of teams to display")
	rootCmd.PersistentFlags().StringP("team", "t", "", "Narrow lookups to one team (BOS or L.A style codes)")
	rootCmd.PersistentFlags().String("schedule", "", "Path to the schedule (.xlsx or .csv)")
	rootCmd.PersistentFlags().String("schedule-sheet", contract.DefaultScheduleSheet, "Worksheet holding the schedule in .xlsx files")
	rootCmd.PersistentFlags().String("team-mapping", "", "Optional CSV mapping city names to team codes")
	rootCmd.PersistentFlags().String("week-start-day", contract.DefaultWeekStartDay, "First day of a schedule week: SUN, MON, ... SAT")
	rootCmd.PersistentFlags().String("season-start", contract.DefaultSeasonStart, "First day of the season (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("light-night-method", string(schema.ByGamesThreshold), "Light night rule: by_games_threshold or by_fraction_of_teams")
	rootCmd.PersistentFlags().Int("light-night-max-games", contract.DefaultLightNightMaxGames, "Most games on a date that still counts as a light night")
	rootCmd.PersistentFlags().Float64("light-night-fraction", contract.DefaultLightNightFraction, "Largest fraction of teams playing on a light night")
	rootCmd.PersistentFlags().String("metrics-file", "", "Read metrics from a parquet snapshot or CSV instead of the network")
	rootCmd.PersistentFlags().String("prior-metrics-file", "", "Read prior-season metrics from a parquet snapshot or CSV")
	rootCmd.PersistentFlags().Bool("refresh-cache", false, "Ignore cached metric tables and fetch again")
	rootCmd.PersistentFlags().Int("cache-refresh-days", contract.DefaultCacheRefreshDays, "Days before a cached metric table is refetched")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("dotted-codes", false, "Print team codes in dotted form (L.A, N.J, S.J, T.B)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of buildCmd to Viper
	buildCmd.Flags().String("output-dir", contract.DefaultOutputDir, "Directory receiving every build output")
	if err := viper.BindPFlags(buildCmd.Flags()); err != nil {
		contract.LogFatal("Error binding build flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
