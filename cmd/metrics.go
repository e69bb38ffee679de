package cmd

import (
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd groups operations on raw metric tables.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Manage raw metric tables",
	Long: `Work with the raw per-team metric tables behind the scores.

Subcommands:
  export - Save the season's metrics to a parquet snapshot`,
}

// metricsExportCmd writes a replayable snapshot.
var metricsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the season's raw metrics to a parquet snapshot",
	Long: `Fetch every situation of the season, plus the prior season when --blend is
set, and write them to one parquet file.

Replay the snapshot with --metrics-file to rebuild without the network.

Requires: --output-file parameter

Examples:
  # Snapshot the current season
  matchup metrics export --output-file metrics.parquet

  # Rebuild from the snapshot
  matchup build --metrics-file metrics.parquet --schedule schedule.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetricsExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export metrics", err)
		}
	},
}
