package iocache

import (
	"errors"
	"fmt"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/schema"
)

// historyReader is implemented by stores that can list their contents.
type historyReader interface {
	GetStatus() (schema.HistoryStatus, error)
	GetAllRuns() ([]schema.HistoryRunRecord, error)
	GetAllTeamScores() ([]schema.TeamScoreRecord, error)
}

// ExportHistory writes the configured history store to two Parquet files:
// <outputFile>.runs.parquet and <outputFile>.team_scores.parquet.
func ExportHistory(outputFile string) error {
	store, ok := Manager.GetHistoryStore().(historyReader)
	if !ok {
		return errors.New("no history store is configured")
	}
	return exportHistory(store, outputFile)
}

func exportHistory(store historyReader, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}
	contract.LogInfo("Exporting %d runs from %s backend...", status.TotalRuns, status.Backend)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllTeamScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve team scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteFile(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	contract.LogInfo("Exported %d runs to: %s", len(runs), runsFile)

	scoresFile := outputFile + ".team_scores.parquet"
	if err := parquet.WriteFile(parquet.ConvertTeamScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write team scores: %w", err)
	}
	contract.LogInfo("Exported %d team scores to: %s", len(scores), scoresFile)
	return nil
}
