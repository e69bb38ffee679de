package outwriter

import (
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteLookup prints one lookup using the configured output format.
func (ow *OutWriter) WriteLookup(kind schema.Kind, rows []schema.LookupRow, cfg *contract.Config, duration time.Duration) error {
	return WriteLookupRows(kind, rows, cfg, duration)
}

// WriteTeamWeeks prints the team-week table using the configured output format.
func (ow *OutWriter) WriteTeamWeeks(rows []schema.TeamWeekRow, cfg *contract.Config, duration time.Duration) error {
	return WriteTeamWeekRows(rows, cfg, duration)
}

// WriteScores prints a ranked per-team table using the configured output format.
func (ow *OutWriter) WriteScores(kind schema.Kind, scores []schema.RankedTeamScore, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreTable(kind, scores, cfg, duration)
}

// WriteDiagnostics prints the diagnostics report using the configured output format.
func (ow *OutWriter) WriteDiagnostics(report schema.DiagnosticsReport, cfg *contract.Config) error {
	return WriteDiagnosticsReport(report, cfg)
}

// WriteWeights prints the active weight definitions using the configured output format.
func (ow *OutWriter) WriteWeights(cfg *contract.Config) error {
	return WriteWeightsDefinitions(cfg)
}

// WriteBuild writes every build artifact into the configured output directory.
func (ow *OutWriter) WriteBuild(out BuildOutputs, cfg *contract.Config, duration time.Duration) error {
	return WriteBuildOutputs(out, cfg, duration)
}
