package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// BuildOutputs holds every artifact of a build run.
type BuildOutputs struct {
	Lookups       schema.Lookups
	TeamWeeks     []schema.TeamWeekRow
	DefenseScores []schema.RankedTeamScore
	OffenseScores []schema.RankedTeamScore
	Diagnostics   schema.DiagnosticsReport
}

// buildFileMode maps the configured output mode to the one used for files.
// Text tables are written as csv since they are meant for spreadsheets.
func buildFileMode(mode schema.OutputMode) schema.OutputMode {
	if mode == schema.TextOut || mode == "" {
		return schema.CSVOut
	}
	return mode
}

// BuildFileNames returns the file written for each build artifact, keyed by artifact name.
func BuildFileNames(dir string, mode schema.OutputMode) map[string]string {
	ext := "." + string(buildFileMode(mode))
	return map[string]string{
		"defense_lookup":      filepath.Join(dir, "defense_lookup"+ext),
		"offense_lookup":      filepath.Join(dir, "offense_lookup"+ext),
		"team_week":           filepath.Join(dir, "team_week"+ext),
		"team_defense_scores": filepath.Join(dir, "team_defense_scores"+ext),
		"team_offense_scores": filepath.Join(dir, "team_offense_scores"+ext),
		"diagnostics":         filepath.Join(dir, "diagnostics.json"),
	}
}

// WriteBuildOutputs writes every artifact into cfg.OutputDir. The diagnostics
// report is always JSON.
func WriteBuildOutputs(out BuildOutputs, cfg *contract.Config, duration time.Duration) error {
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	mode := buildFileMode(cfg.Output)
	files := BuildFileNames(dir, mode)

	steps := []struct {
		name  string
		write func(string) error
	}{
		{"defense_lookup", func(path string) error {
			return writeLookupRows(schema.Defense, out.Lookups.Defense, cfg, mode, path, duration)
		}},
		{"offense_lookup", func(path string) error {
			return writeLookupRows(schema.Offense, out.Lookups.Offense, cfg, mode, path, duration)
		}},
		{"team_week", func(path string) error {
			return writeTeamWeekRows(out.TeamWeeks, cfg, mode, path, duration)
		}},
		{"team_defense_scores", func(path string) error {
			return writeScoreTable(schema.Defense, out.DefenseScores, cfg, mode, path, duration)
		}},
		{"team_offense_scores", func(path string) error {
			return writeScoreTable(schema.Offense, out.OffenseScores, cfg, mode, path, duration)
		}},
		{"diagnostics", func(path string) error {
			return writeDiagnosticsReport(out.Diagnostics, cfg, schema.JSONOut, path)
		}},
	}
	for _, step := range steps {
		if err := step.write(files[step.name]); err != nil {
			return fmt.Errorf("failed to write %s: %w", step.name, err)
		}
	}
	return nil
}
