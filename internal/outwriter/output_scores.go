package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/schema"
)

var scoreHeader = []string{"rank", "team", "score", "tier"}

// WriteScoreTable outputs a ranked per-team table, dispatching based on the output format configured.
// Team codes are rendered in dotted form in every mode when DottedCodes is set.
func WriteScoreTable(kind schema.Kind, scores []schema.RankedTeamScore, cfg *contract.Config, duration time.Duration) error {
	return writeScoreTable(kind, scores, cfg, cfg.Output, cfg.OutputFile, duration)
}

func writeScoreTable(kind schema.Kind, scores []schema.RankedTeamScore, cfg *contract.Config, mode schema.OutputMode, outputFile string, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	scores = displayScores(scores, cfg.DottedCodes)
	return writeTabular(tabular{
		name:   "team_" + string(kind) + "_scores",
		header: scoreHeader,
		records: func() [][]string {
			records := make([][]string, len(scores))
			for i, s := range scores {
				records[i] = []string{strconv.Itoa(s.Rank), s.Team, fmtFloat(s.Score), s.Tier}
			}
			return records
		},
		cells: func() [][]any {
			cells := make([][]any, len(scores))
			for i, s := range scores {
				cells[i] = []any{s.Rank, s.Team, s.Score, s.Tier}
			}
			return cells
		},
		jsonData: func() any { return scores },
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertScoreRows(scores))
		},
		text: func(w io.Writer) error {
			return writeScoreTableText(w, kind, scores, cfg, fmtFloat, duration)
		},
	}, mode, outputFile)
}

// displayScores returns a copy of scores with team codes in display form.
func displayScores(scores []schema.RankedTeamScore, dotted bool) []schema.RankedTeamScore {
	out := make([]schema.RankedTeamScore, len(scores))
	for i, s := range scores {
		s.Team = contract.FormatTeam(s.Team, dotted)
		out[i] = s
	}
	return out
}

// writeScoreTableText generates and writes the human-readable score table.
func writeScoreTableText(w io.Writer, kind schema.Kind, scores []schema.RankedTeamScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Team", "Score", "Tier"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range scores {
		data = append(data, []string{
			strconv.Itoa(s.Rank),
			s.Team,
			fmtFloat(s.Score),
			formatLabel(s.Tier, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d teams by %s score (season %s)\n", len(scores), kind, cfg.Season); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
