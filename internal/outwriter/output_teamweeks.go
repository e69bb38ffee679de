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

// teamWeekHeader keeps the column names spreadsheet consumers join on.
var teamWeekHeader = []string{
	"TM",
	"Week",
	"Games",
	"LiteNite",
	"Opponents",
	"SOS",
	"OffSOS",
	"MatchUp",
	"Key",
}

// WriteTeamWeekRows outputs the team-week table, dispatching based on the output format configured.
func WriteTeamWeekRows(rows []schema.TeamWeekRow, cfg *contract.Config, duration time.Duration) error {
	return writeTeamWeekRows(rows, cfg, cfg.Output, cfg.OutputFile, duration)
}

func writeTeamWeekRows(rows []schema.TeamWeekRow, cfg *contract.Config, mode schema.OutputMode, outputFile string, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return writeTabular(tabular{
		name:   "team_week",
		header: teamWeekHeader,
		records: func() [][]string {
			records := make([][]string, len(rows))
			for i, r := range rows {
				records[i] = []string{
					r.Team,
					fmt.Sprintf(intFmt, r.Week),
					fmt.Sprintf(intFmt, r.Games),
					fmt.Sprintf(intFmt, r.LightNights),
					r.Opponents,
					formatOptional(r.SOS, fmtFloat),
					formatOptional(r.OffenseSOS, fmtFloat),
					r.MatchUp,
					r.Key,
				}
			}
			return records
		},
		cells: func() [][]any {
			cells := make([][]any, len(rows))
			for i, r := range rows {
				cells[i] = []any{
					r.Team, r.Week, r.Games, r.LightNights, r.Opponents,
					optionalCell(r.SOS), optionalCell(r.OffenseSOS), r.MatchUp, r.Key,
				}
			}
			return cells
		},
		jsonData: func() any { return rows },
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertTeamWeekRows(rows))
		},
		text: func(w io.Writer) error {
			return writeTeamWeekTable(w, rows, cfg, fmtFloat, duration)
		},
	}, mode, outputFile)
}

// writeTeamWeekTable generates and writes the human-readable team-week table.
func writeTeamWeekTable(w io.Writer, rows []schema.TeamWeekRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Team", "Week", "Games", "Light", "Opponents", "SOS", "Off SOS", "MatchUp"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxOpponentsWidth(cfg)
	teams := make(map[string]struct{})
	var data [][]string
	for _, r := range rows {
		teams[r.Team] = struct{}{}
		data = append(data, []string{
			r.Team,
			strconv.Itoa(r.Week),
			strconv.Itoa(r.Games),
			strconv.Itoa(r.LightNights),
			contract.TruncateText(r.Opponents, maxWidth),
			formatOptional(r.SOS, fmtFloat),
			formatOptional(r.OffenseSOS, fmtFloat),
			formatLabel(r.MatchUp, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d team weeks for %d teams\n", len(rows), len(teams)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
