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

// lookupHeader is shared by the csv and xlsx lookup outputs.
var lookupHeader = []string{
	"team",
	"week",
	"opponent",
	"date",
	"is_home",
	"light_night",
	"kind",
	"opponent_score",
	"tier",
}

// WriteLookupRows outputs one lookup, dispatching based on the output format configured.
func WriteLookupRows(kind schema.Kind, rows []schema.LookupRow, cfg *contract.Config, duration time.Duration) error {
	return writeLookupRows(kind, rows, cfg, cfg.Output, cfg.OutputFile, duration)
}

func writeLookupRows(kind schema.Kind, rows []schema.LookupRow, cfg *contract.Config, mode schema.OutputMode, outputFile string, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeTabular(tabular{
		name:   string(kind) + "_lookup",
		header: lookupHeader,
		records: func() [][]string {
			return lookupRecords(rows, fmtFloat)
		},
		cells: func() [][]any {
			return lookupCells(rows)
		},
		jsonData: func() any { return rows },
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertLookupRows(rows))
		},
		text: func(w io.Writer) error {
			return writeLookupTable(w, kind, rows, cfg, fmtFloat, duration)
		},
	}, mode, outputFile)
}

// lookupRecords converts lookup rows into csv records.
func lookupRecords(rows []schema.LookupRow, fmtFloat func(float64) string) [][]string {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			r.Team,
			strconv.Itoa(r.Week),
			r.Opponent,
			r.Date.Format(contract.DateFormat),
			formatBool(r.IsHome),
			formatBool(r.LightNight),
			string(r.Kind),
			formatOptional(r.OpponentScore, fmtFloat),
			r.Tier,
		}
	}
	return records
}

// lookupCells converts lookup rows into typed xlsx cells.
func lookupCells(rows []schema.LookupRow) [][]any {
	cells := make([][]any, len(rows))
	for i, r := range rows {
		cells[i] = []any{
			r.Team,
			r.Week,
			r.Opponent,
			r.Date.Format(contract.DateFormat),
			r.IsHome,
			r.LightNight,
			string(r.Kind),
			optionalCell(r.OpponentScore),
			r.Tier,
		}
	}
	return cells
}

// writeLookupTable generates and writes the human-readable lookup table.
func writeLookupTable(w io.Writer, kind schema.Kind, rows []schema.LookupRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Week", "Date", "Team", "Opponent", "Venue", "Light", "Score", "Tier"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	lightNights := 0
	for _, r := range rows {
		if r.LightNight {
			lightNights++
		}
		data = append(data, []string{
			strconv.Itoa(r.Week),
			r.Date.Format(contract.DateFormat),
			r.Team,
			r.Opponent,
			formatVenue(r.IsHome),
			formatFlag(r.LightNight),
			formatOptional(r.OpponentScore, fmtFloat),
			formatLabel(r.Tier, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d %s lookup rows (%d on light nights)\n", len(rows), kind, lightNights); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
