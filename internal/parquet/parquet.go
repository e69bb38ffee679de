// Package parquet provides data structures and functions for reading and writing
// matchup data as Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/puckline/matchup/schema"
)

// RunRecord represents a single rating run with metadata.
// This struct maps to the matchup_runs database table.
type RunRecord struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// Season is the season label that was rated, e.g. 20252026
	Season string `parquet:"season,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TeamsScored is the number of teams scored in this run
	TeamsScored int32 `parquet:"teams_scored,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// TeamScore represents the final score of one team for one kind in a run.
// This struct maps to the matchup_team_scores database table.
type TeamScore struct {
	RunID     int64     `parquet:"run_id,snappy"`
	Team      string    `parquet:"team,snappy"`
	Kind      string    `parquet:"kind,snappy"`
	Raw       float64   `parquet:"raw,snappy"`
	Scaled    float64   `parquet:"scaled,snappy"`
	Blended   *float64  `parquet:"blended,optional,snappy"`
	Prior     *float64  `parquet:"prior,optional,snappy"`
	Tier      string    `parquet:"tier,snappy"`
	ScoreTime time.Time `parquet:"score_time,snappy"`
}

// MetricRow is one raw team metric in a snapshot file.
type MetricRow struct {
	Season    string  `parquet:"season,snappy"`
	Team      string  `parquet:"team,snappy"`
	Situation string  `parquet:"situation,snappy"`
	Metric    string  `parquet:"metric,snappy"`
	Value     float64 `parquet:"value,snappy"`
}

// LookupRow is one schedule row enriched with the opponent's score.
type LookupRow struct {
	Team          string    `parquet:"team,snappy"`
	Week          int32     `parquet:"week,snappy"`
	Opponent      string    `parquet:"opponent,snappy"`
	Date          time.Time `parquet:"date,snappy"`
	IsHome        bool      `parquet:"is_home,snappy"`
	LightNight    bool      `parquet:"light_night,snappy"`
	Kind          string    `parquet:"kind,snappy"`
	OpponentScore *float64  `parquet:"opponent_score,optional,snappy"`
	Tier          string    `parquet:"tier,snappy"`
}

// TeamWeekRow is one aggregated (team, week) row.
type TeamWeekRow struct {
	Team        string   `parquet:"team,snappy"`
	Week        int32    `parquet:"week,snappy"`
	Games       int32    `parquet:"games,snappy"`
	LightNights int32    `parquet:"light_nights,snappy"`
	Opponents   string   `parquet:"opponents,snappy"`
	SOS         *float64 `parquet:"sos,optional,snappy"`
	OffenseSOS  *float64 `parquet:"offense_sos,optional,snappy"`
	MatchUp     string   `parquet:"matchup,snappy"`
	Key         string   `parquet:"key,snappy"`
}

// ScoreRow is one ranked entry of a per-team score table.
type ScoreRow struct {
	Rank  int32   `parquet:"rank,snappy"`
	Team  string  `parquet:"team,snappy"`
	Kind  string  `parquet:"kind,snappy"`
	Score float64 `parquet:"score,snappy"`
	Tier  string  `parquet:"tier,snappy"`
}

// Write writes rows of any parquet-tagged struct to w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Write(file, data)
}

// ReadFile reads every row of a Parquet file into T.
func ReadFile[T any](inputPath string) ([]T, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows[:n], nil
}

// WriteMetricsSnapshot writes raw metrics of one or more seasons to outputPath.
func WriteMetricsSnapshot(tables []schema.MetricsTable, outputPath string) error {
	var rows []MetricRow
	for _, table := range tables {
		for _, r := range table.Rows {
			rows = append(rows, MetricRow{
				Season:    table.Season,
				Team:      r.Team,
				Situation: string(r.Situation),
				Metric:    string(r.Metric),
				Value:     r.Value,
			})
		}
	}
	return WriteFile(rows, outputPath)
}

// ReadMetricsSnapshot reads a snapshot file and groups its rows by season.
func ReadMetricsSnapshot(inputPath string) (map[string][]schema.TeamMetricRow, error) {
	rows, err := ReadFile[MetricRow](inputPath)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]schema.TeamMetricRow)
	for _, r := range rows {
		out[r.Season] = append(out[r.Season], schema.TeamMetricRow{
			Team:      r.Team,
			Situation: schema.Situation(r.Situation),
			Metric:    schema.Metric(r.Metric),
			Value:     r.Value,
		})
	}
	return out, nil
}

// ConvertRunRecords converts schema.HistoryRunRecord to RunRecord for Parquet export.
func ConvertRunRecords(records []schema.HistoryRunRecord) []RunRecord {
	result := make([]RunRecord, len(records))
	for i, record := range records {
		result[i] = RunRecord{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			Season:        record.Season,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TeamsScored:   record.TeamsScored,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertTeamScoreRecords converts schema.TeamScoreRecord to TeamScore for Parquet export.
func ConvertTeamScoreRecords(records []schema.TeamScoreRecord) []TeamScore {
	result := make([]TeamScore, len(records))
	for i, record := range records {
		result[i] = TeamScore{
			RunID:     record.RunID,
			Team:      record.Team,
			Kind:      string(record.Kind),
			Raw:       record.Raw,
			Scaled:    record.Scaled,
			Blended:   record.Blended,
			Prior:     record.Prior,
			Tier:      record.Tier,
			ScoreTime: record.ScoreTime,
		}
	}
	return result
}

// ConvertLookupRows converts lookup rows for Parquet output.
func ConvertLookupRows(rows []schema.LookupRow) []LookupRow {
	result := make([]LookupRow, len(rows))
	for i, r := range rows {
		result[i] = LookupRow{
			Team:          r.Team,
			Week:          int32(r.Week),
			Opponent:      r.Opponent,
			Date:          r.Date,
			IsHome:        r.IsHome,
			LightNight:    r.LightNight,
			Kind:          string(r.Kind),
			OpponentScore: r.OpponentScore,
			Tier:          r.Tier,
		}
	}
	return result
}

// ConvertTeamWeekRows converts team-week rows for Parquet output.
func ConvertTeamWeekRows(rows []schema.TeamWeekRow) []TeamWeekRow {
	result := make([]TeamWeekRow, len(rows))
	for i, r := range rows {
		result[i] = TeamWeekRow{
			Team:        r.Team,
			Week:        int32(r.Week),
			Games:       int32(r.Games),
			LightNights: int32(r.LightNights),
			Opponents:   r.Opponents,
			SOS:         r.SOS,
			OffenseSOS:  r.OffenseSOS,
			MatchUp:     r.MatchUp,
			Key:         r.Key,
		}
	}
	return result
}

// ConvertScoreRows converts a ranked score table for Parquet output.
func ConvertScoreRows(rows []schema.RankedTeamScore) []ScoreRow {
	result := make([]ScoreRow, len(rows))
	for i, r := range rows {
		result[i] = ScoreRow{
			Rank:  int32(r.Rank),
			Team:  r.Team,
			Kind:  string(r.Kind),
			Score: r.Score,
			Tier:  r.Tier,
		}
	}
	return result
}
