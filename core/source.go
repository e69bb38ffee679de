package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/schema"
)

// FileMetrics serves metrics from a snapshot file instead of the network.
// Parquet files are written by "metrics export"; CSV files use the long
// layout season,team,situation,metric,value with the season column optional.
type FileMetrics struct {
	Path string

	once      sync.Once
	bySeason  map[string][]schema.TeamMetricRow
	loadError error
}

// NewFileMetrics returns a source reading from path.
func NewFileMetrics(path string) *FileMetrics {
	return &FileMetrics{Path: path}
}

// FetchSituation implements contract.MetricsSource. Rows without a season
// label are served for any season.
func (f *FileMetrics) FetchSituation(_ context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	return f.fetch(season, situation, false)
}

// Labeled returns a view of the file that only serves seasons the file names
// explicitly. Unlabeled rows belong to the current season and must not stand
// in for another one.
func (f *FileMetrics) Labeled() contract.MetricsSource {
	return labeledFileMetrics{f}
}

type labeledFileMetrics struct {
	file *FileMetrics
}

func (l labeledFileMetrics) FetchSituation(_ context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	return l.file.fetch(season, situation, true)
}

func (f *FileMetrics) fetch(season string, situation schema.Situation, labeledOnly bool) ([]schema.TeamMetricRow, error) {
	f.once.Do(func() { f.bySeason, f.loadError = loadMetricsFile(f.Path) })
	if f.loadError != nil {
		return nil, f.loadError
	}
	rows, ok := f.bySeason[season]
	if !ok {
		if labeledOnly {
			return nil, fmt.Errorf("season %s not found in %s", season, f.Path)
		}
		rows = f.bySeason[""]
	}
	var out []schema.TeamMetricRow
	for _, r := range rows {
		if r.Situation == situation {
			out = append(out, r)
		}
	}
	return out, nil
}

func loadMetricsFile(path string) (map[string][]schema.TeamMetricRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return parquet.ReadMetricsSnapshot(path)
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open metrics file: %w", err)
		}
		defer func() { _ = file.Close() }()
		return readMetricsCSV(file)
	default:
		return nil, fmt.Errorf("%w: unsupported metrics file %q (want .parquet or .csv)", contract.ErrConfiguration, path)
	}
}

func readMetricsCSV(r io.Reader) (map[string][]schema.TeamMetricRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"team", "situation", "metric", "value"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("metrics file is missing column %q", required)
		}
	}
	seasonCol, hasSeason := cols["season"]

	out := make(map[string][]schema.TeamMetricRow)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("metrics line %d: %w", line, err)
		}
		situation := schema.Situation(strings.ToLower(record[cols["situation"]]))
		if _, ok := schema.ValidSituations[situation]; !ok {
			return nil, fmt.Errorf("metrics line %d: unknown situation %q", line, situation)
		}
		metric := schema.Metric(strings.ToLower(record[cols["metric"]]))
		if _, ok := schema.ValidMetrics[metric]; !ok {
			return nil, fmt.Errorf("metrics line %d: unknown metric %q", line, metric)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[cols["value"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("metrics line %d: invalid value: %w", line, err)
		}
		season := ""
		if hasSeason {
			season = strings.TrimSpace(record[seasonCol])
		}
		out[season] = append(out[season], schema.TeamMetricRow{
			Team:      strings.ToUpper(strings.TrimSpace(record[cols["team"]])),
			Situation: situation,
			Metric:    metric,
			Value:     value,
		})
	}
	return out, nil
}
