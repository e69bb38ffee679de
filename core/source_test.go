package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileMetricsCSV(t *testing.T) {
	path := writeFile(t, "metrics.csv", strings.Join([]string{
		"season,team,situation,metric,value",
		"20252026,bos,sva,xGF60,2.9",
		"20252026,TOR,sva,xgf60,2.5",
		"20252026,BOS,pp,xgf60,7.1",
		"20242025,BOS,sva,xgf60,2.2",
	}, "\n"))
	source := NewFileMetrics(path)

	rows, err := source.FetchSituation(context.Background(), "20252026", schema.EvenStrengthAdj)
	require.NoError(t, err)
	assert.Equal(t, []schema.TeamMetricRow{
		{Team: "BOS", Situation: schema.EvenStrengthAdj, Metric: schema.XGF60, Value: 2.9},
		{Team: "TOR", Situation: schema.EvenStrengthAdj, Metric: schema.XGF60, Value: 2.5},
	}, rows)

	rows, err = source.FetchSituation(context.Background(), "20242025", schema.EvenStrengthAdj)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.2, rows[0].Value)
}

func TestFileMetricsCSVWithoutSeasonColumn(t *testing.T) {
	path := writeFile(t, "metrics.csv", "team,situation,metric,value\nBOS,pk,ga60,6.4\n")
	rows, err := NewFileMetrics(path).FetchSituation(context.Background(), "20992100", schema.PenaltyKill)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.GA60, rows[0].Metric)
}

func TestFileMetricsLabeled(t *testing.T) {
	path := writeFile(t, "metrics.csv", "team,situation,metric,value\nBOS,pk,ga60,6.4\n")
	_, err := NewFileMetrics(path).Labeled().FetchSituation(context.Background(), "20242025", schema.PenaltyKill)
	assert.ErrorContains(t, err, "season 20242025 not found")

	path = writeFile(t, "labeled.csv", "season,team,situation,metric,value\n20242025,BOS,pk,ga60,6.4\n")
	rows, err := NewFileMetrics(path).Labeled().FetchSituation(context.Background(), "20242025", schema.PenaltyKill)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestFileMetricsCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing column", "team,situation,value\nBOS,sva,1\n", `missing column "metric"`},
		{"bad situation", "team,situation,metric,value\nBOS,4v4,xgf60,1\n", "unknown situation"},
		{"bad metric", "team,situation,metric,value\nBOS,sva,corsi,1\n", "unknown metric"},
		{"bad value", "team,situation,metric,value\nBOS,sva,xgf60,abc\n", "invalid value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "metrics.csv", tt.content)
			_, err := NewFileMetrics(path).FetchSituation(context.Background(), "20252026", schema.EvenStrengthAdj)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFileMetricsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.parquet")
	rows := leagueRows(leagueTeams[:3])
	require.NoError(t, parquet.WriteMetricsSnapshot([]schema.MetricsTable{{Season: "20252026", Rows: rows}}, path))

	got, err := FetchSeason(context.Background(), NewFileMetrics(path), "20252026")
	require.NoError(t, err)
	assert.Len(t, got, len(rows))
}

func TestFileMetricsUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "metrics.txt", "")
	_, err := NewFileMetrics(path).FetchSituation(context.Background(), "20252026", schema.PowerPlay)
	assert.ErrorIs(t, err, contract.ErrConfiguration)
}
