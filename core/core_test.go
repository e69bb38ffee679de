package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/puckline/matchup/internal/iocache"
	"github.com/puckline/matchup/internal/outwriter"
	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// writeSnapshot stores a complete league table for the season as a parquet snapshot.
func writeSnapshot(t *testing.T, season string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.parquet")
	require.NoError(t, parquet.WriteMetricsSnapshot([]schema.MetricsTable{{Season: season, Rows: leagueRows(leagueTeams)}}, path))
	return path
}

// noStores returns a manager without cache or history.
func noStores() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetMetricsStore").Return(nil).Maybe()
	mgr.On("GetHistoryStore").Return(nil).Maybe()
	return mgr
}

func fileConfig(t *testing.T) (metricsPath string, schedulePath string) {
	t.Helper()
	metricsPath = writeSnapshot(t, "20252026")
	schedulePath = writeFile(t, "schedule.csv", strings.Join([]string{
		"date,home,away,week",
		"2025-10-07,BOS,TOR,1",
		"2025-10-08,WSH,ANA,1",
		"2025-10-14,TOR,WSH,2",
	}, "\n"))
	return metricsPath, schedulePath
}

func TestFilterLookupRows(t *testing.T) {
	day := time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC)
	rows := []schema.LookupRow{
		{Team: "LAK", Week: 1, Opponent: "SJS", Date: day},
		{Team: "SJS", Week: 1, Opponent: "LAK", Date: day},
		{Team: "LAK", Week: 2, Opponent: "ANA", Date: day.AddDate(0, 0, 7)},
	}
	tests := []struct {
		name string
		team string
		week int
		want int
	}{
		{"no filter", "", 0, 3},
		{"team", "LAK", 0, 2},
		{"dotted lower-case team", "l.a", 0, 2},
		{"week", "", 1, 2},
		{"team and week", "LAK", 2, 1},
		{"no match", "BOS", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterLookupRows(rows, tt.team, tt.week), tt.want)
		})
	}

	weeks := []schema.TeamWeekRow{{Team: "LAK", Week: 1}, {Team: "LAK", Week: 2}, {Team: "SJS", Week: 1}}
	assert.Len(t, FilterTeamWeeks(weeks, "S.J", 0), 1)
	assert.Len(t, FilterTeamWeeks(weeks, "", 1), 2)
}

func TestRankScores(t *testing.T) {
	table := schema.ScoreTable{
		"BOS": {Team: "BOS", Score: 40},
		"TOR": {Team: "TOR", Score: 90},
		"MTL": {Team: "MTL", Score: 65},
	}
	ranked := rankScores(table, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "TOR", ranked[0].Team)
	assert.Equal(t, "MTL", ranked[1].Team)
	assert.Len(t, rankScores(table, 0), 3)
}

func TestNewSources(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsFile = "current.parquet"
	cfg.PriorMetricsFile = "prior.csv"
	src := NewSources(cfg, nil)
	assert.IsType(t, &FileMetrics{}, src.Metrics)
	assert.IsType(t, &FileMetrics{}, src.PriorMetrics)
	assert.NotNil(t, src.Schedule)

	cfg = testConfig()
	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetMetricsStore").Return(store)
	src = NewSources(cfg, mgr)
	cached, ok := src.Metrics.(*CachedMetrics)
	require.True(t, ok)
	assert.Equal(t, store, cached.Store)
	assert.Nil(t, src.PriorMetrics)
	mgr.AssertExpectations(t)
}

func TestGetTeamScores(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsFile = writeSnapshot(t, cfg.Season)
	cfg.Kind = schema.Defense
	cfg.Limit = 5

	ranked, err := GetTeamScores(WithQuiet(context.Background()), cfg, noStores())
	require.NoError(t, err)
	require.Len(t, ranked, 5)
	// later teams in the fixture allow the fewest chances; both clip to 100
	assert.ElementsMatch(t, []string{"WPG", "WSH"}, []string{ranked[0].Team, ranked[1].Team})
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 100.0, ranked[0].Score)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[4].Score)
}

func TestGetMatchups(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsFile, cfg.SchedulePath = fileConfig(t)
	cfg.WeekStartDay = time.Monday
	cfg.SeasonStart = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	cfg.LightNightMethod = schema.ByGamesThreshold
	cfg.LightNightMaxGames = 5
	cfg.Team = "TOR"

	lookups, teamWeeks, err := GetMatchups(WithQuiet(context.Background()), cfg, noStores())
	require.NoError(t, err)
	require.Len(t, lookups.Defense, 2)
	require.Len(t, lookups.Offense, 2)
	assert.Equal(t, "BOS", lookups.Defense[0].Opponent)
	assert.Equal(t, "WSH", lookups.Defense[1].Opponent)
	require.Len(t, teamWeeks, 2)
	assert.Equal(t, "TOR1", teamWeeks[0].Key)
}

func TestExecuteBuild(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsFile, cfg.SchedulePath = fileConfig(t)
	cfg.WeekStartDay = time.Monday
	cfg.SeasonStart = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	cfg.LightNightMethod = schema.ByGamesThreshold
	cfg.LightNightMaxGames = 5
	cfg.Output = schema.CSVOut
	cfg.OutputDir = t.TempDir()
	cfg.Precision = 1

	history := &iocache.MockHistoryStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetMetricsStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)
	history.On("BeginRun", mock.Anything, cfg.Season, mock.Anything).Return(int64(7), nil)
	history.On("RecordTeamScore", int64(7), mock.Anything).Return(nil)
	history.On("EndRun", int64(7), mock.Anything, len(leagueTeams)).Return(nil)

	require.NoError(t, ExecuteBuild(WithQuiet(context.Background()), cfg, mgr))

	for name, path := range outwriter.BuildFileNames(cfg.OutputDir, cfg.Output) {
		_, err := os.Stat(path)
		assert.NoError(t, err, name)
	}
	content, err := os.ReadFile(filepath.Join(cfg.OutputDir, "team_week.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "TOR2")
	history.AssertNumberOfCalls(t, "RecordTeamScore", 2*len(leagueTeams))
	history.AssertExpectations(t)
}

func TestExecuteMetricsExport(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsFile = writeSnapshot(t, cfg.Season)

	assert.Error(t, ExecuteMetricsExport(context.Background(), cfg, nil), "output file is required")

	cfg.OutputFile = filepath.Join(t.TempDir(), "export.parquet")
	require.NoError(t, ExecuteMetricsExport(WithQuiet(context.Background()), cfg, noStores()))

	bySeason, err := parquet.ReadMetricsSnapshot(cfg.OutputFile)
	require.NoError(t, err)
	require.Contains(t, bySeason, cfg.Season)
	assert.Len(t, bySeason[cfg.Season], len(leagueRows(leagueTeams)))
}

func TestExecuteWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, ExecuteWeights(context.Background(), cfg, nil))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"formula"`)
}
