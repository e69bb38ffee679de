package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/iocache"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSchedule() staticSchedule {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	var rows []schema.ScheduleRow
	rows = append(rows, game("BOS", "TOR", 1, monday)...)
	rows = append(rows, game("WSH", "ANA", 1, monday.AddDate(0, 0, 1))...)
	rows = append(rows, game("BOS", "XYZ", 2, monday.AddDate(0, 0, 7))...)
	return staticSchedule(rows)
}

func TestLoadRatings(t *testing.T) {
	ctx := withQuiet(context.Background())
	source := seasonSource{
		"20252026": leagueRows(leagueTeams),
		"20242025": leagueRows(reversed(leagueTeams)),
	}

	t.Run("current only", func(t *testing.T) {
		ratings, err := LoadRatings(ctx, testConfig(), Sources{Metrics: source})
		require.NoError(t, err)
		assert.Nil(t, ratings.Prior)
		assert.Equal(t, 100.0, ratings.ScoreTable(schema.Defense)["WSH"].Score)
	})

	t.Run("blended", func(t *testing.T) {
		cfg := testConfig()
		cfg.Blend = true
		cfg.Week = 5
		ratings, err := LoadRatings(ctx, cfg, Sources{Metrics: source})
		require.NoError(t, err)
		require.NotNil(t, ratings.Prior)
		assert.Equal(t, "20242025", ratings.Prior.Season)
		assert.InDelta(t, 20.0, ratings.ScoreTable(schema.Offense)["WSH"].Score, 1e-9)
	})

	t.Run("missing prior season continues unblended", func(t *testing.T) {
		cfg := testConfig()
		cfg.Blend = true
		cfg.PriorSeason = "20102011"
		ratings, err := LoadRatings(ctx, cfg, Sources{Metrics: source})
		require.NoError(t, err)
		assert.Nil(t, ratings.Prior)
		assert.Nil(t, ratings.Blended)
	})

	t.Run("separate prior source", func(t *testing.T) {
		cfg := testConfig()
		cfg.Blend = true
		prior := seasonSource{"20242025": leagueRows(leagueTeams[:10])}
		ratings, err := LoadRatings(ctx, cfg, Sources{Metrics: source, PriorMetrics: prior})
		require.NoError(t, err)
		require.NotNil(t, ratings.Prior)
		assert.Len(t, ratings.Prior.Composites[schema.Defense], 10)
	})

	t.Run("unlabeled metrics file is not its own prior", func(t *testing.T) {
		var content strings.Builder
		content.WriteString("team,situation,metric,value\n")
		for _, r := range leagueRows(leagueTeams) {
			fmt.Fprintf(&content, "%s,%s,%s,%g\n", r.Team, r.Situation, r.Metric, r.Value)
		}
		path := writeFile(t, "metrics.csv", content.String())

		cfg := testConfig()
		cfg.Blend = true
		cfg.Week = 5
		ratings, err := LoadRatings(ctx, cfg, Sources{Metrics: NewFileMetrics(path)})
		require.NoError(t, err)
		assert.Nil(t, ratings.Prior)
		assert.Nil(t, ratings.Blended)
		assert.Equal(t, 100.0, ratings.ScoreTable(schema.Defense)["WSH"].Score)
	})

	t.Run("labeled metrics file serves its prior season", func(t *testing.T) {
		var content strings.Builder
		content.WriteString("season,team,situation,metric,value\n")
		for season, teams := range map[string][]string{"20252026": leagueTeams, "20242025": reversed(leagueTeams)} {
			for _, r := range leagueRows(teams) {
				fmt.Fprintf(&content, "%s,%s,%s,%s,%g\n", season, r.Team, r.Situation, r.Metric, r.Value)
			}
		}
		path := writeFile(t, "metrics.csv", content.String())

		cfg := testConfig()
		cfg.Blend = true
		cfg.Week = 5
		ratings, err := LoadRatings(ctx, cfg, Sources{Metrics: NewFileMetrics(path)})
		require.NoError(t, err)
		require.NotNil(t, ratings.Prior)
		assert.Equal(t, "20242025", ratings.Prior.Season)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.TotalWeeks = 0
		_, err := LoadRatings(ctx, cfg, Sources{Metrics: source})
		assert.ErrorIs(t, err, contract.ErrConfiguration)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := LoadRatings(ctx, testConfig(), Sources{})
		assert.Error(t, err)
	})

	t.Run("fetch failure", func(t *testing.T) {
		failing := &mockMetricsSource{}
		failing.On("FetchSituation", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))
		_, err := LoadRatings(ctx, testConfig(), Sources{Metrics: failing})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "20252026")
	})
}

func TestRunBuild(t *testing.T) {
	ctx := withQuiet(context.Background())
	source := seasonSource{"20252026": leagueRows(leagueTeams)}

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, "20252026", mock.Anything).Return(int64(7), nil)
	history.On("RecordTeamScore", int64(7), mock.Anything).Return(nil)
	history.On("EndRun", int64(7), mock.Anything, len(leagueTeams)).Return(nil)

	result, err := RunBuild(ctx, testConfig(), Sources{Metrics: source, Schedule: testSchedule()}, history)
	require.NoError(t, err)

	assert.Len(t, result.Schedule, 6)
	assert.Len(t, result.Lookups.Defense, 6)
	assert.Len(t, result.Lookups.Offense, 6)
	assert.Nil(t, result.Lookups.Defense[4].OpponentScore)
	assert.Equal(t, schema.TierUnknown, result.Lookups.Defense[4].Tier)

	// ANA hosts WSH's week: the strongest defense makes it the hardest matchup.
	var ana1 schema.TeamWeekRow
	for _, tw := range result.TeamWeeks {
		if tw.Key == "ANA1" {
			ana1 = tw
		}
	}
	require.NotNil(t, ana1.SOS)
	assert.Equal(t, 100.0, *ana1.SOS)
	assert.Equal(t, "Difficult", ana1.MatchUp)

	var missing int
	for _, issue := range result.Diagnostics.Issues {
		if issue.Kind == schema.MissingScheduleParticipantIssue {
			missing++
			assert.Equal(t, "XYZ", issue.Team)
		}
	}
	assert.Equal(t, 1, missing)

	history.AssertExpectations(t)
	history.AssertNumberOfCalls(t, "RecordTeamScore", 2*len(leagueTeams))
}

func TestRunBuildWithoutHistory(t *testing.T) {
	ctx := withQuiet(context.Background())
	source := seasonSource{"20252026": leagueRows(leagueTeams)}
	result, err := RunBuild(ctx, testConfig(), Sources{Metrics: source, Schedule: testSchedule()}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.TeamWeeks)
}

func TestRunBuildHistoryFailureDoesNotStopRun(t *testing.T) {
	ctx := withQuiet(context.Background())
	source := seasonSource{"20252026": leagueRows(leagueTeams)}
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := RunBuild(ctx, testConfig(), Sources{Metrics: source, Schedule: testSchedule()}, history)
	require.NoError(t, err)
	history.AssertNotCalled(t, "RecordTeamScore", mock.Anything, mock.Anything)
}

func TestRunBuildRequiresSchedule(t *testing.T) {
	_, err := RunBuild(context.Background(), testConfig(), Sources{Metrics: seasonSource{}}, nil)
	assert.Error(t, err)
}

func TestRunLookup(t *testing.T) {
	ctx := withQuiet(context.Background())
	source := seasonSource{"20252026": leagueRows(leagueTeams)}
	ratings, lookups, issues, err := RunLookup(ctx, testConfig(), Sources{Metrics: source, Schedule: testSchedule()})
	require.NoError(t, err)
	assert.NotNil(t, ratings)
	assert.Len(t, lookups.Defense, 6)
	require.Len(t, issues, 1)
	assert.Equal(t, "XYZ", issues[0].Team)
}

func TestTeamScoreRecords(t *testing.T) {
	ctx := withQuiet(context.Background())
	cfg := testConfig()
	cfg.Blend = true
	cfg.Week = 5
	source := seasonSource{
		"20252026": leagueRows(leagueTeams),
		"20242025": leagueRows(reversed(leagueTeams)),
	}
	ratings, err := LoadRatings(ctx, cfg, Sources{Metrics: source})
	require.NoError(t, err)

	now := time.Now()
	records := teamScoreRecords(ratings, 3, now)
	require.Len(t, records, 2*len(leagueTeams))
	for _, r := range records {
		assert.Equal(t, int64(3), r.RunID)
		assert.Equal(t, now, r.ScoreTime)
		require.NotNil(t, r.Blended)
		require.NotNil(t, r.Prior)
	}
	first := records[0]
	assert.Equal(t, "defense", first.Kind)
	assert.Equal(t, "ANA", first.Team)
	assert.InDelta(t, 80.0, *first.Blended, 1e-9)
	assert.Equal(t, "Elite", first.Tier)
}
