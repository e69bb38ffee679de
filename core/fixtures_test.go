package core

import (
	"context"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/mock"
)

var leagueTeams = []string{
	"ANA", "BOS", "BUF", "CAR", "CBJ", "CGY", "CHI", "COL",
	"DAL", "DET", "EDM", "FLA", "LAK", "MIN", "MTL", "NJD",
	"NSH", "NYI", "NYR", "OTT", "PHI", "PIT", "SEA", "SJS",
	"STL", "TBL", "TOR", "UTA", "VAN", "VGK", "WPG", "WSH",
}

// leagueRows builds a complete table where a later team in the list creates
// more and allows less in every situation.
func leagueRows(teams []string) []schema.TeamMetricRow {
	var rows []schema.TeamMetricRow
	for i, team := range teams {
		step := float64(i)
		for _, situation := range schema.AllSituations {
			for _, m := range schema.OffenseMetrics {
				rows = append(rows, schema.TeamMetricRow{Team: team, Situation: situation, Metric: m, Value: 1 + 0.1*step})
			}
			for _, m := range schema.DefenseMetrics {
				rows = append(rows, schema.TeamMetricRow{Team: team, Situation: situation, Metric: m, Value: 4 - 0.05*step})
			}
		}
	}
	return rows
}

func reversed(teams []string) []string {
	out := make([]string, len(teams))
	for i, team := range teams {
		out[len(teams)-1-i] = team
	}
	return out
}

func testConfig() *contract.Config {
	return &contract.Config{
		Season:         "20252026",
		PriorSeason:    "20242025",
		TotalWeeks:     25,
		PercentileLow:  contract.DefaultPercentileLow,
		PercentileHigh: contract.DefaultPercentileHigh,
		Weights:        schema.DefaultWeights(),
		Tiers:          schema.DefaultTierBands(),
		MatchupTiers:   schema.DefaultMatchupBands(),
	}
}

// seasonSource serves fixed rows per season.
type seasonSource map[string][]schema.TeamMetricRow

func (s seasonSource) FetchSituation(_ context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	var out []schema.TeamMetricRow
	for _, r := range s[season] {
		if r.Situation == situation {
			out = append(out, r)
		}
	}
	return out, nil
}

// staticSchedule serves fixed schedule rows.
type staticSchedule []schema.ScheduleRow

func (s staticSchedule) ReadSchedule(context.Context) ([]schema.ScheduleRow, error) {
	return s, nil
}

// mockMetricsSource is a testify mock of contract.MetricsSource.
type mockMetricsSource struct {
	mock.Mock
}

func (m *mockMetricsSource) FetchSituation(ctx context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	args := m.Called(ctx, season, situation)
	rows, _ := args.Get(0).([]schema.TeamMetricRow)
	return rows, args.Error(1)
}

// game returns both double-entry rows for one game.
func game(home, away string, week int, date time.Time) []schema.ScheduleRow {
	return []schema.ScheduleRow{
		{Team: home, Opponent: away, Week: week, Date: date, IsHome: true},
		{Team: away, Opponent: home, Week: week, Date: date},
	}
}

func rowsForSituation(rows []schema.TeamMetricRow, situation schema.Situation) []schema.TeamMetricRow {
	var out []schema.TeamMetricRow
	for _, r := range rows {
		if r.Situation == situation {
			out = append(out, r)
		}
	}
	return out
}
