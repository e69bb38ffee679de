package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/puckline/matchup/core/algo"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRatings(t *testing.T, rows []schema.TeamMetricRow) *Ratings {
	t.Helper()
	params := algo.DefaultParams()
	current, err := BuildSeasonRatings("20252026", rows, params)
	require.NoError(t, err)
	return BuildRatings(current, nil, 0, params)
}

func TestBuildDiagnostics(t *testing.T) {
	ratings := buildTestRatings(t, leagueRows(leagueTeams))
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	sos := 42.0
	report := BuildDiagnostics(DiagnosticsInput{
		Ratings:   ratings,
		TeamWeeks: []schema.TeamWeekRow{{Team: "BOS", Week: 1, SOS: &sos}, {Team: "TOR", Week: 1}},
		Issues:    []schema.DataIssue{{Kind: schema.MissingScheduleParticipantIssue, Team: "XYZ"}},
		Now:       now,
	})

	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, "20252026", report.Season)
	assert.Equal(t, algo.DefaultAlpha, report.Alpha)

	require.Len(t, report.Metrics, 30)
	first := report.Metrics[0]
	assert.Equal(t, schema.EvenStrengthAdj, first.Situation)
	assert.Equal(t, schema.XGF60, first.Metric)
	assert.Equal(t, "xGF/60", first.Label)
	assert.Equal(t, len(leagueTeams), first.Stats.N)
	assert.NotNil(t, first.Stats.DAgostino)
	assert.NotNil(t, first.Stats.JarqueBera)
	assert.NotNil(t, first.Stats.NormalAtAlpha)

	require.Len(t, report.Kinds, 2)
	for _, kd := range report.Kinds {
		assert.Equal(t, len(leagueTeams), kd.Raw.N)
		assert.Equal(t, len(leagueTeams), kd.Scaled.N)
		assert.Nil(t, kd.Blended)
		require.NotNil(t, kd.Lo)
		require.NotNil(t, kd.Hi)
		assert.Less(t, *kd.Lo, *kd.Hi)
		assert.False(t, kd.Degenerate)
		total := 0
		for _, n := range kd.TierCounts {
			total += n
		}
		assert.Equal(t, len(leagueTeams), total)
	}

	// Every metric moves in lockstep, so all pairs are flagged.
	require.Len(t, report.Correlations, 6)
	for _, c := range report.Correlations {
		assert.Equal(t, len(leagueTeams), c.Teams)
		assert.Len(t, c.HighPairs, 10)
		require.NotNil(t, c.Matrix[0][0])
		assert.Equal(t, 1.0, *c.Matrix[0][0])
	}

	require.NotNil(t, report.TeamWeekSOS)
	assert.Equal(t, 1, report.TeamWeekSOS.N)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "XYZ", report.Issues[0].Team)
}

func TestBuildDiagnosticsDegenerateSlice(t *testing.T) {
	rows := leagueRows(leagueTeams)
	for i := range rows {
		if rows[i].Situation == schema.PenaltyKill && rows[i].Metric == schema.GF60 {
			rows[i].Value = 0.5
		}
	}
	report := BuildDiagnostics(DiagnosticsInput{Ratings: buildTestRatings(t, rows)})

	var found bool
	for _, m := range report.Metrics {
		if m.Situation == schema.PenaltyKill && m.Metric == schema.GF60 {
			found = true
			assert.True(t, m.Degenerate)
			require.NotNil(t, m.Stats.Std)
			assert.Equal(t, 0.0, *m.Stats.Std)
			assert.Nil(t, m.Stats.Skew)
		}
	}
	assert.True(t, found)

	require.NotEmpty(t, report.Issues)
	assert.Equal(t, schema.DegenerateDistributionIssue, report.Issues[0].Kind)

	// Zero variance has no defined correlation.
	for _, c := range report.Correlations {
		if c.Situation != schema.PenaltyKill || c.Kind != schema.Offense {
			continue
		}
		idx := -1
		for i, m := range c.Metrics {
			if m == schema.GF60 {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, 0)
		assert.Nil(t, c.Matrix[0][idx])
	}
}

func TestBuildDiagnosticsWithoutRatings(t *testing.T) {
	report := BuildDiagnostics(DiagnosticsInput{Issues: []schema.DataIssue{{Kind: schema.IncompleteTeamIssue}}})
	assert.Empty(t, report.Metrics)
	assert.Len(t, report.Issues, 1)
	assert.Nil(t, report.TeamWeekSOS)

	// Nil statistics still serialize.
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"per_metric":[]`)
}

func TestBuildDiagnosticsSmallSample(t *testing.T) {
	report := BuildDiagnostics(DiagnosticsInput{Ratings: buildTestRatings(t, leagueRows(leagueTeams[:4]))})
	require.NotEmpty(t, report.Metrics)
	stats := report.Metrics[0].Stats
	assert.Equal(t, 4, stats.N)
	assert.Nil(t, stats.DAgostino)
	require.NotNil(t, stats.JarqueBera)
	require.NotNil(t, stats.NormalAtAlpha)
}
