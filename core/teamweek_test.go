package core

import (
	"testing"
	"time"

	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateTeamWeeks(t *testing.T) {
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	var schedule []schema.ScheduleRow
	schedule = append(schedule, game("BOS", "TOR", 2, monday)...)
	schedule = append(schedule, game("MTL", "BOS", 2, monday.AddDate(0, 0, 2))...)
	schedule = append(schedule, game("BOS", "XYZ", 3, monday.AddDate(0, 0, 7))...)
	schedule[2].LightNight = true
	schedule[3].LightNight = true

	defense := StaticResolver{Table: schema.ScoreTable{
		"TOR": {Score: 20, Tier: "Weak"},
		"MTL": {Score: 40, Tier: "Average"},
		"BOS": {Score: 90, Tier: "Elite"},
	}}
	offense := StaticResolver{Table: schema.ScoreTable{
		"TOR": {Score: 60},
		"MTL": {Score: 80},
		"BOS": {Score: 50},
	}}
	lookups, _ := BuildLookups(schedule, defense, offense)

	rows := AggregateTeamWeeks(lookups, schema.DefaultMatchupBands())
	require.Len(t, rows, 5)

	// Sorted by team, then week.
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"BOS2", "BOS3", "MTL2", "TOR2", "XYZ3"}, keys)

	bos2 := rows[0]
	assert.Equal(t, 2, bos2.Games)
	assert.Equal(t, 1, bos2.LightNights)
	assert.Equal(t, "TOR, MTL", bos2.Opponents)
	require.NotNil(t, bos2.SOS)
	assert.InDelta(t, 30.0, *bos2.SOS, 1e-9)
	require.NotNil(t, bos2.OffenseSOS)
	assert.InDelta(t, 70.0, *bos2.OffenseSOS, 1e-9)
	assert.Equal(t, "Excellent", bos2.MatchUp)

	// The only opponent has no score: SOS stays nil instead of being filled.
	bos3 := rows[1]
	assert.Equal(t, 1, bos3.Games)
	assert.Nil(t, bos3.SOS)
	assert.Nil(t, bos3.OffenseSOS)
	assert.Equal(t, schema.TierUnknown, bos3.MatchUp)

	xyz3 := rows[4]
	require.NotNil(t, xyz3.SOS)
	assert.Equal(t, 90.0, *xyz3.SOS)
	assert.Equal(t, "Difficult", xyz3.MatchUp)
}

func TestAggregateTeamWeeksEmpty(t *testing.T) {
	assert.Empty(t, AggregateTeamWeeks(schema.Lookups{}, schema.DefaultMatchupBands()))
}

func TestAggregateTeamWeeksMatchupBoundaries(t *testing.T) {
	bands := schema.DefaultMatchupBands()
	tests := []struct {
		sos  float64
		want string
	}{
		{30, "Excellent"},
		{30.01, "Good"},
		{50, "Good"},
		{70, "Average"},
		{70.5, "Difficult"},
	}
	for _, tt := range tests {
		score := tt.sos
		lookups := schema.Lookups{Defense: []schema.LookupRow{{Team: "BOS", Week: 1, Opponent: "TOR", OpponentScore: &score}}}
		rows := AggregateTeamWeeks(lookups, bands)
		require.Len(t, rows, 1)
		assert.Equal(t, tt.want, rows[0].MatchUp, "sos %v", tt.sos)
	}
}
