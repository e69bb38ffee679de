package core

import (
	"sort"

	"github.com/puckline/matchup/schema"
)

type teamWeek struct {
	team string
	week int
}

type teamWeekAcc struct {
	games       int
	lightNights int
	opponents   []string
	defSum      float64
	defN        int
	offSum      float64
	offN        int
}

// AggregateTeamWeeks groups lookup rows by (team, week). SOS is the mean
// opponent defense score over opponents that have one and stays nil when none
// do. Rows are sorted by team, then week.
func AggregateTeamWeeks(lookups schema.Lookups, bands schema.MatchupBands) []schema.TeamWeekRow {
	acc := make(map[teamWeek]*teamWeekAcc)
	for _, r := range lookups.Defense {
		k := teamWeek{r.Team, r.Week}
		a, ok := acc[k]
		if !ok {
			a = &teamWeekAcc{}
			acc[k] = a
		}
		a.games++
		if r.LightNight {
			a.lightNights++
		}
		a.opponents = append(a.opponents, r.Opponent)
		if r.OpponentScore != nil {
			a.defSum += *r.OpponentScore
			a.defN++
		}
	}
	for _, r := range lookups.Offense {
		a, ok := acc[teamWeek{r.Team, r.Week}]
		if !ok || r.OpponentScore == nil {
			continue
		}
		a.offSum += *r.OpponentScore
		a.offN++
	}

	keys := make([]teamWeek, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		return keys[i].week < keys[j].week
	})

	rows := make([]schema.TeamWeekRow, 0, len(keys))
	for _, k := range keys {
		a := acc[k]
		row := schema.TeamWeekRow{
			Team:        k.team,
			Week:        k.week,
			Games:       a.games,
			LightNights: a.lightNights,
			Opponents:   schema.FormatOpponents(a.opponents),
			SOS:         mean(a.defSum, a.defN),
			OffenseSOS:  mean(a.offSum, a.offN),
			Key:         schema.TeamWeekKey(k.team, k.week),
		}
		row.MatchUp = bands.Label(row.SOS)
		rows = append(rows, row)
	}
	return rows
}

func mean(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	v := sum / float64(n)
	return &v
}
