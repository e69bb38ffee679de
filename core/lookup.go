package core

import (
	"fmt"
	"sort"

	"github.com/puckline/matchup/core/algo"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// ScoreResolver finds an opponent's score for a given schedule week.
type ScoreResolver interface {
	// Resolve returns the score and tier of a team at a week. ok is false when
	// the team has no score entry.
	Resolve(team string, week int) (score float64, tier string, ok bool)
}

// StaticResolver serves the same table for every week.
type StaticResolver struct {
	Table schema.ScoreTable
}

// Resolve implements ScoreResolver.
func (r StaticResolver) Resolve(team string, _ int) (float64, string, bool) {
	s, ok := r.Table[team]
	if !ok {
		return 0, schema.TierUnknown, false
	}
	return s.Score, s.Tier, true
}

// WeeklyBlendResolver blends the current and prior tables at the requested week.
// Teams missing from the current table are unresolved even if the prior has them.
type WeeklyBlendResolver struct {
	Current    schema.ScoreTable
	Prior      schema.ScoreTable
	TotalWeeks int
	Tiers      schema.TierBands
}

// Resolve implements ScoreResolver.
func (r WeeklyBlendResolver) Resolve(team string, week int) (float64, string, bool) {
	current, ok := r.Current[team]
	if !ok {
		return 0, schema.TierUnknown, false
	}
	var prior *float64
	if p, ok := r.Prior[team]; ok {
		prior = &p.Score
	}
	value, _ := algo.BlendScore(current.Score, prior, week, r.TotalWeeks)
	return value, r.Tiers.Tier(value), true
}

// BuildLookup enriches every schedule row with the opponent's score for one kind.
// Row order is preserved. Opponents without a score get a nil score, the
// unknown tier and one missing-participant issue each.
func BuildLookup(kind schema.Kind, schedule []schema.ScheduleRow, resolver ScoreResolver) ([]schema.LookupRow, []schema.DataIssue) {
	rows := make([]schema.LookupRow, len(schedule))
	missing := make(map[string]int)
	for i, game := range schedule {
		row := schema.LookupRow{
			Team:       game.Team,
			Week:       game.Week,
			Opponent:   game.Opponent,
			Date:       game.Date,
			IsHome:     game.IsHome,
			LightNight: game.LightNight,
			Kind:       kind,
			Tier:       schema.TierUnknown,
		}
		if score, tier, ok := resolver.Resolve(game.Opponent, game.Week); ok {
			row.OpponentScore = &score
			row.Tier = tier
		} else {
			missing[game.Opponent]++
		}
		rows[i] = row
	}
	return rows, missingParticipantIssues(kind, missing)
}

// BuildLookups builds the primary (defense) and secondary (offense) lookups
// over the same schedule. Missing participants are reported once per opponent.
func BuildLookups(schedule []schema.ScheduleRow, defense, offense ScoreResolver) (schema.Lookups, []schema.DataIssue) {
	defRows, defIssues := BuildLookup(schema.Defense, schedule, defense)
	offRows, offIssues := BuildLookup(schema.Offense, schedule, offense)

	seen := make(map[string]struct{})
	var issues []schema.DataIssue
	for _, issue := range append(defIssues, offIssues...) {
		if _, ok := seen[issue.Team]; ok {
			continue
		}
		seen[issue.Team] = struct{}{}
		issues = append(issues, issue)
	}
	return schema.Lookups{Defense: defRows, Offense: offRows}, issues
}

func missingParticipantIssues(kind schema.Kind, missing map[string]int) []schema.DataIssue {
	teams := make([]string, 0, len(missing))
	for team := range missing {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	issues := make([]schema.DataIssue, 0, len(teams))
	for _, team := range teams {
		issues = append(issues, schema.DataIssue{
			Kind:   schema.MissingScheduleParticipantIssue,
			Team:   team,
			Detail: fmt.Sprintf("%v: %s has no %s score (%d game rows)", contract.ErrMissingScheduleParticipant, team, kind, missing[team]),
		})
	}
	return issues
}
