package core

import (
	"fmt"
	"sort"

	"github.com/puckline/matchup/core/algo"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// SeasonRatings is the normalize, combine and scale output for one season.
type SeasonRatings struct {
	Season     string                                  `json:"season"`
	Rows       []schema.TeamMetricRow                  `json:"-"`
	Normalized algo.NormalizedTable                    `json:"-"`
	Composites map[schema.Kind][]schema.CompositeScore `json:"composites"`
	Scalings   map[schema.Kind]schema.ScalingSummary   `json:"scalings"`
}

// Ratings holds the current season, the optional prior season and the blend between them.
type Ratings struct {
	Current    *SeasonRatings                        `json:"current"`
	Prior      *SeasonRatings                        `json:"prior,omitempty"`
	Blended    map[schema.Kind][]schema.BlendedScore `json:"blended,omitempty"`
	Week       int                                   `json:"week"`
	TotalWeeks int                                   `json:"total_weeks"`
	Tiers      schema.TierBands                      `json:"-"`
}

// BuildSeasonRatings standardizes one season's metrics and builds a scaled
// composite for every kind. It fails when a kind ends up with fewer than two teams.
func BuildSeasonRatings(season string, rows []schema.TeamMetricRow, params algo.Params) (*SeasonRatings, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	table := algo.NormalizeTable(rows)
	standardized := table.Standardized()

	out := &SeasonRatings{
		Season:     season,
		Rows:       rows,
		Normalized: table,
		Composites: make(map[schema.Kind][]schema.CompositeScore, len(schema.AllKinds)),
		Scalings:   make(map[schema.Kind]schema.ScalingSummary, len(schema.AllKinds)),
	}
	for _, kind := range schema.AllKinds {
		raw := algo.Combine(kind, standardized, params.Weights[kind])
		if len(raw) < 2 {
			return nil, fmt.Errorf("season %s %s composite has %d team(s): %w", season, kind, len(raw), contract.ErrInsufficientPopulation)
		}
		scaled, summary := algo.Scale(raw, params.PercentileLow, params.PercentileHigh, params.Tiers)
		summary.Kind = kind
		out.Composites[kind] = scaled
		out.Scalings[kind] = summary
	}
	return out, nil
}

// BuildRatings wraps the current season and, when a prior season is given, blends
// it with the prior season at the given week.
func BuildRatings(current *SeasonRatings, prior *SeasonRatings, week int, params algo.Params) *Ratings {
	r := &Ratings{
		Current:    current,
		Prior:      prior,
		Week:       week,
		TotalWeeks: params.TotalWeeks,
		Tiers:      params.Tiers,
	}
	if prior == nil {
		return r
	}
	r.Blended = make(map[schema.Kind][]schema.BlendedScore, len(schema.AllKinds))
	for _, kind := range schema.AllKinds {
		r.Blended[kind] = algo.Blend(current.Composites[kind], prior.Composites[kind], week, params.TotalWeeks, params.Tiers)
	}
	return r
}

// ScoreTable returns the per-team table for a kind: blended when a prior season
// is present, the current composite otherwise.
func (r *Ratings) ScoreTable(kind schema.Kind) schema.ScoreTable {
	if r.Blended != nil {
		return schema.ScoreTableFromBlended(r.Blended[kind])
	}
	return schema.ScoreTableFromComposites(r.Current.Composites[kind])
}

// Resolver returns the opponent score resolver for a kind. With a prior season
// the blend is re-computed at each schedule row's own week.
func (r *Ratings) Resolver(kind schema.Kind) ScoreResolver {
	if r.Prior == nil {
		return StaticResolver{Table: r.ScoreTable(kind)}
	}
	return WeeklyBlendResolver{
		Current:    schema.ScoreTableFromComposites(r.Current.Composites[kind]),
		Prior:      schema.ScoreTableFromComposites(r.Prior.Composites[kind]),
		TotalWeeks: r.TotalWeeks,
		Tiers:      r.Tiers,
	}
}

// Issues lists the data-quality issues found while rating both seasons.
func (r *Ratings) Issues() []schema.DataIssue {
	issues := append([]schema.DataIssue{}, r.Current.Normalized.Issues...)
	if r.Prior != nil {
		for _, issue := range r.Prior.Normalized.Issues {
			issue.Detail = fmt.Sprintf("prior season %s: %s", r.Prior.Season, issue.Detail)
			issues = append(issues, issue)
		}
	}
	return issues
}

// Teams lists every team rated in the current season.
func (r *Ratings) Teams() []string {
	seen := make(map[string]struct{})
	for _, kind := range schema.AllKinds {
		for _, c := range r.Current.Composites[kind] {
			seen[c.Team] = struct{}{}
		}
	}
	teams := make([]string, 0, len(seen))
	for team := range seen {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
