package algo

import (
	"sort"

	"github.com/puckline/matchup/schema"
)

// Combine builds one raw composite per team for the given kind.
//
// For each metric, the team's z-scores are averaged across the situations it
// has, weighted by the situation weights and renormalized over the situations
// present. The per-metric values are then combined with the metric weights,
// renormalized over the metrics present. Defense is sign-inverted so that
// allowing fewer chances ranks higher. Teams without any usable metric get no
// composite. The result is sorted by team.
func Combine(kind schema.Kind, standardized []schema.StandardizedMetric, weights schema.KindWeights) []schema.CompositeScore {
	type teamMetric struct {
		team   string
		metric schema.Metric
	}
	type acc struct{ sum, weight float64 }

	byMetric := make(map[teamMetric]*acc)
	for _, s := range standardized {
		mw, ok := weights.Metrics[s.Metric]
		if !ok || mw == 0 {
			continue
		}
		sw := weights.Situations[s.Situation]
		if sw <= 0 {
			continue
		}
		k := teamMetric{s.Team, s.Metric}
		if byMetric[k] == nil {
			byMetric[k] = &acc{}
		}
		byMetric[k].sum += sw * s.Z
		byMetric[k].weight += sw
	}

	byTeam := make(map[string]*acc)
	for k, a := range byMetric {
		value := a.sum / a.weight
		mw := weights.Metrics[k.metric]
		if byTeam[k.team] == nil {
			byTeam[k.team] = &acc{}
		}
		byTeam[k.team].sum += mw * value
		byTeam[k.team].weight += mw
	}

	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	sign := 1.0
	if kind == schema.Defense {
		sign = -1.0
	}
	out := make([]schema.CompositeScore, len(teams))
	for i, team := range teams {
		a := byTeam[team]
		out[i] = schema.CompositeScore{Team: team, Kind: kind, Raw: sign * a.sum / a.weight}
	}
	return out
}
