package algo

import (
	"sort"

	"github.com/puckline/matchup/schema"
)

// BlendWeight is the weight of the current season at a given week: 0 before
// the season, rising linearly to 1 at totalWeeks and staying there.
func BlendWeight(week, totalWeeks int) float64 {
	if totalWeeks <= 0 {
		return 1
	}
	if week <= 0 {
		return 0
	}
	return min(1.0, float64(week)/float64(totalWeeks))
}

// BlendScore mixes a current and prior scaled score. A nil prior returns the
// current score with weight 1.
func BlendScore(current float64, prior *float64, week, totalWeeks int) (float64, float64) {
	if prior == nil {
		return current, 1
	}
	w := BlendWeight(week, totalWeeks)
	if w >= 1 {
		return current, 1
	}
	return w*current + (1-w)*(*prior), w
}

// Blend combines current-season composites with prior-season composites of the
// same kind. Teams only found in the prior season are ignored. Tiers are
// re-derived from the blended value. The result is sorted by team.
func Blend(current, prior []schema.CompositeScore, week, totalWeeks int, tiers schema.TierBands) []schema.BlendedScore {
	priorByTeam := make(map[string]float64, len(prior))
	for _, p := range prior {
		priorByTeam[p.Team] = p.Scaled
	}

	out := make([]schema.BlendedScore, 0, len(current))
	for _, c := range current {
		var priorScore *float64
		if p, ok := priorByTeam[c.Team]; ok {
			priorScore = &p
		}
		value, w := BlendScore(c.Scaled, priorScore, week, totalWeeks)
		out = append(out, schema.BlendedScore{
			Team:        c.Team,
			Kind:        c.Kind,
			Value:       value,
			Tier:        tiers.Tier(value),
			Current:     c.Scaled,
			Prior:       priorScore,
			BlendWeight: w,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}
