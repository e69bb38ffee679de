package algo

import (
	"math"
	"sort"

	"github.com/puckline/matchup/schema"
)

// midpoint is the scaled score every team gets when the window has no spread.
const midpoint = 50.0

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between closest ranks: rank = p/100 * (n-1).
// NaN values are ignored; an empty input returns NaN.
func Percentile(values []float64, p float64) float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return math.NaN()
	}
	sort.Float64s(xs)
	if p <= 0 {
		return xs[0]
	}
	if p >= 100 {
		return xs[len(xs)-1]
	}
	rank := p / 100 * float64(len(xs)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	frac := rank - float64(lower)
	if frac == 0 {
		return xs[lower]
	}
	return xs[lower] + frac*(xs[upper]-xs[lower])
}

// ScaleValue maps raw onto [0,100] through the window [lo, hi] and clips.
// A window without spread maps to 50.
func ScaleValue(raw, lo, hi float64) float64 {
	if hi == lo || math.IsNaN(lo) || math.IsNaN(hi) || math.IsNaN(raw) {
		return midpoint
	}
	v := 100 * (raw - lo) / (hi - lo)
	if math.IsNaN(v) {
		return midpoint
	}
	if v == 0 {
		return 0
	}
	return clamp(v, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scale fills the Scaled and Tier fields of a raw composite population using
// the [low, high] percentile window. Teams outside the window are clipped and
// reported as outliers, never removed. The input slice is not modified.
func Scale(composites []schema.CompositeScore, low, high float64, tiers schema.TierBands) ([]schema.CompositeScore, schema.ScalingSummary) {
	raws := make([]float64, len(composites))
	for i, c := range composites {
		raws[i] = c.Raw
	}

	summary := schema.ScalingSummary{PercentileLow: low, PercentileHigh: high, OutlierTeams: []string{}}
	if len(composites) > 0 {
		summary.Kind = composites[0].Kind
	}
	summary.Lo = Percentile(raws, low)
	summary.Hi = Percentile(raws, high)
	summary.Degenerate = summary.Hi == summary.Lo || math.IsNaN(summary.Lo) || math.IsNaN(summary.Hi)

	out := make([]schema.CompositeScore, len(composites))
	for i, c := range composites {
		c.Scaled = ScaleValue(c.Raw, summary.Lo, summary.Hi)
		c.Tier = tiers.Tier(c.Scaled)
		out[i] = c
		if c.Raw < summary.Lo || c.Raw > summary.Hi {
			summary.OutlierTeams = append(summary.OutlierTeams, c.Team)
		}
	}
	sort.Strings(summary.OutlierTeams)
	return out, summary
}
