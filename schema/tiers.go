package schema

import "math"

// TierUnknown is the sentinel tier for rows without a score.
const TierUnknown = "Unknown"

// TierBand is a labeled lower bound on the scaled score.
type TierBand struct {
	Label string  `json:"label" mapstructure:"label"`
	Min   float64 `json:"min" mapstructure:"min"`
}

// TierBands is a step function over [0,100], sorted by ascending Min.
type TierBands []TierBand

// DefaultTierBands returns five equal-width bands from Poor to Elite.
func DefaultTierBands() TierBands {
	return TierBands{
		{Label: "Poor", Min: 0},
		{Label: "Weak", Min: 20},
		{Label: "Average", Min: 40},
		{Label: "Strong", Min: 60},
		{Label: "Elite", Min: 80},
	}
}

// Tier returns the label of the highest band whose Min does not exceed the score.
// Scores below the first band fall into the first band.
func (b TierBands) Tier(score float64) string {
	if len(b) == 0 || math.IsNaN(score) {
		return TierUnknown
	}
	label := b[0].Label
	for _, band := range b {
		if score >= band.Min {
			label = band.Label
		}
	}
	return label
}

// TierOf is like Tier but handles a missing score.
func (b TierBands) TierOf(score *float64) string {
	if score == nil {
		return TierUnknown
	}
	return b.Tier(*score)
}

// Labels returns the band labels from lowest to highest.
func (b TierBands) Labels() []string {
	labels := make([]string, len(b))
	for i, band := range b {
		labels[i] = band.Label
	}
	return labels
}

// MatchupBand is a labeled upper bound (inclusive) on a strength-of-schedule value.
type MatchupBand struct {
	Label string  `json:"label" mapstructure:"label"`
	Max   float64 `json:"max" mapstructure:"max"`
}

// MatchupBands classifies a weekly SOS, sorted by ascending Max.
// Values above the last Max get the fallback label.
type MatchupBands struct {
	Bands    []MatchupBand `json:"bands" mapstructure:"bands"`
	Fallback string        `json:"fallback" mapstructure:"fallback"`
}

// DefaultMatchupBands returns the weekly matchup labels. A low opponent
// defense score makes for an easy week.
func DefaultMatchupBands() MatchupBands {
	return MatchupBands{
		Bands: []MatchupBand{
			{Label: "Excellent", Max: 30},
			{Label: "Good", Max: 50},
			{Label: "Average", Max: 70},
		},
		Fallback: "Difficult",
	}
}

// Label classifies the value. A missing value is TierUnknown.
func (m MatchupBands) Label(value *float64) string {
	if value == nil || math.IsNaN(*value) {
		return TierUnknown
	}
	for _, band := range m.Bands {
		if *value <= band.Max {
			return band.Label
		}
	}
	return m.Fallback
}
