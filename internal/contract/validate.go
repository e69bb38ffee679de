package contract

import (
	"fmt"
	"math"
	"sort"

	"github.com/puckline/matchup/schema"
)

// ValidateWeights checks both kinds' weight tables.
func ValidateWeights(weights schema.Weights) error {
	for _, kind := range schema.AllKinds {
		kw, ok := weights[kind]
		if !ok {
			return fmt.Errorf("%w: missing weights for %s", ErrConfiguration, kind)
		}
		if err := ValidateSituationWeights(kind, kw.Situations); err != nil {
			return err
		}
		if err := ValidateMetricWeights(kind, kw.Metrics); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSituationWeights checks one kind's situation weight table.
func ValidateSituationWeights(kind schema.Kind, weights map[schema.Situation]float64) error {
	for s, w := range weights {
		if _, ok := schema.ValidSituations[s]; !ok {
			return fmt.Errorf("%w: unknown situation %q in %s weights", ErrConfiguration, s, kind)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s situation weight for %s must be finite and non-negative", ErrConfiguration, kind, s)
		}
	}
	if !schema.SumsToOne(weights) {
		return fmt.Errorf("%w: %s situation weights must sum to 1.0", ErrConfiguration, kind)
	}
	return nil
}

// ValidateMetricWeights checks one kind's metric weight table.
func ValidateMetricWeights(kind schema.Kind, weights map[schema.Metric]float64) error {
	allowed := make(map[schema.Metric]struct{})
	for _, m := range schema.MetricsForKind(kind) {
		allowed[m] = struct{}{}
	}
	for m, w := range weights {
		if _, ok := allowed[m]; !ok {
			return fmt.Errorf("%w: metric %q is not a %s metric", ErrConfiguration, m, kind)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s metric weight for %s must be finite and non-negative", ErrConfiguration, kind, m)
		}
	}
	if !schema.SumsToOne(weights) {
		return fmt.Errorf("%w: %s metric weights must sum to 1.0", ErrConfiguration, kind)
	}
	return nil
}

// ValidatePercentiles checks the scaler's percentile window.
func ValidatePercentiles(low, high float64) error {
	if low < 0 || high > 100 || math.IsNaN(low) || math.IsNaN(high) {
		return fmt.Errorf("%w: percentile window [%v, %v] must lie within [0, 100]", ErrConfiguration, low, high)
	}
	if low > high {
		return fmt.Errorf("%w: percentile window is inverted (%v > %v)", ErrConfiguration, low, high)
	}
	return nil
}

// ValidateTierBands checks that bands start at 0, ascend strictly and have unique labels.
func ValidateTierBands(bands schema.TierBands) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: at least one tier band is required", ErrConfiguration)
	}
	if bands[0].Min != 0 {
		return fmt.Errorf("%w: first tier band must start at 0, got %v", ErrConfiguration, bands[0].Min)
	}
	if !sort.SliceIsSorted(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min }) {
		return fmt.Errorf("%w: tier bands must be sorted by ascending minimum", ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(bands))
	for i, b := range bands {
		if b.Label == "" || b.Label == schema.TierUnknown {
			return fmt.Errorf("%w: tier band %d has a reserved or empty label", ErrConfiguration, i)
		}
		if b.Min < 0 || b.Min > 100 {
			return fmt.Errorf("%w: tier band %q minimum %v is outside [0, 100]", ErrConfiguration, b.Label, b.Min)
		}
		if i > 0 && b.Min == bands[i-1].Min {
			return fmt.Errorf("%w: tier bands %q and %q share a minimum", ErrConfiguration, bands[i-1].Label, b.Label)
		}
		if _, dup := seen[b.Label]; dup {
			return fmt.Errorf("%w: duplicate tier label %q", ErrConfiguration, b.Label)
		}
		seen[b.Label] = struct{}{}
	}
	return nil
}

// ValidateMatchupBands checks that matchup bands ascend strictly and have a fallback.
func ValidateMatchupBands(m schema.MatchupBands) error {
	if m.Fallback == "" {
		return fmt.Errorf("%w: matchup tiers need a fallback label", ErrConfiguration)
	}
	for i, b := range m.Bands {
		if b.Label == "" {
			return fmt.Errorf("%w: matchup band %d has an empty label", ErrConfiguration, i)
		}
		if i > 0 && b.Max <= m.Bands[i-1].Max {
			return fmt.Errorf("%w: matchup bands must be sorted by ascending maximum", ErrConfiguration)
		}
	}
	return nil
}
