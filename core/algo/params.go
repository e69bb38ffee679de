package algo

import (
	"fmt"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// Params is the immutable configuration consumed by the engine.
type Params struct {
	Weights        schema.Weights
	PercentileLow  float64
	PercentileHigh float64
	Tiers          schema.TierBands
	TotalWeeks     int
}

// DefaultParams returns the default engine parameters.
func DefaultParams() Params {
	return Params{
		Weights:        schema.DefaultWeights(),
		PercentileLow:  contract.DefaultPercentileLow,
		PercentileHigh: contract.DefaultPercentileHigh,
		Tiers:          schema.DefaultTierBands(),
		TotalWeeks:     contract.DefaultTotalWeeks,
	}
}

// Validate checks every table and bound. All failures wrap contract.ErrConfiguration.
func (p Params) Validate() error {
	if err := contract.ValidateWeights(p.Weights); err != nil {
		return err
	}
	if err := contract.ValidatePercentiles(p.PercentileLow, p.PercentileHigh); err != nil {
		return err
	}
	if err := contract.ValidateTierBands(p.Tiers); err != nil {
		return err
	}
	if p.TotalWeeks < 1 {
		return fmt.Errorf("%w: total weeks must be at least 1, got %d", contract.ErrConfiguration, p.TotalWeeks)
	}
	return nil
}

// ParamsFromConfig extracts the engine parameters from a validated config.
func ParamsFromConfig(cfg *contract.Config) Params {
	return Params{
		Weights:        cfg.Weights.Clone(),
		PercentileLow:  cfg.PercentileLow,
		PercentileHigh: cfg.PercentileHigh,
		Tiers:          cfg.Tiers,
		TotalWeeks:     cfg.TotalWeeks,
	}
}
