package schema

import (
	"maps"
	"math"
)

// WeightTolerance is the allowed drift of a weight table sum from 1.0.
const WeightTolerance = 1e-9

// KindWeights holds the situation and metric weights used to build one composite kind.
type KindWeights struct {
	Situations map[Situation]float64 `json:"situations"`
	Metrics    map[Metric]float64    `json:"metrics"`
}

// Weights maps each composite kind to its weight tables.
type Weights map[Kind]KindWeights

// DefaultSituationWeights returns the default situation weights.
// Even strength dominates while special teams share the rest.
func DefaultSituationWeights() map[Situation]float64 {
	return map[Situation]float64{
		EvenStrengthAdj: 0.80,
		PowerPlay:       0.10,
		PenaltyKill:     0.10,
	}
}

// DefaultOffenseWeights returns the default offense metric weights.
func DefaultOffenseWeights() map[Metric]float64 {
	return map[Metric]float64{
		XGF60:  0.35,
		SCF60:  0.20,
		HDCF60: 0.20,
		GF60:   0.15,
		SF60:   0.10,
	}
}

// DefaultDefenseWeights returns the default defense metric weights.
func DefaultDefenseWeights() map[Metric]float64 {
	return map[Metric]float64{
		XGA60:  0.35,
		SCA60:  0.20,
		HDCA60: 0.20,
		GA60:   0.15,
		SA60:   0.10,
	}
}

// DefaultWeights returns a fresh copy of the default weight tables for both kinds.
func DefaultWeights() Weights {
	return Weights{
		Defense: {Situations: DefaultSituationWeights(), Metrics: DefaultDefenseWeights()},
		Offense: {Situations: DefaultSituationWeights(), Metrics: DefaultOffenseWeights()},
	}
}

// Clone returns a deep copy of the weights.
func (w Weights) Clone() Weights {
	clone := make(Weights, len(w))
	for kind, kw := range w {
		clone[kind] = KindWeights{
			Situations: maps.Clone(kw.Situations),
			Metrics:    maps.Clone(kw.Metrics),
		}
	}
	return clone
}

// SumsToOne reports whether the values add up to 1.0 within WeightTolerance.
func SumsToOne[K comparable](weights map[K]float64) bool {
	var sum float64
	for _, v := range weights {
		sum += v
	}
	return math.Abs(sum-1.0) <= WeightTolerance
}
