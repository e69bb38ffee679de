package contract

import "errors"

// Error kinds shared by the engine and its collaborators. Wrap them with
// fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	// ErrInsufficientPopulation means fewer than two teams have a finite value for a slice.
	ErrInsufficientPopulation = errors.New("insufficient population")

	// ErrMissingScheduleParticipant means a schedule opponent has no score entry.
	ErrMissingScheduleParticipant = errors.New("missing schedule participant")

	// ErrConfiguration means a weight table, percentile window or tier table is invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrDegenerateDistribution means zero variance or zero percentile spread.
	// It is never returned by the engine, only recorded in diagnostics.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)
