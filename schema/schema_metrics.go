package schema

// WeightsKindView is one composite kind's weight tables for display purposes.
type WeightsKindView struct {
	Kind       Kind               `json:"kind"`
	Purpose    string             `json:"purpose"`
	Situations map[string]float64 `json:"situations"`
	Metrics    map[string]float64 `json:"metrics"`
	Formula    string             `json:"formula"`
}

// WeightsRenderModel contains all processed data needed for displaying weight definitions.
type WeightsRenderModel struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Kinds          []WeightsKindView `json:"kinds"`
	PercentileLow  float64           `json:"percentile_low"`
	PercentileHigh float64           `json:"percentile_high"`
	Tiers          TierBands         `json:"tiers"`
	TotalWeeks     int               `json:"total_weeks"`
}
