package schema

import "time"

// CachedMetrics is the cache payload for one season and situation.
type CachedMetrics struct {
	Version   int             `json:"version"`
	Season    string          `json:"season"`
	Situation Situation       `json:"situation"`
	Rows      []TeamMetricRow `json:"rows"`
}

// RunParams summarizes the inputs of one rating run for the history store.
type RunParams struct {
	Season         string  `json:"season"`
	PriorSeason    string  `json:"prior_season,omitempty"`
	Blend          bool    `json:"blend"`
	Week           int     `json:"week"`
	TotalWeeks     int     `json:"total_weeks"`
	PercentileLow  float64 `json:"percentile_low"`
	PercentileHigh float64 `json:"percentile_high"`
	Weights        Weights `json:"weights"`
}

// HistoryRunRecord represents a row from the matchup_runs table.
type HistoryRunRecord struct {
	RunID         int64
	RunUUID       string
	Season        string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TeamsScored   int32
	ConfigParams  *string
}
