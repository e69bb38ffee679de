// Package schema has configs, models and global variables for all parts of matchup.
package schema

import (
	"fmt"
	"time"
)

// TeamMetricRow is one raw per-60 rate for a team under a situation.
type TeamMetricRow struct {
	Team      string    `json:"team"`
	Situation Situation `json:"situation"`
	Metric    Metric    `json:"metric"`
	Value     float64   `json:"value"`
}

// MetricsTable is the full raw metrics population for one season.
type MetricsTable struct {
	Season string          `json:"season"`
	Rows   []TeamMetricRow `json:"rows"`
}

// StandardizedMetric is a z-score of one team within a (situation, metric) slice.
type StandardizedMetric struct {
	Team      string    `json:"team"`
	Situation Situation `json:"situation"`
	Metric    Metric    `json:"metric"`
	Z         float64   `json:"z"`
}

// CompositeScore is the scaled strength of one team for one kind.
type CompositeScore struct {
	Team   string  `json:"team"`
	Kind   Kind    `json:"kind"`
	Raw    float64 `json:"raw"`
	Scaled float64 `json:"scaled"` // always within [0,100]
	Tier   string  `json:"tier"`
}

// BlendedScore is a composite mixed with the prior season's composite.
type BlendedScore struct {
	Team        string   `json:"team"`
	Kind        Kind     `json:"kind"`
	Value       float64  `json:"value"`
	Tier        string   `json:"tier"`
	Current     float64  `json:"current"`
	Prior       *float64 `json:"prior"`
	BlendWeight float64  `json:"blend_weight"` // weight of the current season
}

// TeamScore is the simple per-team consumption format shared by composites and blends.
type TeamScore struct {
	Team  string  `json:"team"`
	Kind  Kind    `json:"kind"`
	Score float64 `json:"score"`
	Tier  string  `json:"tier"`
}

// ScoreTable maps a team code to its score for one kind.
type ScoreTable map[string]TeamScore

// ScheduleRow is one game seen from one team's side.
type ScheduleRow struct {
	Team       string    `json:"team" validate:"required,nefield=Opponent"`
	Opponent   string    `json:"opponent" validate:"required"`
	Week       int       `json:"week" validate:"min=1"`
	Date       time.Time `json:"date"`
	IsHome     bool      `json:"is_home"`
	LightNight bool      `json:"light_night"`
}

// LookupKey identifies a lookup row independent of its score.
type LookupKey struct {
	Team     string
	Week     int
	Opponent string
	Date     time.Time
}

// LookupRow is a schedule row enriched with the opponent's score for one kind.
// OpponentScore is nil when the opponent has no score entry.
type LookupRow struct {
	Team          string    `json:"team"`
	Week          int       `json:"week"`
	Opponent      string    `json:"opponent"`
	Date          time.Time `json:"date"`
	IsHome        bool      `json:"is_home"`
	LightNight    bool      `json:"light_night"`
	Kind          Kind      `json:"kind"`
	OpponentScore *float64  `json:"opponent_score"`
	Tier          string    `json:"tier"`
}

// Key returns the identity of the row.
func (r LookupRow) Key() LookupKey {
	return LookupKey{Team: r.Team, Week: r.Week, Opponent: r.Opponent, Date: r.Date}
}

// Lookups holds the primary (defense) and secondary (offense) lookup tables.
type Lookups struct {
	Defense []LookupRow `json:"defense"`
	Offense []LookupRow `json:"offense"`
}

// TeamWeekRow aggregates one team's games inside one week.
type TeamWeekRow struct {
	Team        string   `json:"team"`
	Week        int      `json:"week"`
	Games       int      `json:"games"`
	LightNights int      `json:"light_nights"`
	Opponents   string   `json:"opponents"`
	SOS         *float64 `json:"sos"`         // mean opponent defense score
	OffenseSOS  *float64 `json:"offense_sos"` // mean opponent offense score
	MatchUp     string   `json:"matchup"`
	Key         string   `json:"key"`
}

// TeamWeekKey builds the join key used by spreadsheet consumers, e.g. "BOS7".
func TeamWeekKey(team string, week int) string {
	return fmt.Sprintf("%s%d", team, week)
}

// ScalingSummary records the percentile window used for one population.
type ScalingSummary struct {
	Kind           Kind     `json:"kind"`
	PercentileLow  float64  `json:"percentile_low"`
	PercentileHigh float64  `json:"percentile_high"`
	Lo             float64  `json:"lo"`
	Hi             float64  `json:"hi"`
	Degenerate     bool     `json:"degenerate"`
	OutlierTeams   []string `json:"outlier_teams"`
}

// SliceSummary records how one (situation, metric) slice was normalized.
type SliceSummary struct {
	Situation    Situation `json:"situation"`
	Metric       Metric    `json:"metric"`
	Teams        int       `json:"teams"`
	Mean         float64   `json:"mean"`
	Std          float64   `json:"std"`
	Degenerate   bool      `json:"degenerate"`
	Insufficient bool      `json:"insufficient"`
	Excluded     []string  `json:"excluded,omitempty"` // teams dropped for incomplete data
}
