package schema

import "time"

// IssueKind classifies a data-quality issue surfaced in diagnostics.
type IssueKind string

// All issue kinds recorded by a run.
const (
	InsufficientPopulationIssue     IssueKind = "insufficient_population"
	DegenerateDistributionIssue     IssueKind = "degenerate_distribution"
	MissingScheduleParticipantIssue IssueKind = "missing_schedule_participant"
	IncompleteTeamIssue             IssueKind = "incomplete_team"
)

// NormalityResult is the outcome of one normality test. Nil fields mean the
// test could not run for the sample.
type NormalityResult struct {
	Test      string   `json:"test"`
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"p_value"`
}

// SummaryStats describes one numeric distribution.
type SummaryStats struct {
	N             int              `json:"n"`
	Mean          *float64         `json:"mean"`
	Std           *float64         `json:"std"`
	Skew          *float64         `json:"skew"`
	Kurtosis      *float64         `json:"excess_kurtosis"`
	Min           *float64         `json:"min"`
	Max           *float64         `json:"max"`
	DAgostino     *NormalityResult `json:"dagostino_k2"`
	JarqueBera    *NormalityResult `json:"jarque_bera"`
	NormalAtAlpha *bool            `json:"normal_at_alpha"`
}

// MetricDiagnostics is the summary of one (situation, metric) raw slice.
type MetricDiagnostics struct {
	Situation  Situation    `json:"situation"`
	Metric     Metric       `json:"metric"`
	Label      string       `json:"label"`
	Stats      SummaryStats `json:"stats"`
	Degenerate bool         `json:"degenerate"`
}

// CorrelationPair is a strongly correlated pair of metrics.
type CorrelationPair struct {
	A Metric  `json:"a"`
	B Metric  `json:"b"`
	R float64 `json:"r"`
}

// CorrelationReport is the Pearson matrix of one kind's metrics under one situation.
type CorrelationReport struct {
	Situation Situation         `json:"situation"`
	Kind      Kind              `json:"kind"`
	Metrics   []Metric          `json:"metrics"`
	Matrix    [][]*float64      `json:"matrix"`
	HighPairs []CorrelationPair `json:"high_pairs"`
	Threshold float64           `json:"threshold"`
	Teams     int               `json:"teams"`
}

// KindDiagnostics describes a composite population before and after scaling.
type KindDiagnostics struct {
	Kind           Kind           `json:"kind"`
	Raw            SummaryStats   `json:"raw"`
	Scaled         SummaryStats   `json:"scaled"`
	Blended        *SummaryStats  `json:"blended,omitempty"`
	PercentileLow  float64        `json:"percentile_low"`
	PercentileHigh float64        `json:"percentile_high"`
	Lo             *float64       `json:"lo"`
	Hi             *float64       `json:"hi"`
	Degenerate     bool           `json:"degenerate"`
	OutlierTeams   []string       `json:"outlier_teams"`
	TierCounts     map[string]int `json:"tier_counts"`
}

// DataIssue is one data-quality finding. It never stops a run.
type DataIssue struct {
	Kind      IssueKind `json:"kind"`
	Situation Situation `json:"situation,omitempty"`
	Metric    Metric    `json:"metric,omitempty"`
	Team      string    `json:"team,omitempty"`
	Week      int       `json:"week,omitempty"`
	Detail    string    `json:"detail"`
}

// DiagnosticsReport is the advisory report for one run.
type DiagnosticsReport struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	Season       string              `json:"season"`
	Alpha        float64             `json:"alpha"`
	Metrics      []MetricDiagnostics `json:"per_metric"`
	Kinds        []KindDiagnostics   `json:"per_kind"`
	Correlations []CorrelationReport `json:"correlations"`
	TeamWeekSOS  *SummaryStats       `json:"teamweek_sos,omitempty"`
	Issues       []DataIssue         `json:"issues"`
}
