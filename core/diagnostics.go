package core

import (
	"math"
	"sort"
	"time"

	"github.com/puckline/matchup/core/algo"
	"github.com/puckline/matchup/schema"
)

// HighCorrelation is the |r| at which a metric pair is flagged as redundant.
const HighCorrelation = 0.8

// DiagnosticsInput gathers everything the diagnostics report is computed from.
type DiagnosticsInput struct {
	Ratings   *Ratings
	TeamWeeks []schema.TeamWeekRow
	Issues    []schema.DataIssue // issues found outside the rating engine, e.g. lookups
	Alpha     float64
	Now       time.Time
}

// BuildDiagnostics computes the advisory report. It never fails: statistics
// that cannot be computed are left nil.
func BuildDiagnostics(in DiagnosticsInput) schema.DiagnosticsReport {
	if in.Alpha <= 0 || in.Alpha >= 1 {
		in.Alpha = algo.DefaultAlpha
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	report := schema.DiagnosticsReport{
		GeneratedAt:  in.Now,
		Alpha:        in.Alpha,
		Metrics:      []schema.MetricDiagnostics{},
		Kinds:        []schema.KindDiagnostics{},
		Correlations: []schema.CorrelationReport{},
		Issues:       []schema.DataIssue{},
	}
	if in.Ratings == nil || in.Ratings.Current == nil {
		report.Issues = append(report.Issues, in.Issues...)
		return report
	}
	report.Season = in.Ratings.Current.Season

	values := rawValues(in.Ratings.Current.Rows, in.Ratings.Current.Normalized.Summaries)
	for _, summary := range in.Ratings.Current.Normalized.Summaries {
		k := sliceKey{summary.Situation, summary.Metric}
		report.Metrics = append(report.Metrics, schema.MetricDiagnostics{
			Situation:  summary.Situation,
			Metric:     summary.Metric,
			Label:      summary.Metric.Label(),
			Stats:      algo.Summarize(teamValues(values[k]), in.Alpha),
			Degenerate: summary.Degenerate,
		})
	}

	for _, situation := range schema.AllSituations {
		for _, kind := range schema.AllKinds {
			if c, ok := correlationReport(situation, kind, values); ok {
				report.Correlations = append(report.Correlations, c)
			}
		}
	}

	for _, kind := range schema.AllKinds {
		report.Kinds = append(report.Kinds, kindDiagnostics(in.Ratings, kind, in.Alpha))
	}

	if len(in.TeamWeeks) > 0 {
		var sos []float64
		for _, tw := range in.TeamWeeks {
			if tw.SOS != nil {
				sos = append(sos, *tw.SOS)
			}
		}
		stats := algo.Summarize(sos, in.Alpha)
		report.TeamWeekSOS = &stats
	}

	report.Issues = append(report.Issues, in.Ratings.Issues()...)
	report.Issues = append(report.Issues, in.Issues...)
	return report
}

type sliceKey struct {
	situation schema.Situation
	metric    schema.Metric
}

// rawValues collects the finite raw value of every team that took part in
// normalization, keyed by slice then team.
func rawValues(rows []schema.TeamMetricRow, summaries []schema.SliceSummary) map[sliceKey]map[string]float64 {
	excluded := make(map[sliceKey]map[string]struct{})
	for _, s := range summaries {
		set := make(map[string]struct{}, len(s.Excluded))
		for _, team := range s.Excluded {
			set[team] = struct{}{}
		}
		excluded[sliceKey{s.Situation, s.Metric}] = set
	}

	out := make(map[sliceKey]map[string]float64)
	for _, r := range rows {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		k := sliceKey{r.Situation, r.Metric}
		if _, drop := excluded[k][r.Team]; drop {
			continue
		}
		if out[k] == nil {
			out[k] = make(map[string]float64)
		}
		out[k][r.Team] = r.Value
	}
	return out
}

func teamValues(byTeam map[string]float64) []float64 {
	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	xs := make([]float64, len(teams))
	for i, team := range teams {
		xs[i] = byTeam[team]
	}
	return xs
}

// correlationReport builds the Pearson matrix over the kind's metrics reported
// under the situation, using only teams that have all of them.
func correlationReport(situation schema.Situation, kind schema.Kind, values map[sliceKey]map[string]float64) (schema.CorrelationReport, bool) {
	var metrics []schema.Metric
	for _, m := range schema.MetricsForKind(kind) {
		if len(values[sliceKey{situation, m}]) > 0 {
			metrics = append(metrics, m)
		}
	}
	if len(metrics) < 2 {
		return schema.CorrelationReport{}, false
	}

	var teams []string
	for team := range values[sliceKey{situation, metrics[0]}] {
		complete := true
		for _, m := range metrics[1:] {
			if _, ok := values[sliceKey{situation, m}][team]; !ok {
				complete = false
				break
			}
		}
		if complete {
			teams = append(teams, team)
		}
	}
	sort.Strings(teams)

	columns := make([][]float64, len(metrics))
	for i, m := range metrics {
		columns[i] = make([]float64, len(teams))
		for j, team := range teams {
			columns[i][j] = values[sliceKey{situation, m}][team]
		}
	}

	report := schema.CorrelationReport{
		Situation: situation,
		Kind:      kind,
		Metrics:   metrics,
		Matrix:    make([][]*float64, len(metrics)),
		HighPairs: []schema.CorrelationPair{},
		Threshold: HighCorrelation,
		Teams:     len(teams),
	}
	for i := range metrics {
		report.Matrix[i] = make([]*float64, len(metrics))
		for j := range metrics {
			var r float64
			if i == j {
				r = 1
				if len(teams) < 2 {
					r = math.NaN()
				}
			} else {
				r = algo.Correlation(columns[i], columns[j])
			}
			if !math.IsNaN(r) {
				v := r
				report.Matrix[i][j] = &v
			}
			if j > i && !math.IsNaN(r) && math.Abs(r) >= HighCorrelation {
				report.HighPairs = append(report.HighPairs, schema.CorrelationPair{A: metrics[i], B: metrics[j], R: r})
			}
		}
	}
	return report, true
}

func kindDiagnostics(r *Ratings, kind schema.Kind, alpha float64) schema.KindDiagnostics {
	composites := r.Current.Composites[kind]
	raws := make([]float64, len(composites))
	scaled := make([]float64, len(composites))
	for i, c := range composites {
		raws[i] = c.Raw
		scaled[i] = c.Scaled
	}
	scaling := r.Current.Scalings[kind]
	out := schema.KindDiagnostics{
		Kind:           kind,
		Raw:            algo.Summarize(raws, alpha),
		Scaled:         algo.Summarize(scaled, alpha),
		PercentileLow:  scaling.PercentileLow,
		PercentileHigh: scaling.PercentileHigh,
		Lo:             finitePtr(scaling.Lo),
		Hi:             finitePtr(scaling.Hi),
		Degenerate:     scaling.Degenerate,
		OutlierTeams:   append([]string{}, scaling.OutlierTeams...),
		TierCounts:     make(map[string]int),
	}
	if r.Blended != nil {
		blended := make([]float64, len(r.Blended[kind]))
		for i, b := range r.Blended[kind] {
			blended[i] = b.Value
		}
		stats := algo.Summarize(blended, alpha)
		out.Blended = &stats
	}
	for _, s := range r.ScoreTable(kind) {
		out.TierCounts[s.Tier]++
	}
	return out
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
