package algo

import (
	"fmt"
	"math"
	"sort"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
	"gonum.org/v1/gonum/stat"
)

// minPopulation is the fewest distinct teams a slice can be normalized over.
const minPopulation = 2

// NormalizedSlice is the standardized population of one (situation, metric) slice.
type NormalizedSlice struct {
	Situation  schema.Situation
	Metric     schema.Metric
	Scores     []schema.StandardizedMetric // sorted by team
	Mean       float64
	Std        float64
	Degenerate bool // zero variance; every z is 0
}

// NormalizedTable holds every slice that could be normalized plus what happened to the rest.
type NormalizedTable struct {
	Slices    []NormalizedSlice
	Summaries []schema.SliceSummary
	Issues    []schema.DataIssue
}

// Standardized flattens every slice's z-scores.
func (t NormalizedTable) Standardized() []schema.StandardizedMetric {
	var out []schema.StandardizedMetric
	for _, s := range t.Slices {
		out = append(out, s.Scores...)
	}
	return out
}

// Normalize converts the rows of one (situation, metric) slice into z-scores
// using the population standard deviation. Rows for other slices and non-finite
// values are ignored. A repeated team keeps its last value.
func Normalize(situation schema.Situation, metric schema.Metric, rows []schema.TeamMetricRow) (NormalizedSlice, error) {
	values := make(map[string]float64)
	for _, r := range rows {
		if r.Situation != situation || r.Metric != metric {
			continue
		}
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		values[r.Team] = r.Value
	}

	out := NormalizedSlice{Situation: situation, Metric: metric}
	if len(values) < minPopulation {
		return out, fmt.Errorf("%s %s has %d team(s): %w", situation, metric, len(values), contract.ErrInsufficientPopulation)
	}

	teams := make([]string, 0, len(values))
	for team := range values {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	xs := make([]float64, len(teams))
	for i, team := range teams {
		xs[i] = values[team]
	}

	out.Mean, out.Std = stat.PopMeanStdDev(xs, nil)
	out.Degenerate = out.Std == 0 || math.IsNaN(out.Std)
	out.Scores = make([]schema.StandardizedMetric, len(teams))
	for i, team := range teams {
		z := 0.0
		if !out.Degenerate {
			z = (xs[i] - out.Mean) / out.Std
		}
		out.Scores[i] = schema.StandardizedMetric{Team: team, Situation: situation, Metric: metric, Z: z}
	}
	return out, nil
}

// NormalizeTable normalizes every (situation, metric) slice of a metrics table.
//
// Within a situation, a team lacking a finite value for any metric reported in
// that situation is dropped from all of that situation's slices. Slices with an
// insufficient population are left out and recorded as issues; degenerate slices
// are kept with zero scores and recorded as issues too.
func NormalizeTable(rows []schema.TeamMetricRow) NormalizedTable {
	type teamKey struct {
		situation schema.Situation
		team      string
	}
	metricsBySituation := make(map[schema.Situation]map[schema.Metric]struct{})
	finite := make(map[teamKey]map[schema.Metric]struct{})
	for _, r := range rows {
		if _, ok := metricsBySituation[r.Situation]; !ok {
			metricsBySituation[r.Situation] = make(map[schema.Metric]struct{})
		}
		metricsBySituation[r.Situation][r.Metric] = struct{}{}
		k := teamKey{r.Situation, r.Team}
		if _, ok := finite[k]; !ok {
			finite[k] = make(map[schema.Metric]struct{})
		}
		if !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
			finite[k][r.Metric] = struct{}{}
		}
	}

	var table NormalizedTable
	excluded := make(map[teamKey]bool)
	for k, have := range finite {
		if len(have) < len(metricsBySituation[k.situation]) {
			excluded[k] = true
		}
	}

	for _, situation := range schema.AllSituations {
		tracked, ok := metricsBySituation[situation]
		if !ok {
			continue
		}
		var dropped []string
		for k := range excluded {
			if k.situation == situation {
				dropped = append(dropped, k.team)
			}
		}
		sort.Strings(dropped)
		for _, team := range dropped {
			table.Issues = append(table.Issues, schema.DataIssue{
				Kind:      schema.IncompleteTeamIssue,
				Situation: situation,
				Team:      team,
				Detail:    fmt.Sprintf("%s missing one or more metrics under %s; excluded from that situation", team, situation),
			})
		}

		var kept []schema.TeamMetricRow
		for _, r := range rows {
			if r.Situation == situation && !excluded[teamKey{situation, r.Team}] {
				kept = append(kept, r)
			}
		}

		for _, metric := range schema.AllMetrics {
			if _, ok := tracked[metric]; !ok {
				continue
			}
			slice, err := Normalize(situation, metric, kept)
			summary := schema.SliceSummary{
				Situation:  situation,
				Metric:     metric,
				Teams:      len(slice.Scores),
				Mean:       slice.Mean,
				Std:        slice.Std,
				Degenerate: slice.Degenerate,
				Excluded:   dropped,
			}
			if err != nil {
				summary.Insufficient = true
				table.Summaries = append(table.Summaries, summary)
				table.Issues = append(table.Issues, schema.DataIssue{
					Kind:      schema.InsufficientPopulationIssue,
					Situation: situation,
					Metric:    metric,
					Detail:    err.Error(),
				})
				continue
			}
			if slice.Degenerate {
				table.Issues = append(table.Issues, schema.DataIssue{
					Kind:      schema.DegenerateDistributionIssue,
					Situation: situation,
					Metric:    metric,
					Detail:    fmt.Sprintf("%s %s: %v; all z-scores set to 0", situation, metric, contract.ErrDegenerateDistribution),
				})
			}
			table.Summaries = append(table.Summaries, summary)
			table.Slices = append(table.Slices, slice)
		}
	}
	return table
}
