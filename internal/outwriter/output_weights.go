package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

var weightsHeader = []string{"kind", "table", "key", "weight"}

// kindPurposes describes each composite kind for the weights display.
var kindPurposes = map[schema.Kind]string{
	schema.Defense: "Opponent defense - how hard a team is to generate chances against",
	schema.Offense: "Opponent offense - how many chances a team generates",
}

// getDisplayNameForKind returns the display name with emoji for a given kind.
func getDisplayNameForKind(kind schema.Kind) string {
	switch kind {
	case schema.Defense:
		return "🛡️  DEFENSE"
	case schema.Offense:
		return "🏒 OFFENSE"
	default:
		return strings.ToUpper(string(kind))
	}
}

// formatWeights formats weights for display in formulas, in key order.
func formatWeights(weights map[string]float64, keys []string) string {
	var parts []string
	for _, key := range keys {
		if weight, ok := weights[key]; ok && weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", weight, key))
		}
	}
	return strings.Join(parts, "+")
}

// buildWeightsRenderModel constructs the complete render model from the active configuration.
func buildWeightsRenderModel(cfg *contract.Config) *schema.WeightsRenderModel {
	weights := cfg.Weights
	if weights == nil {
		weights = schema.DefaultWeights()
	}
	situationKeys := make([]string, len(schema.AllSituations))
	for i, s := range schema.AllSituations {
		situationKeys[i] = string(s)
	}

	kinds := make([]schema.WeightsKindView, 0, len(schema.AllKinds))
	for _, kind := range schema.AllKinds {
		kw := weights[kind]
		metricOrder := schema.OffenseMetrics
		if kind == schema.Defense {
			metricOrder = schema.DefenseMetrics
		}

		situations := make(map[string]float64, len(kw.Situations))
		for s, w := range kw.Situations {
			situations[string(s)] = w
		}
		metrics := make(map[string]float64, len(kw.Metrics))
		metricKeys := make([]string, len(metricOrder))
		for i, m := range metricOrder {
			metricKeys[i] = string(m)
		}
		for m, w := range kw.Metrics {
			metrics[string(m)] = w
		}

		formula := formatWeights(metrics, metricKeys)
		if kind == schema.Defense {
			formula = "-(" + formula + ")"
		}
		formula += "; z(metric) = " + formatWeights(situations, situationKeys)

		kinds = append(kinds, schema.WeightsKindView{
			Kind:       kind,
			Purpose:    kindPurposes[kind],
			Situations: situations,
			Metrics:    metrics,
			Formula:    formula,
		})
	}

	return &schema.WeightsRenderModel{
		Title:          "Matchup Composite Weights",
		Description:    "Composite = weighted sum of situation-weighted z-scores, scaled to 0-100 between percentiles",
		Kinds:          kinds,
		PercentileLow:  cfg.PercentileLow,
		PercentileHigh: cfg.PercentileHigh,
		Tiers:          cfg.Tiers,
		TotalWeeks:     cfg.TotalWeeks,
	}
}

// WriteWeightsDefinitions displays the active weight tables and scaling settings.
// This is a static display that does not fetch any metrics.
func WriteWeightsDefinitions(cfg *contract.Config) error {
	model := buildWeightsRenderModel(cfg)
	return writeTabular(tabular{
		name:     "weights",
		header:   weightsHeader,
		records:  func() [][]string { return weightsRecords(model) },
		jsonData: func() any { return model },
		text: func(w io.Writer) error {
			return writeWeightsText(w, model)
		},
	}, cfg.Output, cfg.OutputFile)
}

// weightsRecords flattens the model into one record per weight, in canonical order.
func weightsRecords(model *schema.WeightsRenderModel) [][]string {
	var records [][]string
	for _, k := range model.Kinds {
		for _, s := range schema.AllSituations {
			if w, ok := k.Situations[string(s)]; ok {
				records = append(records, []string{string(k.Kind), "situation", string(s), fmt.Sprintf("%.4f", w)})
			}
		}
		for _, m := range schema.AllMetrics {
			if w, ok := k.Metrics[string(m)]; ok {
				records = append(records, []string{string(k.Kind), "metric", string(m), fmt.Sprintf("%.4f", w)})
			}
		}
	}
	return records
}

// writeWeightsText displays weights in human-readable text format.
func writeWeightsText(w io.Writer, model *schema.WeightsRenderModel) error {
	if _, err := fmt.Fprintf(w, "🏒 %s\n", model.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n%s\n\n", strings.Repeat("=", len(model.Title)+3), model.Description); err != nil {
		return err
	}

	for _, k := range model.Kinds {
		if _, err := fmt.Fprintf(w, "%s: %s\n", getDisplayNameForKind(k.Kind), k.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: Score = %s\n\n", k.Formula); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "📏 Scaling window: p%g to p%g, blended over %d weeks\n", model.PercentileLow, model.PercentileHigh, model.TotalWeeks); err != nil {
		return err
	}
	labels := make([]string, len(model.Tiers))
	for i, t := range model.Tiers {
		labels[i] = fmt.Sprintf("%s>=%g", t.Label, t.Min)
	}
	_, err := fmt.Fprintf(w, "🏷️  Tiers: %s\n", strings.Join(labels, ", "))
	return err
}
