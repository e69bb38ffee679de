package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

var diagnosticsHeader = []string{
	"situation",
	"metric",
	"n",
	"mean",
	"std",
	"skew",
	"excess_kurtosis",
	"min",
	"max",
	"dagostino_p",
	"jarque_bera_p",
	"normal",
	"degenerate",
}

// WriteDiagnosticsReport outputs the diagnostics report. JSON carries the whole
// report while csv and text carry the per-metric summaries.
func WriteDiagnosticsReport(report schema.DiagnosticsReport, cfg *contract.Config) error {
	return writeDiagnosticsReport(report, cfg, cfg.Output, cfg.OutputFile)
}

func writeDiagnosticsReport(report schema.DiagnosticsReport, cfg *contract.Config, mode schema.OutputMode, outputFile string) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeTabular(tabular{
		name:   "diagnostics",
		header: diagnosticsHeader,
		records: func() [][]string {
			records := make([][]string, len(report.Metrics))
			for i, m := range report.Metrics {
				records[i] = []string{
					string(m.Situation),
					string(m.Metric),
					strconv.Itoa(m.Stats.N),
					formatOptional(m.Stats.Mean, fmtFloat),
					formatOptional(m.Stats.Std, fmtFloat),
					formatOptional(m.Stats.Skew, fmtFloat),
					formatOptional(m.Stats.Kurtosis, fmtFloat),
					formatOptional(m.Stats.Min, fmtFloat),
					formatOptional(m.Stats.Max, fmtFloat),
					formatPValue(m.Stats.DAgostino, fmtFloat),
					formatPValue(m.Stats.JarqueBera, fmtFloat),
					formatNormal(m.Stats.NormalAtAlpha),
					formatBool(m.Degenerate),
				}
			}
			return records
		},
		jsonData: func() any { return report },
		text: func(w io.Writer) error {
			return writeDiagnosticsText(w, report, fmtFloat)
		},
	}, mode, outputFile)
}

func formatPValue(r *schema.NormalityResult, fmtFloat func(float64) string) string {
	if r == nil {
		return ""
	}
	return formatOptional(r.PValue, fmtFloat)
}

func formatNormal(v *bool) string {
	if v == nil {
		return ""
	}
	return formatBool(*v)
}

// writeDiagnosticsText writes the per-kind and per-metric summaries followed
// by correlated pairs and data issues.
func writeDiagnosticsText(w io.Writer, report schema.DiagnosticsReport, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Diagnostics for season %s (alpha %s)\n\n", report.Season, fmtFloat(report.Alpha)); err != nil {
		return err
	}

	kinds := tablewriter.NewWriter(w)
	kinds.Header([]string{"Kind", "N", "Raw Mean", "Raw Std", "Lo", "Hi", "Normal", "Degenerate", "Outliers"})
	kinds.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var kindRows [][]string
	for _, k := range report.Kinds {
		kindRows = append(kindRows, []string{
			string(k.Kind),
			strconv.Itoa(k.Raw.N),
			formatOptional(k.Raw.Mean, fmtFloat),
			formatOptional(k.Raw.Std, fmtFloat),
			formatOptional(k.Lo, fmtFloat),
			formatOptional(k.Hi, fmtFloat),
			formatNormal(k.Raw.NormalAtAlpha),
			formatBool(k.Degenerate),
			strings.Join(k.OutlierTeams, ", "),
		})
	}
	if err := kinds.Bulk(kindRows); err != nil {
		return err
	}
	if err := kinds.Render(); err != nil {
		return err
	}

	metrics := tablewriter.NewWriter(w)
	metrics.Header([]string{"Situation", "Metric", "N", "Mean", "Std", "Skew", "JB p", "Normal"})
	metrics.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var metricRows [][]string
	for _, m := range report.Metrics {
		metricRows = append(metricRows, []string{
			string(m.Situation),
			string(m.Metric),
			strconv.Itoa(m.Stats.N),
			formatOptional(m.Stats.Mean, fmtFloat),
			formatOptional(m.Stats.Std, fmtFloat),
			formatOptional(m.Stats.Skew, fmtFloat),
			formatPValue(m.Stats.JarqueBera, fmtFloat),
			formatNormal(m.Stats.NormalAtAlpha),
		})
	}
	if err := metrics.Bulk(metricRows); err != nil {
		return err
	}
	if err := metrics.Render(); err != nil {
		return err
	}

	for _, c := range report.Correlations {
		for _, p := range c.HighPairs {
			if _, err := fmt.Fprintf(w, "Correlated %s %s: %s ~ %s (r=%s)\n", c.Kind, c.Situation, p.A, p.B, fmtFloat(p.R)); err != nil {
				return err
			}
		}
	}
	for _, issue := range report.Issues {
		if _, err := fmt.Fprintf(w, "Issue %s: %s\n", issue.Kind, issue.Detail); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d data issues\n", len(report.Issues))
	return err
}
