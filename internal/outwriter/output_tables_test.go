package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTeamWeeks() []schema.TeamWeekRow {
	return []schema.TeamWeekRow{
		{Team: "BOS", Week: 1, Games: 3, LightNights: 1, Opponents: "TOR, MTL, CHI", SOS: score(45.5), OffenseSOS: score(52), MatchUp: "Good", Key: "BOS1"},
		{Team: "SEA", Week: 1, Games: 1, Opponents: "UTA", MatchUp: schema.TierUnknown, Key: "SEA1"},
	}
}

func sampleScores() []schema.RankedTeamScore {
	return schema.ScoreTable{
		"LAK": {Team: "LAK", Kind: schema.Defense, Score: 88, Tier: "Elite"},
		"BOS": {Team: "BOS", Kind: schema.Defense, Score: 62.5, Tier: "Strong"},
		"SJS": {Team: "SJS", Kind: schema.Defense, Score: 4, Tier: "Poor"},
	}.Ranked()
}

func TestWriteTeamWeekRows(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	path := filepath.Join(dir, "team_week.csv")
	require.NoError(t, writeTeamWeekRows(sampleTeamWeeks(), cfg, schema.CSVOut, path, 0))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "TM,Week,Games,LiteNite,Opponents,SOS,OffSOS,MatchUp,Key", lines[0])
	assert.Equal(t, `BOS,1,3,1,"TOR, MTL, CHI",45.5,52.0,Good,BOS1`, lines[1])
	assert.Equal(t, "SEA,1,1,0,UTA,,,Unknown,SEA1", lines[2])

	parquetPath := filepath.Join(dir, "team_week.parquet")
	require.NoError(t, writeTeamWeekRows(sampleTeamWeeks(), cfg, schema.ParquetOut, parquetPath, 0))
	rows, err := parquet.ReadFile[parquet.TeamWeekRow](parquetPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1].SOS)
	assert.Equal(t, "BOS1", rows[0].Key)
}

func TestWriteTeamWeekTable(t *testing.T) {
	cfg := testConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)
	var buf bytes.Buffer
	require.NoError(t, writeTeamWeekTable(&buf, sampleTeamWeeks(), cfg, fmtFloat, time.Second))
	out := buf.String()
	assert.Contains(t, out, "TOR, MTL, CHI")
	assert.Contains(t, out, "Showing 2 team weeks for 2 teams")
}

func TestWriteScoreTable(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.DottedCodes = true

	path := filepath.Join(dir, "scores.json")
	require.NoError(t, writeScoreTable(schema.Defense, sampleScores(), cfg, schema.JSONOut, path, 0))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []schema.RankedTeamScore
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "L.A", decoded[0].Team)
	assert.Equal(t, 1, decoded[0].Rank)
	assert.Equal(t, "BOS", decoded[1].Team)
	assert.Equal(t, "S.J", decoded[2].Team)

	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(cfg.Precision)
	require.NoError(t, writeScoreTableText(&buf, schema.Defense, displayScores(sampleScores(), false), cfg, fmtFloat, time.Second))
	assert.Contains(t, buf.String(), "LAK")
	assert.Contains(t, buf.String(), "Showing 3 teams by defense score (season 20252026)")
}

func TestDisplayScoresDoesNotModifyInput(t *testing.T) {
	scores := sampleScores()
	dotted := displayScores(scores, true)
	assert.Equal(t, "L.A", dotted[0].Team)
	assert.Equal(t, "LAK", scores[0].Team)
}

func TestWriteDiagnosticsReport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	report := schema.DiagnosticsReport{
		Season: "20252026",
		Alpha:  0.05,
		Metrics: []schema.MetricDiagnostics{{
			Situation: schema.EvenStrengthAdj,
			Metric:    schema.XGA60,
			Stats: schema.SummaryStats{
				N:          32,
				Mean:       score(2.5),
				JarqueBera: &schema.NormalityResult{Test: "jarque_bera", PValue: score(0.4)},
			},
		}},
		Kinds: []schema.KindDiagnostics{{Kind: schema.Defense, Raw: schema.SummaryStats{N: 32}, OutlierTeams: []string{"SJS"}}},
		Correlations: []schema.CorrelationReport{{
			Situation: schema.EvenStrengthAdj,
			Kind:      schema.Defense,
			HighPairs: []schema.CorrelationPair{{A: schema.XGA60, B: schema.SCA60, R: 0.91}},
		}},
		Issues: []schema.DataIssue{{Kind: schema.MissingScheduleParticipantIssue, Team: "UTA", Detail: "UTA has no defense score"}},
	}

	path := filepath.Join(dir, "diagnostics.json")
	require.NoError(t, writeDiagnosticsReport(report, cfg, schema.JSONOut, path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Contains(t, decoded, "per_metric")
	assert.Contains(t, decoded, "correlations")

	csvPath := filepath.Join(dir, "diagnostics.csv")
	require.NoError(t, writeDiagnosticsReport(report, cfg, schema.CSVOut, csvPath))
	content, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "sva,xga60,32,2.5,,,,,,,0.4,,false", lines[1])

	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)
	require.NoError(t, writeDiagnosticsText(&buf, report, fmtFloat))
	out := buf.String()
	assert.Contains(t, out, "Diagnostics for season 20252026 (alpha 0.05)")
	assert.Contains(t, out, "Correlated defense sva: xga60 ~ sca60 (r=0.91)")
	assert.Contains(t, out, "UTA has no defense score")
	assert.Contains(t, out, "1 data issues")

	assert.Error(t, writeDiagnosticsReport(report, cfg, schema.XLSXOut, filepath.Join(dir, "d.xlsx")))
}

func TestBuildWeightsRenderModel(t *testing.T) {
	model := buildWeightsRenderModel(testConfig())
	require.Len(t, model.Kinds, 2)

	defense := model.Kinds[0]
	assert.Equal(t, schema.Defense, defense.Kind)
	assert.Equal(t, "-(0.35*xga60+0.20*sca60+0.20*hdca60+0.15*ga60+0.10*sa60); z(metric) = 0.80*sva+0.10*pp+0.10*pk", defense.Formula)
	assert.Equal(t, 0.8, defense.Situations["sva"])

	offense := model.Kinds[1]
	assert.True(t, strings.HasPrefix(offense.Formula, "0.35*xgf60+"))
	assert.Equal(t, 25, model.TotalWeeks)

	records := weightsRecords(model)
	require.Len(t, records, 16)
	assert.Equal(t, []string{"defense", "situation", "sva", "0.8000"}, records[0])
	assert.Equal(t, []string{"defense", "metric", "xga60", "0.3500"}, records[3])
}

func TestWriteWeightsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeWeightsText(&buf, buildWeightsRenderModel(testConfig())))
	out := buf.String()
	assert.Contains(t, out, "Matchup Composite Weights")
	assert.Contains(t, out, "DEFENSE")
	assert.Contains(t, out, "Scaling window: p5 to p95, blended over 25 weeks")
	assert.Contains(t, out, "Poor>=0, Weak>=20")
}

func TestWriteBuildOutputs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := testConfig()
	cfg.OutputDir = dir

	out := BuildOutputs{
		Lookups:       schema.Lookups{Defense: sampleLookupRows(), Offense: sampleLookupRows()},
		TeamWeeks:     sampleTeamWeeks(),
		DefenseScores: sampleScores(),
		OffenseScores: sampleScores(),
		Diagnostics:   schema.DiagnosticsReport{Season: "20252026"},
	}
	require.NoError(t, WriteBuildOutputs(out, cfg, time.Second))

	for name, path := range BuildFileNames(dir, cfg.Output) {
		info, err := os.Stat(path)
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	_, err := os.Stat(filepath.Join(dir, "defense_lookup.csv"))
	assert.NoError(t, err, "text mode writes csv files")

	cfg.Output = schema.ParquetOut
	require.NoError(t, WriteBuildOutputs(out, cfg, time.Second))
	scores, err := parquet.ReadFile[parquet.ScoreRow](filepath.Join(dir, "team_offense_scores.parquet"))
	require.NoError(t, err)
	assert.Len(t, scores, 3)
}
