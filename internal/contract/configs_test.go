package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input equivalent to the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Season:             DefaultSeason,
		TotalWeeks:         DefaultTotalWeeks,
		PercentileLow:      DefaultPercentileLow,
		PercentileHigh:     DefaultPercentileHigh,
		CacheRefreshDays:   DefaultCacheRefreshDays,
		Output:             "text",
		Precision:          DefaultPrecision,
		Color:              "yes",
		CacheBackend:       "sqlite",
		WeekStartDay:       DefaultWeekStartDay,
		SeasonStart:        DefaultSeasonStart,
		LightNightMethod:   string(schema.ByGamesThreshold),
		LightNightMaxGames: DefaultLightNightMaxGames,
		LightNightFraction: DefaultLightNightFraction,
		Kind:               "defense",
		Limit:              DefaultLimit,
	}
}

func TestProcessAndValidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, "20252026", cfg.Season)
	assert.Equal(t, "20242025", cfg.PriorSeason)
	assert.Equal(t, time.Monday, cfg.WeekStartDay)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), cfg.SeasonStart)
	assert.Equal(t, schema.Defense, cfg.Kind)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, schema.DefaultTierBands(), cfg.Tiers)
	assert.Equal(t, schema.DefaultMatchupBands(), cfg.MatchupTiers)
	assert.Equal(t, schema.DefaultWeights(), cfg.Weights)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, DefaultTotalWeeks, cfg.ScoringWeek())
}

func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(in *ConfigRawInput)
		configError bool
	}{
		{"invalid output", func(in *ConfigRawInput) { in.Output = "yaml" }, false},
		{"invalid kind", func(in *ConfigRawInput) { in.Kind = "goalie" }, false},
		{"limit too high", func(in *ConfigRawInput) { in.Limit = MaxLimit + 1 }, false},
		{"bad color", func(in *ConfigRawInput) { in.Color = "sometimes" }, false},
		{"negative week", func(in *ConfigRawInput) { in.Week = -1 }, false},
		{"bad season", func(in *ConfigRawInput) { in.Season = "2025" }, false},
		{"bad prior season", func(in *ConfigRawInput) { in.PriorSeason = "last" }, false},
		{"bad week start", func(in *ConfigRawInput) { in.WeekStartDay = "FUNDAY" }, false},
		{"bad season start", func(in *ConfigRawInput) { in.SeasonStart = "10/01/2025" }, false},
		{"bad light night method", func(in *ConfigRawInput) { in.LightNightMethod = "by_vibes" }, false},
		{"bad light night fraction", func(in *ConfigRawInput) { in.LightNightFraction = 1.5 }, false},
		{"bad cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }, false},
		{"mysql without dsn", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, false},
		{"zero horizon", func(in *ConfigRawInput) { in.TotalWeeks = 0 }, true},
		{"inverted window", func(in *ConfigRawInput) { in.PercentileLow, in.PercentileHigh = 95, 5 }, true},
		{"weights do not sum to one", func(in *ConfigRawInput) {
			in.Weights.Offense = map[string]float64{"xgf60": 0.50}
		}, true},
		{"unknown metric typo", func(in *ConfigRawInput) {
			in.Weights.Defense = map[string]float64{"xga6o": 0.0}
		}, true},
		{"unknown situation", func(in *ConfigRawInput) {
			in.Weights.Situations = map[string]float64{"ev": 0.0}
		}, true},
		{"duplicate tier labels", func(in *ConfigRawInput) {
			in.Tiers = []schema.TierBand{{Label: "Low", Min: 0}, {Label: "Low", Min: 50}}
		}, true},
		{"matchup bands out of order", func(in *ConfigRawInput) {
			in.MatchupTiers = schema.MatchupBands{Bands: []schema.MatchupBand{{Label: "A", Max: 50}, {Label: "B", Max: 30}}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := ProcessAndValidate(&Config{}, in)
			require.Error(t, err)
			if tt.configError {
				assert.ErrorIs(t, err, ErrConfiguration)
			}
		})
	}
}

func TestProcessWeightsRawInput(t *testing.T) {
	weights, err := ProcessWeightsRawInput(WeightsRawInput{
		Situations: map[string]float64{"sva": 0.70, "pp": 0.15, "pk": 0.15},
		Offense:    map[string]float64{"xgf60": 0.30, "sf60": 0.15},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.70, weights[schema.Offense].Situations[schema.EvenStrengthAdj], 1e-12)
	assert.InDelta(t, 0.70, weights[schema.Defense].Situations[schema.EvenStrengthAdj], 1e-12)
	assert.InDelta(t, 0.30, weights[schema.Offense].Metrics[schema.XGF60], 1e-12)
	assert.InDelta(t, 0.20, weights[schema.Offense].Metrics[schema.SCF60], 1e-12)
	assert.InDelta(t, 0.35, weights[schema.Defense].Metrics[schema.XGA60], 1e-12)
}

func TestProcessWeightsRawInputPerKindSituations(t *testing.T) {
	weights, err := ProcessWeightsRawInput(WeightsRawInput{
		Situations:        map[string]float64{"sva": 0.70, "pp": 0.15, "pk": 0.15},
		DefenseSituations: map[string]float64{"sva": 0.60, "pp": 0.0, "pk": 0.40},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.60, weights[schema.Defense].Situations[schema.EvenStrengthAdj], 1e-12)
	assert.InDelta(t, 0.40, weights[schema.Defense].Situations[schema.PenaltyKill], 1e-12)
	assert.InDelta(t, 0.70, weights[schema.Offense].Situations[schema.EvenStrengthAdj], 1e-12)

	_, err = ProcessWeightsRawInput(WeightsRawInput{
		OffenseSituations: map[string]float64{"sva": 0.90, "pp": 0.20},
	})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = ProcessWeightsRawInput(WeightsRawInput{
		OffenseSituations: map[string]float64{"ev": 1.0},
	})
	assert.ErrorContains(t, err, "weights.offense_situations")
}

func TestProcessTiersSortsBands(t *testing.T) {
	in := validInput()
	in.Tiers = []schema.TierBand{{Label: "Top", Min: 50}, {Label: "Bottom", Min: 0}}
	in.MatchupTiers = schema.MatchupBands{Fallback: "Hard"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.Equal(t, []string{"Bottom", "Top"}, cfg.Tiers.Labels())
	assert.Equal(t, "Hard", cfg.MatchupTiers.Fallback)
	assert.Len(t, cfg.MatchupTiers.Bands, 3)
}

func TestValidateBackendConfigs(t *testing.T) {
	t.Run("same sqlite file", func(t *testing.T) {
		in := validInput()
		path := filepath.Join(t.TempDir(), "shared.db")
		in.CacheDBConnect = path
		in.HistoryBackend = "sqlite"
		in.HistoryDBConnect = path
		assert.Error(t, ProcessAndValidate(&Config{}, in))
	})

	t.Run("default sqlite files differ", func(t *testing.T) {
		in := validInput()
		in.HistoryBackend = "sqlite"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	})

	t.Run("postgres history", func(t *testing.T) {
		in := validInput()
		in.HistoryBackend = "postgresql"
		in.HistoryDBConnect = "host=localhost dbname=matchup"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.Equal(t, schema.PostgreSQLBackend, cfg.HistoryBackend)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/matchup", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/matchup", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=matchup", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	clone := cfg.Clone()
	clone.Weights[schema.Defense].Metrics[schema.XGA60] = 0.9
	clone.Tiers[0].Label = "Changed"
	clone.MatchupTiers.Bands[0].Max = 1
	clone.Week = 7

	assert.InDelta(t, 0.35, cfg.Weights[schema.Defense].Metrics[schema.XGA60], 1e-12)
	assert.Equal(t, "Poor", cfg.Tiers[0].Label)
	assert.Equal(t, 30.0, cfg.MatchupTiers.Bands[0].Max)
	assert.Equal(t, 0, cfg.Week)
	assert.Equal(t, 7, clone.ScoringWeek())
}
