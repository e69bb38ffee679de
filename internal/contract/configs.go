package contract

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/puckline/matchup/schema"
)

// Default values for configuration.
const (
	DefaultSeason             = "20252026"
	DefaultSeasonStart        = "2025-10-01"
	DefaultWeekStartDay       = "MON"
	DefaultTotalWeeks         = 25
	DefaultPercentileLow      = 5.0
	DefaultPercentileHigh     = 95.0
	DefaultLightNightMaxGames = 5
	DefaultLightNightFraction = 0.4
	DefaultCacheRefreshDays   = 1
	DefaultScheduleSheet      = "schedule"
	DefaultOutputDir          = "output"
	DefaultPrecision          = 1
	DefaultLimit              = 32
	MaxLimit                  = 100
)

// MinValidTeams is the fewest distinct teams a fetched metrics table needs
// before it is trusted or cached.
const MinValidTeams = 20

// DateFormat is the layout of date flags such as season-start.
const DateFormat = "2006-01-02"

// weekdays maps three-letter day names to time.Weekday.
var weekdays = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	Season      string
	PriorSeason string
	Blend       bool
	Week        int // 0 means the table is scored as of TotalWeeks
	TotalWeeks  int

	PercentileLow  float64
	PercentileHigh float64
	Weights        schema.Weights
	Tiers          schema.TierBands
	MatchupTiers   schema.MatchupBands

	SchedulePath       string
	ScheduleSheet      string
	TeamMappingPath    string
	WeekStartDay       time.Weekday
	SeasonStart        time.Time
	LightNightMethod   schema.LightNightMethod
	LightNightMaxGames int
	LightNightFraction float64

	MetricsFile      string
	PriorMetricsFile string
	RefreshCache     bool
	CacheRefreshDays int

	Kind       schema.Kind
	Limit      int
	Team       string
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	OutputDir  string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors   bool // Enable colored labels in table output
	DottedCodes bool // Render team codes as L.A, T.B, S.J, N.J
}

// WeightsRawInput holds custom weight overrides from the YAML config file.
// Keys are situation or metric identifiers such as "sva" or "xgf60".
// Situations applies to both kinds; the per-kind situation tables override it.
type WeightsRawInput struct {
	Situations        map[string]float64 `mapstructure:"situations"`
	DefenseSituations map[string]float64 `mapstructure:"defense_situations"`
	OffenseSituations map[string]float64 `mapstructure:"offense_situations"`
	Offense           map[string]float64 `mapstructure:"offense"`
	Defense           map[string]float64 `mapstructure:"defense"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Season           string  `mapstructure:"season"`
	PriorSeason      string  `mapstructure:"prior-season"`
	Blend            bool    `mapstructure:"blend"`
	Week             int     `mapstructure:"week"`
	TotalWeeks       int     `mapstructure:"total-weeks"`
	PercentileLow    float64 `mapstructure:"percentile-low"`
	PercentileHigh   float64 `mapstructure:"percentile-high"`
	MetricsFile      string  `mapstructure:"metrics-file"`
	PriorMetricsFile string  `mapstructure:"prior-metrics-file"`
	RefreshCache     bool    `mapstructure:"refresh-cache"`
	CacheRefreshDays int     `mapstructure:"cache-refresh-days"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	DottedCodes      bool    `mapstructure:"dotted-codes"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`

	// --- Schedule fields ---
	Schedule           string  `mapstructure:"schedule"`
	ScheduleSheet      string  `mapstructure:"schedule-sheet"`
	TeamMapping        string  `mapstructure:"team-mapping"`
	WeekStartDay       string  `mapstructure:"week-start-day"`
	SeasonStart        string  `mapstructure:"season-start"`
	LightNightMethod   string  `mapstructure:"light-night-method"`
	LightNightMaxGames int     `mapstructure:"light-night-max-games"`
	LightNightFraction float64 `mapstructure:"light-night-fraction"`

	// --- Fields from subcommand flags ---
	Kind      string `mapstructure:"kind"`
	Limit     int    `mapstructure:"limit"`
	Team      string `mapstructure:"team"`
	OutputDir string `mapstructure:"output-dir"`

	// --- Tables from config file ---
	Weights      WeightsRawInput     `mapstructure:"weights"`
	Tiers        []schema.TierBand   `mapstructure:"tiers"`
	MatchupTiers schema.MatchupBands `mapstructure:"matchup-tiers"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = c.Weights.Clone()
	}
	if c.Tiers != nil {
		clone.Tiers = slices.Clone(c.Tiers)
	}
	if c.MatchupTiers.Bands != nil {
		clone.MatchupTiers.Bands = slices.Clone(c.MatchupTiers.Bands)
	}
	return &clone
}

// ScoringWeek returns the week the per-team tables are blended at.
func (c *Config) ScoringWeek() int {
	if c.Week <= 0 {
		return c.TotalWeeks
	}
	return c.Week
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct. Problems with the scoring tables wrap
// ErrConfiguration so callers can stop before any score is computed.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSeasons(cfg, input); err != nil {
		return err
	}
	if err := processSchedule(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	if err := processTiers(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Validate that cache and history use different SQLite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all flat fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Blend = input.Blend
	cfg.MetricsFile = input.MetricsFile
	cfg.PriorMetricsFile = input.PriorMetricsFile
	cfg.RefreshCache = input.RefreshCache
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.DottedCodes = input.DottedCodes
	cfg.Team = strings.ToUpper(strings.TrimSpace(input.Team))
	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Week Validation ---
	if input.TotalWeeks < 1 {
		return fmt.Errorf("%w: total-weeks must be at least 1 (received %d)", ErrConfiguration, input.TotalWeeks)
	}
	cfg.TotalWeeks = input.TotalWeeks
	if input.Week < 0 {
		return fmt.Errorf("week cannot be negative (received %d)", input.Week)
	}
	cfg.Week = input.Week

	// --- 2. Percentile Window Validation ---
	if err := ValidatePercentiles(input.PercentileLow, input.PercentileHigh); err != nil {
		return err
	}
	cfg.PercentileLow = input.PercentileLow
	cfg.PercentileHigh = input.PercentileHigh

	// --- 3. Kind and Limit Validation ---
	cfg.Kind = schema.Kind(strings.ToLower(input.Kind))
	if cfg.Kind == "" {
		cfg.Kind = schema.Defense
	}
	if _, ok := schema.ValidKinds[cfg.Kind]; !ok {
		return fmt.Errorf("invalid kind '%s'. must be defense, offense", input.Kind)
	}
	if input.Limit <= 0 || input.Limit > MaxLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	// --- 4. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 0 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}

	// --- 5. Cache Freshness ---
	if input.CacheRefreshDays < 0 {
		return fmt.Errorf("cache-refresh-days cannot be negative (received %d)", input.CacheRefreshDays)
	}
	cfg.CacheRefreshDays = input.CacheRefreshDays
	return nil
}

// processSeasons validates the season labels and derives the prior season.
func processSeasons(cfg *Config, input *ConfigRawInput) error {
	cfg.Season = strings.TrimSpace(input.Season)
	if cfg.Season == "" {
		cfg.Season = DefaultSeason
	}
	derived, err := schema.PriorSeason(cfg.Season)
	if err != nil {
		return fmt.Errorf("invalid season: %w", err)
	}
	cfg.PriorSeason = strings.TrimSpace(input.PriorSeason)
	if cfg.PriorSeason == "" {
		cfg.PriorSeason = derived
	} else if _, err := schema.PriorSeason(cfg.PriorSeason); err != nil {
		return fmt.Errorf("invalid prior season: %w", err)
	}
	return nil
}

// processSchedule validates the schedule reader settings.
func processSchedule(cfg *Config, input *ConfigRawInput) error {
	cfg.SchedulePath = input.Schedule
	cfg.ScheduleSheet = input.ScheduleSheet
	if cfg.ScheduleSheet == "" {
		cfg.ScheduleSheet = DefaultScheduleSheet
	}
	cfg.TeamMappingPath = input.TeamMapping

	day := strings.ToUpper(strings.TrimSpace(input.WeekStartDay))
	if day == "" {
		day = DefaultWeekStartDay
	}
	weekday, ok := weekdays[day]
	if !ok {
		return fmt.Errorf("invalid week-start-day '%s'. must be one of SUN, MON, TUE, WED, THU, FRI, SAT", input.WeekStartDay)
	}
	cfg.WeekStartDay = weekday

	seasonStart := input.SeasonStart
	if seasonStart == "" {
		seasonStart = DefaultSeasonStart
	}
	start, err := time.Parse(DateFormat, seasonStart)
	if err != nil {
		return fmt.Errorf("invalid season-start '%s' (expected %s): %w", input.SeasonStart, DateFormat, err)
	}
	cfg.SeasonStart = start

	cfg.LightNightMethod = schema.LightNightMethod(strings.ToLower(input.LightNightMethod))
	if cfg.LightNightMethod == "" {
		cfg.LightNightMethod = schema.ByGamesThreshold
	}
	if _, ok := schema.ValidLightNightMethods[cfg.LightNightMethod]; !ok {
		return fmt.Errorf("invalid light-night-method '%s'. must be by_games_threshold, by_fraction_of_teams", input.LightNightMethod)
	}
	if input.LightNightMaxGames < 0 {
		return fmt.Errorf("light-night-max-games cannot be negative (received %d)", input.LightNightMaxGames)
	}
	cfg.LightNightMaxGames = input.LightNightMaxGames
	if input.LightNightFraction <= 0 || input.LightNightFraction > 1 {
		return fmt.Errorf("light-night-fraction must be in (0, 1] (received %v)", input.LightNightFraction)
	}
	cfg.LightNightFraction = input.LightNightFraction
	return nil
}

// ProcessWeightsRawInput overlays the raw overrides onto the default weight
// tables. Unknown identifiers and tables that do not sum to 1.0 wrap ErrConfiguration.
func ProcessWeightsRawInput(raw WeightsRawInput) (schema.Weights, error) {
	weights := schema.DefaultWeights()

	shared, err := parseSituationWeights("situations", raw.Situations)
	if err != nil {
		return nil, err
	}

	overlay := func(kind schema.Kind, situationTable, metricTable map[string]float64) error {
		perKind, err := parseSituationWeights(string(kind)+"_situations", situationTable)
		if err != nil {
			return err
		}
		kw := weights[kind]
		maps.Copy(kw.Situations, shared)
		maps.Copy(kw.Situations, perKind)
		for key, w := range metricTable {
			m := schema.Metric(strings.ToLower(key))
			if _, ok := schema.ValidMetrics[m]; !ok {
				return fmt.Errorf("%w: unknown metric %q in weights.%s", ErrConfiguration, key, kind)
			}
			kw.Metrics[m] = w
		}
		weights[kind] = kw
		return nil
	}
	if err := overlay(schema.Defense, raw.DefenseSituations, raw.Defense); err != nil {
		return nil, err
	}
	if err := overlay(schema.Offense, raw.OffenseSituations, raw.Offense); err != nil {
		return nil, err
	}

	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	return weights, nil
}

func parseSituationWeights(name string, table map[string]float64) (map[schema.Situation]float64, error) {
	situations := make(map[schema.Situation]float64, len(table))
	for key, w := range table {
		s := schema.Situation(strings.ToLower(key))
		if _, ok := schema.ValidSituations[s]; !ok {
			return nil, fmt.Errorf("%w: unknown situation %q in weights.%s", ErrConfiguration, key, name)
		}
		situations[s] = w
	}
	return situations, nil
}

// processCustomWeights computes the final weights from defaults + custom overrides.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// processTiers resolves the tier tables, falling back to the defaults.
func processTiers(cfg *Config, input *ConfigRawInput) error {
	cfg.Tiers = schema.DefaultTierBands()
	if len(input.Tiers) > 0 {
		cfg.Tiers = slices.Clone(input.Tiers)
		slices.SortStableFunc(cfg.Tiers, func(a, b schema.TierBand) int {
			switch {
			case a.Min < b.Min:
				return -1
			case a.Min > b.Min:
				return 1
			default:
				return 0
			}
		})
	}
	if err := ValidateTierBands(cfg.Tiers); err != nil {
		return err
	}

	cfg.MatchupTiers = schema.DefaultMatchupBands()
	if len(input.MatchupTiers.Bands) > 0 {
		cfg.MatchupTiers.Bands = slices.Clone(input.MatchupTiers.Bands)
	}
	if input.MatchupTiers.Fallback != "" {
		cfg.MatchupTiers.Fallback = input.MatchupTiers.Fallback
	}
	return ValidateMatchupBands(cfg.MatchupTiers)
}
