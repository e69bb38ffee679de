// Package core has core logic for rating teams and building schedule lookups.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/internal/nst"
	"github.com/puckline/matchup/internal/outwriter"
	"github.com/puckline/matchup/internal/parquet"
	"github.com/puckline/matchup/internal/schedule"
	"github.com/puckline/matchup/schema"
)

// ExecutorFunc defines the function signature for executing the CLI commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// WithQuiet suppresses progress and warning output, e.g. in MCP mode.
func WithQuiet(ctx context.Context) context.Context {
	return withQuiet(ctx)
}

// NewSources wires the metric and schedule collaborators for cfg. Snapshot
// files take precedence over the network; fetched tables go through the
// metric cache when one is configured.
func NewSources(cfg *contract.Config, mgr contract.CacheManager) Sources {
	var src Sources
	if cfg.MetricsFile != "" {
		src.Metrics = NewFileMetrics(cfg.MetricsFile)
	} else {
		var store contract.CacheStore
		if mgr != nil {
			store = mgr.GetMetricsStore()
		}
		src.Metrics = NewCachedMetrics(nst.NewClient(), store, cfg)
	}
	if cfg.PriorMetricsFile != "" {
		src.PriorMetrics = NewFileMetrics(cfg.PriorMetricsFile)
	}
	src.Schedule = schedule.NewReader(cfg)
	return src
}

// historyStore returns the configured history store, if any.
func historyStore(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// ExecuteBuild runs the whole pipeline and writes every output into the output directory.
// It serves as the main entry point for the 'build' command.
func ExecuteBuild(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	logHeader(ctx, cfg)
	result, err := RunBuild(ctx, cfg, NewSources(cfg, mgr), historyStore(mgr))
	if err != nil {
		return err
	}
	out := outwriter.BuildOutputs{
		Lookups:       result.Lookups,
		TeamWeeks:     result.TeamWeeks,
		DefenseScores: result.Ratings.ScoreTable(schema.Defense).Ranked(),
		OffenseScores: result.Ratings.ScoreTable(schema.Offense).Ranked(),
		Diagnostics:   result.Diagnostics,
	}
	return outwriter.NewOutWriter().WriteBuild(out, cfg, time.Since(start))
}

// ExecuteRatings prints the ranked per-team table of the configured kind.
func ExecuteRatings(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	logHeader(ctx, cfg)
	ranked, err := GetTeamScores(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteScores(cfg.Kind, ranked, cfg, time.Since(start))
}

// ExecuteLookup prints the lookup of the configured kind, optionally narrowed
// to one team and one week.
func ExecuteLookup(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	logHeader(ctx, cfg)
	_, lookups, _, err := RunLookup(ctx, cfg, NewSources(cfg, mgr))
	if err != nil {
		return err
	}
	rows := lookups.Defense
	if cfg.Kind == schema.Offense {
		rows = lookups.Offense
	}
	rows = FilterLookupRows(rows, cfg.Team, cfg.Week)
	return outwriter.NewOutWriter().WriteLookup(cfg.Kind, rows, cfg, time.Since(start))
}

// ExecuteTeamWeeks prints the team-week aggregation.
func ExecuteTeamWeeks(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	logHeader(ctx, cfg)
	_, teamWeeks, err := GetMatchups(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTeamWeeks(teamWeeks, cfg, time.Since(start))
}

// ExecuteDiagnose prints the diagnostics report of a full build without writing the other outputs.
func ExecuteDiagnose(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logHeader(ctx, cfg)
	result, err := RunBuild(ctx, cfg, NewSources(cfg, mgr), nil)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDiagnostics(result.Diagnostics, cfg)
}

// ExecuteWeights displays the active weight tables.
// This is a static display that does not fetch any metrics.
func ExecuteWeights(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteWeights(cfg)
}

// ExecuteMetricsExport fetches the raw metrics of the season, plus the prior
// season when blending, and writes them to a parquet snapshot that can be
// replayed with --metrics-file.
func ExecuteMetricsExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.OutputFile == "" {
		return errors.New("metrics export requires --output-file")
	}
	src := NewSources(cfg, mgr)
	seasons := []string{cfg.Season}
	if cfg.Blend {
		seasons = append(seasons, cfg.PriorSeason)
	}

	var tables []schema.MetricsTable
	for _, season := range seasons {
		source := src.Metrics
		if season == cfg.PriorSeason && season != cfg.Season && src.PriorMetrics != nil {
			source = src.PriorMetrics
		}
		rows, err := FetchSeason(ctx, source, season)
		if err != nil {
			return fmt.Errorf("failed to fetch season %s: %w", season, err)
		}
		tables = append(tables, schema.MetricsTable{Season: season, Rows: rows})
	}
	if err := parquet.WriteMetricsSnapshot(tables, cfg.OutputFile); err != nil {
		return err
	}
	if !isQuiet(ctx) {
		contract.LogInfo("💾 Wrote metrics snapshot for %s to %s", strings.Join(seasons, ", "), cfg.OutputFile)
	}
	return nil
}

// GetTeamScores rates the teams and returns the ranked table of cfg.Kind,
// truncated to cfg.Limit.
func GetTeamScores(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RankedTeamScore, error) {
	ratings, err := LoadRatings(ctx, cfg, NewSources(cfg, mgr))
	if err != nil {
		return nil, err
	}
	return rankScores(ratings.ScoreTable(cfg.Kind), cfg.Limit), nil
}

// GetMatchups builds both lookups and the team-week table, narrowed to
// cfg.Team and cfg.Week when set.
func GetMatchups(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Lookups, []schema.TeamWeekRow, error) {
	_, lookups, _, err := RunLookup(ctx, cfg, NewSources(cfg, mgr))
	if err != nil {
		return schema.Lookups{}, nil, err
	}
	teamWeeks := AggregateTeamWeeks(lookups, cfg.MatchupTiers)
	lookups = schema.Lookups{
		Defense: FilterLookupRows(lookups.Defense, cfg.Team, cfg.Week),
		Offense: FilterLookupRows(lookups.Offense, cfg.Team, cfg.Week),
	}
	return lookups, FilterTeamWeeks(teamWeeks, cfg.Team, cfg.Week), nil
}

// rankScores ranks a table and keeps the first limit entries. A limit of 0 keeps all.
func rankScores(table schema.ScoreTable, limit int) []schema.RankedTeamScore {
	ranked := table.Ranked()
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// normalizeTeam accepts dotted and lower-case codes.
func normalizeTeam(team string) string {
	return schema.UndottedCode(strings.ToUpper(strings.TrimSpace(team)))
}

// FilterLookupRows keeps the rows of one team and one week. An empty team
// or a week of 0 does not filter.
func FilterLookupRows(rows []schema.LookupRow, team string, week int) []schema.LookupRow {
	team = normalizeTeam(team)
	if team == "" && week == 0 {
		return rows
	}
	var out []schema.LookupRow
	for _, r := range rows {
		if team != "" && r.Team != team {
			continue
		}
		if week > 0 && r.Week != week {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterTeamWeeks is FilterLookupRows for team-week rows.
func FilterTeamWeeks(rows []schema.TeamWeekRow, team string, week int) []schema.TeamWeekRow {
	team = normalizeTeam(team)
	if team == "" && week == 0 {
		return rows
	}
	var out []schema.TeamWeekRow
	for _, r := range rows {
		if team != "" && r.Team != team {
			continue
		}
		if week > 0 && r.Week != week {
			continue
		}
		out = append(out, r)
	}
	return out
}

// logHeader prints the run settings unless the context is quiet.
func logHeader(ctx context.Context, cfg *contract.Config) {
	if isQuiet(ctx) {
		return
	}
	blend := "off"
	if cfg.Blend {
		blend = fmt.Sprintf("%s at week %d/%d", cfg.PriorSeason, cfg.ScoringWeek(), cfg.TotalWeeks)
	}
	source := "Natural Stat Trick"
	if cfg.MetricsFile != "" {
		source = cfg.MetricsFile
	}
	contract.LogInfo("🏒 Season %s (blend: %s)", cfg.Season, blend)
	contract.LogInfo("📊 Metrics: %s, percentile window p%g-p%g", source, cfg.PercentileLow, cfg.PercentileHigh)
}
