package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/puckline/matchup/core/algo"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
	"github.com/sourcegraph/conc/pool"
)

// Sources bundles the collaborators a run reads from.
type Sources struct {
	Metrics      contract.MetricsSource // current season
	PriorMetrics contract.MetricsSource // prior season; Metrics is used when nil
	Schedule     contract.ScheduleSource
}

// BuildResult is everything a full build produces.
type BuildResult struct {
	Ratings     *Ratings
	Schedule    []schema.ScheduleRow
	Lookups     schema.Lookups
	TeamWeeks   []schema.TeamWeekRow
	Diagnostics schema.DiagnosticsReport
}

// LoadRatings fetches the current season, plus the prior one when blending is
// enabled, and rates them. A prior season that cannot be fetched or rated is
// logged and the run continues unblended.
func LoadRatings(ctx context.Context, cfg *contract.Config, src Sources) (*Ratings, error) {
	params := algo.ParamsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if src.Metrics == nil {
		return nil, errors.New("no metrics source configured")
	}
	priorSource := src.PriorMetrics
	if priorSource == nil {
		priorSource = src.Metrics
		if file, ok := src.Metrics.(*FileMetrics); ok {
			priorSource = file.Labeled()
		}
	}

	var currentRows, priorRows []schema.TeamMetricRow
	var priorErr error
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		currentRows, err = FetchSeason(ctx, src.Metrics, cfg.Season)
		return err
	})
	if cfg.Blend {
		p.Go(func(ctx context.Context) error {
			priorRows, priorErr = FetchSeason(ctx, priorSource, cfg.PriorSeason)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch season %s: %w", cfg.Season, err)
	}

	current, err := BuildSeasonRatings(cfg.Season, currentRows, params)
	if err != nil {
		return nil, err
	}

	var prior *SeasonRatings
	if cfg.Blend {
		if priorErr == nil {
			prior, priorErr = BuildSeasonRatings(cfg.PriorSeason, priorRows, params)
		}
		if priorErr != nil {
			warn(ctx, fmt.Sprintf("Prior season %s unavailable, scores are not blended", cfg.PriorSeason), priorErr)
			prior = nil
		}
	}
	return BuildRatings(current, prior, cfg.ScoringWeek(), params), nil
}

// RunBuild runs the whole pipeline: ratings, both lookups, team weeks and
// diagnostics. When a history store is given the run and its team scores are recorded.
func RunBuild(ctx context.Context, cfg *contract.Config, src Sources, history contract.HistoryStore) (*BuildResult, error) {
	if src.Schedule == nil {
		return nil, errors.New("no schedule configured")
	}
	startTime := time.Now()
	ctx = beginRun(ctx, cfg, history, startTime)

	ratings, err := LoadRatings(ctx, cfg, src)
	if err != nil {
		return nil, err
	}
	schedule, err := src.Schedule.ReadSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}

	lookups, issues := BuildLookups(schedule, ratings.Resolver(schema.Defense), ratings.Resolver(schema.Offense))
	for _, issue := range issues {
		warn(ctx, "Schedule opponent "+issue.Team+" has no score", contract.ErrMissingScheduleParticipant)
	}
	teamWeeks := AggregateTeamWeeks(lookups, cfg.MatchupTiers)
	report := BuildDiagnostics(DiagnosticsInput{
		Ratings:   ratings,
		TeamWeeks: teamWeeks,
		Issues:    issues,
		Alpha:     algo.DefaultAlpha,
	})

	recordRun(ctx, history, ratings)
	return &BuildResult{
		Ratings:     ratings,
		Schedule:    schedule,
		Lookups:     lookups,
		TeamWeeks:   teamWeeks,
		Diagnostics: report,
	}, nil
}

// RunLookup rates the teams and builds both lookups, without aggregation or history.
func RunLookup(ctx context.Context, cfg *contract.Config, src Sources) (*Ratings, schema.Lookups, []schema.DataIssue, error) {
	if src.Schedule == nil {
		return nil, schema.Lookups{}, nil, errors.New("no schedule configured")
	}
	ratings, err := LoadRatings(ctx, cfg, src)
	if err != nil {
		return nil, schema.Lookups{}, nil, err
	}
	schedule, err := src.Schedule.ReadSchedule(ctx)
	if err != nil {
		return nil, schema.Lookups{}, nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	lookups, issues := BuildLookups(schedule, ratings.Resolver(schema.Defense), ratings.Resolver(schema.Offense))
	for _, issue := range issues {
		warn(ctx, "Schedule opponent "+issue.Team+" has no score", contract.ErrMissingScheduleParticipant)
	}
	return ratings, lookups, issues, nil
}

// beginRun starts history tracking and stores the run ID in the context.
func beginRun(ctx context.Context, cfg *contract.Config, history contract.HistoryStore, startTime time.Time) context.Context {
	if history == nil {
		return ctx
	}
	params := schema.RunParams{
		Season:         cfg.Season,
		Blend:          cfg.Blend,
		Week:           cfg.ScoringWeek(),
		TotalWeeks:     cfg.TotalWeeks,
		PercentileLow:  cfg.PercentileLow,
		PercentileHigh: cfg.PercentileHigh,
		Weights:        cfg.Weights,
	}
	if cfg.Blend {
		params.PriorSeason = cfg.PriorSeason
	}
	configParams := map[string]any{
		"season":          params.Season,
		"prior_season":    params.PriorSeason,
		"blend":           params.Blend,
		"week":            params.Week,
		"total_weeks":     params.TotalWeeks,
		"percentile_low":  params.PercentileLow,
		"percentile_high": params.PercentileHigh,
		"weights":         params.Weights,
	}
	runID, err := history.BeginRun(startTime, cfg.Season, configParams)
	if err != nil {
		warn(ctx, "Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordRun stores every team score of the run and closes it.
func recordRun(ctx context.Context, history contract.HistoryStore, ratings *Ratings) {
	runID := runIDFromContext(ctx)
	if history == nil || runID <= 0 {
		return
	}
	now := time.Now()
	for _, record := range teamScoreRecords(ratings, runID, now) {
		if err := history.RecordTeamScore(runID, record); err != nil {
			warn(ctx, fmt.Sprintf("Run tracking failed for %s %s", record.Kind, record.Team), err)
		}
	}
	if err := history.EndRun(runID, time.Now(), len(ratings.Teams())); err != nil {
		warn(ctx, "Failed to finalize run tracking", err)
	}
}

// teamScoreRecords flattens the ratings into one record per team and kind.
func teamScoreRecords(ratings *Ratings, runID int64, scoreTime time.Time) []schema.TeamScoreRecord {
	var records []schema.TeamScoreRecord
	for _, kind := range schema.AllKinds {
		blended := make(map[string]schema.BlendedScore)
		for _, b := range ratings.Blended[kind] {
			blended[b.Team] = b
		}
		table := ratings.ScoreTable(kind)
		for _, c := range ratings.Current.Composites[kind] {
			record := schema.TeamScoreRecord{
				RunID:     runID,
				Team:      c.Team,
				Kind:      string(kind),
				Raw:       c.Raw,
				Scaled:    c.Scaled,
				Tier:      table[c.Team].Tier,
				ScoreTime: scoreTime,
			}
			if b, ok := blended[c.Team]; ok {
				value := b.Value
				record.Blended = &value
				record.Prior = b.Prior
			}
			records = append(records, record)
		}
	}
	return records
}

// warn logs a warning unless the context is quiet.
func warn(ctx context.Context, msg string, err error) {
	if isQuiet(ctx) {
		return
	}
	contract.LogWarn(msg, err)
}
