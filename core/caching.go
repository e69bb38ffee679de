package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
	"github.com/sourcegraph/conc/pool"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// CachedMetrics wraps a metrics source with a cache store.
// A nil Store makes it a pass-through.
type CachedMetrics struct {
	Source      contract.MetricsSource
	Store       contract.CacheStore
	RefreshDays int  // entries older than this many days are refetched
	Refresh     bool // skip cache reads, still write fresh results
	now         func() time.Time
}

// NewCachedMetrics builds a cached source from the config's cache settings.
func NewCachedMetrics(source contract.MetricsSource, store contract.CacheStore, cfg *contract.Config) *CachedMetrics {
	return &CachedMetrics{
		Source:      source,
		Store:       store,
		RefreshDays: cfg.CacheRefreshDays,
		Refresh:     cfg.RefreshCache,
	}
}

func (c *CachedMetrics) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// FetchSituation implements contract.MetricsSource.
func (c *CachedMetrics) FetchSituation(ctx context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	if c.Store == nil {
		return c.Source.FetchSituation(ctx, season, situation)
	}

	key := generateCacheKey(season, situation)

	// Check for cache hit
	if !c.Refresh {
		if rows := c.checkCacheHit(key, season, situation); rows != nil {
			return rows, nil
		}
	}

	// Cache miss: fetch and store
	return c.fetchAndStore(ctx, season, situation, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func (c *CachedMetrics) checkCacheHit(key, season string, situation schema.Situation) []schema.TeamMetricRow {
	data, version, ts, err := c.Store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil // Cache miss
	}

	// Validate staleness
	maxAge := time.Duration(c.RefreshDays) * 24 * time.Hour
	if c.clock().Sub(time.Unix(ts, 0)) > maxAge {
		return nil
	}

	var payload schema.CachedMetrics
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	if payload.Season != season || payload.Situation != situation || !validTable(payload.Rows) {
		return nil
	}
	return payload.Rows
}

// fetchAndStore fetches from the source and caches results that look complete
func (c *CachedMetrics) fetchAndStore(ctx context.Context, season string, situation schema.Situation, key string) ([]schema.TeamMetricRow, error) {
	rows, err := c.Source.FetchSituation(ctx, season, situation)
	if err != nil {
		return nil, err
	}
	if !validTable(rows) {
		return rows, nil
	}

	payload := schema.CachedMetrics{Version: currentCacheVersion, Season: season, Situation: situation, Rows: rows}
	if data, err := json.Marshal(payload); err == nil {
		if err := c.Store.Set(key, data, currentCacheVersion, c.clock().Unix()); err != nil {
			contract.LogWarn("Metrics cache write failed", err)
		}
	}
	return rows, nil
}

// generateCacheKey creates a unique key for one season and situation
func generateCacheKey(season string, situation schema.Situation) string {
	key := fmt.Sprintf("nst:teamtable:%s:%s", season, situation)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// validTable reports whether a table covers enough teams to be trusted.
func validTable(rows []schema.TeamMetricRow) bool {
	teams := make(map[string]struct{})
	for _, r := range rows {
		teams[r.Team] = struct{}{}
	}
	return len(teams) >= contract.MinValidTeams
}

// FetchSeason fetches every situation of a season concurrently. A failed
// situation is logged and skipped; the call only fails when all of them do.
func FetchSeason(ctx context.Context, source contract.MetricsSource, season string) ([]schema.TeamMetricRow, error) {
	p := pool.NewWithResults[[]schema.TeamMetricRow]().WithContext(ctx)
	for _, situation := range schema.AllSituations {
		p.Go(func(ctx context.Context) ([]schema.TeamMetricRow, error) {
			rows, err := source.FetchSituation(ctx, season, situation)
			if err != nil {
				return nil, fmt.Errorf("season %s situation %s: %w", season, situation, err)
			}
			return rows, nil
		})
	}
	results, err := p.Wait()

	var rows []schema.TeamMetricRow
	for _, r := range results {
		rows = append(rows, r...)
	}
	if len(rows) == 0 {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("season %s: no metrics returned: %w", season, contract.ErrInsufficientPopulation)
	}
	if err != nil {
		contract.LogWarn("Partial metrics fetch", err)
	}
	sortMetricRows(rows)
	return rows, nil
}

func sortMetricRows(rows []schema.TeamMetricRow) {
	situationOrder := make(map[schema.Situation]int, len(schema.AllSituations))
	for i, s := range schema.AllSituations {
		situationOrder[s] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Situation != b.Situation {
			return situationOrder[a.Situation] < situationOrder[b.Situation]
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return a.Metric < b.Metric
	})
}
