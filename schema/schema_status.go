package schema

import "time"

// CacheStatus represents the status of the metrics cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalTeamsScored int              `json:"total_teams_scored"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// TeamScoreRecord represents a row from the matchup_team_scores table.
type TeamScoreRecord struct {
	RunID     int64
	Team      string
	Kind      string
	Raw       float64
	Scaled    float64
	Blended   *float64
	Prior     *float64
	Tier      string
	ScoreTime time.Time
}
