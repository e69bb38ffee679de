// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/puckline/matchup/schema"
)

// MetricsSource defines the operations needed to obtain raw team metrics.
// This allows the rating pipeline to be tested without a network connection.
type MetricsSource interface {
	// FetchSituation returns one row per (team, metric) for a season and situation.
	FetchSituation(ctx context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error)
}

// ScheduleSource defines the operations needed to obtain the team schedule.
type ScheduleSource interface {
	// ReadSchedule returns the double-entry schedule: one row per game per team.
	ReadSchedule(ctx context.Context) ([]schema.ScheduleRow, error)
}

// HistoryStore defines the interface for tracking rating runs and their team scores.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, season string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, teamsScored int) error

	// RecordTeamScore stores a final score for a team
	RecordTeamScore(runID int64, record schema.TeamScoreRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
