package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// Table names for run history.
const (
	runsTable       = "matchup_runs"
	teamScoresTable = "matchup_team_scores"
)

// HistoryStoreImpl records rating runs and their per-team scores.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore migrates the schema to the latest version and opens the store.
// NoneBackend returns a store that records nothing.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	if _, _, err := migrateHistory(backend, connStr, -1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("failed to prepare history tables: %w", err)
	}
	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// BeginRun inserts a run with a fresh UUID and returns its numeric ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, season string, configParams map[string]any) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	runUUID := uuid.NewString()
	table := quoteTableName(runsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, season, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, table)
		err = hs.db.QueryRow(query, runUUID, season, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, season, start_time, config_params) VALUES (?, ?, ?, ?)`, table)
		var result sql.Result
		result, err = hs.db.Exec(query, runUUID, season, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun stores the end time, duration and number of teams scored.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, teamsScored int) error {
	if hs.db == nil {
		return nil
	}

	table := quoteTableName(runsTable, hs.backend)
	var start sqlTime
	query := rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, table), hs.backend)
	if err := hs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(start.Time).Milliseconds()

	update := rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, teams_scored = ? WHERE run_id = ?`, table), hs.backend)
	if _, err := hs.db.Exec(update, formatTime(endTime, hs.backend), durationMs, teamsScored, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordTeamScore stores one team's final score for one kind.
func (hs *HistoryStoreImpl) RecordTeamScore(runID int64, record schema.TeamScoreRecord) error {
	if hs.db == nil {
		return nil
	}

	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, team, kind, raw, scaled, blended, prior, tier, score_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(teamScoresTable, hs.backend)), hs.backend)
	_, err := hs.db.Exec(query, runID, record.Team, record.Kind, record.Raw, record.Scaled,
		record.Blended, record.Prior, record.Tier, formatTime(record.ScoreTime, hs.backend))
	if err != nil {
		return fmt.Errorf("failed to insert %s score for %s: %w", record.Kind, record.Team, err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns run counts, the run time range and table row counts.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	runs := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest sqlTime
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = last.Time
		status.OldestRunTime = oldest.Time

		teamsQuery := fmt.Sprintf("SELECT COALESCE(SUM(teams_scored), 0) FROM %s", runs)
		if err := hs.db.QueryRow(teamsQuery).Scan(&status.TotalTeamsScored); err != nil {
			return status, fmt.Errorf("failed to get total teams scored: %w", err)
		}
	}

	for _, table := range []string{runsTable, teamScoresTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns returns every run ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, season, start_time, end_time, run_duration_ms, teams_scored, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRunRecord
	for rows.Next() {
		var record schema.HistoryRunRecord
		var start, end sqlTime
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Season, &start, &end,
			&record.RunDurationMs, &record.TeamsScored, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.Time
		record.EndTime = end.ptr()
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllTeamScores returns every recorded team score ordered by run, kind and team.
func (hs *HistoryStoreImpl) GetAllTeamScores() ([]schema.TeamScoreRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, team, kind, raw, scaled, blended, prior, tier, score_time
		FROM %s ORDER BY run_id, kind, team`, quoteTableName(teamScoresTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query team scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TeamScoreRecord
	for rows.Next() {
		var record schema.TeamScoreRecord
		var scored sqlTime
		if err := rows.Scan(&record.RunID, &record.Team, &record.Kind, &record.Raw, &record.Scaled,
			&record.Blended, &record.Prior, &record.Tier, &scored); err != nil {
			return nil, fmt.Errorf("failed to scan team score: %w", err)
		}
		record.ScoreTime = scored.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team scores: %w", err)
	}
	return results, nil
}
