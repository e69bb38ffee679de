package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(metricsTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)

	first := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC).Unix()
	second := time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, store.Set("pp", []byte(`{"rows":[]}`), 1, first))
	require.NoError(t, store.Set("pk", []byte(`{"rows":[1]}`), 1, second))

	value, version, ts, err := store.Get("pp")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"rows":[]}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, first, ts)

	// Set replaces an existing key
	require.NoError(t, store.Set("pp", []byte("v2"), 2, second))
	value, version, _, err = store.Get("pp")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
	assert.Equal(t, 2, version)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, second, status.LastEntryTime.Unix())
	assert.Equal(t, second, status.OldestEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)
}

func TestCacheStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(metricsTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Set("key", []byte("value"), 1, 100))
	require.NoError(t, store.Close())

	reopened, err := NewCacheStore(metricsTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	value, _, ts, err := reopened.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
	assert.Equal(t, int64(100), ts)
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(metricsTable, schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("key")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("key", []byte("value"), 1, 1))
	_, _, _, err = store.Get("key")
	assert.Error(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore(metricsTable, schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("c", schema.MySQLBackend), "LONGBLOB")
	assert.Contains(t, getCreateTableQuery("c", schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateTableQuery("c", schema.SQLiteBackend), "BLOB")
}
