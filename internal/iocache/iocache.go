// Package iocache holds the metric cache and the run history stores.
package iocache

import (
	"sync"

	"github.com/puckline/matchup/internal/contract"
)

// StoreManager hands out the process-wide cache and history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	metrics      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetMetricsStore returns the metric table cache, or nil when caching is off.
func (mgr *StoreManager) GetMetricsStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metrics
}

// GetHistoryStore returns the run history store, or nil when history is off.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
