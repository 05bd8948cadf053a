// Package iocache is for caching I/O calls and persisting loaded issue collections.
package iocache

import (
	"sync"

	"github.com/huangsam/issuelens/internal/contract"
)

// CacheStoreManager manages the fetch cache and the issue store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	fetch        contract.CacheStore
	issues       contract.IssueStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetFetchStore returns the fetch CacheStore.
func (mgr *CacheStoreManager) GetFetchStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.fetch
}

// GetIssueStore returns the IssueStore.
func (mgr *CacheStoreManager) GetIssueStore() contract.IssueStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.issues
}
