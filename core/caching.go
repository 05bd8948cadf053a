package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/loader"
	"github.com/huangsam/issuelens/schema"
	"github.com/sirupsen/logrus"
)

// currentCacheVersion defines the version of the cached payload schema
const currentCacheVersion = 1

// CachedSource serves records of an inner source from the fetch cache while they are fresh.
type CachedSource struct {
	inner contract.IssueSource
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

var _ contract.IssueSource = &CachedSource{} // Compile-time check

// NewCachedSource wraps inner with the fetch cache. A nil store disables caching.
func NewCachedSource(inner contract.IssueSource, store contract.CacheStore, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, store: store, ttl: ttl, now: time.Now}
}

// Describe implements contract.IssueSource.
func (s *CachedSource) Describe() string {
	return s.inner.Describe()
}

// LoadRecords implements contract.IssueSource.
func (s *CachedSource) LoadRecords(ctx context.Context) ([]schema.RawRecord, error) {
	if s.store == nil {
		return s.inner.LoadRecords(ctx)
	}

	key := cacheKey(s.inner)
	if records := s.checkCacheHit(key); records != nil {
		contract.LogInfo("Cache hit", logrus.Fields{"source": s.Describe()})
		return records, nil
	}
	return s.computeAndStore(ctx, key)
}

// checkCacheHit returns the cached records when the entry has the current version and is fresh.
func (s *CachedSource) checkCacheHit(key string) []schema.RawRecord {
	data, version, ts, err := s.store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil // Cache miss
	}
	if s.now().Sub(time.Unix(ts, 0)) > s.ttl {
		return nil // Stale
	}
	records, err := loader.DecodeRecords(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return records
}

// computeAndStore loads from the inner source and caches the payload.
func (s *CachedSource) computeAndStore(ctx context.Context, key string) ([]schema.RawRecord, error) {
	records, err := s.inner.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []schema.RawRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		contract.LogWarn("Failed to encode records for cache", err)
		return records, nil
	}
	if err := s.store.Set(key, data, currentCacheVersion, s.now().Unix()); err != nil {
		contract.LogWarn("Failed to write fetch cache", err)
	}
	return records, nil
}

// cacheKey hashes the source description.
func cacheKey(src contract.IssueSource) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(src.Describe())))
}
