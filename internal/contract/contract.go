// Package contract provides interfaces and shared utilities for the issuelens internals.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/issuelens/schema"
)

// IssueSource loads raw issue records from a file, the GitHub API or the issue store.
// Records keep their raw shape so that each engine can apply its own shape rules.
type IssueSource interface {
	// LoadRecords returns every record in source order.
	LoadRecords(ctx context.Context) ([]schema.RawRecord, error)

	// Describe returns a short human label for logs, e.g. "github:owner/repo".
	Describe() string
}

// ChartAdapter renders engine results. Implementations must treat results as read-only.
// Callers never invoke a render method with an empty result.
type ChartAdapter interface {
	RenderLabels(tally *schema.LabelTally) error
	RenderDistribution(result *schema.DistributionResult) error
	RenderResponseTime(result *schema.ResponseTimeResult) error
	RenderUpdates(durations schema.UpdateDurations) error
	RenderOverlap(result *schema.OverlapResult) error
	RenderMonthly(result *schema.MonthlyCreation) error
}

// CacheManager defines the interface for managing the persistence stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetFetchStore() CacheStore
	GetIssueStore() IssueStore
}

// CacheStore defines the interface for the fetch cache.
// Values are opaque payloads keyed by a string, tagged with a version and a Unix timestamp.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// IssueStore defines the interface for persisting loaded issue collections.
// Only input data is stored here; computed metrics are never persisted.
type IssueStore interface {
	// SaveRecords replaces the stored issues of repo with records and returns how many were written.
	SaveRecords(ctx context.Context, repo string, records []schema.RawRecord, importedAt time.Time) (int, error)

	// LoadRecords returns the stored issues of repo ordered by issue number.
	LoadRecords(ctx context.Context, repo string) ([]schema.RawRecord, error)

	// DeleteRepo removes every stored issue of repo.
	DeleteRepo(ctx context.Context, repo string) error

	// GetStatus returns status information about the issue store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
