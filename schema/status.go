package schema

import "time"

// CacheStatus represents the status of the fetch cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// StoreStatus represents the status of the issue store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	SchemaVersion    uint             `json:"schema_version"`
	Repos            []string         `json:"repos"`
	TotalIssues      int              `json:"total_issues"`
	TotalEvents      int              `json:"total_events"`
	LastImportTime   time.Time        `json:"last_import_time"`
	OldestImportTime time.Time        `json:"oldest_import_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
