package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the fetch cache and issue store.
	DatabaseBackend string

	// DurationUnit represents the unit used to display durations.
	DurationUnit string

	// SizeBucket groups issues by the length of their label list.
	SizeBucket string

	// SourceKind identifies where raw issue records are loaded from.
	SourceKind string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All duration units supported.
const (
	UnitDays    DurationUnit = "days" // default
	UnitSeconds DurationUnit = "seconds"
)

// Label-set size buckets.
const (
	SizeNone SizeBucket = "0"
	SizeFew  SizeBucket = "1-2"
	SizeMany SizeBucket = "3+"
)

// sizeManyFrom is the smallest label count that falls into SizeMany.
const sizeManyFrom = 3

// All source kinds supported.
const (
	JSONSource    SourceKind = "json"
	ParquetSource SourceKind = "parquet"
	GitHubSource  SourceKind = "github"
	StoreSource   SourceKind = "store"
)

// EventCommented is the event type that marks a comment.
const EventCommented = "commented"

// AllSizeBuckets lists the size buckets in display order.
var AllSizeBuckets = []SizeBucket{SizeNone, SizeFew, SizeMany}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDurationUnits lists all valid duration units.
var ValidDurationUnits = map[DurationUnit]struct{}{
	UnitDays:    {},
	UnitSeconds: {},
}

// SizeBucketOf returns the bucket for a label list of length n.
func SizeBucketOf(n int) SizeBucket {
	switch {
	case n <= 0:
		return SizeNone
	case n < sizeManyFrom:
		return SizeFew
	default:
		return SizeMany
	}
}
