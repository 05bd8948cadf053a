package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/issuelens/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultResultLimit = 10
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultWorkers     = 4
	DefaultRateLimit   = 10.0
	DefaultCacheTTL    = "24h"
	DefaultLogLevel    = "warn"
)

// Config holds the runtime configuration for an analysis run.
// This struct is the "final, validated" config.
type Config struct {
	Source     string
	SourceKind schema.SourceKind
	Repo       string // owner/name
	RepoOwner  string
	RepoName   string

	GitHubToken string // Please use env var as this is plaintext
	RateLimit   float64
	Workers     int

	ResultLimit   int
	Precision     int
	Unit          schema.DurationUnit
	Chronological bool
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)
	UseColors     bool

	LogLevel logrus.Level

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Source         string  `mapstructure:"source"`
	Repo           string  `mapstructure:"repo"`
	GitHubToken    string  `mapstructure:"github-token"`
	RateLimit      float64 `mapstructure:"rate-limit"`
	Workers        int     `mapstructure:"workers"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Limit          int     `mapstructure:"limit"`
	Precision      int     `mapstructure:"precision"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	LogLevel       string  `mapstructure:"log-level"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	CacheTTL       string  `mapstructure:"cache-ttl"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`

	// --- Fields from responseCmd.Flags() ---
	Unit          string `mapstructure:"unit"`
	Chronological bool   `mapstructure:"chronological"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessAndValidateSettings(cfg, input); err != nil {
		return err
	}
	return resolveSource(cfg, input)
}

// ProcessAndValidateSettings validates everything except the issue source. It serves
// commands such as mcp where the source is chosen per request.
func ProcessAndValidateSettings(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend lower-cases and validates a backend name. Empty input stays empty.
func ParseBackend(raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		return "", nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Chronological = input.Chronological
	cfg.GitHubToken = input.GitHubToken

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers and RateLimit Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers
	if input.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be greater than 0 (received %g)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit

	// --- 3. Precision, Unit and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Unit = schema.DurationUnit(strings.ToLower(input.Unit))
	if cfg.Unit == "" {
		cfg.Unit = schema.UnitDays
	}
	if _, ok := schema.ValidDurationUnits[cfg.Unit]; !ok {
		return fmt.Errorf("invalid unit '%s'. must be days, seconds", input.Unit)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 4. Log Level ---
	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = DefaultLogLevel
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log-level '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = level

	return nil
}

// validateBackendConfigs validates cache and store backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	ttl := input.CacheTTL
	if ttl == "" {
		ttl = DefaultCacheTTL
	}
	cfg.CacheTTL, err = time.ParseDuration(ttl)
	if err != nil || cfg.CacheTTL < 0 {
		return fmt.Errorf("invalid cache-ttl '%s'. expected a non-negative duration such as 24h", input.CacheTTL)
	}

	// --- Store Backend Validation ---
	cfg.StoreBackend, err = ParseBackend(input.StoreBackend)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if cfg.StoreBackend == "" {
		return nil
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	// Validate that cache and store use different databases
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.StoreBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		if cachePath == storePath {
			return fmt.Errorf("cache and store must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// resolveSource decides where issue records come from.
func resolveSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = strings.TrimSpace(input.Source)
	cfg.Repo = strings.TrimSpace(input.Repo)
	if cfg.Repo != "" {
		owner, name, err := ParseRepo(cfg.Repo)
		if err != nil {
			return err
		}
		cfg.RepoOwner, cfg.RepoName = owner, name
	}

	kind, err := SourceKindOf(cfg.Source, cfg.Repo != "")
	if err != nil {
		return err
	}
	cfg.SourceKind = kind

	switch kind {
	case schema.GitHubSource:
		if cfg.Repo == "" {
			return fmt.Errorf("--repo is required when loading from github")
		}
	case schema.StoreSource:
		if cfg.Repo == "" {
			return fmt.Errorf("--repo is required when loading from the store")
		}
		if cfg.StoreBackend == "" || cfg.StoreBackend == schema.NoneBackend {
			return fmt.Errorf("--store-backend must be set when loading from the store")
		}
	}
	return nil
}

// SourceKindOf classifies a --source value. An empty source falls back to github
// when a repo is given.
func SourceKindOf(source string, hasRepo bool) (schema.SourceKind, error) {
	lower := strings.ToLower(source)
	switch {
	case lower == "" && hasRepo:
		return schema.GitHubSource, nil
	case lower == "":
		return "", fmt.Errorf("no issue source given. pass --source <file.json|file.parquet|github|store> or --repo owner/name")
	case lower == string(schema.GitHubSource):
		return schema.GitHubSource, nil
	case lower == string(schema.StoreSource):
		return schema.StoreSource, nil
	case strings.HasSuffix(lower, ".parquet"):
		return schema.ParquetSource, nil
	case strings.HasSuffix(lower, ".json"), lower == "-":
		return schema.JSONSource, nil
	default:
		return "", fmt.Errorf("unsupported source '%s'. must end in .json or .parquet, or be github or store", source)
	}
}

// RevalidateSource re-resolves the source of an already validated config. It is
// used when a caller such as an MCP tool overrides the source per request.
func RevalidateSource(cfg *Config, source, repo string) error {
	return resolveSource(cfg, &ConfigRawInput{Source: source, Repo: repo})
}
