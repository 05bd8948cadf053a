package contract

import (
	"testing"
	"time"

	"github.com/huangsam/issuelens/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation with a JSON file source.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Source:       "issues.json",
		Limit:        10,
		Workers:      4,
		RateLimit:    10,
		Precision:    1,
		Output:       "text",
		Color:        "yes",
		CacheBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.JSONSource, cfg.SourceKind)
				assert.Equal(t, schema.UnitDays, cfg.Unit)
				assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
				assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
				assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
				assert.Empty(t, string(cfg.StoreBackend))
				assert.True(t, cfg.UseColors)
			},
		},
		{
			name:   "repo without source means github",
			mutate: func(in *ConfigRawInput) { in.Source = ""; in.Repo = "octo/hello" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.GitHubSource, cfg.SourceKind)
				assert.Equal(t, "octo", cfg.RepoOwner)
				assert.Equal(t, "hello", cfg.RepoName)
			},
		},
		{
			name:   "parquet source",
			mutate: func(in *ConfigRawInput) { in.Source = "dump.PARQUET" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.ParquetSource, cfg.SourceKind)
			},
		},
		{
			name: "store source with backend",
			mutate: func(in *ConfigRawInput) {
				in.Source = "store"
				in.Repo = "octo/hello"
				in.StoreBackend = "sqlite"
				in.StoreDBConnect = "/tmp/issuelens-store.db"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.StoreSource, cfg.SourceKind)
				assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
			},
		},
		{
			name:   "seconds unit and debug logging",
			mutate: func(in *ConfigRawInput) { in.Unit = "SECONDS"; in.LogLevel = "debug" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.UnitSeconds, cfg.Unit)
				assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
			},
		},
		{name: "no source", mutate: func(in *ConfigRawInput) { in.Source = "" }, expectError: true},
		{name: "unsupported source", mutate: func(in *ConfigRawInput) { in.Source = "issues.xml" }, expectError: true},
		{name: "github without repo", mutate: func(in *ConfigRawInput) { in.Source = "github" }, expectError: true},
		{name: "store without backend", mutate: func(in *ConfigRawInput) { in.Source = "store"; in.Repo = "a/b" }, expectError: true},
		{name: "bad repo", mutate: func(in *ConfigRawInput) { in.Repo = "just-a-name" }, expectError: true},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too high", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "zero rate limit", mutate: func(in *ConfigRawInput) { in.RateLimit = 0 }, expectError: true},
		{name: "bad precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "bad unit", mutate: func(in *ConfigRawInput) { in.Unit = "weeks" }, expectError: true},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "bad log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "bad cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "bad cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "soon" }, expectError: true},
		{
			name:        "mysql cache without dsn",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "mysql" },
			expectError: true,
		},
		{
			name: "cache and store share a sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "sqlite"
				in.CacheDBConnect = "/tmp/same.db"
				in.StoreDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"valid mysql", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/issues", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/issues", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"valid postgres", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=issues", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=issues", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Repo: "a/b", ResultLimit: 5}
	clone := cfg.Clone()
	clone.ResultLimit = 7
	assert.Equal(t, 5, cfg.ResultLimit)
	assert.Equal(t, "a/b", clone.Repo)
}
