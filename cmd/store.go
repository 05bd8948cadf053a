package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/issuelens/core"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/iocache"
	"github.com/huangsam/issuelens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendConfig reads the store backend, defaulting to SQLite for store commands.
func storeBackendConfig() (schema.DatabaseBackend, string, error) {
	backend, err := contract.ParseBackend(viper.GetString("store-backend"))
	if err != nil {
		return "", "", err
	}
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}

	// Initialize the store only (no fetch cache for store commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize issue store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Repo = viper.GetString("repo")
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeRawSetup resolves the store backend WITHOUT opening it, so that clear and
// migrate can run on a missing or outdated database.
func storeRawSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSQLitePath returns the SQLite file of the store.
func storeSQLitePath() string {
	if cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return contract.GetStoreDBFilePath()
}

// storeRepo returns --repo or fails.
func storeRepo() string {
	if cfg.Repo == "" {
		contract.LogFatal("Missing repository", errors.New("--repo is required"))
	}
	return cfg.Repo
}

// storeCmd focused on issue store management.
//
// Note: Store subcommands other than import use minimal initialization (storeSetup)
// instead of the full sharedSetup used by analysis commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local issue store",
	Long: `Manage the issue store, a database of imported issue collections.

Importing a repository once lets every analysis read it with --source store
instead of re-reading files or calling GitHub. Only input data is stored;
computed metrics are never persisted.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  import  - Load issues from a file or GitHub into the store
  status  - Show store statistics
  delete  - Remove one repository
  export  - Export one repository to Parquet
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  issuelens store import issues.json --repo octo/hello
  issuelens labels --source store --repo octo/hello`,
}

// storeImportCmd imports issues into the store.
var storeImportCmd = &cobra.Command{
	Use:   "import [source]",
	Short: "Load issues from a file or GitHub into the store",
	Long: `Load issues from a JSON or Parquet file, or from GitHub, and store them under
--repo. An import replaces the repository's previously stored issues.

Examples:
  issuelens store import issues.parquet --repo octo/hello
  issuelens store import --repo octo/hello   # fetch from GitHub`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("store-backend") == "" {
			viper.Set("store-backend", string(schema.SQLiteBackend))
		}
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.SourceKind == schema.StoreSource {
			contract.LogFatal("Invalid import source", errors.New("cannot import from the store itself"))
		}
		repo := storeRepo()
		src, err := core.NewSource(cfg, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot resolve issue source", err)
		}
		n, err := core.ImportRecords(rootCtx, src, cacheManager.GetIssueStore(), repo, time.Now())
		if err != nil {
			contract.LogFatal("Failed to import issues", err)
		}
		fmt.Printf("Imported %d issues into %s.\n", n, repo)
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the issue store.

Displays:
- Backend type, connection status and schema version
- Stored repositories with issue and event counts
- Last and oldest import timestamps
- Database table sizes

Examples:
  issuelens store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetIssueStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeDeleteCmd removes one repository.
var storeDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored issues of one repository",
	Long: `Delete every stored issue, event and import record of --repo.

Examples:
  issuelens store delete --repo octo/hello`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		repo := storeRepo()
		if err := iocache.Manager.GetIssueStore().DeleteRepo(rootCtx, repo); err != nil {
			contract.LogFatal("Failed to delete repository", err)
		}
		fmt.Printf("Deleted %s from the store.\n", repo)
	},
}

// storeExportCmd exports one repository to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored repository to Parquet for BI tools and analytics",
	Long: `Export the stored issues of --repo to a Parquet file. The file can be read
back with --source, or queried directly by analytics tools.

Requires: --repo and --output-file

Examples:
  issuelens store export --repo octo/hello --output-file hello.parquet
  duckdb -c "SELECT state, count(*) FROM read_parquet('hello.parquet') GROUP BY 1"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		repo := storeRepo()
		if err := iocache.ExportRepo(rootCtx, iocache.Manager.GetIssueStore(), repo, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export issues", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored issues",
	Long: `Delete all stored issues and the schema migration history.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  issuelens store export --repo octo/hello --output-file backup.parquet
  issuelens store clear`,
	PreRunE: storeRawSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, storeSQLitePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear issue store", err)
		}
		fmt.Println("Issue store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the issue store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the issue store.

By default, migrates to the latest version. Use --target-version for specific versions.
Opening the store also migrates to the latest version.

Examples:
  # Migrate to latest version (default)
  issuelens store migrate

  # Migrate to specific version
  issuelens store migrate --target-version 2

  # Rollback to the initial state
  issuelens store migrate --target-version 0`,
	PreRunE: storeRawSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
