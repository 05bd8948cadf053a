// Package cmd defines the command-line interface for issuelens.
package cmd

import (
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(distributionCmd)
	rootCmd.AddCommand(responseCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(overlapCmd)
	rootCmd.AddCommand(monthlyCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeImportCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("source", "s", "", "Issue source: a .json or .parquet path, '-' for stdin, github or store")
	rootCmd.PersistentFlags().StringP("repo", "r", "", "Repository as owner/name (required for github and store)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (prefer the GITHUB_TOKEN env variable)")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Maximum GitHub requests per second")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent GitHub event fetches")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of top results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for percentages")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored bars in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Fetch cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the fetch cache (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "How long fetched GitHub issues stay fresh in the cache")
	rootCmd.PersistentFlags().String("store-backend", "", "Issue store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the issue store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of responseCmd to Viper
	responseCmd.Flags().String("unit", string(schema.UnitDays), "Duration unit: days or seconds")
	responseCmd.Flags().Bool("chronological", false, "Use the earliest dated event instead of the first listed one")
	if err := viper.BindPFlags(responseCmd.Flags()); err != nil {
		contract.LogFatal("Error binding response flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
