package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/issuelens/core"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fetchCmd downloads issues from GitHub into a file.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a repository's issues and events from GitHub.",
	Long: `Fetch every issue of --repo with its events and comments from the GitHub API
and write the raw records as JSON or Parquet. Pull requests are skipped.

The output format follows the --output-file extension: .parquet writes Parquet,
anything else writes JSON. Without --output-file, JSON goes to stdout.

Responses are kept in the fetch cache for --cache-ttl, so repeated fetches and
analyses of the same repository do not hit the API again.

Examples:
  # Set a token to raise the API rate limit
  GITHUB_TOKEN=... issuelens fetch --repo octo/hello --output-file hello.parquet

  # Pipe straight into an analysis
  issuelens fetch --repo octo/hello | issuelens labels -`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("source", string(schema.GitHubSource))
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		src, err := core.NewSource(cfg, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot resolve issue source", err)
		}
		n, err := core.SaveRecords(rootCtx, src, cfg.Repo, cfg.OutputFile, os.Stdout)
		if err != nil {
			contract.LogFatal("Failed to fetch issues", err)
		}
		if cfg.OutputFile != "" {
			_, _ = fmt.Fprintf(os.Stderr, "💾 Fetched %d issues of %s to %s\n", n, cfg.Repo, cfg.OutputFile)
		}
	},
}
