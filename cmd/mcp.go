package cmd

import (
	"fmt"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/iocache"
	"github.com/huangsam/issuelens/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpSetup validates settings without requiring a source; each tool call names its own.
func mcpSetup(_ *cobra.Command, args []string) error {
	if err := readInput(args); err != nil {
		return err
	}
	if err := contract.ProcessAndValidateSettings(cfg, input); err != nil {
		return err
	}
	if input.Source != "" || input.Repo != "" {
		if err := contract.RevalidateSource(cfg, input.Source, input.Repo); err != nil {
			return err
		}
	}
	applyRuntime()

	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the IssueLens MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents run every issue metric
as a tool. Each tool accepts a source and repo, defaulting to --source and --repo.`,
	Args:    cobra.NoArgs,
	PreRunE: mcpSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
