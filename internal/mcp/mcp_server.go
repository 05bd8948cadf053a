// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names exposed by the server.
const (
	ToolLabelFrequency  = "get_label_frequency"
	ToolDistribution    = "get_distribution"
	ToolResponseTime    = "get_response_time"
	ToolUpdateDurations = "get_update_durations"
	ToolCreatorOverlap  = "get_creator_overlap"
	ToolMonthlyCreation = "get_monthly_creation"
)

// Tool parameters.
const (
	sourceParam        = "source"
	repoParam          = "repo"
	limitParam         = "limit"
	chronologicalParam = "chronological"
)

// sourceOptions are the parameters shared by every tool.
func sourceOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(sourceParam, mcp.Description("Issue source: a .json or .parquet file path, 'github' or 'store'. Defaults to the configured source.")),
		mcp.WithString(repoParam, mcp.Description("Repository as owner/name. Required for the github and store sources.")),
	}
}

func newTool(name, description string, extra ...mcp.ToolOption) mcp.Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(description)}, sourceOptions()...)
	return mcp.NewTool(name, append(opts, extra...)...)
}

// NewMCPServer initializes and configures the IssueLens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"IssueLens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(newTool(ToolLabelFrequency,
		"Count how often each label value appears across all issues, in first-seen order."),
		h.handleLabelFrequency)

	s.AddTool(newTool(ToolDistribution,
		"Count issues by state, creation year and label-set size, plus the state cross tables."),
		h.handleDistribution)

	s.AddTool(newTool(ToolResponseTime,
		"Measure the time from issue creation to its first event, with mean, min and max.",
		mcp.WithBoolean(chronologicalParam, mcp.Description("Use the earliest dated event instead of the first listed one."))),
		h.handleResponseTime)

	s.AddTool(newTool(ToolUpdateDurations,
		"Seconds between created_date and updated_date for every issue that has both."),
		h.handleUpdateDurations)

	s.AddTool(newTool(ToolCreatorOverlap,
		"Compare the most active issue creators with the most active commenters.",
		mcp.WithNumber(limitParam, mcp.Description("Number of top creators and commenters to compare."))),
		h.handleCreatorOverlap)

	s.AddTool(newTool(ToolMonthlyCreation,
		"Count issues per creation month (YYYY-MM)."),
		h.handleMonthlyCreation)

	return s
}

// StartMCPServer starts the IssueLens MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
