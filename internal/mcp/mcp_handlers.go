package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/issuelens/core"
	"github.com/huangsam/issuelens/core/engine"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// resolve builds the per-request config and source. Tool logic failures are
// returned as an error result rather than a protocol error.
func (h *toolHandler) resolve(request mcp.CallToolRequest) (*contract.Config, contract.IssueSource, *mcp.CallToolResult) {
	cfg := h.baseCfg.Clone()
	source := request.GetString(sourceParam, cfg.Source)
	repo := request.GetString(repoParam, cfg.Repo)
	if err := contract.RevalidateSource(cfg, source, repo); err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid source parameters: %v", err))
	}
	src, err := core.NewSource(cfg, h.mgr)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid source parameters: %v", err))
	}
	return cfg, src, nil
}

// jsonResult encodes a metric result, or reports the analysis error.
func jsonResult(result any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleLabelFrequency(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, src, errResult := h.resolve(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(core.AnalyzeLabels(ctx, src))
}

func (h *toolHandler) handleDistribution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, src, errResult := h.resolve(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(core.AnalyzeDistribution(ctx, src))
}

func (h *toolHandler) handleResponseTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, errResult := h.resolve(request)
	if errResult != nil {
		return errResult, nil
	}
	opts := engine.ResponseOptions{Chronological: request.GetBool(chronologicalParam, cfg.Chronological)}
	return jsonResult(core.AnalyzeResponseTime(ctx, src, opts))
}

func (h *toolHandler) handleUpdateDurations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, src, errResult := h.resolve(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(core.AnalyzeUpdate(ctx, src))
}

func (h *toolHandler) handleCreatorOverlap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, errResult := h.resolve(request)
	if errResult != nil {
		return errResult, nil
	}
	limit := cfg.ResultLimit
	if l := request.GetInt(limitParam, 0); l > 0 {
		limit = l
	}
	return jsonResult(core.AnalyzeOverlap(ctx, src, limit))
}

func (h *toolHandler) handleMonthlyCreation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, src, errResult := h.resolve(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(core.AnalyzeMonthly(ctx, src))
}
