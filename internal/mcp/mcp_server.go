// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMCPServer initializes and configures the devpulse MCP server without starting it.
// newStore is called once per tool call. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, newStore StoreFactory, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"DevPulse Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	if logger == nil {
		logger = zap.NewNop()
	}
	h := &toolHandler{
		baseCfg:  baseCfg,
		newStore: newStore,
		logger:   logger,
	}
	userOpt := mcp.WithString("user_id", mcp.Description("Dashboard user id (defaults to the configured user)."))

	// --- 1. Tool: get_overview ---
	s.AddTool(mcp.NewTool("get_overview",
		mcp.WithDescription("Load the whole dashboard and return it with derived totals and trends."),
		userOpt,
	), h.handleGetOverview)

	// --- 2. Tool: get_stats ---
	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Refresh only the headline commit counters."),
		userOpt,
	), h.handleGetStats)

	// --- 3. Tool: get_milestones ---
	s.AddTool(mcp.NewTool("get_milestones",
		mcp.WithDescription("List achievement milestones. Falls back to the built-in catalog when the backend has none."),
		userOpt,
	), h.handleGetMilestones)

	// --- 4. Tool: get_heatmap ---
	s.AddTool(mcp.NewTool("get_heatmap",
		mcp.WithDescription("Return one year of daily commit counts with intensity levels 0-4."),
		userOpt,
		mcp.WithString("start", mcp.Description("First day as YYYY-MM-DD.")),
		mcp.WithString("end", mcp.Description("Last day as YYYY-MM-DD.")),
	), h.handleGetHeatmap)

	// --- 5. Tool: get_trend ---
	s.AddTool(mcp.NewTool("get_trend",
		mcp.WithDescription("Return the daily commit trend."),
		userOpt,
		mcp.WithNumber("days", mcp.Description("Number of days, 1 to 365. Defaults to 30.")),
	), h.handleGetTrend)

	// --- 6. Tool: get_languages ---
	s.AddTool(mcp.NewTool("get_languages",
		mcp.WithDescription("Return the language mix of recent commits."),
		userOpt,
	), h.handleGetLanguages)

	// --- 7. Tool: classify_commits ---
	s.AddTool(mcp.NewTool("classify_commits",
		mcp.WithDescription("Map daily commit counts to heatmap intensity levels (0: none, 1: 1-3, 2: 4-6, 3: 7-10, 4: 11+)."),
		mcp.WithString("commits", mcp.Description("Comma-separated daily commit counts, e.g. '0,3,12'."), mcp.Required()),
	), h.handleClassifyCommits)

	return s
}

// StartMCPServer starts the devpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, newStore StoreFactory, logger *zap.Logger) error {
	s := NewMCPServer(baseCfg, newStore, logger)
	return server.ServeStdio(s)
}
