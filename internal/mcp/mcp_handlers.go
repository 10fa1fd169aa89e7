package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/core/heatmap"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// defaultTrendDays is the trend window when neither the request nor the config sets one.
const defaultTrendDays = 30

var errNoUser = errors.New("user_id is required: pass it or configure --user")

// StoreFactory builds the store a single tool call fetches into.
type StoreFactory func() *core.Store

// toolHandler holds common dependencies for MCP tool handlers.
// Every call gets its own store so overlapping calls for different users never share a snapshot.
type toolHandler struct {
	baseCfg  *contract.Config
	newStore StoreFactory
	logger   *zap.Logger
}

// userID returns the request's user_id, falling back to the configured user.
func (h *toolHandler) userID(request mcp.CallToolRequest) (string, error) {
	if id := strings.TrimSpace(request.GetString("user_id", "")); id != "" {
		return id, nil
	}
	if h.baseCfg.UserID != "" {
		return h.baseCfg.UserID, nil
	}
	return "", errNoUser
}

// fetchFunc loads one part of the dashboard for userID into store.
type fetchFunc func(ctx context.Context, store *core.Store, userID string) error

// fetchAndReturn runs fetch for the requested user on a fresh store and encodes pick(snapshot).
func (h *toolHandler) fetchAndReturn(
	ctx context.Context,
	request mcp.CallToolRequest,
	name string,
	fetch fetchFunc,
	pick func(st core.State) any,
) (*mcp.CallToolResult, error) {
	userID, err := h.userID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	store := h.newStore()
	if err := fetch(ctx, store, userID); err != nil {
		h.logger.Debug("mcp tool failed", zap.String("tool", name), zap.String("user_id", userID), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
	}
	return jsonResult(pick(store.Snapshot()))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fetchAndReturn(ctx, request, "get_overview", func(ctx context.Context, store *core.Store, userID string) error {
		return store.FetchOverview(ctx, userID)
	}, func(st core.State) any {
		return struct {
			State   core.State   `json:"state"`
			Derived core.Derived `json:"derived"`
		}{st, core.Derive(st)}
	})
}

func (h *toolHandler) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fetchAndReturn(ctx, request, "get_stats", func(ctx context.Context, store *core.Store, userID string) error {
		return store.FetchStatsOnly(ctx, userID)
	}, func(st core.State) any {
		return struct {
			Stats        schema.Stats `json:"stats"`
			TotalCommits int          `json:"totalCommits"`
		}{st.Stats, st.TotalCommits()}
	})
}

func (h *toolHandler) handleGetMilestones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fetchAndReturn(ctx, request, "get_milestones", func(ctx context.Context, store *core.Store, userID string) error {
		return store.FetchMilestones(ctx, userID)
	}, func(st core.State) any {
		return struct {
			Milestones []schema.Milestone     `json:"milestones"`
			Summary    core.MilestoneSummary `json:"summary"`
		}{st.Milestones, core.SummarizeMilestones(st.Milestones)}
	})
}

func (h *toolHandler) handleGetHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var r schema.HeatmapRange
	var err error
	if r.Start, err = parseDay(request.GetString("start", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	if r.End, err = parseDay(request.GetString("end", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return mcp.NewToolResultError("invalid range: end is before start"), nil
	}

	fetch := func(ctx context.Context, store *core.Store, userID string) error { return store.FetchHeatmap(ctx, userID, r) }
	return h.fetchAndReturn(ctx, request, "get_heatmap", fetch, func(st core.State) any { return st.Heatmap })
}

func (h *toolHandler) handleGetTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", h.baseCfg.DaysOr(defaultTrendDays))
	if days < 1 || days > 365 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid days: %d is outside 1..365", days)), nil
	}

	fetch := func(ctx context.Context, store *core.Store, userID string) error { return store.FetchTrend(ctx, userID, days) }
	return h.fetchAndReturn(ctx, request, "get_trend", fetch, func(st core.State) any {
		return struct {
			Trend  []schema.TrendPoint `json:"trend"`
			Totals core.TrendTotals    `json:"totals"`
		}{st.Trend, core.SumTrend(st.Trend)}
	})
}

func (h *toolHandler) handleGetLanguages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fetchAndReturn(ctx, request, "get_languages", func(ctx context.Context, store *core.Store, userID string) error {
		return store.FetchLanguages(ctx, userID)
	}, func(st core.State) any {
		return st.Languages
	})
}

func (h *toolHandler) handleClassifyCommits(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("commits")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type classified struct {
		Commits int    `json:"commits"`
		Level   int    `json:"level"`
		Label   string `json:"label"`
	}
	var out []classified
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid commit count %q", part)), nil
		}
		level := heatmap.Classify(n)
		out = append(out, classified{Commits: n, Level: level, Label: contract.GetPlainHeatLabel(level)})
	}
	if len(out) == 0 {
		return mcp.NewToolResultError("commits must hold at least one count"), nil
	}
	return jsonResult(out)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(schema.DateLayout, s)
}
