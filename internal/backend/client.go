package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Backend endpoint paths.
const (
	OverviewPath   = "/api/v1/dashboard/overview"
	StatsPath      = "/api/v1/dashboard/stats"
	MilestonesPath = "/api/v1/dashboard/milestones"
	TrendPath      = "/api/v1/dashboard/trend"
	HeatmapPath    = "/api/v1/dashboard/heatmap"
	LanguagesPath  = "/api/v1/analytics/languages"
	HourlyPath     = "/api/v1/analytics/hourly"
	SyncPath       = "/api/v1/sync/github"
)

// Client wraps every dashboard endpoint and decodes the wire payloads.
type Client struct {
	transport   contract.Transport
	syncTimeout time.Duration
}

var _ contract.DashboardSource = &Client{} // Compile-time check

// NewClient creates a Client. Sync calls use syncTimeout instead of the transport default.
func NewClient(transport contract.Transport, syncTimeout time.Duration) *Client {
	if syncTimeout <= 0 {
		syncTimeout = contract.DefaultSyncTimeout
	}
	return &Client{transport: transport, syncTimeout: syncTimeout}
}

// Overview fetches the combined dashboard payload.
func (c *Client) Overview(ctx context.Context, userID string) (schema.WireOverview, error) {
	var out schema.WireOverview
	err := c.get(ctx, OverviewPath, userParams(userID), &out)
	return out, err
}

// Stats fetches the stats block.
func (c *Client) Stats(ctx context.Context, userID string) (schema.WireStats, error) {
	var out schema.WireStats
	err := c.get(ctx, StatsPath, userParams(userID), &out)
	return out, err
}

// Milestones fetches the milestone list.
func (c *Client) Milestones(ctx context.Context, userID string) ([]schema.WireMilestone, error) {
	var out []schema.WireMilestone
	err := c.get(ctx, MilestonesPath, userParams(userID), &out)
	return out, err
}

// Trend fetches the last days of commit trend. Non-positive days use the default of 30.
func (c *Client) Trend(ctx context.Context, userID string, days int) ([]schema.WireTrendPoint, error) {
	if days <= 0 {
		days = contract.DefaultTrendDays
	}
	params := userParams(userID)
	params.Set("days", strconv.Itoa(days))
	var out []schema.WireTrendPoint
	err := c.get(ctx, TrendPath, params, &out)
	return out, err
}

// Heatmap fetches heatmap entries. Zero range bounds are omitted.
func (c *Client) Heatmap(ctx context.Context, userID string, r schema.HeatmapRange) ([]schema.WireHeatmapEntry, error) {
	params := userParams(userID)
	if !r.Start.IsZero() {
		params.Set("start_date", r.Start.Format(schema.DateLayout))
	}
	if !r.End.IsZero() {
		params.Set("end_date", r.End.Format(schema.DateLayout))
	}
	var out []schema.WireHeatmapEntry
	err := c.get(ctx, HeatmapPath, params, &out)
	return out, err
}

// Languages fetches the language mix.
func (c *Client) Languages(ctx context.Context, userID string) ([]schema.WireLanguageStat, error) {
	var out []schema.WireLanguageStat
	err := c.get(ctx, LanguagesPath, userParams(userID), &out)
	return out, err
}

// Hourly fetches hour-of-day activity. Non-positive days use the default of 7.
func (c *Client) Hourly(ctx context.Context, userID string, days int) ([]schema.WireHourlyActivity, error) {
	if days <= 0 {
		days = contract.DefaultHourlyDays
	}
	params := userParams(userID)
	params.Set("days", strconv.Itoa(days))
	var out []schema.WireHourlyActivity
	err := c.get(ctx, HourlyPath, params, &out)
	return out, err
}

// SyncGitHub asks the backend to pull data from GitHub. It runs with the extended sync timeout.
func (c *Client) SyncGitHub(ctx context.Context, req schema.SyncRequest) (schema.WireSyncResponse, error) {
	var out schema.WireSyncResponse
	data, err := c.transport.Do(ctx, contract.Request{
		Method:  http.MethodPost,
		Path:    SyncPath,
		Body:    req,
		Timeout: c.syncTimeout,
	})
	if err != nil {
		return out, err
	}
	if err := decode(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", SyncPath, err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	data, err := c.transport.Do(ctx, contract.Request{Method: http.MethodGet, Path: path, Params: params})
	if err != nil {
		return err
	}
	if err := decode(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decode(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func userParams(userID string) url.Values {
	return url.Values{"user_id": []string{userID}}
}
