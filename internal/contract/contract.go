// Package contract provides interfaces and shared utilities for devpulse's internal architecture.
package contract

import (
	"context"
	"net/url"
	"time"

	"github.com/huangsam/devpulse/schema"
)

// Request describes one call against the dashboard backend.
type Request struct {
	Method  string
	Path    string
	Params  url.Values
	Body    any
	Timeout time.Duration // zero means the transport default
}

// Transport issues backend requests and returns the raw JSON body.
// Failures are normalized into *TransportError, *ClientError or *ServerError.
// This allows the backend client to be tested without a live server.
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// DashboardSource defines the typed backend endpoints the aggregation store reads.
// This allows the store to be tested without a transport.
type DashboardSource interface {
	Overview(ctx context.Context, userID string) (schema.WireOverview, error)
	Stats(ctx context.Context, userID string) (schema.WireStats, error)
	Milestones(ctx context.Context, userID string) ([]schema.WireMilestone, error)
	Trend(ctx context.Context, userID string, days int) ([]schema.WireTrendPoint, error)
	Heatmap(ctx context.Context, userID string, r schema.HeatmapRange) ([]schema.WireHeatmapEntry, error)
	Languages(ctx context.Context, userID string) ([]schema.WireLanguageStat, error)
	Hourly(ctx context.Context, userID string, days int) ([]schema.WireHourlyActivity, error)
	SyncGitHub(ctx context.Context, req schema.SyncRequest) (schema.WireSyncResponse, error)
}

// KVStore defines the interface for preference persistence.
// This allows mocking the store for testing.
type KVStore interface {
	// Get returns the value and its write timestamp. Missing keys return sql.ErrNoRows.
	Get(key string) ([]byte, int64, error)

	// Set inserts or replaces the value for key.
	Set(key string, value []byte, timestamp int64) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.PrefsStatus, error)

	// Close closes the underlying connection.
	Close() error
}
