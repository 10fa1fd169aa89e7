package backend

import (
	"context"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport for testing.
type MockTransport struct {
	mock.Mock
}

var _ contract.Transport = &MockTransport{} // Compile-time check

// Do implements the Transport interface.
func (m *MockTransport) Do(ctx context.Context, req contract.Request) ([]byte, error) {
	args := m.Called(ctx, req)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// MockSource is a mock implementation of DashboardSource for testing.
type MockSource struct {
	mock.Mock
}

var _ contract.DashboardSource = &MockSource{} // Compile-time check

// Overview implements the DashboardSource interface.
func (m *MockSource) Overview(ctx context.Context, userID string) (schema.WireOverview, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(schema.WireOverview)
	return out, args.Error(1)
}

// Stats implements the DashboardSource interface.
func (m *MockSource) Stats(ctx context.Context, userID string) (schema.WireStats, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(schema.WireStats)
	return out, args.Error(1)
}

// Milestones implements the DashboardSource interface.
func (m *MockSource) Milestones(ctx context.Context, userID string) ([]schema.WireMilestone, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]schema.WireMilestone)
	return out, args.Error(1)
}

// Trend implements the DashboardSource interface.
func (m *MockSource) Trend(ctx context.Context, userID string, days int) ([]schema.WireTrendPoint, error) {
	args := m.Called(ctx, userID, days)
	out, _ := args.Get(0).([]schema.WireTrendPoint)
	return out, args.Error(1)
}

// Heatmap implements the DashboardSource interface.
func (m *MockSource) Heatmap(ctx context.Context, userID string, r schema.HeatmapRange) ([]schema.WireHeatmapEntry, error) {
	args := m.Called(ctx, userID, r)
	out, _ := args.Get(0).([]schema.WireHeatmapEntry)
	return out, args.Error(1)
}

// Languages implements the DashboardSource interface.
func (m *MockSource) Languages(ctx context.Context, userID string) ([]schema.WireLanguageStat, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]schema.WireLanguageStat)
	return out, args.Error(1)
}

// Hourly implements the DashboardSource interface.
func (m *MockSource) Hourly(ctx context.Context, userID string, days int) ([]schema.WireHourlyActivity, error) {
	args := m.Called(ctx, userID, days)
	out, _ := args.Get(0).([]schema.WireHourlyActivity)
	return out, args.Error(1)
}

// SyncGitHub implements the DashboardSource interface.
func (m *MockSource) SyncGitHub(ctx context.Context, req schema.SyncRequest) (schema.WireSyncResponse, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).(schema.WireSyncResponse)
	return out, args.Error(1)
}
