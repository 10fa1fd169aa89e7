package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func getReq(path string, params url.Values) contract.Request {
	return contract.Request{Method: http.MethodGet, Path: path, Params: params}
}

func TestClientOverview(t *testing.T) {
	ctx := context.Background()
	tr := &MockTransport{}
	tr.On("Do", ctx, getReq(OverviewPath, url.Values{"user_id": {"1"}})).Return([]byte(`{
		"stats": {"today_commits": 2},
		"milestones": [],
		"trend_data": [{"date": "2026-10-19", "commits": 2}]
	}`), nil)

	c := NewClient(tr, 0)
	ov, err := c.Overview(ctx, "1")
	require.NoError(t, err)

	require.NotNil(t, ov.Stats)
	assert.Equal(t, 2, *ov.Stats.TodayCommits)
	assert.NotNil(t, ov.Milestones)
	assert.Empty(t, ov.Milestones)
	assert.Len(t, ov.TrendData, 1)
	assert.Nil(t, ov.HeatmapData)
	assert.Nil(t, ov.HourlyActivity)
	tr.AssertExpectations(t)
}

func TestClientDefaultDays(t *testing.T) {
	ctx := context.Background()
	tr := &MockTransport{}
	tr.On("Do", ctx, getReq(TrendPath, url.Values{"user_id": {"1"}, "days": {"30"}})).Return([]byte(`[]`), nil)
	tr.On("Do", ctx, getReq(HourlyPath, url.Values{"user_id": {"1"}, "days": {"7"}})).Return([]byte(`[]`), nil)
	tr.On("Do", ctx, getReq(TrendPath, url.Values{"user_id": {"1"}, "days": {"14"}})).Return([]byte(`[]`), nil)

	c := NewClient(tr, 0)
	_, err := c.Trend(ctx, "1", 0)
	require.NoError(t, err)
	_, err = c.Hourly(ctx, "1", -2)
	require.NoError(t, err)
	_, err = c.Trend(ctx, "1", 14)
	require.NoError(t, err)
	tr.AssertExpectations(t)
}

func TestClientHeatmapRange(t *testing.T) {
	ctx := context.Background()
	tr := &MockTransport{}
	tr.On("Do", ctx, getReq(HeatmapPath, url.Values{"user_id": {"1"}})).Return([]byte(`[]`), nil).Once()
	tr.On("Do", ctx, getReq(HeatmapPath, url.Values{
		"user_id":    {"1"},
		"start_date": {"2026-01-01"},
		"end_date":   {"2026-10-19"},
	})).Return([]byte(`[{"date": "2026-10-19", "count": 4}]`), nil).Once()

	c := NewClient(tr, 0)
	entries, err := c.Heatmap(ctx, "1", schema.HeatmapRange{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = c.Heatmap(ctx, "1", schema.HeatmapRange{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, *entries[0].Count)
	tr.AssertExpectations(t)
}

func TestClientSyncUsesSyncTimeout(t *testing.T) {
	ctx := context.Background()
	tr := &MockTransport{}
	req := schema.SyncRequest{UserID: "1", Username: "octo", SyncMode: schema.IncrementalSync}
	tr.On("Do", ctx, mock.MatchedBy(func(r contract.Request) bool {
		return r.Method == http.MethodPost && r.Path == SyncPath && r.Timeout == 2*time.Minute && r.Body == req
	})).Return([]byte(`{"success": true, "repos_synced": 3, "commits_synced": 40}`), nil)

	c := NewClient(tr, 2*time.Minute)
	resp, err := c.SyncGitHub(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, *resp.ReposSynced)
	assert.Equal(t, 40, *resp.CommitsSynced)
	tr.AssertExpectations(t)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("transport error passes through", func(t *testing.T) {
		tr := &MockTransport{}
		tr.On("Do", ctx, mock.Anything).Return(nil, &contract.ServerError{Status: 503})
		_, err := NewClient(tr, 0).Languages(ctx, "1")
		var serverErr *contract.ServerError
		assert.True(t, errors.As(err, &serverErr))
	})

	t.Run("malformed json", func(t *testing.T) {
		tr := &MockTransport{}
		tr.On("Do", ctx, mock.Anything).Return([]byte(`{"oops"`), nil)
		_, err := NewClient(tr, 0).Milestones(ctx, "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), MilestonesPath)
	})

	t.Run("empty body decodes to zero value", func(t *testing.T) {
		tr := &MockTransport{}
		tr.On("Do", ctx, mock.Anything).Return([]byte{}, nil)
		stats, err := NewClient(tr, 0).Stats(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, stats.TodayCommits)
	})
}
