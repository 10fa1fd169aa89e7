package webview

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/backend"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestHandler(userID string) (*Handler, *core.Store, *backend.MockSource) {
	src := &backend.MockSource{}
	clock := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	store := core.NewStore(src, core.WithClock(clock))
	return NewHandler(store, userID, nil), store, src
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler("u1")
	rec := httptest.NewRecorder()
	Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStateAndDerived(t *testing.T) {
	h, store, _ := newTestHandler("u1")
	store.UpdateStats(core.StatsPatch{TodayCommits: ptr(2), WeekCommits: ptr(5), MonthCommits: ptr(9)})
	router := Routes(h)

	t.Run("state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var st core.State
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
		assert.Equal(t, 5, st.Stats.WeekCommits)
	})

	t.Run("derived", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/derived", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var d core.Derived
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
		assert.Equal(t, 16, d.TotalCommits)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRefresh(t *testing.T) {
	overview := schema.WireOverview{
		Stats: &schema.WireStats{TodayCommits: ptr(4), WeekCommits: ptr(10), MonthCommits: ptr(30)},
	}

	tests := []struct {
		name       string
		defaultID  string
		query      string
		wantUser   string
		backendErr error
		wantCode   int
	}{
		{"configured user", "u1", "", "u1", nil, http.StatusOK},
		{"query overrides", "u1", "?user=u2", "u2", nil, http.StatusOK},
		{"backend failure", "u1", "", "u1", &contract.ServerError{Status: 500}, http.StatusBadGateway},
		{"no user", "", "", "", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, src := newTestHandler(tt.defaultID)
			if tt.wantUser != "" {
				src.On("Overview", mock.Anything, tt.wantUser).Return(overview, tt.backendErr)
			}

			rec := httptest.NewRecorder()
			Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh"+tt.query, nil))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var resp struct {
				State   core.State   `json:"state"`
				Derived core.Derived `json:"derived"`
				Error   string       `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			switch tt.wantCode {
			case http.StatusOK:
				assert.Equal(t, 44, resp.Derived.TotalCommits)
				assert.Empty(t, resp.Error)
			case http.StatusBadGateway:
				assert.Zero(t, resp.Derived.TotalCommits)
				assert.NotEmpty(t, resp.Error)
				assert.Equal(t, resp.Error, resp.State.Error)
			default:
				assert.Contains(t, resp.Error, "no user configured")
			}
			src.AssertExpectations(t)
		})
	}
}

func TestEvents(t *testing.T) {
	h, store, _ := newTestHandler("u1")
	srv := httptest.NewServer(Routes(h))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	nextState := func() core.State {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var st core.State
				require.NoError(t, json.Unmarshal([]byte(data), &st))
				return st
			}
		}
	}

	first := nextState()
	assert.Zero(t, first.Stats.TodayCommits)

	store.UpdateStats(core.StatsPatch{TodayCommits: ptr(7)})
	second := nextState()
	assert.Equal(t, 7, second.Stats.TodayCommits)
}

func TestServeStopsOnCancel(t *testing.T) {
	h, _, _ := newTestHandler("u1")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", Routes(h), nil) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
