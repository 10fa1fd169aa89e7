package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/devpulse/core/adapt"
	"github.com/huangsam/devpulse/core/heatmap"
	"github.com/huangsam/devpulse/schema"
	"go.uber.org/zap"
)

// ErrSyncRejected is returned when the backend answers a sync request with success=false.
var ErrSyncRejected = errors.New("github sync rejected")

// overviewResult is an adapted overview payload. Nil slices are slots the payload did not carry.
type overviewResult struct {
	stats      *schema.Stats
	milestones []schema.Milestone
	trend      []schema.TrendPoint
	heatmap    []schema.HeatmapEntry
	languages  []schema.LanguageStat
	hourly     []schema.HourlyActivity
}

// FetchOverview loads every slot from the combined endpoint and applies them together.
// On failure all slots keep their previous values. A missing, empty or malformed heatmap
// is replaced by the synthetic one, as FetchHeatmap does, and missing milestones by the
// built-in catalog.
func (s *Store) FetchOverview(ctx context.Context, userID string) error {
	t := s.begin(statsSlot, milestonesSlot, trendSlot, heatmapSlot, languagesSlot, hourlySlot)

	var res overviewResult
	wire, err := s.source.Overview(ctx, userID)
	if err == nil {
		res, err = s.adaptOverview(wire)
	}
	if err != nil {
		err = fmt.Errorf("fetch overview: %w", err)
		s.logFailure("overview", userID, err)
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if err != nil {
			return
		}
		if res.stats != nil && live(statsSlot) {
			st.Stats = mergeStats(st.Stats, *res.stats)
		}
		if live(milestonesSlot) {
			st.Milestones = res.milestones
		}
		if res.trend != nil && live(trendSlot) {
			st.Trend = res.trend
		}
		if live(heatmapSlot) {
			st.Heatmap = res.heatmap
		}
		if res.languages != nil && live(languagesSlot) {
			st.Languages = res.languages
		}
		if res.hourly != nil && live(hourlySlot) {
			st.Hourly = res.hourly
		}
	})
}

func (s *Store) adaptOverview(w schema.WireOverview) (overviewResult, error) {
	now := s.now()
	var res overviewResult
	var err error

	if w.Stats != nil {
		stats := adapt.Stats(w.Stats, now)
		res.stats = &stats
	}
	if w.Milestones == nil {
		res.milestones = DefaultMilestones()
	} else if res.milestones, err = adapt.Milestones(w.Milestones); err != nil {
		return res, err
	}
	if w.TrendData != nil {
		if res.trend, err = adapt.TrendSeries(w.TrendData); err != nil {
			return res, err
		}
	}
	if len(w.HeatmapData) > 0 {
		if res.heatmap, err = adapt.HeatmapSeries(w.HeatmapData); err != nil {
			s.logger.Warn("malformed overview heatmap, using synthetic series", zap.Error(err))
			res.heatmap, err = nil, nil
		}
	}
	if len(res.heatmap) == 0 {
		res.heatmap = heatmap.Generate(now, s.seed)
	}
	if w.LanguageStats != nil {
		if res.languages, err = adapt.Languages(w.LanguageStats); err != nil {
			return res, err
		}
	}
	if w.HourlyActivity != nil {
		if res.hourly, err = adapt.Hourly(w.HourlyActivity); err != nil {
			return res, err
		}
	}
	return res, nil
}

// FetchStatsOnly refreshes the stats slot. On failure the previous stats remain.
func (s *Store) FetchStatsOnly(ctx context.Context, userID string) error {
	t := s.begin(statsSlot)

	var stats schema.Stats
	wire, err := s.source.Stats(ctx, userID)
	if err == nil {
		stats = adapt.Stats(&wire, s.now())
	} else {
		err = fmt.Errorf("fetch stats: %w", err)
		s.logFailure("stats", userID, err)
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if err == nil && live(statsSlot) {
			st.Stats = mergeStats(st.Stats, stats)
		}
	})
}

// FetchMilestones refreshes the milestone slot. On failure the slot is set to
// DefaultMilestones rather than keeping stale data.
func (s *Store) FetchMilestones(ctx context.Context, userID string) error {
	t := s.begin(milestonesSlot)

	var milestones []schema.Milestone
	wire, err := s.source.Milestones(ctx, userID)
	if err == nil {
		milestones, err = adapt.Milestones(wire)
	}
	if err != nil {
		err = fmt.Errorf("fetch milestones: %w", err)
		s.logFailure("milestones", userID, err)
		milestones = DefaultMilestones()
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if live(milestonesSlot) {
			st.Milestones = milestones
		}
	})
}

// FetchHeatmap fills the heatmap slot, preferring the backend. The synthetic year
// ending on r.End (or today), cut to start at r.Start when set, is used when the backend
// is disabled, fails, or has no data. A backend failure is still reported.
func (s *Store) FetchHeatmap(ctx context.Context, userID string, r schema.HeatmapRange) error {
	t := s.begin(heatmapSlot)

	var entries []schema.HeatmapEntry
	var err error
	if s.backendHeatmap {
		var wire []schema.WireHeatmapEntry
		wire, err = s.source.Heatmap(ctx, userID, r)
		if err == nil {
			entries, err = adapt.HeatmapSeries(wire)
		}
		if err != nil {
			err = fmt.Errorf("fetch heatmap: %w", err)
			s.logFailure("heatmap", userID, err)
		}
	}
	if len(entries) == 0 {
		today := r.End
		if today.IsZero() {
			today = s.now()
		}
		entries = heatmap.Generate(today, s.seed)
		if !r.Start.IsZero() {
			entries = heatmap.Since(entries, r.Start)
		}
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if live(heatmapSlot) {
			st.Heatmap = entries
		}
	})
}

// FetchTrend refreshes the trend slot with the last days of activity.
func (s *Store) FetchTrend(ctx context.Context, userID string, days int) error {
	t := s.begin(trendSlot)

	var trend []schema.TrendPoint
	wire, err := s.source.Trend(ctx, userID, days)
	if err == nil {
		trend, err = adapt.TrendSeries(wire)
	}
	if err != nil {
		err = fmt.Errorf("fetch trend: %w", err)
		s.logFailure("trend", userID, err)
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if err == nil && live(trendSlot) {
			st.Trend = trend
		}
	})
}

// FetchLanguages refreshes the language slot.
func (s *Store) FetchLanguages(ctx context.Context, userID string) error {
	t := s.begin(languagesSlot)

	var langs []schema.LanguageStat
	wire, err := s.source.Languages(ctx, userID)
	if err == nil {
		langs, err = adapt.Languages(wire)
	}
	if err != nil {
		err = fmt.Errorf("fetch languages: %w", err)
		s.logFailure("languages", userID, err)
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if err == nil && live(languagesSlot) {
			st.Languages = langs
		}
	})
}

// FetchHourly refreshes the hour-of-day slot.
func (s *Store) FetchHourly(ctx context.Context, userID string, days int) error {
	t := s.begin(hourlySlot)

	var hourly []schema.HourlyActivity
	wire, err := s.source.Hourly(ctx, userID, days)
	if err == nil {
		hourly, err = adapt.Hourly(wire)
	}
	if err != nil {
		err = fmt.Errorf("fetch hourly: %w", err)
		s.logFailure("hourly", userID, err)
	}

	return s.finish(t, err, func(st *State, live func(slot) bool) {
		if err == nil && live(hourlySlot) {
			st.Hourly = hourly
		}
	})
}

// RefreshAll reloads the dashboard through the combined endpoint.
func (s *Store) RefreshAll(ctx context.Context, userID string) error {
	return s.FetchOverview(ctx, userID)
}

// SyncGitHub asks the backend to pull from GitHub, records the outcome in the
// activity feed and, when the sync succeeded, refreshes the dashboard.
func (s *Store) SyncGitHub(ctx context.Context, req schema.SyncRequest) (schema.SyncResult, error) {
	t := s.begin(syncSlot)
	requestedAt := s.now()

	wire, err := s.source.SyncGitHub(ctx, req)
	var result schema.SyncResult
	if err == nil {
		result = adapt.SyncResult(&wire, req, requestedAt)
		if !result.Success {
			err = fmt.Errorf("%w: %s", ErrSyncRejected, result.Message)
		}
	}
	if err != nil {
		err = fmt.Errorf("sync github: %w", err)
		s.logFailure("sync", req.UserID, err)
	}
	if err = s.finish(t, err, nil); err != nil {
		s.AppendActivity(ActivityInput{Icon: "⚠️", Title: "GitHub sync failed", Type: "sync", TypeLabel: "Sync"})
		return result, err
	}

	s.AppendActivity(ActivityInput{
		Icon:      "🔄",
		Title:     fmt.Sprintf("Synced %d repositories and %d commits", result.ReposSynced, result.CommitsSynced),
		Type:      "sync",
		TypeLabel: "Sync",
	})
	return result, s.RefreshAll(ctx, req.UserID)
}

// mergeStats keeps LastUpdated from moving backwards.
func mergeStats(prev, next schema.Stats) schema.Stats {
	if prev.LastUpdated.After(next.LastUpdated) {
		next.LastUpdated = prev.LastUpdated
	}
	return next
}

func (s *Store) logFailure(kind, userID string, err error) {
	s.logger.Warn("dashboard fetch failed",
		zap.String("kind", kind),
		zap.String("user_id", userID),
		zap.Error(err))
}
