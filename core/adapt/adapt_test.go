package adapt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var fetchedAt = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func TestStats(t *testing.T) {
	t.Run("nil record yields defaults", func(t *testing.T) {
		s := Stats(nil, fetchedAt)
		assert.Equal(t, schema.Stats{ActiveLanguage: DefaultActiveLanguage, LastUpdated: fetchedAt}, s)
	})

	t.Run("full record", func(t *testing.T) {
		var w schema.WireStats
		require.NoError(t, json.Unmarshal([]byte(`{
			"today_commits": 5, "today_additions": 120, "today_deletions": 30,
			"week_commits": 20, "week_additions": 900, "week_deletions": 200,
			"month_commits": 80, "month_additions": 4000, "month_deletions": 1000,
			"streak_days": 42, "active_language": "Go", "work_hours": 6.5,
			"total_repositories": 12, "code_lines": 3000,
			"last_updated": "2026-10-19T07:15:00"
		}`), &w))

		s := Stats(&w, fetchedAt)
		assert.Equal(t, 5, s.TodayCommits)
		assert.Equal(t, 1000, s.MonthDeletions)
		assert.Equal(t, 42, s.StreakDays)
		assert.Equal(t, "Go", s.ActiveLanguage)
		assert.InDelta(t, 6.5, s.WorkHours, 1e-9)
		assert.Equal(t, 12, s.TotalRepositories)
		assert.Equal(t, time.Date(2026, 10, 19, 7, 15, 0, 0, time.UTC), s.LastUpdated)
	})

	t.Run("negative counters clamp", func(t *testing.T) {
		s := Stats(&schema.WireStats{TodayCommits: ptr(-3), WorkHours: ptr(-1.0), ActiveLanguage: ptr("  ")}, fetchedAt)
		assert.Equal(t, 0, s.TodayCommits)
		assert.Zero(t, s.WorkHours)
		assert.Equal(t, DefaultActiveLanguage, s.ActiveLanguage)
	})

	t.Run("unparseable last_updated uses fetch time", func(t *testing.T) {
		s := Stats(&schema.WireStats{LastUpdated: ptr("yesterday")}, fetchedAt)
		assert.Equal(t, fetchedAt, s.LastUpdated)
	})
}

func TestMilestone(t *testing.T) {
	tests := []struct {
		name  string
		input schema.WireMilestone
		check func(t *testing.T, m schema.Milestone)
	}{
		{
			name:  "defaults",
			input: schema.WireMilestone{ID: ptr("streak-7")},
			check: func(t *testing.T, m schema.Milestone) {
				assert.Equal(t, "streak-7", m.Title)
				assert.Equal(t, DefaultCategory, m.Category)
				assert.Equal(t, schema.BronzeLevel, m.Level)
				assert.False(t, m.Unlocked)
				assert.Nil(t, m.UnlockedAt)
				assert.Nil(t, m.Progress)
			},
		},
		{
			name: "unlocked with date and progress",
			input: schema.WireMilestone{
				ID: ptr("commits-100"), Name: ptr("Century"), Level: ptr("Gold"), Category: ptr("commits"),
				Unlocked: ptr(true), UnlockDate: ptr("2025-12-15T14:30:00"), Current: ptr(156), Target: ptr(100),
			},
			check: func(t *testing.T, m schema.Milestone) {
				assert.Equal(t, "Century", m.Title)
				assert.Equal(t, schema.GoldLevel, m.Level)
				assert.Equal(t, "commits", m.Category)
				require.NotNil(t, m.UnlockedAt)
				assert.Equal(t, time.Date(2025, 12, 15, 14, 30, 0, 0, time.UTC), *m.UnlockedAt)
				require.NotNil(t, m.Progress)
				assert.Equal(t, schema.MilestoneProgress{Current: 156, Target: 100}, *m.Progress)
			},
		},
		{
			name:  "locked ignores unlock date",
			input: schema.WireMilestone{ID: ptr("x"), Unlocked: ptr(false), UnlockDate: ptr("2025-12-15")},
			check: func(t *testing.T, m schema.Milestone) {
				assert.Nil(t, m.UnlockedAt)
			},
		},
		{
			name:  "empty unlock date",
			input: schema.WireMilestone{ID: ptr("x"), Unlocked: ptr(true), UnlockDate: ptr("")},
			check: func(t *testing.T, m schema.Milestone) {
				assert.True(t, m.Unlocked)
				assert.Nil(t, m.UnlockedAt)
			},
		},
		{
			name: "analytics spelling",
			input: schema.WireMilestone{
				ID: ptr("streak-30"), Achieved: ptr(true), AchievedAt: ptr("2026-01-08T10:00:00Z"),
				CurrentValue: ptr(42), Threshold: ptr(30), Level: ptr("legendary"),
			},
			check: func(t *testing.T, m schema.Milestone) {
				assert.True(t, m.Unlocked)
				require.NotNil(t, m.UnlockedAt)
				assert.Equal(t, schema.LegendaryLevel, m.Level)
				assert.Equal(t, schema.MilestoneProgress{Current: 42, Target: 30}, *m.Progress)
			},
		},
		{
			name:  "unknown level",
			input: schema.WireMilestone{ID: ptr("x"), Level: ptr("platinum"), Target: ptr(5)},
			check: func(t *testing.T, m schema.Milestone) {
				assert.Equal(t, schema.BronzeLevel, m.Level)
				assert.Equal(t, schema.MilestoneProgress{Current: 0, Target: 5}, *m.Progress)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Milestone(tt.input)
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestMilestoneMissingID(t *testing.T) {
	_, err := Milestone(schema.WireMilestone{Name: ptr("nameless")})
	var adaptErr *contract.AdaptationError
	require.True(t, errors.As(err, &adaptErr))
	assert.Equal(t, "milestone", adaptErr.Kind)
	assert.Equal(t, "id", adaptErr.Field)

	_, err = Milestones([]schema.WireMilestone{{ID: ptr("ok")}, {ID: ptr(" ")}})
	assert.Error(t, err)
}

func TestTrendSeries(t *testing.T) {
	series, err := TrendSeries([]schema.WireTrendPoint{
		{Date: ptr("2026-10-18"), Commits: ptr(4)},
		{Date: ptr("2026-10-16"), Commits: ptr(1)},
		{Date: ptr("2026-10-18"), Commits: ptr(9)},
		{Date: ptr("2026-10-17T00:00:00"), Commits: ptr(-2), Additions: ptr(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.TrendPoint{
		{Date: "2026-10-16", Commits: 1},
		{Date: "2026-10-17", Commits: 0, Additions: 50},
		{Date: "2026-10-18", Commits: 9},
	}, series)
}

func TestTrendPointBadDate(t *testing.T) {
	for _, d := range []*string{nil, ptr(""), ptr("10/18/2026"), ptr("2026-02-30")} {
		_, err := TrendPoint(schema.WireTrendPoint{Date: d})
		var adaptErr *contract.AdaptationError
		assert.True(t, errors.As(err, &adaptErr))
	}
}

func TestHeatmapSeries(t *testing.T) {
	series, err := HeatmapSeries([]schema.WireHeatmapEntry{
		{Date: ptr("2026-10-19"), Count: ptr(11), Level: ptr(1)},
		{Date: ptr("2026-10-17"), Value: ptr(4)},
		{Date: ptr("2026-10-18")},
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.HeatmapEntry{
		{Date: "2026-10-17", Commits: 4, Level: 2},
		{Date: "2026-10-18", Commits: 0, Level: 0},
		{Date: "2026-10-19", Commits: 11, Level: 4},
	}, series)

	_, err = HeatmapSeries([]schema.WireHeatmapEntry{{Count: ptr(3)}})
	assert.Error(t, err)
}

func TestLanguages(t *testing.T) {
	langs, err := Languages([]schema.WireLanguageStat{
		{Language: ptr("Go"), Lines: ptr(5400), Percentage: ptr(45.5), Color: ptr("#00add8")},
		{Language: ptr("Python"), Percentage: ptr(130.0)},
		{Language: ptr("Shell"), Percentage: ptr(-3.0), Commits: ptr(2)},
	})
	require.NoError(t, err)
	require.Len(t, langs, 3)
	assert.Equal(t, schema.LanguageStat{Name: "Go", Percentage: 45.5, Lines: 5400, Color: "#00add8"}, langs[0])
	assert.InDelta(t, 100.0, langs[1].Percentage, 1e-9)
	assert.Equal(t, DefaultLanguageColor, langs[1].Color)
	assert.Zero(t, langs[2].Percentage)
	assert.Equal(t, 2, langs[2].Commits)

	_, err = Languages([]schema.WireLanguageStat{{Lines: ptr(3)}})
	assert.Error(t, err)
}

func TestHourly(t *testing.T) {
	hours, err := Hourly([]schema.WireHourlyActivity{
		{Hour: ptr(14), Commits: ptr(3)},
		{Hour: ptr(9), Commits: ptr(1)},
		{Hour: ptr(14), Commits: ptr(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.HourlyActivity{{Hour: 9, Commits: 1}, {Hour: 14, Commits: 5}}, hours)

	_, err = Hourly([]schema.WireHourlyActivity{{Hour: ptr(24)}})
	assert.Error(t, err)
	_, err = Hourly([]schema.WireHourlyActivity{{Commits: ptr(1)}})
	assert.Error(t, err)
}

func TestSyncResult(t *testing.T) {
	req := schema.SyncRequest{UserID: "1", Username: "octo"}

	r := SyncResult(nil, req, fetchedAt)
	assert.True(t, r.Success)
	assert.Equal(t, schema.AutoSync, r.SyncMode)
	assert.Equal(t, fetchedAt, r.StartedAt)

	r = SyncResult(&schema.WireSyncResponse{
		Success: ptr(false), Message: ptr("rate limited"), SyncMode: ptr("full"),
		ReposSynced: ptr(3), CompletedAt: ptr("2026-10-19T08:05:00Z"),
	}, req, fetchedAt)
	assert.False(t, r.Success)
	assert.Equal(t, "rate limited", r.Message)
	assert.Equal(t, schema.FullSync, r.SyncMode)
	assert.Equal(t, 3, r.ReposSynced)
	assert.Equal(t, fetchedAt.Add(5*time.Minute), r.CompletedAt)
}

func FuzzHeatmapEntry(f *testing.F) {
	f.Add("2026-10-19", 3)
	f.Add("", -1)
	f.Add("not a date", 40)

	f.Fuzz(func(t *testing.T, date string, commits int) {
		e, err := HeatmapEntry(schema.WireHeatmapEntry{Date: &date, Count: &commits})
		if err != nil {
			return
		}
		if e.Commits < 0 || e.Level < 0 || e.Level > 4 {
			t.Fatalf("invalid entry %+v", e)
		}
	})
}
