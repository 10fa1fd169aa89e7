package core

import (
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
)

func trendOf(commits ...int) []schema.TrendPoint {
	out := make([]schema.TrendPoint, len(commits))
	for i, c := range commits {
		out[i] = schema.TrendPoint{Commits: c, Additions: c * 10, Deletions: c}
	}
	return out
}

func TestTodayTrend(t *testing.T) {
	tests := []struct {
		name  string
		trend []schema.TrendPoint
		want  float64
	}{
		{"empty", nil, 0},
		{"single point", trendOf(4), 0},
		{"growth", trendOf(4, 6), 50},
		{"decline", trendOf(1, 10, 5), -50},
		{"from zero", trendOf(0, 3), 100},
		{"both zero", trendOf(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TodayTrend(tt.trend), 1e-9)
		})
	}
}

func TestWeekTrend(t *testing.T) {
	tests := []struct {
		name  string
		trend []schema.TrendPoint
		want  float64
	}{
		{"one week only", trendOf(1, 1, 1, 1, 1, 1, 1), 0},
		{"partial previous week", trendOf(7, 1, 1, 1, 1, 1, 1, 1), 0},
		{"doubled", trendOf(1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2), 100},
		{"older points ignored", trendOf(50, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0), -100.0 / 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeekTrend(tt.trend), 1e-9)
		})
	}
}

func TestSumTrend(t *testing.T) {
	assert.Equal(t, TrendTotals{}, SumTrend(nil))
	assert.Equal(t, TrendTotals{Days: 3, Commits: 6, Additions: 60, Deletions: 6}, SumTrend(trendOf(1, 2, 3)))
}

func TestSummarizeMilestones(t *testing.T) {
	assert.Equal(t, MilestoneSummary{}, SummarizeMilestones(nil))

	locked := []schema.Milestone{{ID: "a", Level: schema.GoldLevel}}
	assert.Equal(t, MilestoneSummary{Total: 1}, SummarizeMilestones(locked))

	sum := SummarizeMilestones(DefaultMilestones())
	assert.Equal(t, MilestoneSummary{Unlocked: 4, Total: 7, Highest: schema.DiamondLevel}, sum)
}

func TestDerive(t *testing.T) {
	st := State{
		Stats:     schema.Stats{TodayCommits: 2, WeekCommits: 9, MonthCommits: 30},
		Trend:     trendOf(2, 3),
		Languages: []schema.LanguageStat{{Name: "Go", Percentage: 60.5}, {Name: "SQL", Percentage: 39}},
	}
	d := Derive(st)

	assert.Equal(t, 41, d.TotalCommits)
	assert.InDelta(t, 50, d.TodayTrend, 1e-9)
	assert.Zero(t, d.WeekTrend)
	assert.Equal(t, 5, d.TrendTotals.Commits)
	assert.InDelta(t, 99.5, d.LanguageShareTotal, 1e-9)
	assert.Equal(t, MilestoneSummary{}, d.Milestones)
}
