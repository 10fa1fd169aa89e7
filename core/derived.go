package core

import "github.com/huangsam/devpulse/schema"

// Derived holds every value computed from a snapshot. Nothing here is stored.
type Derived struct {
	TotalCommits       int              `json:"totalCommits"`
	TodayTrend         float64          `json:"todayTrend"`
	WeekTrend          float64          `json:"weekTrend"`
	TrendTotals        TrendTotals      `json:"trendTotals"`
	Milestones         MilestoneSummary `json:"milestones"`
	LanguageShareTotal float64          `json:"languageShareTotal"`
}

// TrendTotals sums a trend series.
type TrendTotals struct {
	Days      int `json:"days"`
	Commits   int `json:"commits"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// MilestoneSummary counts unlocked milestones and the best level reached.
type MilestoneSummary struct {
	Unlocked int                   `json:"unlocked"`
	Total    int                   `json:"total"`
	Highest  schema.MilestoneLevel `json:"highest,omitempty"` // empty when nothing is unlocked
}

// TotalCommits is today + week + month commits, as the dashboard headline shows it.
func (s State) TotalCommits() int {
	return s.Stats.TodayCommits + s.Stats.WeekCommits + s.Stats.MonthCommits
}

// Derive computes all derived values of s.
func Derive(s State) Derived {
	return Derived{
		TotalCommits:       s.TotalCommits(),
		TodayTrend:         TodayTrend(s.Trend),
		WeekTrend:          WeekTrend(s.Trend),
		TrendTotals:        SumTrend(s.Trend),
		Milestones:         SummarizeMilestones(s.Milestones),
		LanguageShareTotal: LanguageShareTotal(s.Languages),
	}
}

// TodayTrend is the percent change in commits between the last two trend points.
func TodayTrend(trend []schema.TrendPoint) float64 {
	n := len(trend)
	if n < 2 {
		return 0
	}
	return percentChange(trend[n-2].Commits, trend[n-1].Commits)
}

// WeekTrend is the percent change in commits of the last seven points against
// the up to seven points before them. It is zero without a previous week.
func WeekTrend(trend []schema.TrendPoint) float64 {
	n := len(trend)
	if n <= 7 {
		return 0
	}
	current := SumTrend(trend[n-7:]).Commits
	previous := SumTrend(trend[max(0, n-14) : n-7]).Commits
	return percentChange(previous, current)
}

// SumTrend totals a trend series.
func SumTrend(trend []schema.TrendPoint) TrendTotals {
	t := TrendTotals{Days: len(trend)}
	for _, p := range trend {
		t.Commits += p.Commits
		t.Additions += p.Additions
		t.Deletions += p.Deletions
	}
	return t
}

// SummarizeMilestones counts unlocked milestones and finds the highest unlocked level.
func SummarizeMilestones(ms []schema.Milestone) MilestoneSummary {
	sum := MilestoneSummary{Total: len(ms)}
	for _, m := range ms {
		if !m.Unlocked {
			continue
		}
		sum.Unlocked++
		if sum.Highest == "" || sum.Highest.Less(m.Level) {
			sum.Highest = m.Level
		}
	}
	return sum
}

// LanguageShareTotal sums language percentages. The backend does not guarantee 100.
func LanguageShareTotal(langs []schema.LanguageStat) float64 {
	total := 0.0
	for _, l := range langs {
		total += l.Percentage
	}
	return total
}

// percentChange returns 100 when growing from zero and 0 when both are zero.
func percentChange(prev, cur int) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return float64(cur-prev) / float64(prev) * 100
}
