// Package schema holds the view-model and wire types shared across devpulse.
package schema

import "time"

// MaxActivities is the number of recent activities kept, newest first.
const MaxActivities = 20

// DateLayout is the calendar date format used by trend and heatmap series.
const DateLayout = "2006-01-02"

// Stats is the headline counter block of the dashboard.
type Stats struct {
	TodayCommits      int       `json:"todayCommits"`
	TodayAdditions    int       `json:"todayAdditions"`
	TodayDeletions    int       `json:"todayDeletions"`
	WeekCommits       int       `json:"weekCommits"`
	WeekAdditions     int       `json:"weekAdditions"`
	WeekDeletions     int       `json:"weekDeletions"`
	MonthCommits      int       `json:"monthCommits"`
	MonthAdditions    int       `json:"monthAdditions"`
	MonthDeletions    int       `json:"monthDeletions"`
	StreakDays        int       `json:"streakDays"`
	ActiveLanguage    string    `json:"activeLanguage"`
	WorkHours         float64   `json:"workHours"`
	TotalRepositories int       `json:"totalRepositories"`
	CodeLines         int       `json:"codeLines"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID        string `json:"id"`
	Icon      string `json:"icon"`
	Title     string `json:"title"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	TypeLabel string `json:"typeLabel"`
	Timestamp int64  `json:"timestamp"` // epoch ms
}

// LanguageStat is one slice of the language mix.
type LanguageStat struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Commits    int     `json:"commits"`
	Lines      int     `json:"lines"`
	Color      string  `json:"color"`
}

// TrendPoint is one day of the commit trend.
type TrendPoint struct {
	Date      string `json:"date"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// MilestoneProgress tracks how close a milestone is to being unlocked.
type MilestoneProgress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}

// Percent returns the completion ratio in [0, 100].
func (p MilestoneProgress) Percent() float64 {
	if p.Target <= 0 {
		return 100
	}
	pct := float64(p.Current) / float64(p.Target) * 100
	return min(max(pct, 0), 100)
}

// Milestone is an achievement badge.
type Milestone struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	Level       MilestoneLevel     `json:"level"`
	Unlocked    bool               `json:"unlocked"`
	UnlockedAt  *time.Time         `json:"unlockedAt,omitempty"`
	Progress    *MilestoneProgress `json:"progress,omitempty"`
	Category    string             `json:"category"`
}

// HeatmapEntry is one day of the contribution heatmap.
type HeatmapEntry struct {
	Date    string `json:"date"`
	Commits int    `json:"commits"`
	Level   int    `json:"level"`
}

// HourlyActivity is the commit volume for one hour of the day.
type HourlyActivity struct {
	Hour      int `json:"hour"`
	Commits   int `json:"commits"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// SyncResult is the outcome of a GitHub sync request.
type SyncResult struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	ReposSynced   int       `json:"reposSynced"`
	CommitsSynced int       `json:"commitsSynced"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
	SyncMode      SyncMode  `json:"syncMode"`
	StartedAt     time.Time `json:"startedAt"`
	CompletedAt   time.Time `json:"completedAt"`
}

// HeatmapRange bounds a heatmap request. Zero values leave the bound to the backend.
type HeatmapRange struct {
	Start time.Time
	End   time.Time
}
