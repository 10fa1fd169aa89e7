package schema

// Wire types mirror the backend JSON. Optional fields are pointers so that an
// absent key can be told apart from a zero value.

// WireStats is the stats payload.
type WireStats struct {
	TodayCommits      *int     `json:"today_commits"`
	TodayAdditions    *int     `json:"today_additions"`
	TodayDeletions    *int     `json:"today_deletions"`
	WeekCommits       *int     `json:"week_commits"`
	WeekAdditions     *int     `json:"week_additions"`
	WeekDeletions     *int     `json:"week_deletions"`
	MonthCommits      *int     `json:"month_commits"`
	MonthAdditions    *int     `json:"month_additions"`
	MonthDeletions    *int     `json:"month_deletions"`
	StreakDays        *int     `json:"streak_days"`
	ActiveLanguage    *string  `json:"active_language"`
	WorkHours         *float64 `json:"work_hours"`
	TotalRepositories *int     `json:"total_repositories"`
	CodeLines         *int     `json:"code_lines"`
	LastUpdated       *string  `json:"last_updated"`
}

// WireMilestone accepts both the dashboard and the analytics spellings.
type WireMilestone struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Level       *string `json:"level"`
	Category    *string `json:"category"`
	Unlocked    *bool   `json:"unlocked"`
	UnlockDate  *string `json:"unlock_date"`
	Current     *int    `json:"current"`
	Target      *int    `json:"target"`

	Achieved     *bool    `json:"achieved"`
	AchievedAt   *string  `json:"achieved_at"`
	CurrentValue *int     `json:"current_value"`
	Threshold    *int     `json:"threshold"`
	Progress     *float64 `json:"progress"`
}

// WireTrendPoint is one day of the trend payload.
type WireTrendPoint struct {
	Date      *string `json:"date"`
	Commits   *int    `json:"commits"`
	Additions *int    `json:"additions"`
	Deletions *int    `json:"deletions"`
}

// WireHeatmapEntry carries either count or value. The level is ignored.
type WireHeatmapEntry struct {
	Date  *string `json:"date"`
	Count *int    `json:"count"`
	Value *int    `json:"value"`
	Level *int    `json:"level"`
}

// WireLanguageStat is one language of the languages payload.
type WireLanguageStat struct {
	Language   *string  `json:"language"`
	Lines      *int     `json:"lines"`
	Commits    *int     `json:"commits"`
	Percentage *float64 `json:"percentage"`
	Color      *string  `json:"color"`
}

// WireHourlyActivity is one hour of the hourly payload.
type WireHourlyActivity struct {
	Hour      *int `json:"hour"`
	Commits   *int `json:"commits"`
	Additions *int `json:"additions"`
	Deletions *int `json:"deletions"`
}

// WireOverview is the combined dashboard payload. Absent keys decode to nil.
type WireOverview struct {
	Stats          *WireStats           `json:"stats"`
	Milestones     []WireMilestone      `json:"milestones"`
	TrendData      []WireTrendPoint     `json:"trend_data"`
	HeatmapData    []WireHeatmapEntry   `json:"heatmap_data"`
	LanguageStats  []WireLanguageStat   `json:"language_stats"`
	HourlyActivity []WireHourlyActivity `json:"hourly_activity"`
}

// SyncRequest is the body of the GitHub sync call.
type SyncRequest struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	GitHubToken string   `json:"github_token,omitempty"`
	SyncMode    SyncMode `json:"sync_mode,omitempty"`
}

// WireSyncResponse is the reply of the GitHub sync call.
type WireSyncResponse struct {
	Success       *bool   `json:"success"`
	Message       *string `json:"message"`
	ReposSynced   *int    `json:"repos_synced"`
	CommitsSynced *int    `json:"commits_synced"`
	Additions     *int    `json:"total_additions"`
	Deletions     *int    `json:"total_deletions"`
	SyncMode      *string `json:"sync_mode"`
	StartedAt     *string `json:"started_at"`
	CompletedAt   *string `json:"completed_at"`
}
