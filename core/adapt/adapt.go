// Package adapt converts backend wire records into view-model records.
//
// Every adapter is a pure function. Optional fields that are absent get these
// defaults, and nowhere else in the code base are defaults applied:
//
//	milestone category       DefaultCategory ("coding")
//	milestone level          bronze (also for unknown names)
//	milestone title          wire name, else the id
//	milestone unlockedAt     only when unlocked and the date parses
//	milestone progress       only when current or target is present
//	language color           DefaultLanguageColor ("#3178c6")
//	stats active language    DefaultActiveLanguage ("TypeScript")
//	stats last updated       the fetch time
//	counters                 0, negatives clamp to 0
//	language percentage      0, clamped to [0, 100]
//
// Required fields (milestone id, trend and heatmap date, language name, hourly
// hour) produce a *contract.AdaptationError when missing or malformed.
package adapt

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/devpulse/core/heatmap"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Defaults for optional wire fields.
const (
	DefaultCategory       = "coding"
	DefaultLanguageColor  = "#3178c6"
	DefaultActiveLanguage = "TypeScript"
)

// timestampLayouts are tried in order when parsing backend timestamps.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	schema.DateLayout,
}

// Stats adapts the stats block. A nil record yields the defaults.
func Stats(w *schema.WireStats, fetchedAt time.Time) schema.Stats {
	if w == nil {
		w = &schema.WireStats{}
	}
	s := schema.Stats{
		TodayCommits:      count(w.TodayCommits),
		TodayAdditions:    count(w.TodayAdditions),
		TodayDeletions:    count(w.TodayDeletions),
		WeekCommits:       count(w.WeekCommits),
		WeekAdditions:     count(w.WeekAdditions),
		WeekDeletions:     count(w.WeekDeletions),
		MonthCommits:      count(w.MonthCommits),
		MonthAdditions:    count(w.MonthAdditions),
		MonthDeletions:    count(w.MonthDeletions),
		StreakDays:        count(w.StreakDays),
		ActiveLanguage:    text(w.ActiveLanguage, DefaultActiveLanguage),
		TotalRepositories: count(w.TotalRepositories),
		CodeLines:         count(w.CodeLines),
		LastUpdated:       fetchedAt,
	}
	if w.WorkHours != nil && *w.WorkHours > 0 {
		s.WorkHours = *w.WorkHours
	}
	if t, ok := parseTimestamp(text(w.LastUpdated, "")); ok {
		s.LastUpdated = t
	}
	return s
}

// Milestone adapts one milestone. The dashboard spelling wins over the analytics one.
func Milestone(w schema.WireMilestone) (schema.Milestone, error) {
	id := text(w.ID, "")
	if id == "" {
		return schema.Milestone{}, &contract.AdaptationError{Kind: "milestone", Field: "id", Reason: "is required"}
	}
	level, _ := schema.ParseMilestoneLevel(text(w.Level, ""))
	m := schema.Milestone{
		ID:          id,
		Title:       text(w.Name, id),
		Description: text(w.Description, ""),
		Icon:        text(w.Icon, ""),
		Level:       level,
		Unlocked:    flag(w.Unlocked, w.Achieved),
		Category:    text(w.Category, DefaultCategory),
	}
	if m.Unlocked {
		date := text(w.UnlockDate, text(w.AchievedAt, ""))
		if t, ok := parseTimestamp(date); ok {
			m.UnlockedAt = &t
		}
	}
	current := firstInt(w.Current, w.CurrentValue)
	target := firstInt(w.Target, w.Threshold)
	if current != nil || target != nil {
		m.Progress = &schema.MilestoneProgress{Current: count(current), Target: count(target)}
	}
	return m, nil
}

// Milestones adapts a milestone list. One bad record fails the whole list.
func Milestones(ws []schema.WireMilestone) ([]schema.Milestone, error) {
	out := make([]schema.Milestone, 0, len(ws))
	for _, w := range ws {
		m, err := Milestone(w)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// TrendPoint adapts one trend day.
func TrendPoint(w schema.WireTrendPoint) (schema.TrendPoint, error) {
	date, err := calendarDate("trend", w.Date)
	if err != nil {
		return schema.TrendPoint{}, err
	}
	return schema.TrendPoint{
		Date:      date,
		Commits:   count(w.Commits),
		Additions: count(w.Additions),
		Deletions: count(w.Deletions),
	}, nil
}

// TrendSeries adapts a trend series into chronological order with unique dates.
// When a date repeats, the last occurrence wins.
func TrendSeries(ws []schema.WireTrendPoint) ([]schema.TrendPoint, error) {
	out := make([]schema.TrendPoint, 0, len(ws))
	for _, w := range ws {
		p, err := TrendPoint(w)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return dedupeByDate(out, func(p schema.TrendPoint) string { return p.Date }), nil
}

// HeatmapEntry adapts one heatmap day. The wire level is ignored and recomputed.
func HeatmapEntry(w schema.WireHeatmapEntry) (schema.HeatmapEntry, error) {
	date, err := calendarDate("heatmap", w.Date)
	if err != nil {
		return schema.HeatmapEntry{}, err
	}
	commits := count(firstInt(w.Count, w.Value))
	return schema.HeatmapEntry{Date: date, Commits: commits, Level: heatmap.Classify(commits)}, nil
}

// HeatmapSeries adapts a heatmap series into chronological order with unique dates.
func HeatmapSeries(ws []schema.WireHeatmapEntry) ([]schema.HeatmapEntry, error) {
	out := make([]schema.HeatmapEntry, 0, len(ws))
	for _, w := range ws {
		e, err := HeatmapEntry(w)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return dedupeByDate(out, func(e schema.HeatmapEntry) string { return e.Date }), nil
}

// LanguageStat adapts one language.
func LanguageStat(w schema.WireLanguageStat) (schema.LanguageStat, error) {
	name := text(w.Language, "")
	if name == "" {
		return schema.LanguageStat{}, &contract.AdaptationError{Kind: "language", Field: "language", Reason: "is required"}
	}
	pct := 0.0
	if w.Percentage != nil {
		pct = min(max(*w.Percentage, 0), 100)
	}
	return schema.LanguageStat{
		Name:       name,
		Percentage: pct,
		Commits:    count(w.Commits),
		Lines:      count(w.Lines),
		Color:      text(w.Color, DefaultLanguageColor),
	}, nil
}

// Languages adapts the language mix, keeping backend order.
func Languages(ws []schema.WireLanguageStat) ([]schema.LanguageStat, error) {
	out := make([]schema.LanguageStat, 0, len(ws))
	for _, w := range ws {
		l, err := LanguageStat(w)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// HourlyActivity adapts one hour bucket.
func HourlyActivity(w schema.WireHourlyActivity) (schema.HourlyActivity, error) {
	if w.Hour == nil {
		return schema.HourlyActivity{}, &contract.AdaptationError{Kind: "hourly", Field: "hour", Reason: "is required"}
	}
	if *w.Hour < 0 || *w.Hour > 23 {
		return schema.HourlyActivity{}, &contract.AdaptationError{Kind: "hourly", Field: "hour", Reason: "must be between 0 and 23"}
	}
	return schema.HourlyActivity{
		Hour:      *w.Hour,
		Commits:   count(w.Commits),
		Additions: count(w.Additions),
		Deletions: count(w.Deletions),
	}, nil
}

// Hourly adapts the hourly series, ordered by hour. Repeated hours keep the last one.
func Hourly(ws []schema.WireHourlyActivity) ([]schema.HourlyActivity, error) {
	byHour := make(map[int]schema.HourlyActivity, len(ws))
	for _, w := range ws {
		h, err := HourlyActivity(w)
		if err != nil {
			return nil, err
		}
		byHour[h.Hour] = h
	}
	out := make([]schema.HourlyActivity, 0, len(byHour))
	for _, h := range byHour {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b schema.HourlyActivity) int { return cmp.Compare(a.Hour, b.Hour) })
	return out, nil
}

// SyncResult adapts the sync reply. Missing timestamps fall back to requestedAt.
func SyncResult(w *schema.WireSyncResponse, req schema.SyncRequest, requestedAt time.Time) schema.SyncResult {
	if w == nil {
		w = &schema.WireSyncResponse{}
	}
	r := schema.SyncResult{
		Success:       w.Success == nil || *w.Success,
		Message:       text(w.Message, ""),
		ReposSynced:   count(w.ReposSynced),
		CommitsSynced: count(w.CommitsSynced),
		Additions:     count(w.Additions),
		Deletions:     count(w.Deletions),
		SyncMode:      req.SyncMode,
		StartedAt:     requestedAt,
		CompletedAt:   requestedAt,
	}
	if mode := schema.SyncMode(text(w.SyncMode, "")); mode != "" {
		r.SyncMode = mode
	}
	if r.SyncMode == "" {
		r.SyncMode = schema.AutoSync
	}
	if t, ok := parseTimestamp(text(w.StartedAt, "")); ok {
		r.StartedAt = t
	}
	if t, ok := parseTimestamp(text(w.CompletedAt, "")); ok {
		r.CompletedAt = t
	}
	return r
}

// dedupeByDate sorts by date and keeps the last occurrence of each date.
func dedupeByDate[T any](items []T, date func(T) string) []T {
	// Stable sort keeps input order within a date, so the last one is the latest.
	slices.SortStableFunc(items, func(a, b T) int { return strings.Compare(date(a), date(b)) })
	out := items[:0]
	for i, it := range items {
		if i+1 < len(items) && date(items[i+1]) == date(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func calendarDate(kind string, s *string) (string, error) {
	raw := text(s, "")
	if raw == "" {
		return "", &contract.AdaptationError{Kind: kind, Field: "date", Reason: "is required"}
	}
	if _, err := time.Parse(schema.DateLayout, raw); err == nil {
		return raw, nil
	}
	if t, ok := parseTimestamp(raw); ok {
		return t.Format(schema.DateLayout), nil
	}
	return "", &contract.AdaptationError{Kind: kind, Field: "date", Reason: "is not a YYYY-MM-DD date"}
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func count(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func text(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	if s := strings.TrimSpace(*v); s != "" {
		return s
	}
	return fallback
}

func flag(vs ...*bool) bool {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return false
}

func firstInt(vs ...*int) *int {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}
