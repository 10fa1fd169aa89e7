package outwriter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

func statsReport(s schema.Stats, cfg *contract.Config) report {
	nf := numberFormat{cfg.Precision}
	rows := [][]string{
		{"Commits", strconv.Itoa(s.TodayCommits), strconv.Itoa(s.WeekCommits), strconv.Itoa(s.MonthCommits)},
		{"Additions", strconv.Itoa(s.TodayAdditions), strconv.Itoa(s.WeekAdditions), strconv.Itoa(s.MonthAdditions)},
		{"Deletions", strconv.Itoa(s.TodayDeletions), strconv.Itoa(s.WeekDeletions), strconv.Itoa(s.MonthDeletions)},
	}
	footer := fmt.Sprintf("🔥 Streak: %d days | Language: %s | Work hours: %s | Repositories: %d | Code lines: %d",
		s.StreakDays, orDash(s.ActiveLanguage), nf.float(s.WorkHours), s.TotalRepositories, s.CodeLines)
	if !s.LastUpdated.IsZero() {
		footer += "\n🕒 Updated: " + s.LastUpdated.Format(time.DateTime)
	}
	return report{
		title:  "📊 Stats",
		header: []string{"Metric", "Today", "Week", "Month"},
		rows:   rows,
		footer: footer,
	}
}

func derivedReport(d core.Derived, cfg *contract.Config) report {
	nf := numberFormat{cfg.Precision}
	highest := "-"
	if d.Milestones.Highest != "" {
		highest = string(d.Milestones.Highest)
	}
	rows := [][]string{
		{"Total commits", strconv.Itoa(d.TotalCommits)},
		{"Today trend", nf.change(d.TodayTrend)},
		{"Week trend", nf.change(d.WeekTrend)},
		{"Trend days", strconv.Itoa(d.TrendTotals.Days)},
		{"Trend commits", strconv.Itoa(d.TrendTotals.Commits)},
		{"Trend additions", strconv.Itoa(d.TrendTotals.Additions)},
		{"Trend deletions", strconv.Itoa(d.TrendTotals.Deletions)},
		{"Milestones unlocked", fmt.Sprintf("%d/%d", d.Milestones.Unlocked, d.Milestones.Total)},
		{"Highest level", highest},
		{"Language share", nf.pct(d.LanguageShareTotal)},
	}
	r := report{title: "📈 Derived", header: []string{"Metric", "Value"}, rows: rows}
	if cfg.UseColors && d.Milestones.Highest != "" {
		r.tableRows = cloneRows(rows)
		r.tableRows[8][1] = contract.GetColorMilestoneLevel(highest)
	}
	return r
}

func activitiesReport(acts []schema.Activity, cfg *contract.Config) report {
	width := getMaxTableTextWidth(cfg, 30)
	rows := make([][]string, 0, len(acts))
	table := make([][]string, 0, len(acts))
	for _, a := range acts {
		label := a.TypeLabel
		if label == "" {
			label = a.Type
		}
		rows = append(rows, []string{a.ID, a.Time, a.Type, a.Title})
		table = append(table, []string{a.Time, label, a.Icon + " " + contract.TruncateText(a.Title, width)})
	}
	return report{
		title:       "🕘 Recent activity",
		header:      []string{"ID", "Time", "Type", "Title"},
		rows:        rows,
		tableHeader: []string{"Time", "Type", "Activity"},
		tableRows:   table,
	}
}

func syncReport(res schema.SyncResult, cfg *contract.Config) report {
	status := "ok"
	if !res.Success {
		status = "failed"
	}
	rows := [][]string{
		{"Status", status},
		{"Message", orDash(res.Message)},
		{"Mode", orDash(string(res.SyncMode))},
		{"Repositories", strconv.Itoa(res.ReposSynced)},
		{"Commits", strconv.Itoa(res.CommitsSynced)},
		{"Additions", strconv.Itoa(res.Additions)},
		{"Deletions", strconv.Itoa(res.Deletions)},
		{"Started", formatTime(res.StartedAt)},
		{"Completed", formatTime(res.CompletedAt)},
	}
	r := report{title: "🔄 GitHub sync", header: []string{"Field", "Value"}, rows: rows}
	if !res.StartedAt.IsZero() && res.CompletedAt.After(res.StartedAt) {
		nf := numberFormat{cfg.Precision}
		r.footer = "⏱️  Took " + nf.float(res.CompletedAt.Sub(res.StartedAt).Seconds()) + "s"
	}
	return r
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateTime)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
