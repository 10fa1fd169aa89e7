package outwriter

import (
	"fmt"
	"strconv"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// hourBarWidth is the widest bar drawn in the hourly table.
const hourBarWidth = 30

func milestonesReport(ms []schema.Milestone, cfg *contract.Config) report {
	width := getMaxTableTextWidth(cfg, 50)
	rows := make([][]string, 0, len(ms))
	table := make([][]string, 0, len(ms))
	unlocked := 0
	for _, m := range ms {
		status := "locked"
		if m.Unlocked {
			unlocked++
			status = "unlocked"
			if m.UnlockedAt != nil {
				status += " " + m.UnlockedAt.Format(schema.DateLayout)
			}
		}
		progress := "-"
		if m.Progress != nil {
			progress = fmt.Sprintf("%d/%d (%.0f%%)", m.Progress.Current, m.Progress.Target, m.Progress.Percent())
		}
		level := string(m.Level)
		rows = append(rows, []string{m.ID, m.Title, level, status, progress, m.Category})

		if cfg.UseColors {
			level = contract.GetColorMilestoneLevel(level)
		}
		table = append(table, []string{
			m.Icon + " " + contract.TruncateText(m.Title, width), level, status, progress, m.Category,
		})
	}
	return report{
		title:       "🏆 Milestones",
		header:      []string{"ID", "Title", "Level", "Status", "Progress", "Category"},
		rows:        rows,
		tableHeader: []string{"Milestone", "Level", "Status", "Progress", "Category"},
		tableRows:   table,
		footer:      fmt.Sprintf("Unlocked %d of %d", unlocked, len(ms)),
	}
}

func languagesReport(langs []schema.LanguageStat, cfg *contract.Config) report {
	nf := numberFormat{cfg.Precision}
	rows := make([][]string, 0, len(langs))
	total := 0.0
	for _, l := range langs {
		total += l.Percentage
		rows = append(rows, []string{l.Name, nf.pct(l.Percentage), strconv.Itoa(l.Commits), strconv.Itoa(l.Lines), l.Color})
	}
	return report{
		title:  "🧬 Languages",
		header: []string{"Language", "Share", "Commits", "Lines", "Color"},
		rows:   rows,
		footer: "Total share: " + nf.pct(total),
	}
}

func trendReport(points []schema.TrendPoint, cfg *contract.Config) report {
	rows := make([][]string, 0, len(points))
	var commits, additions, deletions int
	for _, p := range points {
		commits += p.Commits
		additions += p.Additions
		deletions += p.Deletions
		rows = append(rows, []string{p.Date, strconv.Itoa(p.Commits), strconv.Itoa(p.Additions), strconv.Itoa(p.Deletions)})
	}
	r := report{
		title:  "📅 Commit trend",
		header: []string{"Date", "Commits", "Additions", "Deletions"},
		rows:   rows,
		footer: fmt.Sprintf("Total: %d commits, +%d/-%d lines over %d days", commits, additions, deletions, len(points)),
	}
	if cfg.UseColors {
		r.footer = contract.GoldColor.Sprint(r.footer)
	}
	return r
}

func hourlyReport(hours []schema.HourlyActivity, cfg *contract.Config) report {
	peak := 0
	for _, h := range hours {
		peak = max(peak, h.Commits)
	}
	rows := make([][]string, 0, len(hours))
	table := make([][]string, 0, len(hours))
	for _, h := range hours {
		row := []string{strconv.Itoa(h.Hour), strconv.Itoa(h.Commits), strconv.Itoa(h.Additions), strconv.Itoa(h.Deletions)}
		rows = append(rows, row)

		activity := bar(h.Commits, peak, hourBarWidth)
		if cfg.UseColors && activity != "" {
			activity = contract.ModerateColor.Sprint(activity)
		}
		table = append(table, append([]string{fmt.Sprintf("%02d:00", h.Hour)}, append(row[1:4:4], activity)...))
	}
	return report{
		title:       "⏰ Hourly activity",
		header:      []string{"Hour", "Commits", "Additions", "Deletions"},
		rows:        rows,
		tableHeader: []string{"Hour", "Commits", "Additions", "Deletions", "Activity"},
		tableRows:   table,
	}
}

func heatmapReport(entries []schema.HeatmapEntry, cfg *contract.Config) report {
	rows := make([][]string, 0, len(entries))
	table := make([][]string, 0, len(entries))
	active := 0
	for _, e := range entries {
		if e.Commits > 0 {
			active++
		}
		label := contract.GetPlainHeatLabel(e.Level)
		row := []string{e.Date, strconv.Itoa(e.Commits), strconv.Itoa(e.Level), label}
		rows = append(rows, row)
		if cfg.UseColors {
			label = contract.GetColorHeatLabel(e.Level)
		}
		table = append(table, []string{e.Date, row[1], row[2], label})
	}
	return report{
		title:     "🟩 Heatmap",
		header:    []string{"Date", "Commits", "Level", "Intensity"},
		rows:      rows,
		tableRows: table,
		footer:    fmt.Sprintf("Active days: %d of %d", active, len(entries)),
	}
}

// heatmapSummaryReport folds the heatmap into one row per month.
func heatmapSummaryReport(entries []schema.HeatmapEntry, cfg *contract.Config) report {
	type month struct {
		key     string
		active  int
		commits int
		busiest schema.HeatmapEntry
	}
	var months []*month
	for _, e := range entries {
		if len(e.Date) < 7 {
			continue
		}
		key := e.Date[:7]
		if len(months) == 0 || months[len(months)-1].key != key {
			months = append(months, &month{key: key})
		}
		m := months[len(months)-1]
		m.commits += e.Commits
		if e.Commits > 0 {
			m.active++
		}
		if e.Commits > m.busiest.Commits {
			m.busiest = e
		}
	}

	rows := make([][]string, 0, len(months))
	table := make([][]string, 0, len(months))
	for _, m := range months {
		busiest, level := "-", 0
		if m.busiest.Commits > 0 {
			busiest = fmt.Sprintf("%s (%d)", m.busiest.Date, m.busiest.Commits)
			level = m.busiest.Level
		}
		row := []string{m.key, strconv.Itoa(m.active), strconv.Itoa(m.commits), busiest, contract.GetPlainHeatLabel(level)}
		rows = append(rows, row)
		if cfg.UseColors {
			table = append(table, append(row[:4:4], contract.GetColorHeatLabel(level)))
		}
	}
	r := report{
		title:  "🟩 Heatmap by month",
		header: []string{"Month", "Active days", "Commits", "Busiest day", "Peak"},
		rows:   rows,
	}
	if cfg.UseColors {
		r.tableRows = table
	}
	return r
}
