// Package outwriter renders dashboard snapshots as tables, JSON, CSV or Parquet.
package outwriter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/parquet"
	"github.com/huangsam/devpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrParquetUnsupported is returned for datasets that have no Parquet layout.
var ErrParquetUnsupported = errors.New("parquet output is only available for heatmap, trend and hourly")

// OutWriter renders store snapshots in the configured output format.
type OutWriter struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOutWriter creates an output writer on the process stdout and stderr.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout, stderr: os.Stderr}
}

// report is one dataset. rows feed the CSV writer and, unless tableRows is set, the table.
type report struct {
	title       string
	header      []string
	rows        [][]string
	tableHeader []string // nil to reuse header
	tableRows   [][]string
	footer      string
}

// emit writes payload as JSON, or the reports as CSV sections or tables.
func (ow *OutWriter) emit(cfg *contract.Config, payload any, reports ...report) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.withDestination(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, payload)
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.withDestination(cfg.OutputFile, func(w io.Writer) error {
			for i, r := range reports {
				if i > 0 {
					_, _ = fmt.Fprintln(w)
				}
				if err := writeCSV(w, r.header, r.rows); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return ow.withDestination(cfg.OutputFile, func(w io.Writer) error {
			for i, r := range reports {
				if i > 0 {
					_, _ = fmt.Fprintln(w)
				}
				if err := writeTable(w, r); err != nil {
					return fmt.Errorf("error writing %s table: %w", r.title, err)
				}
			}
			return nil
		}, "Wrote table")
	}
}

// writeTable renders one report with tablewriter.
func writeTable(w io.Writer, r report) error {
	if r.title != "" {
		_, _ = fmt.Fprintln(w, r.title)
	}
	header, rows := r.header, r.rows
	if r.tableHeader != nil {
		header = r.tableHeader
	}
	if r.tableRows != nil {
		rows = r.tableRows
	}

	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if r.footer != "" {
		_, _ = fmt.Fprintln(w, r.footer)
	}
	return nil
}

// WriteOverview renders the whole dashboard with its derived metrics.
func (ow *OutWriter) WriteOverview(st core.State, cfg *contract.Config) error {
	d := core.Derive(st)
	payload := struct {
		State   core.State   `json:"state"`
		Derived core.Derived `json:"derived"`
	}{st, d}

	reports := []report{statsReport(st.Stats, cfg), derivedReport(d, cfg)}
	if len(st.Milestones) > 0 {
		reports = append(reports, milestonesReport(st.Milestones, cfg))
	}
	if len(st.Languages) > 0 {
		reports = append(reports, languagesReport(st.Languages, cfg))
	}
	if len(st.Trend) > 0 {
		reports = append(reports, trendReport(st.Trend, cfg))
	}
	if len(st.Hourly) > 0 {
		reports = append(reports, hourlyReport(st.Hourly, cfg))
	}
	if len(st.Heatmap) > 0 {
		reports = append(reports, heatmapSummaryReport(st.Heatmap, cfg))
	}
	if len(st.Activities) > 0 {
		reports = append(reports, activitiesReport(st.Activities, cfg))
	}
	if st.Error != "" {
		reports[len(reports)-1].footer += "\n⚠️  " + st.Error
	}
	return ow.emit(cfg, payload, reports...)
}

// WriteStats renders the headline counters.
func (ow *OutWriter) WriteStats(st core.State, cfg *contract.Config) error {
	payload := struct {
		Stats        schema.Stats `json:"stats"`
		TotalCommits int          `json:"totalCommits"`
	}{st.Stats, st.TotalCommits()}
	return ow.emit(cfg, payload, statsReport(st.Stats, cfg))
}

// WriteMilestones renders the milestone list.
func (ow *OutWriter) WriteMilestones(ms []schema.Milestone, cfg *contract.Config) error {
	return ow.emit(cfg, ms, milestonesReport(ms, cfg))
}

// WriteLanguages renders the language mix.
func (ow *OutWriter) WriteLanguages(langs []schema.LanguageStat, cfg *contract.Config) error {
	return ow.emit(cfg, langs, languagesReport(langs, cfg))
}

// WriteActivities renders the recent activity feed.
func (ow *OutWriter) WriteActivities(acts []schema.Activity, cfg *contract.Config) error {
	return ow.emit(cfg, acts, activitiesReport(acts, cfg))
}

// WriteTrend renders the commit trend.
func (ow *OutWriter) WriteTrend(points []schema.TrendPoint, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ow.writeParquet(cfg, func() error { return parquet.WriteTrend(points, cfg.OutputFile) })
	}
	return ow.emit(cfg, points, trendReport(points, cfg))
}

// WriteHeatmap renders every heatmap day.
func (ow *OutWriter) WriteHeatmap(entries []schema.HeatmapEntry, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ow.writeParquet(cfg, func() error { return parquet.WriteHeatmap(entries, cfg.OutputFile) })
	}
	return ow.emit(cfg, entries, heatmapReport(entries, cfg))
}

// WriteHourly renders the hour-of-day distribution.
func (ow *OutWriter) WriteHourly(hours []schema.HourlyActivity, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ow.writeParquet(cfg, func() error { return parquet.WriteHourly(hours, cfg.OutputFile) })
	}
	return ow.emit(cfg, hours, hourlyReport(hours, cfg))
}

// WriteSync renders the outcome of a GitHub sync.
func (ow *OutWriter) WriteSync(res schema.SyncResult, cfg *contract.Config) error {
	return ow.emit(cfg, res, syncReport(res, cfg))
}

func (ow *OutWriter) writeParquet(cfg *contract.Config, write func() error) error {
	if err := write(); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	_, _ = fmt.Fprintf(ow.stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}
