package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fetchOutcome says how a data command treats a failed fetch.
type fetchOutcome int

const (
	// failHard exits when the fetch fails since the slot holds nothing useful.
	failHard fetchOutcome = iota
	// warnOnly prints a warning and renders the fallback data the store filled in.
	warnOnly
)

// runDataCommand runs fetch against a fresh store and renders the snapshot.
func runDataCommand(name string, outcome fetchOutcome, fetch func(ctx context.Context, store *core.Store) error, render func(ow *outwriter.OutWriter, st core.State) error, opts ...core.Option) {
	exitOnError("Cannot run "+name, requireUser())

	store := newStore(opts...)
	if err := fetch(rootCtx, store); err != nil {
		if outcome == failHard {
			exitOnError("Cannot fetch "+name, err)
		}
		contract.LogWarn("Showing fallback "+name, err)
	}
	exitOnError("Cannot write "+name, render(outwriter.NewOutWriter(), store.Snapshot()))
}

// overviewCmd renders the whole dashboard.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the whole dashboard with derived totals.",
	Long: `Load every dashboard section from the combined overview endpoint.

Shows commit counters, derived trends, milestones, languages, the daily trend,
the hour-of-day distribution and a monthly heatmap summary. Missing milestones
fall back to the built-in catalog and a missing heatmap is generated locally.

Examples:
  # Show the dashboard of the saved user
  devpulse overview

  # Export it as JSON
  devpulse overview --output json --output-file dashboard.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runDataCommand("overview", failHard,
			func(ctx context.Context, store *core.Store) error { return store.FetchOverview(ctx, cfg.UserID) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteOverview(st, cfg) })
	},
}

// refreshCmd reloads the dashboard the way the refresh button does.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload every dashboard section and show the result.",
	Long: `Reload the dashboard and print it, including derived totals and trends.

Unlike overview, a failed refresh still prints what could be kept, with the
error underneath, so it can be used in scripts that always want output.

Examples:
  devpulse refresh --user 42`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runDataCommand("dashboard", warnOnly,
			func(ctx context.Context, store *core.Store) error { return store.RefreshAll(ctx, cfg.UserID) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteOverview(st, cfg) })
	},
}

// statsCmd renders the headline counters.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today, week and month commit counters.",
	Long: `Refresh only the headline counters: commits, additions and deletions for
today, this week and this month, plus the streak, active language and work hours.

Examples:
  devpulse stats
  devpulse stats --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runDataCommand("stats", failHard,
			func(ctx context.Context, store *core.Store) error { return store.FetchStatsOnly(ctx, cfg.UserID) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteStats(st, cfg) })
	},
}

// milestonesCmd renders the milestone list.
var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Show achievement milestones and progress.",
	Long: `List milestones with their level, unlock date and progress.

When the backend cannot be reached the built-in catalog is shown instead.

Examples:
  devpulse milestones`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runDataCommand("milestones", warnOnly,
			func(ctx context.Context, store *core.Store) error { return store.FetchMilestones(ctx, cfg.UserID) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteMilestones(st.Milestones, cfg) })
	},
}

// heatmapCmd renders the contribution heatmap.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show one year of daily commit counts.",
	Long: `Show the contribution heatmap with an intensity level per day.

Levels: 0 none, 1 for 1-3 commits, 2 for 4-6, 3 for 7-10, 4 for more.
If the backend fails or has no data, a deterministic synthetic year is shown.

Examples:
  # Heatmap for the last year
  devpulse heatmap

  # A specific window exported to Parquet
  devpulse heatmap --start 2026-01-01 --end 2026-06-30 --output parquet --output-file heatmap.parquet

  # Offline preview
  devpulse heatmap --synthetic --seed 7`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		r, err := parseHeatmapRange(viper.GetString("start"), viper.GetString("end"))
		exitOnError("Invalid heatmap range", err)

		var opts []core.Option
		if viper.GetBool("synthetic") {
			opts = append(opts, core.WithSyntheticHeatmap())
		}
		runDataCommand("heatmap", warnOnly,
			func(ctx context.Context, store *core.Store) error { return store.FetchHeatmap(ctx, cfg.UserID, r) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteHeatmap(st.Heatmap, cfg) },
			opts...)
	},
}

// trendCmd renders the daily commit trend.
var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the daily commit trend.",
	Long: `Show commits, additions and deletions per day for the last --days days (default 30).

Examples:
  devpulse trend --days 14
  devpulse trend --output parquet --output-file trend.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		days := cfg.DaysOr(contract.DefaultTrendDays)
		runDataCommand("trend", failHard,
			func(ctx context.Context, store *core.Store) error { return store.FetchTrend(ctx, cfg.UserID, days) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteTrend(st.Trend, cfg) })
	},
}

// languagesCmd renders the language mix.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Show the language mix of recent commits.",
	Long: `Show each language's share, commits and lines with its display color.

Examples:
  devpulse languages --precision 2`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runDataCommand("languages", failHard,
			func(ctx context.Context, store *core.Store) error { return store.FetchLanguages(ctx, cfg.UserID) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteLanguages(st.Languages, cfg) })
	},
}

// hourlyCmd renders the hour-of-day distribution.
var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Show when during the day you commit.",
	Long: `Show commits per hour of the day over the last --days days (default 7).

Examples:
  devpulse hourly --days 30`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		days := cfg.DaysOr(contract.DefaultHourlyDays)
		runDataCommand("hourly activity", failHard,
			func(ctx context.Context, store *core.Store) error { return store.FetchHourly(ctx, cfg.UserID, days) },
			func(ow *outwriter.OutWriter, st core.State) error { return ow.WriteHourly(st.Hourly, cfg) })
	},
}

// parseHeatmapRange parses optional YYYY-MM-DD bounds.
func parseHeatmapRange(start, end string) (schema.HeatmapRange, error) {
	var r schema.HeatmapRange
	var err error
	if start != "" {
		if r.Start, err = time.Parse(schema.DateLayout, start); err != nil {
			return r, fmt.Errorf("invalid --start '%s': %w", start, err)
		}
	}
	if end != "" {
		if r.End, err = time.Parse(schema.DateLayout, end); err != nil {
			return r, fmt.Errorf("invalid --end '%s': %w", end, err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, fmt.Errorf("--end %s is before --start %s", end, start)
	}
	return r, nil
}
