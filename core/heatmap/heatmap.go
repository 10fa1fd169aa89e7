// Package heatmap classifies daily commit counts into intensity levels and
// builds the synthetic year used when no real heatmap data is available.
package heatmap

import (
	"math/rand/v2"
	"time"

	"github.com/huangsam/devpulse/schema"
)

// MaxLevel is the highest intensity level.
const MaxLevel = 4

// Inclusive upper bounds for levels 1 through 3. Anything above the last bound is MaxLevel.
var levelBounds = [...]int{3, 6, 10}

// Classify maps a commit count to an intensity level in [0, MaxLevel].
// Negative counts are treated as zero.
func Classify(commits int) int {
	if commits <= 0 {
		return 0
	}
	for i, bound := range levelBounds {
		if commits <= bound {
			return i + 1
		}
	}
	return MaxLevel
}

// Span returns the first and last day covered by a year ending on today.
// The span starts one calendar year back plus one day, so it holds 365 days
// (366 when it contains Feb 29).
func Span(today time.Time) (start, end time.Time) {
	end = truncateDay(today)
	y, m, d := end.Date()
	// Feb 29 steps back to Feb 28 rather than rolling into March.
	lastDay := time.Date(y-1, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	start = time.Date(y-1, m, min(d, lastDay), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return start, end
}

// Generate returns one entry per day of the year ending on today, oldest first.
// The same today and seed always produce the same series.
func Generate(today time.Time, seed uint64) []schema.HeatmapEntry {
	start, end := Span(today)
	entries := make([]schema.HeatmapEntry, 0, 366)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		commits := drawCommits(day, seed)
		entries = append(entries, schema.HeatmapEntry{
			Date:    day.Format(schema.DateLayout),
			Commits: commits,
			Level:   Classify(commits),
		})
	}
	return entries
}

// Since drops the entries dated before start. Entries must be in chronological order.
func Since(entries []schema.HeatmapEntry, start time.Time) []schema.HeatmapEntry {
	first := start.Format(schema.DateLayout)
	for i, e := range entries {
		if e.Date >= first {
			return entries[i:]
		}
	}
	return nil
}

// drawCommits picks a commit count for one day. Weekends are quieter and
// about a third of all days are idle.
func drawCommits(day time.Time, seed uint64) int {
	r := rand.New(rand.NewPCG(seed, uint64(day.Unix()/86400)))
	weekend := day.Weekday() == time.Saturday || day.Weekday() == time.Sunday

	idleChance := 0.28
	maxCommits := 15
	if weekend {
		idleChance = 0.5
		maxCommits = 7
	}
	if r.Float64() < idleChance {
		return 0
	}
	return 1 + r.IntN(maxCommits)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
