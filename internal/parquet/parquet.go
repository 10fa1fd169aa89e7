// Package parquet exports dashboard series to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/huangsam/devpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// HeatmapDay is one heatmap entry.
type HeatmapDay struct {
	// Date is the calendar day as YYYY-MM-DD
	Date string `parquet:"date,snappy"`

	// Commits is the number of commits on that day
	Commits int32 `parquet:"commits,snappy"`

	// Level is the intensity bucket in [0, 4]
	Level int32 `parquet:"level,snappy"`
}

// TrendDay is one point of the commit trend.
type TrendDay struct {
	Date      string `parquet:"date,snappy"`
	Commits   int32  `parquet:"commits,snappy"`
	Additions int32  `parquet:"additions,snappy"`
	Deletions int32  `parquet:"deletions,snappy"`
}

// HourBucket is the activity of one hour of the day.
type HourBucket struct {
	Hour      int32 `parquet:"hour,snappy"`
	Commits   int32 `parquet:"commits,snappy"`
	Additions int32 `parquet:"additions,snappy"`
	Deletions int32 `parquet:"deletions,snappy"`
}

// WriteHeatmap writes heatmap entries to outputPath.
func WriteHeatmap(entries []schema.HeatmapEntry, outputPath string) error {
	return writeFile(ConvertHeatmap(entries), outputPath)
}

// WriteTrend writes trend points to outputPath.
func WriteTrend(points []schema.TrendPoint, outputPath string) error {
	return writeFile(ConvertTrend(points), outputPath)
}

// WriteHourly writes hourly buckets to outputPath.
func WriteHourly(hours []schema.HourlyActivity, outputPath string) error {
	return writeFile(ConvertHourly(hours), outputPath)
}

// writeFile writes rows with a schema inferred from T's struct tags.
func writeFile[T any](rows []T, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output file is required for parquet output")
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertHeatmap converts heatmap entries for export.
func ConvertHeatmap(entries []schema.HeatmapEntry) []HeatmapDay {
	out := make([]HeatmapDay, len(entries))
	for i, e := range entries {
		out[i] = HeatmapDay{Date: e.Date, Commits: int32(e.Commits), Level: int32(e.Level)}
	}
	return out
}

// ConvertTrend converts trend points for export.
func ConvertTrend(points []schema.TrendPoint) []TrendDay {
	out := make([]TrendDay, len(points))
	for i, p := range points {
		out[i] = TrendDay{
			Date:      p.Date,
			Commits:   int32(p.Commits),
			Additions: int32(p.Additions),
			Deletions: int32(p.Deletions),
		}
	}
	return out
}

// ConvertHourly converts hourly buckets for export.
func ConvertHourly(hours []schema.HourlyActivity) []HourBucket {
	out := make([]HourBucket, len(hours))
	for i, h := range hours {
		out[i] = HourBucket{
			Hour:      int32(h.Hour),
			Commits:   int32(h.Commits),
			Additions: int32(h.Additions),
			Deletions: int32(h.Deletions),
		}
	}
	return out
}
