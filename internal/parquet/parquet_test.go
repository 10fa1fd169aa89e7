package parquet

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"heatmap", new(HeatmapDay), []string{"date", "commits", "level"}},
		{"trend", new(TrendDay), []string{"date", "commits", "additions", "deletions"}},
		{"hourly", new(HourBucket), []string{"hour", "commits", "additions", "deletions"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.parquet")
	entries := []schema.HeatmapEntry{
		{Date: "2026-10-18", Commits: 0, Level: 0},
		{Date: "2026-10-19", Commits: 12, Level: 4},
	}
	require.NoError(t, WriteHeatmap(entries, path))

	rows, err := parquet.ReadFile[HeatmapDay](path)
	require.NoError(t, err)
	assert.Equal(t, ConvertHeatmap(entries), rows)
}

func TestWriteTrend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.parquet")
	points := []schema.TrendPoint{{Date: "2026-10-19", Commits: 3, Additions: 120, Deletions: 7}}
	require.NoError(t, WriteTrend(points, path))

	rows, err := parquet.ReadFile[TrendDay](path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, TrendDay{Date: "2026-10-19", Commits: 3, Additions: 120, Deletions: 7}, rows[0])
}

func TestWriteHourly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hourly.parquet")
	hours := []schema.HourlyActivity{{Hour: 9, Commits: 2}, {Hour: 14, Commits: 5, Additions: 40}}
	require.NoError(t, WriteHourly(hours, path))

	rows, err := parquet.ReadFile[HourBucket](path)
	require.NoError(t, err)
	assert.Equal(t, ConvertHourly(hours), rows)
}

func TestWriteEmptyAndInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteTrend(nil, path))
	rows, err := parquet.ReadFile[TrendDay](path)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Error(t, WriteHeatmap(nil, ""))
	assert.Error(t, WriteHeatmap(nil, filepath.Join(t.TempDir(), "missing", "dir", "x.parquet")))
}
