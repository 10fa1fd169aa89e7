package schema

import "strings"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for preference caching.
	DatabaseBackend string

	// MilestoneLevel represents the tier of a milestone.
	MilestoneLevel string

	// SyncMode represents how the backend pulls data from GitHub.
	SyncMode string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All preference backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Milestone levels, lowest first.
const (
	BronzeLevel    MilestoneLevel = "bronze" // default
	SilverLevel    MilestoneLevel = "silver"
	GoldLevel      MilestoneLevel = "gold"
	DiamondLevel   MilestoneLevel = "diamond"
	LegendaryLevel MilestoneLevel = "legendary"
)

// All sync modes supported.
const (
	FullSync        SyncMode = "full"
	IncrementalSync SyncMode = "incremental"
	AutoSync        SyncMode = "auto"
)

// AllMilestoneLevels lists the levels in ascending order.
var AllMilestoneLevels = []MilestoneLevel{BronzeLevel, SilverLevel, GoldLevel, DiamondLevel, LegendaryLevel}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidPrefsBackends lists all valid preference backends.
var ValidPrefsBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSyncModes lists all valid sync modes.
var ValidSyncModes = map[SyncMode]struct{}{
	FullSync:        {},
	IncrementalSync: {},
	AutoSync:        {},
}

// Rank returns the position of the level in ascending order, or -1 when unknown.
func (l MilestoneLevel) Rank() int {
	for i, lvl := range AllMilestoneLevels {
		if lvl == l {
			return i
		}
	}
	return -1
}

// Less reports whether l ranks below other.
func (l MilestoneLevel) Less(other MilestoneLevel) bool {
	return l.Rank() < other.Rank()
}

// ParseMilestoneLevel normalizes a level name. Unknown or empty names fall back to bronze,
// with ok reporting whether the input was recognized.
func ParseMilestoneLevel(s string) (level MilestoneLevel, ok bool) {
	lvl := MilestoneLevel(strings.ToLower(strings.TrimSpace(s)))
	if lvl.Rank() < 0 {
		return BronzeLevel, false
	}
	return lvl, true
}
