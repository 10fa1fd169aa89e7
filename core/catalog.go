package core

import (
	"time"

	"github.com/huangsam/devpulse/schema"
)

type catalogEntry struct {
	id, title, description, icon, category string
	level                                  schema.MilestoneLevel
	current, target                        int
	unlockedAt                             time.Time // zero when locked
}

var defaultCatalog = []catalogEntry{
	{"streak-7", "7-day streak", "Coded every day for a week", "🔥", "streak", schema.BronzeLevel, 42, 7, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
	{"streak-30", "30-day streak", "A month without a day off", "🔥", "streak", schema.SilverLevel, 42, 30, time.Date(2026, 1, 8, 10, 0, 0, 0, time.UTC)},
	{"streak-100", "100-day streak", "A hundred days of code", "🏆", "streak", schema.GoldLevel, 42, 100, time.Time{}},
	{"commits-100", "100 commits", "First hundred commits", "📊", "commits", schema.BronzeLevel, 156, 100, time.Date(2025, 12, 15, 14, 30, 0, 0, time.UTC)},
	{"commits-500", "500 commits", "Half a thousand commits", "🚀", "commits", schema.SilverLevel, 156, 500, time.Time{}},
	{"commits-1000", "1000 commits", "Four digits of history", "👑", "commits", schema.LegendaryLevel, 156, 1000, time.Time{}},
	{"languages-3", "Polyglot", "Shipped code in three languages", "💎", "languages", schema.DiamondLevel, 4, 3, time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)},
}

// DefaultMilestones returns the built-in catalog used when milestones cannot be
// fetched. Every call returns a fresh copy with the same seven entries.
func DefaultMilestones() []schema.Milestone {
	out := make([]schema.Milestone, 0, len(defaultCatalog))
	for _, e := range defaultCatalog {
		m := schema.Milestone{
			ID:          e.id,
			Title:       e.title,
			Description: e.description,
			Icon:        e.icon,
			Level:       e.level,
			Unlocked:    !e.unlockedAt.IsZero(),
			Progress:    &schema.MilestoneProgress{Current: e.current, Target: e.target},
			Category:    e.category,
		}
		if m.Unlocked {
			at := e.unlockedAt
			m.UnlockedAt = &at
		}
		out = append(out, m)
	}
	return out
}
