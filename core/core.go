// Package core holds the dashboard aggregation store: it fetches from the backend,
// adapts wire payloads, merges them into one state and derives metrics on read.
package core

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"go.uber.org/zap"
)

// State is the unified view-model. Snapshot returns it by value with its own slices.
type State struct {
	Stats       schema.Stats            `json:"stats"`
	Activities  []schema.Activity       `json:"activities"`
	Languages   []schema.LanguageStat   `json:"languages"`
	Trend       []schema.TrendPoint     `json:"trend"`
	Milestones  []schema.Milestone      `json:"milestones"`
	Heatmap     []schema.HeatmapEntry   `json:"heatmap"`
	Hourly      []schema.HourlyActivity `json:"hourly"`
	IsLoading   bool                    `json:"isLoading"`
	Error       string                  `json:"error,omitempty"`
	LastUpdated *time.Time              `json:"lastUpdated,omitempty"`
}

func (s State) clone() State {
	out := s
	out.Activities = slices.Clone(s.Activities)
	out.Languages = slices.Clone(s.Languages)
	out.Trend = slices.Clone(s.Trend)
	out.Milestones = slices.Clone(s.Milestones)
	out.Heatmap = slices.Clone(s.Heatmap)
	out.Hourly = slices.Clone(s.Hourly)
	if s.LastUpdated != nil {
		t := *s.LastUpdated
		out.LastUpdated = &t
	}
	return out
}

// StatsPatch is a partial Stats update. Nil fields keep their current value.
type StatsPatch struct {
	TodayCommits      *int
	TodayAdditions    *int
	TodayDeletions    *int
	WeekCommits       *int
	WeekAdditions     *int
	WeekDeletions     *int
	MonthCommits      *int
	MonthAdditions    *int
	MonthDeletions    *int
	StreakDays        *int
	ActiveLanguage    *string
	WorkHours         *float64
	TotalRepositories *int
	CodeLines         *int
}

// ActivityInput is an activity before the store assigns its id and timestamp.
type ActivityInput struct {
	Icon      string
	Title     string
	Time      string // free-text label, defaults to "just now"
	Type      string
	TypeLabel string
}

// Store owns the dashboard state. It is safe for concurrent use.
type Store struct {
	source         contract.DashboardSource
	logger         *zap.Logger
	now            func() time.Time
	seed           uint64
	backendHeatmap bool

	mu       sync.RWMutex
	state    State
	issued   [numSlots]uint64
	inflight int

	subMu   sync.Mutex
	subs    map[uint64]chan State
	nextSub uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeed sets the seed of the synthetic heatmap.
func WithSeed(seed uint64) Option {
	return func(s *Store) { s.seed = seed }
}

// WithSyntheticHeatmap skips the backend heatmap endpoint and always generates the heatmap locally.
func WithSyntheticHeatmap() Option {
	return func(s *Store) { s.backendHeatmap = false }
}

// NewStore creates an empty Store reading from source.
func NewStore(source contract.DashboardSource, opts ...Option) *Store {
	s := &Store{
		source:         source,
		logger:         zap.NewNop(),
		now:            time.Now,
		backendHeatmap: true,
		subs:           make(map[uint64]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe returns a channel that receives the latest state after every change.
// Slow readers only see the most recent state. The channel closes when ctx ends.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.subMu.Unlock()
	}()
	return ch
}

// publish must be called with s.mu held so subscribers see changes in order.
func (s *Store) publish() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) == 0 {
		return
	}
	snap := s.state.clone()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// Reset clears every slot. Requests still in flight are discarded when they complete,
// and IsLoading stays true until they do.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.issued {
		s.issued[i]++
	}
	s.state = State{IsLoading: s.inflight > 0}
	s.publish()
}

// UpdateStats merges patch into the current stats and stamps the update time.
func (s *Store) UpdateStats(patch StatsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &s.state.Stats
	setInt(&st.TodayCommits, patch.TodayCommits)
	setInt(&st.TodayAdditions, patch.TodayAdditions)
	setInt(&st.TodayDeletions, patch.TodayDeletions)
	setInt(&st.WeekCommits, patch.WeekCommits)
	setInt(&st.WeekAdditions, patch.WeekAdditions)
	setInt(&st.WeekDeletions, patch.WeekDeletions)
	setInt(&st.MonthCommits, patch.MonthCommits)
	setInt(&st.MonthAdditions, patch.MonthAdditions)
	setInt(&st.MonthDeletions, patch.MonthDeletions)
	setInt(&st.StreakDays, patch.StreakDays)
	setInt(&st.TotalRepositories, patch.TotalRepositories)
	setInt(&st.CodeLines, patch.CodeLines)
	if patch.ActiveLanguage != nil {
		st.ActiveLanguage = *patch.ActiveLanguage
	}
	if patch.WorkHours != nil {
		st.WorkHours = max(*patch.WorkHours, 0)
	}

	now := s.now()
	if now.After(st.LastUpdated) {
		st.LastUpdated = now
	}
	s.state.LastUpdated = &now
	s.publish()
}

// AppendActivity records a new activity at the head of the feed and returns it.
// The feed keeps the most recent schema.MaxActivities entries.
func (s *Store) AppendActivity(in ActivityInput) schema.Activity {
	now := s.now()
	act := schema.Activity{
		ID:        uuid.NewString(),
		Icon:      in.Icon,
		Title:     in.Title,
		Time:      in.Time,
		Type:      in.Type,
		TypeLabel: in.TypeLabel,
		Timestamp: now.UnixMilli(),
	}
	if act.Time == "" {
		act.Time = "just now"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	feed := make([]schema.Activity, 0, min(len(s.state.Activities)+1, schema.MaxActivities))
	feed = append(feed, act)
	feed = append(feed, s.state.Activities...)
	s.state.Activities = feed[:min(len(feed), schema.MaxActivities)]
	s.publish()
	return act
}

// SetActivities replaces the feed, keeping the first schema.MaxActivities entries.
func (s *Store) SetActivities(acts []schema.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Activities = slices.Clone(acts[:min(len(acts), schema.MaxActivities)])
	s.publish()
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = max(*v, 0)
	}
}
