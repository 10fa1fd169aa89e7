package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/devpulse/internal/backend"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newTestStore(src *backend.MockSource, opts ...Option) *Store {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewStore(src, opts...)
}

func populatedStore(t *testing.T) (*Store, *backend.MockSource) {
	t.Helper()
	src := &backend.MockSource{}
	src.On("Overview", mock.Anything, "1").Return(sampleOverview(), nil).Once()
	s := newTestStore(src)
	require.NoError(t, s.FetchOverview(context.Background(), "1"))
	s.AppendActivity(ActivityInput{Title: "pushed"})
	return s, src
}

func TestResetYieldsZeroState(t *testing.T) {
	s, _ := populatedStore(t)
	require.NotEmpty(t, s.Snapshot().Trend)

	s.Reset()
	assert.Equal(t, State{}, s.Snapshot())

	s.Reset()
	assert.Equal(t, State{}, s.Snapshot())
}

func TestAppendActivity(t *testing.T) {
	s := newTestStore(&backend.MockSource{})
	ids := map[string]struct{}{}

	for i := range 25 {
		act := s.AppendActivity(ActivityInput{Title: fmt.Sprintf("commit %d", i), Type: "commit"})
		assert.Equal(t, fixedNow.UnixMilli(), act.Timestamp)
		assert.Equal(t, "just now", act.Time)
		ids[act.ID] = struct{}{}

		feed := s.Snapshot().Activities
		assert.LessOrEqual(t, len(feed), schema.MaxActivities)
		assert.Equal(t, act.ID, feed[0].ID)
	}
	assert.Len(t, ids, 25)

	feed := s.Snapshot().Activities
	require.Len(t, feed, schema.MaxActivities)
	for i, act := range feed {
		assert.Equal(t, fmt.Sprintf("commit %d", 24-i), act.Title)
	}
}

func TestSetActivities(t *testing.T) {
	s := newTestStore(&backend.MockSource{})
	acts := make([]schema.Activity, 30)
	for i := range acts {
		acts[i] = schema.Activity{ID: fmt.Sprint(i)}
	}
	s.SetActivities(acts)

	feed := s.Snapshot().Activities
	require.Len(t, feed, schema.MaxActivities)
	assert.Equal(t, "0", feed[0].ID)

	acts[0].ID = "mutated"
	assert.Equal(t, "0", s.Snapshot().Activities[0].ID)
}

func TestUpdateStatsShallowMerge(t *testing.T) {
	s, _ := populatedStore(t)
	before := s.Snapshot().Stats

	s.UpdateStats(StatsPatch{TodayCommits: ptr(5)})
	after := s.Snapshot()

	expected := before
	expected.TodayCommits = 5
	expected.LastUpdated = after.Stats.LastUpdated
	assert.Equal(t, expected, after.Stats)
	assert.False(t, after.Stats.LastUpdated.Before(before.LastUpdated))
	require.NotNil(t, after.LastUpdated)
}

func TestUpdateStatsClampsNegatives(t *testing.T) {
	s := newTestStore(&backend.MockSource{})
	s.UpdateStats(StatsPatch{WeekCommits: ptr(-4), WorkHours: ptr(-2.5), ActiveLanguage: ptr("Go")})

	stats := s.Snapshot().Stats
	assert.Zero(t, stats.WeekCommits)
	assert.Zero(t, stats.WorkHours)
	assert.Equal(t, "Go", stats.ActiveLanguage)
	assert.Equal(t, fixedNow, stats.LastUpdated)
}

func TestTotalCommitsRecomputedOnRead(t *testing.T) {
	s := newTestStore(&backend.MockSource{})
	cases := [][3]int{{0, 0, 0}, {5, 0, 0}, {1, 2, 3}, {10, 70, 300}}
	for _, c := range cases {
		s.UpdateStats(StatsPatch{TodayCommits: &c[0], WeekCommits: &c[1], MonthCommits: &c[2]})
		assert.Equal(t, c[0]+c[1]+c[2], s.Snapshot().TotalCommits())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s, _ := populatedStore(t)
	snap := s.Snapshot()
	snap.Trend[0].Commits = 999
	snap.Milestones[0].Title = "changed"

	fresh := s.Snapshot()
	assert.NotEqual(t, 999, fresh.Trend[0].Commits)
	assert.NotEqual(t, "changed", fresh.Milestones[0].Title)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(&backend.MockSource{})
	ctx, cancel := context.WithCancel(context.Background())
	updates := s.Subscribe(ctx)

	s.UpdateStats(StatsPatch{TodayCommits: ptr(1)})
	s.UpdateStats(StatsPatch{TodayCommits: ptr(2)})

	select {
	case st := <-updates:
		assert.Equal(t, 2, st.Stats.TodayCommits)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
