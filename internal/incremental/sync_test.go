package incremental

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
	"github.com/sidvishnoi/respec-github-apis/internal/repository"
)

type feedItem struct {
	ID string `json:"id"`
	At string `json:"at"`
}

var errUpstream = errors.New("upstream unavailable")

// feed serves items newest first, like a commit history filtered with an inclusive "since".
type feed struct {
	mu       sync.Mutex
	items    []feedItem // oldest first
	pageSize int
	failOn   int // 1-based call number that fails; 0 never fails
	calls    int
}

func newFeed(pageSize int, items ...feedItem) *feed {
	return &feed{items: items, pageSize: pageSize}
}

func (f *feed) add(items ...feedItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, items...)
}

func (f *feed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *feed) Fetch(_ context.Context, marker, cursor string) (Page[feedItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failOn == f.calls {
		return Page[feedItem]{}, errUpstream
	}

	var matched []feedItem
	for i := len(f.items) - 1; i >= 0; i-- {
		if marker == "" || f.items[i].At >= marker {
			matched = append(matched, f.items[i])
		}
	}

	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}
	end := min(offset+f.pageSize, len(matched))
	page := Page[feedItem]{Items: matched[offset:end]}
	if end < len(matched) {
		page.Next = strconv.Itoa(end)
	}
	return page, nil
}

func (f *feed) source(key string) Source[feedItem] {
	return Source[feedItem]{
		Key:      key,
		Fetch:    f.Fetch,
		Identity: func(i feedItem) string { return i.ID },
		Advance:  func(marker string, i feedItem) string { return LatestTimestamp(marker, i.At) },
	}
}

// startingAt resumes a cold source from item's timestamp and drops item itself, the way a
// commit sync resumes from a known commit.
func startingAt(src Source[feedItem], item feedItem) Source[feedItem] {
	src.Bootstrap = func(context.Context) (string, error) { return item.At, nil }
	src.Boundary = func(_ string, i feedItem) bool { return i.ID == item.ID }
	return src
}

type countingStore struct {
	repository.SnapshotStore
	writes atomic.Int32
}

func (s *countingStore) Write(ctx context.Context, name string, data []byte) error {
	s.writes.Add(1)
	return s.SnapshotStore.Write(ctx, name, data)
}

func newTestSyncer(t *testing.T) (*Syncer[feedItem], *countingStore) {
	t.Helper()
	store := &countingStore{SnapshotStore: repository.NewMemorySnapshotStore()}
	states := cache.NewDurable[string, State[feedItem]]("sync-state", store, nil)
	return NewSyncer(states, nil), store
}

var (
	itemA = feedItem{ID: "a", At: "2024-01-01T00:00:01Z"}
	itemB = feedItem{ID: "b", At: "2024-01-01T00:00:02Z"}
	itemC = feedItem{ID: "c", At: "2024-01-01T00:00:03Z"}
	itemD = feedItem{ID: "d", At: "2024-01-01T00:00:04Z"}
	itemE = feedItem{ID: "e", At: "2024-01-01T00:00:05Z"}
)

func ids(items []feedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestSync_ColdStartFromBeginning(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)
	upstream := newFeed(2, itemA, itemB, itemC)

	got, err := Collect(s.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
	assert.Equal(t, 2, upstream.callCount())

	state, ok := s.State("k")
	require.True(t, ok)
	assert.Equal(t, itemC.At, state.Marker)
	assert.Equal(t, []string{"c", "b", "a"}, ids(state.Items))
	assert.Equal(t, int32(1), store.writes.Load())
}

func TestSync_ResumeWithoutNewItems(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)
	upstream := newFeed(2, itemA, itemB, itemC)

	_, err := Collect(s.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)
	before, _ := s.State("k")
	writes := store.writes.Load()

	got, err := Collect(s.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got), "replayed exactly, no duplicates")

	after, _ := s.State("k")
	assert.Equal(t, before, after)
	assert.Equal(t, writes, store.writes.Load(), "a no-op pass must not write")
}

func TestSync_ResumeWithNewItem(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSyncer(t)
	upstream := newFeed(2, itemA, itemB, itemC)

	_, err := Collect(s.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)

	upstream.add(itemD)
	got, err := Collect(s.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(got))

	state, _ := s.State("k")
	assert.Equal(t, itemD.At, state.Marker)
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(state.Items))
}

func TestSync_StatePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySnapshotStore()
	upstream := newFeed(10, itemA, itemB)

	first := NewSyncer(cache.NewDurable[string, State[feedItem]]("sync", store, nil), nil)
	_, err := Collect(first.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)

	restarted := NewSyncer(cache.NewDurable[string, State[feedItem]]("sync", store, nil).Load(ctx), nil)
	state, ok := restarted.State("k")
	require.True(t, ok)
	assert.Equal(t, itemB.At, state.Marker)
	assert.Equal(t, []string{"b", "a"}, ids(state.Items))
}

func TestSync_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolvedMarkerExcludesBoundaryItem", func(t *testing.T) {
		s, _ := newTestSyncer(t)
		upstream := newFeed(10, itemA, itemB, itemC)

		got, err := Collect(s.Sync(ctx, startingAt(upstream.source("k"), itemB)))
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(got))
	})

	t.Run("BootstrapOnlyWhenCold", func(t *testing.T) {
		s, _ := newTestSyncer(t)
		upstream := newFeed(10, itemA, itemB, itemC)
		calls := 0
		src := upstream.source("k")
		src.Bootstrap = func(context.Context) (string, error) {
			calls++
			return itemA.At, nil
		}

		_, err := Collect(s.Sync(ctx, src))
		require.NoError(t, err)
		_, err = Collect(s.Sync(ctx, src))
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("FailureIsTerminal", func(t *testing.T) {
		s, store := newTestSyncer(t)
		upstream := newFeed(10, itemA)
		notFound := errors.New("no such ref")
		src := upstream.source("k")
		src.Bootstrap = func(context.Context) (string, error) { return "", notFound }

		got, err := Collect(s.Sync(ctx, src))
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrBootstrap)
		assert.ErrorIs(t, err, notFound)
		assert.Zero(t, upstream.callCount())

		_, ok := s.State("k")
		assert.False(t, ok)
		assert.Zero(t, store.writes.Load())
	})
}

func TestSync_BoundaryOnlyOnLastPage(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSyncer(t)

	// Newest first with page size 1: b lands on the first page, a2 on the last.
	upstream := newFeed(1, feedItem{ID: "a2", At: itemB.At}, itemB)
	src := upstream.source("k")
	src.Boundary = func(_ string, i feedItem) bool { return i.ID == "b" || i.ID == "a2" }

	got, err := Collect(s.Sync(ctx, src))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got), "only items on the last page are dropped")
}

func TestSync_ItemsSharingMarkerTimestamp(t *testing.T) {
	ctx := context.Background()
	twin := feedItem{ID: "b2", At: itemB.At}

	t.Run("WarmPass", func(t *testing.T) {
		s, _ := newTestSyncer(t)
		upstream := newFeed(2, itemA, itemB)

		_, err := Collect(s.Sync(ctx, upstream.source("k")))
		require.NoError(t, err)

		// b2 shares b's timestamp and lands on the last page next to b.
		upstream.add(twin, itemD, itemE)
		got, err := Collect(s.Sync(ctx, upstream.source("k")))
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "e", "d", "b2"}, ids(got))

		state, _ := s.State("k")
		assert.Equal(t, itemE.At, state.Marker)
		assert.Contains(t, ids(state.Items), "b2")
	})

	t.Run("ColdPassFromKnownItem", func(t *testing.T) {
		s, _ := newTestSyncer(t)
		upstream := newFeed(2, itemA, itemB, twin, itemD, itemE)

		got, err := Collect(s.Sync(ctx, startingAt(upstream.source("k"), itemB)))
		require.NoError(t, err)
		assert.Equal(t, []string{"e", "d", "b2"}, ids(got))
	})
}

func TestSync_MidPaginationFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("ColdPassCommitsNothing", func(t *testing.T) {
		s, store := newTestSyncer(t)
		upstream := newFeed(1, itemA, itemB, itemC)
		upstream.failOn = 2

		got, err := Collect(s.Sync(ctx, upstream.source("k")))
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, []string{"c"}, ids(got), "items delivered before the failure stay delivered")

		_, ok := s.State("k")
		assert.False(t, ok)
		assert.Zero(t, store.writes.Load())

		got, err = Collect(s.Sync(ctx, upstream.source("k")))
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, ids(got))
	})

	t.Run("WarmPassKeepsLastCommittedMarker", func(t *testing.T) {
		s, _ := newTestSyncer(t)
		upstream := newFeed(1, itemA, itemB, itemC)
		_, err := Collect(s.Sync(ctx, upstream.source("k")))
		require.NoError(t, err)
		committed, _ := s.State("k")

		upstream.add(itemD, itemE)
		upstream.failOn = upstream.callCount() + 2

		got, err := Collect(s.Sync(ctx, upstream.source("k")))
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, []string{"c", "b", "a", "e"}, ids(got))

		state, _ := s.State("k")
		assert.Equal(t, committed, state)

		got, err = Collect(s.Sync(ctx, upstream.source("k")))
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a", "e", "d"}, ids(got))
		state, _ = s.State("k")
		assert.Equal(t, itemE.At, state.Marker)
	})
}

func TestSync_EarlyStop(t *testing.T) {
	ctx := context.Background()

	t.Run("DuringReplay", func(t *testing.T) {
		s, _ := newTestSyncer(t)
		upstream := newFeed(10, itemA, itemB, itemC)
		_, err := Collect(s.Sync(ctx, upstream.source("k")))
		require.NoError(t, err)
		calls := upstream.callCount()

		for item, err := range s.Sync(ctx, upstream.source("k")) {
			require.NoError(t, err)
			assert.Equal(t, "c", item.ID)
			break
		}
		assert.Equal(t, calls, upstream.callCount(), "no page requested after the consumer stopped")
	})

	t.Run("DuringFetchCommitsNothing", func(t *testing.T) {
		s, store := newTestSyncer(t)
		upstream := newFeed(1, itemA, itemB, itemC)

		for item, err := range s.Sync(ctx, upstream.source("k")) {
			require.NoError(t, err)
			assert.Equal(t, "c", item.ID)
			break
		}
		assert.Equal(t, 1, upstream.callCount())
		_, ok := s.State("k")
		assert.False(t, ok)
		assert.Zero(t, store.writes.Load())
	})
}

func TestSync_DedupsOverlappingRange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSyncer(t)
	upstream := newFeed(10, itemA, itemB, itemC, itemD)

	// A marker far behind the stored items makes upstream return them again.
	_, err := Collect(s.Sync(ctx, upstream.source("seed")))
	require.NoError(t, err)
	seeded, _ := s.State("seed")
	s.states.Set("k", State[feedItem]{Marker: itemA.At, Items: seeded.Items[1:]})

	got, err := Collect(s.Sync(ctx, upstream.source("k")))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(got))
}

func TestSync_CursorMarker(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSyncer(t)
	upstream := newFeed(1, itemA, itemB, itemC)

	src := upstream.source("k")
	src.Advance = nil
	src.Boundary = nil

	got, err := Collect(s.Sync(ctx, src))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))

	state, _ := s.State("k")
	assert.Equal(t, "2", state.Marker, "marker is the cursor of the last page")
}

func TestSync_InvalidSource(t *testing.T) {
	s, _ := newTestSyncer(t)
	_, err := Collect(s.Sync(context.Background(), Source[feedItem]{Key: "k"}))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestLatestTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		marker    string
		candidate string
		want      string
	}{
		{"EmptyMarker", "", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z"},
		{"EmptyCandidate", "2024-01-01T00:00:00Z", "", "2024-01-01T00:00:00Z"},
		{"Later", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", "2024-01-02T00:00:00Z"},
		{"Earlier", "2024-01-02T00:00:00Z", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"},
		{"OffsetsCompareByInstant", "2024-01-01T10:00:00+02:00", "2024-01-01T09:00:00Z", "2024-01-01T09:00:00Z"},
		{"Unparseable", "b", "a", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LatestTimestamp(tt.marker, tt.candidate))
		})
	}
}
