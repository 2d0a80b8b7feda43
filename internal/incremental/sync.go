package incremental

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
)

// Syncer runs sync passes and keeps their State in a durable cache.
//
// A Syncer does no locking of its own: two concurrent passes over the same key may both
// commit, and the later one wins. Callers serialize passes per key.
type Syncer[T any] struct {
	states *cache.TTLCache[string, State[T]]
	logger *zap.Logger
}

func NewSyncer[T any](states *cache.TTLCache[string, State[T]], logger *zap.Logger) *Syncer[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer[T]{states: states, logger: logger}
}

// State returns the committed state for key.
func (s *Syncer[T]) State(key string) (State[T], bool) {
	return s.states.GetStale(key)
}

// Sync returns the items of src: first the ones recorded by earlier passes, then the new
// ones found by paging forward from the recorded marker.
//
// The sequence is lazy. A page is requested only once the consumer has taken every item of
// the previous one, and breaking out of the loop stops paging. The state is committed (and
// dumped) only when the last page was reached and at least one new item was seen; a fetch
// error is yielded as the final element and leaves the previous state in place.
func (s *Syncer[T]) Sync(ctx context.Context, src Source[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if src.Fetch == nil || src.Identity == nil {
			yield(zero, ErrInvalidSource)
			return
		}

		state, warm := s.states.GetStale(src.Key)
		marker := state.Marker
		if !warm && src.Bootstrap != nil {
			m, err := src.Bootstrap(ctx)
			if err != nil {
				yield(zero, fmt.Errorf("%w for %s: %w", ErrBootstrap, src.Key, err))
				return
			}
			marker = m
		}

		seen := make(map[string]struct{}, len(state.Items))
		items := make([]T, 0, len(state.Items))
		for _, item := range state.Items {
			id := src.Identity(item)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			items = append(items, item)
			if !yield(item, nil) {
				return
			}
		}

		next := marker
		fresh := 0
		cursor := ""
		pages := 0
		for {
			page, err := src.Fetch(ctx, marker, cursor)
			if err != nil {
				s.logger.Warn("sync pass aborted",
					zap.String("key", src.Key),
					zap.Int("pages", pages),
					zap.Int("new_items", fresh),
					zap.Error(err),
				)
				yield(zero, fmt.Errorf("fetch %s: %w", src.Key, err))
				return
			}
			pages++

			last := page.Next == ""
			for _, item := range page.Items {
				if last && src.Boundary != nil && src.Boundary(marker, item) {
					continue
				}
				id := src.Identity(item)
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				items = append(items, item)
				fresh++
				if src.Advance != nil {
					next = src.Advance(next, item)
				}
				if !yield(item, nil) {
					return
				}
			}

			if last {
				if src.Advance == nil && cursor != "" {
					next = cursor
				}
				break
			}
			cursor = page.Next
		}

		if fresh == 0 {
			s.logger.Debug("sync pass found nothing new", zap.String("key", src.Key), zap.Int("pages", pages))
			return
		}

		s.states.Set(src.Key, State[T]{Marker: next, Items: items})
		if err := s.states.Dump(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to persist sync state", zap.String("key", src.Key), zap.Error(err))
		}
		s.logger.Debug("sync pass committed",
			zap.String("key", src.Key),
			zap.String("marker", next),
			zap.Int("new_items", fresh),
			zap.Int("total_items", len(items)),
		)
	}
}

// Collect drains seq. On error it returns the items delivered before the failure along with it.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}
