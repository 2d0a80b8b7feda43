package cache

import (
	"context"
	"sync/atomic"
)

// Stats is a point-in-time copy of a StatsCache's counters.
type Stats struct {
	Hit  uint64 `json:"hit"`
	Miss uint64 `json:"miss"`
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hit + s.Miss
	if total == 0 {
		return 0
	}
	return float64(s.Hit) / float64(total)
}

// StatsCache counts hits and misses of Get and GetStale on the wrapped TTLCache.
// All other operations are forwarded unchanged. Counters live in memory only.
type StatsCache[K comparable, V any] struct {
	*TTLCache[K, V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewStats[K comparable, V any](opts Options) *StatsCache[K, V] {
	return WithStats(New[K, V](opts))
}

// WithStats wraps an existing cache.
func WithStats[K comparable, V any](c *TTLCache[K, V]) *StatsCache[K, V] {
	return &StatsCache[K, V]{TTLCache: c}
}

func (s *StatsCache[K, V]) Get(key K) (V, bool) {
	return s.record(s.TTLCache.Get(key))
}

func (s *StatsCache[K, V]) GetStale(key K) (V, bool) {
	return s.record(s.TTLCache.GetStale(key))
}

func (s *StatsCache[K, V]) record(value V, ok bool) (V, bool) {
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return value, ok
}

func (s *StatsCache[K, V]) Set(key K, value V) *StatsCache[K, V] {
	s.TTLCache.Set(key, value)
	return s
}

func (s *StatsCache[K, V]) Load(ctx context.Context) *StatsCache[K, V] {
	s.TTLCache.Load(ctx)
	return s
}

func (s *StatsCache[K, V]) Stats() Stats {
	return Stats{Hit: s.hits.Load(), Miss: s.misses.Load()}
}

// ClearStats resets both counters. Cached values are untouched.
func (s *StatsCache[K, V]) ClearStats() {
	s.hits.Store(0)
	s.misses.Store(0)
}
