package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
)

// fetchThrough serves fresh entries from a stats cache and fetches misses at most once per
// key at a time. When a fetch fails the last known value is served, however old.
type fetchThrough[V any] struct {
	cache  *cache.StatsCache[string, V]
	group  singleflight.Group
	logger *zap.Logger
}

func newFetchThrough[V any](c *cache.StatsCache[string, V], logger *zap.Logger) *fetchThrough[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fetchThrough[V]{cache: c, logger: logger}
}

func (f *fetchThrough[V]) get(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	if v, ok := f.cache.Get(key); ok {
		return v, nil
	}

	// The shared fetch outlives any single waiter; the HTTP client timeout bounds it.
	ch := f.group.DoChan(key, func() (any, error) {
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(V), nil
		}
		// Read past the stats wrapper: this lookup was already counted as a miss.
		if stale, ok := f.cache.TTLCache.GetStale(key); ok {
			f.logger.Warn("serving stale entry after fetch failure",
				zap.String("cache", f.cache.Name()),
				zap.String("key", key),
				zap.Error(res.Err),
			)
			return stale, nil
		}
		return zero, res.Err
	}
}
