package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/repository"
)

// ErrDurableTTL is returned when changing the TTL of a durable cache.
var ErrDurableTTL = errors.New("durable cache ttl is fixed")

// Options configures a TTLCache.
type Options struct {
	// Name identifies the cache's snapshot slot. Without a name the cache is memory-only
	// and never sweeps in the background.
	Name string
	// TTL is the maximum age of a fresh entry. Zero or negative means entries never go stale.
	TTL time.Duration
	// AutoEvict runs Invalidate every TTL (only for named caches).
	AutoEvict bool
	Store     repository.SnapshotStore
	Logger    *zap.Logger
	// Clock replaces time.Now, mostly for tests.
	Clock func() time.Time
}

// TTLCache maps keys to values stamped with their insertion time.
//
// Staleness is evaluated when reading: an entry older than the TTL is reported as absent by
// Get but is still returned by GetStale until Invalidate removes it. Removal only reclaims memory.
type TTLCache[K comparable, V any] struct {
	mu        sync.RWMutex
	entries   map[K]TimedEntry[V]
	ttl       time.Duration
	name      string
	autoEvict bool
	store     repository.SnapshotStore
	logger    *zap.Logger
	now       func() time.Time
	durable   bool

	stop  context.CancelFunc
	done  chan struct{}
	rearm chan struct{}
}

func New[K comparable, V any](opts Options) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:   make(map[K]TimedEntry[V]),
		ttl:       opts.TTL,
		name:      opts.Name,
		autoEvict: opts.AutoEvict,
		store:     opts.Store,
		logger:    opts.Logger,
		now:       opts.Clock,
	}
	if c.ttl <= 0 {
		c.ttl = MaxTTL
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}

	if c.autoEvict && c.name != "" {
		ctx, cancel := context.WithCancel(context.Background())
		c.stop = cancel
		c.done = make(chan struct{})
		c.rearm = make(chan struct{}, 1)
		go c.sweep(ctx)
	}
	return c
}

// Name returns the cache name, which is also the name of its snapshot slot.
func (c *TTLCache[K, V]) Name() string { return c.name }

func (c *TTLCache[K, V]) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

// Durable reports whether the cache was built by NewDurable.
func (c *TTLCache[K, V]) Durable() bool { return c.durable }

// SetTTL changes the freshness window and restarts the background sweep timer with it.
// Durable caches keep their TTL and return ErrDurableTTL.
func (c *TTLCache[K, V]) SetTTL(ttl time.Duration) error {
	if c.durable {
		return fmt.Errorf("%w: %s", ErrDurableTTL, c.name)
	}
	if ttl <= 0 {
		ttl = MaxTTL
	}
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()

	if c.rearm != nil {
		select {
		case c.rearm <- struct{}{}:
		default:
		}
	}
	return nil
}

// Set stores value under key, stamped with the current time.
func (c *TTLCache[K, V]) Set(key K, value V) *TTLCache[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = TimedEntry[V]{InsertedAt: c.now(), Value: value}
	return c
}

// Get returns the value for key if it is present and fresh.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	return c.get(key, false)
}

// GetStale returns the value for key regardless of its age, as long as it was not evicted.
func (c *TTLCache[K, V]) GetStale(key K) (V, bool) {
	return c.get(key, true)
}

func (c *TTLCache[K, V]) Has(key K) bool {
	_, ok := c.get(key, false)
	return ok
}

func (c *TTLCache[K, V]) HasStale(key K) bool {
	_, ok := c.get(key, true)
	return ok
}

func (c *TTLCache[K, V]) get(key K, allowStale bool) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || (!allowStale && c.isStale(entry, c.now())) {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Entry returns the stored entry for key, stale or not.
func (c *TTLCache[K, V]) Entry(key K) (TimedEntry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Len counts stored entries, including stale ones not yet evicted.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate removes every stale entry.
func (c *TTLCache[K, V]) Invalidate() {
	c.evict()
}

func (c *TTLCache[K, V]) evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if c.isStale(entry, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// isStale must be called with the lock held.
func (c *TTLCache[K, V]) isStale(entry TimedEntry[V], now time.Time) bool {
	return now.Sub(entry.InsertedAt) > c.ttl
}

func (c *TTLCache[K, V]) sweep(ctx context.Context) {
	defer close(c.done)
	for {
		timer := time.NewTimer(c.TTL())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-c.rearm:
			timer.Stop()
		case <-timer.C:
			if n := c.evict(); n > 0 {
				c.logger.Debug("evicted stale cache entries",
					zap.String("cache", c.name),
					zap.Int("count", n),
				)
			}
		}
	}
}

// Close stops the background sweep, if any. The cache stays usable afterwards.
func (c *TTLCache[K, V]) Close() {
	if c.stop == nil {
		return
	}
	c.stop()
	<-c.done
}
