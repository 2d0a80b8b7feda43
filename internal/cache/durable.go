package cache

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/repository"
)

// MaxTTL is the largest representable TTL. Entries of a cache using it never go stale.
const MaxTTL = time.Duration(math.MaxInt64)

// NewDurable returns a cache that behaves as a persisted dictionary: nothing ever goes stale
// and there is no background sweep. Its TTL cannot be changed, so Dump never drops an entry.
// Freshness is the caller's business.
func NewDurable[K comparable, V any](name string, store repository.SnapshotStore, logger *zap.Logger) *TTLCache[K, V] {
	c := New[K, V](Options{
		Name:      name,
		TTL:       MaxTTL,
		AutoEvict: false,
		Store:     store,
		Logger:    logger,
	})
	c.durable = true
	return c
}
