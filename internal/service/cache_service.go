package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
)

// ManagedCache is what the admin surface needs from a cache. *cache.TTLCache and
// *cache.StatsCache both satisfy it.
type ManagedCache interface {
	Name() string
	Len() int
	TTL() time.Duration
	Durable() bool
	SetTTL(ttl time.Duration) error
	Dump(ctx context.Context) error
}

type statsReporter interface {
	Stats() cache.Stats
	ClearStats()
}

type CacheStats struct {
	Name    string  `json:"name"`
	Entries int     `json:"entries"`
	TTL     string  `json:"ttl"`
	Durable bool    `json:"durable"`
	Tracked bool    `json:"tracked"`
	Hit     uint64  `json:"hit"`
	Miss    uint64  `json:"miss"`
	HitRate float64 `json:"hit_rate"`
}

type CacheService interface {
	Stats() []CacheStats
	ClearStats()
	SetTTL(name string, ttl time.Duration) error
	DumpAll(ctx context.Context) error
}

type cacheService struct {
	caches []ManagedCache
	byName map[string]ManagedCache
}

func NewCacheService(caches ...ManagedCache) CacheService {
	byName := make(map[string]ManagedCache, len(caches))
	for _, c := range caches {
		byName[c.Name()] = c
	}
	return &cacheService{caches: caches, byName: byName}
}

func (s *cacheService) Stats() []CacheStats {
	out := make([]CacheStats, 0, len(s.caches))
	for _, c := range s.caches {
		st := CacheStats{Name: c.Name(), Entries: c.Len(), TTL: formatTTL(c.TTL()), Durable: c.Durable()}
		if r, ok := c.(statsReporter); ok {
			stats := r.Stats()
			st.Tracked = true
			st.Hit, st.Miss, st.HitRate = stats.Hit, stats.Miss, stats.HitRate()
		}
		out = append(out, st)
	}
	return out
}

func (s *cacheService) ClearStats() {
	for _, c := range s.caches {
		if r, ok := c.(statsReporter); ok {
			r.ClearStats()
		}
	}
}

func (s *cacheService) SetTTL(name string, ttl time.Duration) error {
	c, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCacheNotFound, name)
	}
	if c.Durable() {
		return fmt.Errorf("%w: %s", ErrCacheNotTunable, name)
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return c.SetTTL(ttl)
}

func (s *cacheService) DumpAll(ctx context.Context) error {
	dumpers := make([]cache.Dumper, len(s.caches))
	for i, c := range s.caches {
		dumpers[i] = c
	}
	return cache.DumpAll(ctx, dumpers...)
}

func formatTTL(ttl time.Duration) string {
	if ttl == cache.MaxTTL {
		return "never"
	}
	return ttl.String()
}
