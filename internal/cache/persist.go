package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrUnnamedCache      = errors.New("cache has no name")
	ErrNoSnapshotStore   = errors.New("cache has no snapshot store")
	ErrMalformedSnapshot = errors.New("malformed cache snapshot")
)

// Dump writes every fresh entry to the cache's snapshot slot, replacing what was there.
// Stale entries are left out of the snapshot.
func (c *TTLCache[K, V]) Dump(ctx context.Context) error {
	if c.name == "" {
		return ErrUnnamedCache
	}
	if c.store == nil {
		return ErrNoSnapshotStore
	}

	data, err := c.snapshot()
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", c.name, err)
	}
	if err := c.store.Write(ctx, c.name, data); err != nil {
		return fmt.Errorf("write cache %s: %w", c.name, err)
	}
	return nil
}

// snapshot encodes fresh entries as a JSON array of [key, {insertedAt, value}] pairs.
func (c *TTLCache[K, V]) snapshot() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	pairs := make([][2]any, 0, len(c.entries))
	for key, entry := range c.entries {
		if c.isStale(entry, now) {
			continue
		}
		pairs = append(pairs, [2]any{key, wireEntry[V]{
			InsertedAt: entry.InsertedAt.UnixMilli(),
			Value:      entry.Value,
		}})
	}
	return json.Marshal(pairs)
}

// Load merges the cache's snapshot slot into memory and returns the cache.
// A missing slot is not an error. An unreadable or corrupt slot is logged and ignored,
// leaving the cache as it was.
func (c *TTLCache[K, V]) Load(ctx context.Context) *TTLCache[K, V] {
	if c.name == "" || c.store == nil {
		return c
	}

	data, err := c.store.Read(ctx, c.name)
	if err != nil {
		c.logger.Warn("failed to read cache snapshot", zap.String("cache", c.name), zap.Error(err))
		return c
	}
	if data == nil {
		return c
	}

	entries, err := decodeSnapshot[K, V](data)
	if err != nil {
		c.logger.Warn("ignoring corrupt cache snapshot", zap.String("cache", c.name), zap.Error(err))
		return c
	}

	c.mu.Lock()
	for key, entry := range entries {
		c.entries[key] = entry
	}
	c.mu.Unlock()

	c.logger.Debug("loaded cache snapshot", zap.String("cache", c.name), zap.Int("entries", len(entries)))
	return c
}

func decodeSnapshot[K comparable, V any](data []byte) (map[K]TimedEntry[V], error) {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	entries := make(map[K]TimedEntry[V], len(pairs))
	for i, pair := range pairs {
		if pair[0] == nil || pair[1] == nil {
			return nil, fmt.Errorf("%w: pair %d is incomplete", ErrMalformedSnapshot, i)
		}
		var key K
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return nil, fmt.Errorf("%w: key %d: %w", ErrMalformedSnapshot, i, err)
		}
		var wire wireEntry[V]
		if err := json.Unmarshal(pair[1], &wire); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformedSnapshot, i, err)
		}
		entries[key] = TimedEntry[V]{InsertedAt: time.UnixMilli(wire.InsertedAt), Value: wire.Value}
	}
	return entries, nil
}
