package cache

import "time"

// TimedEntry is a cached value together with the time it was stored.
// Entries are immutable; Set replaces them wholesale.
type TimedEntry[V any] struct {
	InsertedAt time.Time
	Value      V
}

// wireEntry is the persisted shape of a TimedEntry.
type wireEntry[V any] struct {
	InsertedAt int64 `json:"insertedAt"` // unix milliseconds
	Value      V     `json:"value"`
}
