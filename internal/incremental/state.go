// Package incremental resumes paginated fetches of append-only remote collections from the
// position reached by the previous pass, instead of re-reading the whole collection.
package incremental

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBootstrap marks a cold start whose resume marker could not be resolved.
	ErrBootstrap     = errors.New("resolve resume marker")
	ErrInvalidSource = errors.New("incremental source needs Fetch and Identity")
)

// State is the persisted progress of one synchronized collection: every item observed so far,
// in first-seen order, and the marker the next pass resumes from.
type State[T any] struct {
	Marker string `json:"marker"`
	Items  []T    `json:"items"`
}

// Page is one response of a paged fetcher.
type Page[T any] struct {
	Items []T
	// Next is the continuation cursor; empty on the last page.
	Next string
}

// Source describes one synchronized collection.
type Source[T any] struct {
	// Key identifies the collection's State in the state cache.
	Key string

	// Bootstrap resolves the marker of a collection that has never been synced.
	// Nil means start from the beginning (empty marker).
	Bootstrap func(ctx context.Context) (string, error)

	// Fetch returns the page at cursor, or the first page after marker when cursor is empty.
	Fetch func(ctx context.Context, marker, cursor string) (Page[T], error)

	// Identity is the dedup key of an item.
	Identity func(item T) string

	// Advance folds a newly observed item into the marker. When nil the marker becomes
	// the cursor of the last page fetched, for cursor-addressed collections.
	Advance func(marker string, item T) string

	// Boundary reports items to drop from the last page, such as the item sitting exactly
	// at an inclusive marker.
	Boundary func(marker string, item T) bool
}

// LatestTimestamp is an Advance helper for RFC 3339 markers: it keeps the later of the two.
// Unparseable values fall back to string comparison.
func LatestTimestamp(marker, candidate string) string {
	if marker == "" {
		return candidate
	}
	if candidate == "" {
		return marker
	}
	a, errA := time.Parse(time.RFC3339, marker)
	b, errB := time.Parse(time.RFC3339, candidate)
	if errA != nil || errB != nil {
		if candidate > marker {
			return candidate
		}
		return marker
	}
	if b.After(a) {
		return candidate
	}
	return marker
}
