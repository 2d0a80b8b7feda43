package repository

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidSnapshotName = errors.New("invalid snapshot name")

// SnapshotStore holds one serialized cache snapshot per cache name.
// Implementations: local files (default), Redis, Postgres or in-memory (tests / ephemeral runs).
type SnapshotStore interface {
	// Read returns nil, nil when no snapshot was ever written for name.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write replaces the snapshot for name.
	Write(ctx context.Context, name string, data []byte) error
}

func validateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return ErrInvalidSnapshotName
	}
	return nil
}
