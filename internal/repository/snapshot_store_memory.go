package repository

import (
	"context"
	"sync"
)

type memorySnapshotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemorySnapshotStore() SnapshotStore {
	return &memorySnapshotStore{
		slots: make(map[string][]byte),
	}
}

func (s *memorySnapshotStore) Read(_ context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.slots[name]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *memorySnapshotStore) Write(_ context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = stored
	return nil
}
