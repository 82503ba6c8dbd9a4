package memory

import (
	"context"
	"sync"

	"github.com/Asonyu-Ng/career-profile-pal/internal/storage"
)

type Store struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func New() *Store {
	return &Store{
		items: make(map[string][]byte),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	blob, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrKeyNotFound
	}

	// copy so callers cannot mutate the stored blob
	out := make([]byte, len(blob))
	copy(out, blob)

	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, blob []byte) error {
	cp := make([]byte, len(blob))
	copy(cp, blob)

	s.mu.Lock()
	s.items[key] = cp
	s.mu.Unlock()

	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()

	return nil
}
