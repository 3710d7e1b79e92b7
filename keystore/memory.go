package keystore

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu  sync.RWMutex
	key string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == "" {
		return "", ErrNotConfigured
	}
	return s.key, nil
}

func (s *MemoryStore) Set(_ context.Context, key string) error {
	key, err := normalize(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.key = ""
	s.mu.Unlock()
	return nil
}
