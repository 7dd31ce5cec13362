package store

import (
	"context"
	"sync"
	"time"
)

// Memory is the process-local fallback Store. Writes never expire and
// RefreshTTL is a successful no-op. Valid for a single process only: with
// multiple processes behind one deployment each would see its own sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	lists  map[string][][]byte
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string][]byte),
		lists:  make(map[string][][]byte),
	}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *Memory) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Memory) SetNX(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[key]; exists {
		return false, nil
	}
	s.values[key] = append([]byte(nil), value...)
	return true, nil
}

func (s *Memory) AppendToList(_ context.Context, key string, item []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], append([]byte(nil), item...))
	return nil
}

func (s *Memory) GetList(_ context.Context, key string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.lists[key]
	out := make([][]byte, 0, len(items))
	for _, it := range items {
		out = append(out, append([]byte(nil), it...))
	}
	return out, nil
}

func (s *Memory) RefreshTTL(_ context.Context, _ time.Duration, _ ...string) error {
	return nil
}

func (s *Memory) Ping(_ context.Context) error { return nil }

func (s *Memory) Close() error { return nil }
