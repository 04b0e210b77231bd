package usage

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]int // day -> client -> used
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]map[string]int)}
}

func (s *memoryStore) Get(ctx context.Context, clientID, day string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[day][clientID], nil
}

func (s *memoryStore) Increment(ctx context.Context, clientID, day string, limit int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, ok := s.data[day]
	if !ok {
		// Older days are never read again.
		s.data = map[string]map[string]int{day: {}}
		counts = s.data[day]
	}
	if counts[clientID] >= limit {
		return counts[clientID], ErrLimitReached
	}
	counts[clientID]++
	return counts[clientID], nil
}
