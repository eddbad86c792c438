package api

import (
	"github.com/google/uuid"
	"sync"
	"time"
)

// requestsCache tracks generate requests that are still running. Nothing is
// kept once a request returns.
type requestsCache struct {
	mu  sync.Mutex
	ids map[uuid.UUID]time.Time
}

func newRequestsCache() *requestsCache {
	return &requestsCache{
		ids: map[uuid.UUID]time.Time{},
	}
}

func (s *requestsCache) add(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = time.Now()
}

func (s *requestsCache) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *requestsCache) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
