// Package adapters holds the demo history stores.
package adapters

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sibtech_backend/internal/feature/demo/domain/entity"
	"sibtech_backend/internal/feature/demo/usecase"
)

type memoryDemo struct {
	entries   []entity.Entry
	expiresAt time.Time
}

// MemoryStore keeps demos in process memory. Each demo expires ttl after its last write.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	demos map[string]*memoryDemo
	now   func() time.Time
}

var _ usecase.Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, demos: make(map[string]*memoryDemo), now: time.Now}
}

// live returns the demo or nil, dropping it when expired. Caller holds mu.
func (s *MemoryStore) live(id string) *memoryDemo {
	d, ok := s.demos[id]
	if !ok {
		return nil
	}
	if !s.now().Before(d.expiresAt) {
		delete(s.demos, id)
		return nil
	}
	return d
}

func (s *MemoryStore) Create(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live(id) != nil {
		return fmt.Errorf("demo %s already exists", id)
	}
	s.demos[id] = &memoryDemo{expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Append(_ context.Context, id string, e entity.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.live(id)
	if d == nil {
		return usecase.ErrDemoNotFound
	}
	d.entries = append(d.entries, e)
	d.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) List(_ context.Context, id string) ([]entity.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.live(id)
	if d == nil {
		return nil, usecase.ErrDemoNotFound
	}
	out := make([]entity.Entry, len(d.entries))
	copy(out, d.entries)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live(id) == nil {
		return usecase.ErrDemoNotFound
	}
	delete(s.demos, id)
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(id) != nil, nil
}

// Sweep drops every expired demo and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id := range s.demos {
		if s.live(id) == nil {
			n++
		}
	}
	return n
}
