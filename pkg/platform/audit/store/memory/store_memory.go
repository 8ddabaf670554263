package memory

import (
	"context"
	"sync"

	audit "chatguard/pkg/platform/audit"
)

// InMemoryStore is an audit sink for tests and single-node development.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.SecurityEvent
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Write(_ context.Context, events []audit.SecurityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// ListAll returns every event in write order.
func (s *InMemoryStore) ListAll() []audit.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.SecurityEvent{}, s.events...)
}

// ListByAction returns events with the given action in write order.
func (s *InMemoryStore) ListByAction(action audit.AuditEvent) []audit.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.SecurityEvent
	for _, e := range s.events {
		if e.Action == string(action) {
			out = append(out, e)
		}
	}
	return out
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
