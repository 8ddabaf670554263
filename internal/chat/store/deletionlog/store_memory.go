package deletionlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"chatguard/internal/chat/models"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	logs []*models.DeletionLog
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, log *models.DeletionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *log
	s.logs = append(s.logs, &c)
	return nil
}

// CountByReason counts logs created within [from, to].
func (s *InMemoryStore) CountByReason(_ context.Context, from, to time.Time) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int)
	for _, l := range s.logs {
		if inRange(l.CreatedAt, from, to) {
			out[l.Reason]++
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, from, to time.Time, limit int) ([]*models.DeletionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.DeletionLog
	for _, l := range s.logs {
		if inRange(l.CreatedAt, from, to) {
			c := *l
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
