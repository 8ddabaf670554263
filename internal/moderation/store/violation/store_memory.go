package violation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
)

// InMemoryStore is an append-only violation log.
type InMemoryStore struct {
	mu         sync.RWMutex
	violations []*models.Violation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, v *models.Violation) error {
	if v == nil {
		return fmt.Errorf("violation is required")
	}
	cp := *v
	s.mu.Lock()
	defer s.mu.Unlock()
	s.violations = append(s.violations, &cp)
	return nil
}

// CountSince counts the user's violations created at or after since.
func (s *InMemoryStore) CountSince(_ context.Context, userID id.UserID, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, v := range s.violations {
		if v.UserID == userID && !v.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// CountByType aggregates violations with from <= createdAt <= to.
func (s *InMemoryStore) CountByType(_ context.Context, from, to time.Time) (map[models.ViolationType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.ViolationType]int)
	for _, v := range s.violations {
		if inRange(v.CreatedAt, from, to) {
			out[v.Type]++
		}
	}
	return out, nil
}

// ListRecent returns up to limit violations in range, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, from, to time.Time, limit int) ([]*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Violation
	for _, v := range s.violations {
		if inRange(v.CreatedAt, from, to) {
			cp := *v
			out = append(out, &cp)
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
