package actionlog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
)

// InMemoryStore is an append-only moderation action log.
type InMemoryStore struct {
	mu      sync.RWMutex
	actions []*models.ModerationAction
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, a *models.ModerationAction) error {
	if a == nil {
		return fmt.Errorf("moderation action is required")
	}
	cp := *a
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, &cp)
	return nil
}

func (s *InMemoryStore) CountByAction(_ context.Context, from, to time.Time) (map[models.ActionType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.ActionType]int)
	for _, a := range s.actions {
		if !a.CreatedAt.Before(from) && !a.CreatedAt.After(to) {
			out[a.Action]++
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, from, to time.Time, limit int) ([]*models.ModerationAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ModerationAction
	for _, a := range s.actions {
		if !a.CreatedAt.Before(from) && !a.CreatedAt.After(to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListByUser returns the user's log entries, oldest first.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.ModerationAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ModerationAction
	for _, a := range s.actions {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}
