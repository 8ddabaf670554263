package status

import (
	"context"
	"fmt"
	"sync"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
)

// InMemoryStore keeps one moderation record per user.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]*models.ModerationStatus
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]*models.ModerationStatus)}
}

// Get returns sentinel.ErrNotFound when the user has never been moderated.
func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*models.ModerationStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, fmt.Errorf("get moderation status: %w", sentinel.ErrNotFound)
	}
	return rec.Clone(), nil
}

// Upsert replaces the record for the user. Last write wins.
func (s *InMemoryStore) Upsert(_ context.Context, status *models.ModerationStatus) error {
	if status == nil {
		return fmt.Errorf("moderation status is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[status.UserID] = status.Clone()
	return nil
}
