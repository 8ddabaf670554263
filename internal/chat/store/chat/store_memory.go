package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chatguard/internal/chat/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
)

type InMemoryChatStore struct {
	mu    sync.RWMutex
	chats map[id.ChatID]*models.Chat
}

func NewInMemory() *InMemoryChatStore {
	return &InMemoryChatStore{chats: make(map[id.ChatID]*models.Chat)}
}

func (s *InMemoryChatStore) Create(_ context.Context, c *models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.chats[c.ID]; exists {
		return fmt.Errorf("create chat %s: %w", c.ID, sentinel.ErrConflict)
	}
	s.chats[c.ID] = c.Clone()
	return nil
}

func (s *InMemoryChatStore) FindByID(_ context.Context, chatID id.ChatID) (*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[chatID]
	if !ok {
		return nil, fmt.Errorf("find chat %s: %w", chatID, sentinel.ErrNotFound)
	}
	return c.Clone(), nil
}

// FindCleanupCandidates returns up to limit chats matching the retention
// predicate, oldest updatedAt first.
func (s *InMemoryChatStore) FindCleanupCandidates(_ context.Context, cutoff time.Time, limit int) ([]*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Chat
	for _, c := range s.chats {
		if c.IsCleanupCandidate(cutoff) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SoftDeletePage soft-deletes the given chats in one locked pass. Chats that
// no longer match the candidate predicate at cutoff are skipped.
func (s *InMemoryChatStore) SoftDeletePage(_ context.Context, chatIDs []id.ChatID, cutoff, at time.Time, reason string) ([]id.ChatID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted []id.ChatID
	for _, chatID := range chatIDs {
		c, ok := s.chats[chatID]
		if !ok || !c.IsCleanupCandidate(cutoff) {
			continue
		}
		c.SoftDelete(at, reason)
		deleted = append(deleted, chatID)
	}
	return deleted, nil
}

// FindPendingCascades returns up to limit retention-deleted chats whose
// message cascade has not completed, earliest deletion first.
func (s *InMemoryChatStore) FindPendingCascades(_ context.Context, limit int) ([]*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Chat
	for _, c := range s.chats {
		if c.HasPendingCascade() {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DeletedAt.Equal(*out[j].DeletedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].DeletedAt.Before(*out[j].DeletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryChatStore) SaveCascadeProgress(_ context.Context, chatID id.ChatID, cursor id.MessageID, complete bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[chatID]
	if !ok {
		return fmt.Errorf("save cascade progress %s: %w", chatID, sentinel.ErrNotFound)
	}
	c.SaveCascadeProgress(cursor, complete)
	return nil
}
