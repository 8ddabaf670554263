package message

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

type InMemoryMessageStore struct {
	mu       sync.RWMutex
	messages map[id.MessageID]*models.Message
}

func NewInMemory() *InMemoryMessageStore {
	return &InMemoryMessageStore{messages: make(map[id.MessageID]*models.Message)}
}

func (s *InMemoryMessageStore) Create(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.messages[m.ID]; exists {
		return fmt.Errorf("create message %s: %w", m.ID, sentinel.ErrConflict)
	}
	c := *m
	s.messages[m.ID] = &c
	return nil
}

// SoftDeleteBatch soft-deletes up to limit live messages of chatID with an id
// greater than after, in id order. It returns the count and the last id seen.
func (s *InMemoryMessageStore) SoftDeleteBatch(_ context.Context, chatID id.ChatID, after id.MessageID, limit int, at time.Time) (int, id.MessageID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var batch []*models.Message
	for _, m := range s.messages {
		if m.ChatID == chatID && !m.Deleted && m.ID > after {
			batch = append(batch, m)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].ID < batch[j].ID })
	if len(batch) > limit {
		batch = batch[:limit]
	}
	if len(batch) == 0 {
		return 0, after, nil
	}
	for _, m := range batch {
		m.SoftDelete(at)
	}
	return len(batch), batch[len(batch)-1].ID, nil
}

// ListByChat returns copies of every message in chatID, in id order.
func (s *InMemoryMessageStore) ListByChat(_ context.Context, chatID id.ChatID) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Message
	for _, m := range s.messages {
		if m.ChatID == chatID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
