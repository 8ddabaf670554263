package key

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chatguard/internal/keys/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
)

type InMemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[id.KeyID]*models.EncryptionKey
}

func NewInMemory() *InMemoryKeyStore {
	return &InMemoryKeyStore{keys: make(map[id.KeyID]*models.EncryptionKey)}
}

func (s *InMemoryKeyStore) Create(_ context.Context, k *models.EncryptionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[k.KeyID]; exists {
		return fmt.Errorf("create key %s: %w", k.KeyID, sentinel.ErrConflict)
	}
	s.keys[k.KeyID] = k.Clone()
	return nil
}

// ListActive returns active keys, newest first.
func (s *InMemoryKeyStore) ListActive(_ context.Context) ([]*models.EncryptionKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.EncryptionKey
	for _, k := range s.keys {
		if k.IsActive() {
			out = append(out, k.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].KeyID > out[j].KeyID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryKeyStore) FindByID(_ context.Context, keyID id.KeyID) (*models.EncryptionKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("find key %s: %w", keyID, sentinel.ErrNotFound)
	}
	return k.Clone(), nil
}

// Deprecate flips an active key to deprecated. It reports false when the key
// was not active.
func (s *InMemoryKeyStore) Deprecate(_ context.Context, keyID id.KeyID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.keys[keyID]
	if !ok {
		return false, fmt.Errorf("deprecate key %s: %w", keyID, sentinel.ErrNotFound)
	}
	return k.Deprecate(at), nil
}
