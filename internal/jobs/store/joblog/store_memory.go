package joblog

import (
	"context"
	"sync"

	"chatguard/internal/jobs/models"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	errors  []*models.CleanupError
	reports []*models.CleanupReport
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) AppendError(_ context.Context, e *models.CleanupError) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *e
	s.errors = append(s.errors, &c)
	return nil
}

func (s *InMemoryStore) AppendReport(_ context.Context, r *models.CleanupReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *r
	s.reports = append(s.reports, &c)
	return nil
}

// LatestReport returns the newest report for job, or nil.
func (s *InMemoryStore) LatestReport(_ context.Context, job string) (*models.CleanupReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].Job == job {
			c := *s.reports[i]
			return &c, nil
		}
	}
	return nil, nil
}

// Errors returns a copy of every appended error in insertion order.
func (s *InMemoryStore) Errors() []models.CleanupError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CleanupError, len(s.errors))
	for i, e := range s.errors {
		out[i] = *e
	}
	return out
}

// Reports returns a copy of every appended report in insertion order.
func (s *InMemoryStore) Reports() []models.CleanupReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CleanupReport, len(s.reports))
	for i, r := range s.reports {
		out[i] = *r
	}
	return out
}
