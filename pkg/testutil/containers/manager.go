//go:build integration

// Package containers starts shared testcontainers for integration suites.
// Containers are started once per test binary and reaped by testcontainers
// when the process exits.
package containers

import (
	"context"
	"sync"
	"testing"
)

// Manager lazily starts one container of each kind.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
	mongo    *MongoContainer
	kafka    *KafkaContainer
}

var (
	manager     *Manager
	managerOnce sync.Once
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() { manager = &Manager{} })
	return manager
}

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postgres == nil {
		c, err := startPostgres(context.Background())
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}
		m.postgres = c
	}
	return m.postgres
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		c, err := startRedis(context.Background())
		if err != nil {
			t.Fatalf("failed to start redis container: %v", err)
		}
		m.redis = c
	}
	return m.redis
}

func (m *Manager) GetMongo(t *testing.T) *MongoContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mongo == nil {
		c, err := startMongo(context.Background())
		if err != nil {
			t.Fatalf("failed to start mongo container: %v", err)
		}
		m.mongo = c
	}
	return m.mongo
}

func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kafka == nil {
		c, err := startKafka(context.Background())
		if err != nil {
			t.Fatalf("failed to start redpanda container: %v", err)
		}
		m.kafka = c
	}
	return m.kafka
}
