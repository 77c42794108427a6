//go:build integration

package containers

import (
	"sync"
	"testing"
)

// Manager lazily starts one container per kind and shares it across suites.
// Ryuk reaps the containers when the test binary exits.
type Manager struct {
	redisOnce    sync.Once
	redis        *RedisContainer
	postgresOnce sync.Once
	postgres     *PostgresContainer
	redpandaOnce sync.Once
	redpanda     *RedpandaContainer
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.redisOnce.Do(func() {
		m.redis = NewRedisContainer(t)
	})
	if m.redis == nil {
		t.Fatal("redis container failed to start earlier in this run")
	}
	return m.redis
}

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.postgresOnce.Do(func() {
		m.postgres = NewPostgresContainer(t)
	})
	if m.postgres == nil {
		t.Fatal("postgres container failed to start earlier in this run")
	}
	return m.postgres
}

func (m *Manager) GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	m.redpandaOnce.Do(func() {
		m.redpanda = NewRedpandaContainer(t)
	})
	if m.redpanda == nil {
		t.Fatal("redpanda container failed to start earlier in this run")
	}
	return m.redpanda
}
