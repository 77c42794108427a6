//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"flowmint/internal/platform/config"
	platformredis "flowmint/internal/platform/redis"
)

// RedisContainer wraps a testcontainers Redis instance.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *redis.Client
}

// NewRedisContainer starts Redis and connects through the platform client, so
// the same URL parsing and ping path used in production is exercised.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	client, err := platformredis.New(ctx, config.RedisConfig{URL: url, PoolSize: 4})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to redis: %v", err)
	}

	return &RedisContainer{
		Container: container,
		URL:       url,
		Client:    client.Client,
	}
}

// FlushAll removes every key. Call from SetupTest to isolate cases.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
