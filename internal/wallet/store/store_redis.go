package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flowmint/internal/wallet/models"
)

const walletRoleKeyPrefix = "wallet:role:"

// RedisStore shares registrations across instances. Registrations never expire.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed registry.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type redisRegistration struct {
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Save overwrites the key for the wallet address; concurrent writers race and the last SET wins.
func (s *RedisStore) Save(ctx context.Context, reg *models.Registration) error {
	payload, err := json.Marshal(redisRegistration{Role: reg.Role, RegisteredAt: reg.RegisteredAt})
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	if err := s.client.Set(ctx, walletRoleKeyPrefix+reg.WalletAddress, payload, 0).Err(); err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByAddress(ctx context.Context, walletAddress string) (*models.Registration, error) {
	raw, err := s.client.Get(ctx, walletRoleKeyPrefix+walletAddress).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}

	var stored redisRegistration
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode registration: %w", err)
	}
	return &models.Registration{
		WalletAddress: walletAddress,
		Role:          stored.Role,
		RegisteredAt:  stored.RegisteredAt,
	}, nil
}

func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
