//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"flowmint/internal/wallet/models"
	"flowmint/internal/wallet/store"
	"flowmint/pkg/platform/sentinel"
	"flowmint/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	registeredAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(ctx, &models.Registration{WalletAddress: "0x1", Role: "buyer", RegisteredAt: registeredAt}))

	found, err := s.store.FindByAddress(ctx, "0x1")
	s.Require().NoError(err)
	s.Equal("0x1", found.WalletAddress)
	s.Equal("buyer", found.Role)
	s.True(registeredAt.Equal(found.RegisteredAt))
}

func (s *RedisStoreSuite) TestOverwrite() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &models.Registration{WalletAddress: "0xAA", Role: "admin"}))
	s.Require().NoError(s.store.Save(ctx, &models.Registration{WalletAddress: "0xAA", Role: "user"}))

	found, err := s.store.FindByAddress(ctx, "0xAA")
	s.Require().NoError(err)
	s.Equal("user", found.Role)
}

func (s *RedisStoreSuite) TestNotFound() {
	_, err := s.store.FindByAddress(context.Background(), "0xdead")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestHealth() {
	s.Require().NoError(s.store.Health(context.Background()))
}
