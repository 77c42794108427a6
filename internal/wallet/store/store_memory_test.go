package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"flowmint/internal/wallet/models"
	"flowmint/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestLookupBehavior() {
	s.Run("returns registration when exists", func() {
		reg := &models.Registration{WalletAddress: "0x1", Role: "buyer", RegisteredAt: time.Now()}
		s.Require().NoError(s.store.Save(s.ctx, reg))

		found, err := s.store.FindByAddress(s.ctx, "0x1")
		s.Require().NoError(err)
		s.Equal(reg, found)
	})

	s.Run("returns ErrNotFound when address was never registered", func() {
		_, err := s.store.FindByAddress(s.ctx, "0xdead")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("does not normalize case or whitespace", func() {
		s.Require().NoError(s.store.Save(s.ctx, &models.Registration{WalletAddress: "0xAbC", Role: "admin"}))

		for _, addr := range []string{"0xabc", "0XABC", " 0xAbC", "0xAbC "} {
			_, err := s.store.FindByAddress(s.ctx, addr)
			s.Require().ErrorIs(err, sentinel.ErrNotFound, addr)
		}
	})

	s.Run("returned registration is a copy", func() {
		s.Require().NoError(s.store.Save(s.ctx, &models.Registration{WalletAddress: "0xcopy", Role: "user"}))

		found, err := s.store.FindByAddress(s.ctx, "0xcopy")
		s.Require().NoError(err)
		found.Role = "tampered"

		again, err := s.store.FindByAddress(s.ctx, "0xcopy")
		s.Require().NoError(err)
		s.Equal("user", again.Role)
	})
}

func (s *InMemoryStoreSuite) TestLastWriteWins() {
	s.Require().NoError(s.store.Save(s.ctx, &models.Registration{WalletAddress: "0xAA", Role: "admin"}))
	s.Require().NoError(s.store.Save(s.ctx, &models.Registration{WalletAddress: "0xAA", Role: "user"}))

	found, err := s.store.FindByAddress(s.ctx, "0xAA")
	s.Require().NoError(err)
	s.Equal("user", found.Role)
	s.Equal(1, s.store.Len())
}

func (s *InMemoryStoreSuite) TestConcurrentRegistrations() {
	const writers = 50
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.Save(s.ctx, &models.Registration{WalletAddress: "0xrace", Role: fmt.Sprintf("role-%d", i)})
			_, _ = s.store.FindByAddress(s.ctx, "0xrace")
		}()
	}
	wg.Wait()

	found, err := s.store.FindByAddress(s.ctx, "0xrace")
	s.Require().NoError(err)
	s.Contains(found.Role, "role-", "one of the concurrent writes must win")
	s.Equal(1, s.store.Len())
}
