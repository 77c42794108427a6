package store

import (
	"context"
	"sync"

	"flowmint/internal/wallet/models"
	"flowmint/pkg/platform/sentinel"
)

// ErrNotFound is returned when no registration exists for a wallet address.
var ErrNotFound = sentinel.ErrNotFound

// InMemoryStore keeps registrations in process memory. Contents are lost on restart.
type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[string]models.Registration
}

// New creates an empty in-memory registry.
func New() *InMemoryStore {
	return &InMemoryStore{registrations: make(map[string]models.Registration)}
}

// Save inserts or overwrites the registration for its wallet address.
func (s *InMemoryStore) Save(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[reg.WalletAddress] = *reg
	return nil
}

// FindByAddress returns a copy of the registration, matching the address exactly.
func (s *InMemoryStore) FindByAddress(_ context.Context, walletAddress string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reg, ok := s.registrations[walletAddress]; ok {
		return &reg, nil
	}
	return nil, ErrNotFound
}

// Health always succeeds for the in-memory store.
func (s *InMemoryStore) Health(context.Context) error {
	return nil
}

// Len reports the number of registered wallets.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registrations)
}
