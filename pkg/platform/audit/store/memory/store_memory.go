package memory

import (
	"context"
	"sync"

	audit "flowmint/pkg/platform/audit"
)

// InMemoryStore keeps audit events per wallet address, in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.WalletAddress] = append(s.events[event.WalletAddress], event)
	return nil
}

func (s *InMemoryStore) ListByWallet(_ context.Context, walletAddress string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[walletAddress]...), nil
}
