package guarded

import (
	"context"
	"errors"
	"log/slog"

	"flowmint/pkg/platform/audit"
	"flowmint/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the breaker rejects appends.
var ErrCircuitOpen = errors.New("audit sink circuit open")

// Store wraps an audit sink with a circuit breaker. While the sink is failing,
// events are dropped without being attempted so a broker outage does not
// stall the publisher.
type Store struct {
	inner   audit.Store
	breaker *circuit.Breaker
	metrics *Metrics
	logger  *slog.Logger
}

type Option func(*Store)

func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(inner audit.Store, breaker *circuit.Breaker, opts ...Option) *Store {
	s := &Store{
		inner:   inner,
		breaker: breaker,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.Allow() {
		s.metrics.IncDropped()
		return ErrCircuitOpen
	}

	if err := s.inner.Append(ctx, event); err != nil {
		s.metrics.IncPersistFailures()
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.metrics.SetCircuitState(true)
			s.logger.WarnContext(ctx, "audit sink circuit opened",
				"sink", s.breaker.Name(),
				"error", err,
			)
		}
		return err
	}

	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.metrics.SetCircuitState(false)
		s.logger.InfoContext(ctx, "audit sink circuit closed", "sink", s.breaker.Name())
	}
	return nil
}
