// Package publisher emits audit events to an audit.Store, either inline or
// through a bounded buffer drained by a background goroutine.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "flowmint/pkg/platform/audit"
)

// ErrBufferFull is returned by Emit when the async buffer cannot accept more events.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

// Publisher writes audit events to a store.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
	buffer chan audit.Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking, queueing up to size events.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

// WithLogger sets a logger for async write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher. Without WithAsyncBuffer every Emit writes synchronously.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records an event, stamping it with the current time when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Close stops accepting events and drains the async buffer.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// run is detached from request contexts: events outlive the request that emitted them.
func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"wallet_address", event.WalletAddress,
				"request_id", event.RequestID,
				"error", err,
			)
		}
	}
}
