package circuit

import (
	"sync"
	"time"
)

// State is the breaker position.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange reports a transition caused by a recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker counts consecutive failures of a dependency. Once open, callers
// should skip the dependency except for probes admitted by Allow after the
// cooldown. Consecutive successes close it again.
type Breaker struct {
	mu sync.Mutex

	name             string
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	now              func() time.Time

	state     State
	failures  int
	successes int
	openedAt  time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open breaker.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown sets how long an open breaker rejects calls before admitting probes.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// New creates a closed breaker. Defaults: 5 failures to open, 1 success to
// close, 30s cooldown.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 1,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Allow reports whether a call should reach the dependency. An open breaker
// admits calls again once the cooldown since it opened has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		return true
	}
	return b.now().Sub(b.openedAt) >= b.cooldown
}

// RecordFailure returns true when callers should use their fallback, that is
// when the breaker is open after this failure.
func (b *Breaker) RecordFailure() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	if b.state == StateOpen {
		// restart the cooldown after a failed probe
		b.openedAt = b.now()
		return true, StateChange{}
	}
	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		b.openedAt = b.now()
		return true, StateChange{Opened: true}
	}
	return false, StateChange{}
}

// RecordSuccess returns true when callers may use the primary path, that is
// when the breaker is closed after this success.
func (b *Breaker) RecordSuccess() (bool, StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == StateClosed {
		return true, StateChange{}
	}
	b.successes++
	if b.successes >= b.successThreshold {
		b.state = StateClosed
		b.successes = 0
		return true, StateChange{Closed: true}
	}
	return false, StateChange{}
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}
