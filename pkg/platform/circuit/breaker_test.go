package circuit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand so cooldown tests never sleep.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// record replays outcomes: 'f' is a failure, 's' a success.
func record(b *Breaker, outcomes string) (opened, closed int) {
	for _, o := range outcomes {
		var change StateChange
		if o == 'f' {
			_, change = b.RecordFailure()
		} else {
			_, change = b.RecordSuccess()
		}
		if change.Opened {
			opened++
		}
		if change.Closed {
			closed++
		}
	}
	return opened, closed
}

func TestNewBreakerIsClosed(t *testing.T) {
	b := New("kafka-audit")

	assert.Equal(t, "kafka-audit", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}

func TestOutcomeSequences(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		outcomes   string
		wantOpen   bool
		wantOpened int
		wantClosed int
	}{
		{name: "below failure threshold", opts: []Option{WithFailureThreshold(3)}, outcomes: "ff"},
		{name: "reaching failure threshold opens once", opts: []Option{WithFailureThreshold(3)}, outcomes: "ffff", wantOpen: true, wantOpened: 1},
		{name: "success resets the failure streak", opts: []Option{WithFailureThreshold(3)}, outcomes: "ffsff"},
		{name: "streak after reset opens", opts: []Option{WithFailureThreshold(3)}, outcomes: "ffsfff", wantOpen: true, wantOpened: 1},
		{name: "default threshold is five", outcomes: "fffff", wantOpen: true, wantOpened: 1},
		{name: "success threshold closes", opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)}, outcomes: "fss", wantOpened: 1, wantClosed: 1},
		{name: "one success short stays open", opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)}, outcomes: "fs", wantOpen: true, wantOpened: 1},
		{name: "failure resets the success streak", opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(3)}, outcomes: "fssfss", wantOpen: true, wantOpened: 1},
		{name: "reopens after closing", opts: []Option{WithFailureThreshold(1)}, outcomes: "fsf", wantOpen: true, wantOpened: 2, wantClosed: 1},
		{name: "non-positive thresholds keep defaults", opts: []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)}, outcomes: "ffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("test", tt.opts...)
			opened, closed := record(b, tt.outcomes)

			assert.Equal(t, tt.wantOpen, b.IsOpen())
			assert.Equal(t, tt.wantOpened, opened)
			assert.Equal(t, tt.wantClosed, closed)
		})
	}
}

func TestRecordReturnValues(t *testing.T) {
	b := New("test", WithFailureThreshold(2), WithSuccessThreshold(2))

	useFallback, _ := b.RecordFailure()
	assert.False(t, useFallback, "closed breaker keeps the primary path")

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback, "already open")
	assert.False(t, change.Opened, "no second transition")

	usePrimary, _ := b.RecordSuccess()
	assert.False(t, usePrimary, "still open after one success")
	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
}

func TestCooldown(t *testing.T) {
	clock := newFakeClock()
	b := New("test",
		WithFailureThreshold(1),
		WithCooldown(time.Minute),
		WithClock(clock.Now),
	)
	b.RecordFailure()

	t.Run("rejects until the cooldown elapses", func(t *testing.T) {
		assert.False(t, b.Allow())
		clock.Advance(59 * time.Second)
		assert.False(t, b.Allow())
		clock.Advance(time.Second)
		assert.True(t, b.Allow())
		assert.True(t, b.IsOpen(), "admitting a probe does not close the breaker")
	})

	t.Run("failed probe restarts the cooldown", func(t *testing.T) {
		b.RecordFailure()
		assert.False(t, b.Allow())
		clock.Advance(time.Minute)
		assert.True(t, b.Allow())
	})

	t.Run("successful probe closes", func(t *testing.T) {
		_, change := b.RecordSuccess()
		assert.True(t, change.Closed)
		assert.True(t, b.Allow())
	})
}

func TestDefaultCooldown(t *testing.T) {
	clock := newFakeClock()
	b := New("test", WithFailureThreshold(1), WithCooldown(0), WithClock(clock.Now))
	b.RecordFailure()

	clock.Advance(29 * time.Second)
	assert.False(t, b.Allow())
	clock.Advance(time.Second)
	assert.True(t, b.Allow(), "zero cooldown falls back to 30s")
}

func TestReset(t *testing.T) {
	clock := newFakeClock()
	b := New("test", WithFailureThreshold(2), WithClock(clock.Now))
	record(b, "ff")
	require.True(t, b.IsOpen())

	b.Reset()

	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
	record(b, "f")
	assert.False(t, b.IsOpen(), "failure streak was cleared")
}

func TestConcurrentRecording(t *testing.T) {
	b := New("test", WithFailureThreshold(1000))
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				b.RecordFailure()
				b.Allow()
			}
		}()
	}
	wg.Wait()

	assert.False(t, b.IsOpen())
	b.RecordFailure()
	// 500 failures so far plus this one stays under the threshold
	assert.False(t, b.IsOpen())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
}
