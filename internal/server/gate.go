package server

import (
	"sync"
	"time"
)

// DefaultMinInterval is the smallest gap between the starts of two tool calls.
const DefaultMinInterval = 600 * time.Millisecond

// Gate serializes tool calls so that consecutive calls start at least minInterval apart.
//
// Callers queue on the mutex; the one holding it sleeps out the remainder of the
// interval, records its start time and releases the gate. The wait ignores context
// cancellation.
type Gate struct {
	minInterval time.Duration
	now         func() time.Time
	sleep       func(time.Duration)

	mu   sync.Mutex
	last time.Time
}

// NewGate creates a [Gate] on the wall clock. A non-positive interval selects [DefaultMinInterval].
func NewGate(minInterval time.Duration) *Gate {
	return newGate(minInterval, time.Now, time.Sleep)
}

func newGate(minInterval time.Duration, now func() time.Time, sleep func(time.Duration)) *Gate {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Gate{minInterval: minInterval, now: now, sleep: sleep}
}

// MinInterval returns the configured spacing.
func (g *Gate) MinInterval() time.Duration { return g.minInterval }

// Wait blocks until a call may start and returns how long it waited.
func (g *Gate) Wait() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	var waited time.Duration
	if !g.last.IsZero() {
		if d := g.last.Add(g.minInterval).Sub(g.now()); d > 0 {
			g.sleep(d)
			waited = d
		}
	}

	g.last = g.now()
	return waited
}
