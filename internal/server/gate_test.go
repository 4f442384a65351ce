package server

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGate(t *testing.T) {
	t.Run("First Call Does Not Wait", func(t *testing.T) {
		clock := newFakeClock()
		g := newGate(0, clock.Now, clock.Sleep)

		if waited := g.Wait(); waited != 0 {
			t.Errorf("expected no wait, got %v", waited)
		}
		if g.MinInterval() != DefaultMinInterval {
			t.Errorf("expected default interval, got %v", g.MinInterval())
		}
	})

	t.Run("Waits Out Remainder", func(t *testing.T) {
		clock := newFakeClock()
		g := newGate(600*time.Millisecond, clock.Now, clock.Sleep)

		g.Wait()
		clock.Advance(100 * time.Millisecond)

		if waited := g.Wait(); waited != 500*time.Millisecond {
			t.Errorf("expected 500ms wait, got %v", waited)
		}
	})

	t.Run("No Wait After Interval", func(t *testing.T) {
		clock := newFakeClock()
		g := newGate(600*time.Millisecond, clock.Now, clock.Sleep)

		g.Wait()
		clock.Advance(2 * time.Second)

		if waited := g.Wait(); waited != 0 {
			t.Errorf("expected no wait, got %v", waited)
		}
		if len(clock.sleeps) != 0 {
			t.Errorf("expected no sleeps, got %v", clock.sleeps)
		}
	})

	t.Run("Back To Back Calls", func(t *testing.T) {
		clock := newFakeClock()
		g := newGate(600*time.Millisecond, clock.Now, clock.Sleep)

		var starts []time.Time
		for range 4 {
			g.Wait()
			starts = append(starts, clock.Now())
		}

		for i := 1; i < len(starts); i++ {
			if gap := starts[i].Sub(starts[i-1]); gap < 600*time.Millisecond {
				t.Errorf("call %d started %v after the previous one", i, gap)
			}
		}
	})

	t.Run("Serializes Concurrent Callers", func(t *testing.T) {
		g := NewGate(20 * time.Millisecond)

		var (
			mu     sync.Mutex
			starts []time.Time
			wg     sync.WaitGroup
		)
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				g.Wait()
				mu.Lock()
				starts = append(starts, time.Now())
				mu.Unlock()
			}()
		}
		wg.Wait()

		first, last := starts[0], starts[0]
		for _, s := range starts {
			if s.Before(first) {
				first = s
			}
			if s.After(last) {
				last = s
			}
		}
		if spread := last.Sub(first); spread < 4*20*time.Millisecond-5*time.Millisecond {
			t.Errorf("expected starts spread over at least ~80ms, got %v", spread)
		}
	})
}
