package testutil

import (
	"sync"
	"time"
)

// FixedClock is a manually advanced wall clock for tests.
//
// It replaces time.Now wherever code accepts a now func, so timestamp-derived
// values (program id fallbacks, run timestamps) are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at t.
// A zero t starts at 2024-01-01T00:00:00Z.
func NewFixedClock(t time.Time) *FixedClock {
	if t.IsZero() {
		t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &FixedClock{now: t}
}

// Now returns the current fixed time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
