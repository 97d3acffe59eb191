package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a thread-safe clock pinned to a known instant
// for tests and scenario replay.
//
// Recorded timestamps feed the canonical record bytes, so replaying a
// scenario with the same FixedClock produces byte-identical world
// state.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// DefaultScenarioTime is the instant scenarios run at when they do not
// pin one themselves.
var DefaultScenarioTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewFixedClock creates a clock pinned to at, normalized to UTC. A
// zero instant pins the clock to DefaultScenarioTime.
func NewFixedClock(at time.Time) *FixedClock {
	if at.IsZero() {
		at = DefaultScenarioTime
	}
	return &FixedClock{now: at.UTC()}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new instant.
// Tests use it to stamp entries with distinct times off one base
// instant.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
