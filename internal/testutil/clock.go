package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant returned by a fresh StepClock.
var Epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// StepClock is a deterministic wall clock for tests.
//
// Each call to Now returns Epoch plus n × step, where n is the number of
// previous calls. Stored timestamps therefore come out identical across
// runs and strictly increasing within one run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	step  time.Duration
	calls int64
}

// NewStepClock creates a clock advancing by step on every Now call.
// A zero step always returns Epoch.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{step: step}
}

// Now returns the current instant and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Epoch.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Reset rewinds the clock to Epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
