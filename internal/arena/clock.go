package arena

import "time"

// Clock is the simulation time source used by shot cooldowns and reloads.
// The Environment advances it once per step, so timers are measured in
// simulated time rather than wall time.
type Clock interface {
	Now() time.Duration
	Advance(d time.Duration)
}

// TickClock is a monotonic clock that only moves when advanced.
type TickClock struct {
	now time.Duration
}

// NewTickClock returns a clock starting at zero.
func NewTickClock() *TickClock {
	return &TickClock{}
}

// Now returns the elapsed simulated time.
func (c *TickClock) Now() time.Duration { return c.now }

// Advance moves the clock forward. Negative durations are ignored.
func (c *TickClock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}
