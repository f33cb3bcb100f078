package game

import "time"

// cadence records the last N cycle completions into a ring buffer so the
// HUD can show the current breathing rate.
type cadence struct {
	buffer    []time.Time
	nextIndex int
	filled    int
}

func newCadence(ringSize int) *cadence {
	if ringSize < 2 {
		ringSize = 2
	}
	return &cadence{buffer: make([]time.Time, ringSize)}
}

func (c *cadence) record(t time.Time) {
	c.buffer[c.nextIndex] = t
	c.nextIndex++
	if c.nextIndex >= len(c.buffer) {
		c.nextIndex = 0
	}
	if c.filled < len(c.buffer) {
		c.filled++
	}
}

func (c *cadence) reset() {
	c.nextIndex = 0
	c.filled = 0
}

// snapshot returns up to the last n completions, oldest first.
func (c *cadence) snapshot(n int) []time.Time {
	if n > c.filled {
		n = c.filled
	}
	out := make([]time.Time, n)
	// Walk backwards from nextIndex - 1
	idx := c.nextIndex - 1
	for i := n - 1; i >= 0; i-- {
		if idx < 0 {
			idx = len(c.buffer) - 1
		}
		out[i] = c.buffer[idx]
		idx--
	}
	return out
}

// perMinute is the completion rate across the recorded window, or 0
// with fewer than two completions.
func (c *cadence) perMinute() float64 {
	times := c.snapshot(c.filled)
	if len(times) < 2 {
		return 0
	}
	span := times[len(times)-1].Sub(times[0])
	if span <= 0 {
		return 0
	}
	return float64(len(times)-1) / span.Minutes()
}
