// Package countdown derives the remaining seconds of the game and turn
// clocks from server-supplied start timestamps. One shared tick source
// drives any number of registered projections, so the two clocks cannot
// drift apart the way independent timers would.
package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// GameDurationLimit is the fixed overall round length in seconds.
	GameDurationLimit = 1800

	// DefaultTurnLimit is the per-turn time limit in seconds unless the
	// snapshot carries another value.
	DefaultTurnLimit = 300

	// futureSkew is how far in the future a start timestamp may sit before
	// it is treated as a timezone-parsing artifact rather than a real
	// future start.
	futureSkew = 5 * time.Second
)

// Remaining derives the seconds left on a clock. The result is clamped to
// [0, limit]. A zero or future start means elapsed time cannot be derived
// locally; in that case the server-computed fallback timer is used when
// present, else the full limit is reported. Pure: the same (start, now)
// pair always yields the same result.
func Remaining(start time.Time, limit int, fallback *int, now time.Time) int {
	if limit <= 0 {
		return 0
	}
	if start.IsZero() || start.After(now.Add(futureSkew)) {
		if fallback != nil {
			return clamp(limit-*fallback, limit)
		}
		return limit
	}
	elapsed := int(now.Sub(start) / time.Second)
	if elapsed < 0 {
		// Inside the skew window; treat as not started.
		return limit
	}
	return clamp(limit-elapsed, limit)
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// Clock is one countdown projection: a start timestamp, a limit, and an
// optional server fallback timer, recomputed on every tick and immediately
// on re-arm.
type Clock struct {
	mu        sync.Mutex
	wall      clockwork.Clock
	limit     int
	start     time.Time
	fallback  *int
	remaining int
	onChange  func(remaining int)
}

// NewClock returns a countdown holding the full limit. onChange fires on
// every change of the derived remaining value, including the immediate
// recompute on re-arm; it may be nil.
func NewClock(wall clockwork.Clock, limit int, onChange func(remaining int)) *Clock {
	return &Clock{
		wall:      wall,
		limit:     limit,
		remaining: limit,
		onChange:  onChange,
	}
}

// Arm points the countdown at a new start timestamp and limit. If the start
// or limit actually changed the remaining value is recomputed immediately
// rather than waiting for the next tick, so a turn switch never displays a
// stale countdown.
func (c *Clock) Arm(start time.Time, limit int, fallback *int) {
	c.mu.Lock()
	if limit <= 0 {
		limit = c.limit
	}
	changed := !start.Equal(c.start) || limit != c.limit
	c.start = start
	c.limit = limit
	c.fallback = fallback
	c.mu.Unlock()

	if changed {
		c.Tick(c.wall.Now())
	}
}

// Tick recomputes the remaining seconds at the given instant. It is the
// projection registered with the shared Ticker.
func (c *Clock) Tick(now time.Time) {
	c.mu.Lock()
	next := Remaining(c.start, c.limit, c.fallback, now)
	fire := next != c.remaining && c.onChange != nil
	c.remaining = next
	onChange := c.onChange
	c.mu.Unlock()

	if fire {
		onChange(next)
	}
}

// Remaining returns the last derived value.
func (c *Clock) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
