package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Ticker is the single 1-second tick source. Projections registered with it
// all observe the same instant, replacing the browser client's duplicated
// per-clock interval timers.
type Ticker struct {
	wall     clockwork.Clock
	interval time.Duration

	mu          sync.Mutex
	projections []func(now time.Time)
}

// NewTicker returns a ticker on a 1-second interval.
func NewTicker(wall clockwork.Clock) *Ticker {
	return &Ticker{wall: wall, interval: time.Second}
}

// Register adds a projection invoked on every tick.
func (t *Ticker) Register(p func(now time.Time)) {
	t.mu.Lock()
	t.projections = append(t.projections, p)
	t.mu.Unlock()
}

// Run drives the projections until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	ticker := t.wall.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			t.mu.Lock()
			projections := make([]func(time.Time), len(t.projections))
			copy(projections, t.projections)
			t.mu.Unlock()
			for _, p := range projections {
				p(now)
			}
		}
	}
}
