package game

import (
	"sync"
	"time"
)

// FrameInterval is the wall time of one frame at 60 TPS.
const FrameInterval = time.Second / 60

// Clock delivers frame ticks to Host.Run.
type Clock interface {
	C() <-chan time.Time
	Stop()
}

// TickerClock is a wall-clock Clock backed by time.Ticker.
type TickerClock struct {
	ticker *time.Ticker
}

// NewTickerClock starts a clock that fires every d. A non-positive d uses
// FrameInterval.
func NewTickerClock(d time.Duration) *TickerClock {
	if d <= 0 {
		d = FrameInterval
	}
	return &TickerClock{ticker: time.NewTicker(d)}
}

func (c *TickerClock) C() <-chan time.Time { return c.ticker.C }

func (c *TickerClock) Stop() { c.ticker.Stop() }

// ManualClock fires only when Advance is called. Tests use it to drive an
// exact number of frames through Host.Run.
type ManualClock struct {
	mu   sync.Mutex
	ch   chan time.Time
	done chan struct{}
	once sync.Once
	now  time.Time
}

// NewManualClock creates a clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{ch: make(chan time.Time), done: make(chan struct{}), now: start}
}

func (c *ManualClock) C() <-chan time.Time { return c.ch }

// Advance delivers n ticks, blocking until each one is received. It returns
// the number delivered, which is short if the clock was stopped.
func (c *ManualClock) Advance(n int) int {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		c.now = c.now.Add(FrameInterval)
		now := c.now
		c.mu.Unlock()
		select {
		case c.ch <- now:
		case <-c.done:
			return i
		}
	}
	return n
}

func (c *ManualClock) Stop() {
	c.once.Do(func() { close(c.done) })
}
