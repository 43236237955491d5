// ABOUTME: Audio clock and timer abstractions for playback scheduling
// ABOUTME: Wall-clock implementations live here; Manual provides test control
package clock

import (
	"sync"
	"time"
)

// AudioClock is the monotonic time reference driving sample-accurate
// scheduling, independent of the video surface's own clock.
type AudioClock interface {
	// Now returns elapsed clock time in seconds.
	Now() float64
}

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer is a single pending callback.
type Timer interface {
	// Stop cancels the timer. Reports whether the callback was prevented
	// from running.
	Stop() bool
}

// Scheduler creates tickers and delayed callbacks. Components take a
// Scheduler instead of calling the time package directly so ticks are
// deterministic under test.
type Scheduler interface {
	NewTicker(d time.Duration) Ticker
	AfterFunc(d time.Duration, f func()) Timer
}

// Pausable is an AudioClock that freezes while suspended. It mirrors the
// output device clock: pausing playback suspends the device, and elapsed
// time must not accumulate while suspended.
type Pausable struct {
	mu          sync.Mutex
	now         func() time.Time
	accumulated time.Duration
	resumedAt   time.Time
	running     bool
}

// NewPausable creates a running pausable clock starting at zero.
func NewPausable() *Pausable {
	c := &Pausable{now: time.Now}
	c.Resume()
	return c
}

// Now returns elapsed running time in seconds.
func (c *Pausable) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.accumulated
	if c.running {
		elapsed += c.now().Sub(c.resumedAt)
	}
	return elapsed.Seconds()
}

// Suspend freezes the clock. No-op if already suspended.
func (c *Pausable) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.accumulated += c.now().Sub(c.resumedAt)
	c.running = false
}

// Resume unfreezes the clock. No-op if already running.
func (c *Pausable) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.resumedAt = c.now()
	c.running = true
}

// Suspended reports whether the clock is frozen.
func (c *Pausable) Suspended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.running
}

// Wall is a Scheduler backed by the time package.
type Wall struct{}

func (Wall) NewTicker(d time.Duration) Ticker {
	return &wallTicker{t: time.NewTicker(d)}
}

func (Wall) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type wallTicker struct {
	t *time.Ticker
}

func (w *wallTicker) C() <-chan time.Time { return w.t.C }
func (w *wallTicker) Stop()               { w.t.Stop() }
