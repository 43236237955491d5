// ABOUTME: Manual clock and scheduler for deterministic tests
// ABOUTME: Advance() moves time and fires due timers and tickers in order
package clock

import (
	"sync"
	"time"
)

// Manual is an AudioClock and Scheduler driven entirely by Advance calls.
// Timer callbacks fire synchronously inside Advance, in deadline order,
// outside the internal lock so they may schedule further work.
type Manual struct {
	mu      sync.Mutex
	elapsed time.Duration
	timers  []*manualTimer
	tickers []*manualTicker
}

// NewManual creates a manual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns elapsed time in seconds.
func (m *Manual) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsed.Seconds()
}

// NewTicker creates a ticker firing every d of manual time.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTicker{
		owner:  m,
		ch:     make(chan time.Time, 1),
		period: d,
		next:   m.elapsed + d,
	}
	m.tickers = append(m.tickers, t)
	return t
}

// AfterFunc schedules f to run after d of manual time.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{
		owner:    m,
		deadline: m.elapsed + d,
		f:        f,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer and ticker whose
// deadline falls within the window, in deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.elapsed + d
	m.mu.Unlock()

	for {
		fn := m.fireNext(target)
		if fn == nil {
			break
		}
		fn()
	}

	m.mu.Lock()
	if m.elapsed < target {
		m.elapsed = target
	}
	m.mu.Unlock()
}

// fireNext advances to the earliest due deadline at or before target and
// returns the work to run, or nil when nothing is due. The work runs outside
// the lock.
func (m *Manual) fireNext(target time.Duration) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		bestTimer  *manualTimer
		bestTicker *manualTicker
		bestAt     time.Duration
		found      bool
	)
	for _, t := range m.timers {
		if t.deadline <= target && (!found || t.deadline < bestAt) {
			bestTimer, bestTicker, bestAt, found = t, nil, t.deadline, true
		}
	}
	for _, tk := range m.tickers {
		if !tk.stopped && tk.next <= target && (!found || tk.next < bestAt) {
			bestTimer, bestTicker, bestAt, found = nil, tk, tk.next, true
		}
	}
	if !found {
		return nil
	}

	if m.elapsed < bestAt {
		m.elapsed = bestAt
	}
	if bestTimer != nil {
		bestTimer.fired = true
		for i, t := range m.timers {
			if t == bestTimer {
				m.timers = append(m.timers[:i], m.timers[i+1:]...)
				break
			}
		}
		return bestTimer.f
	}
	bestTicker.next += bestTicker.period
	ch := bestTicker.ch
	return func() {
		select {
		case ch <- time.Time{}:
		default:
		}
	}
}

type manualTimer struct {
	owner    *Manual
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	for i, other := range t.owner.timers {
		if other == t {
			t.owner.timers = append(t.owner.timers[:i], t.owner.timers[i+1:]...)
			break
		}
	}
	return true
}

type manualTicker struct {
	owner   *Manual
	ch      chan time.Time
	period  time.Duration
	next    time.Duration
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.stopped = true
}
