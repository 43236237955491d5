// ABOUTME: Video surface event state machine
// ABOUTME: Translates play/pause/seeking/seeked/ended into transport calls
package videosync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/pkg/video"
)

// Transport is the playback controller surface driven by video events.
type Transport interface {
	Play(videoPos float64)
	Pause()
	Stop()
	Seek(videoPos float64)
	// Interrupt tears down active handles immediately on a seeking
	// notification, before the debounced Seek arrives.
	Interrupt()
}

// Monitor is the drift monitor lifecycle driven alongside playback.
type Monitor interface {
	Start()
	Stop()
}

// Config holds the adapter's timing constants.
type Config struct {
	// SeekDebounce collapses bursts of seeked events into one Seek.
	SeekDebounce time.Duration
	// PollInterval and PollAttempts bound the wait for the surface's
	// position to actually advance after a play notification.
	PollInterval time.Duration
	PollAttempts int
}

// DefaultConfig returns the production adapter constants.
func DefaultConfig() Config {
	return Config{
		SeekDebounce: 100 * time.Millisecond,
		PollInterval: 50 * time.Millisecond,
		PollAttempts: 10,
	}
}

// Adapter consumes video surface notifications strictly in arrival order on
// one goroutine and drives the transport and drift monitor. Handle is the
// single dispatch entry point.
type Adapter struct {
	surface   video.Surface
	transport Transport
	monitor   Monitor
	sched     clock.Scheduler
	cfg       Config

	mu          sync.Mutex
	debounce    clock.Timer
	pendingSeek float64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an adapter. Call Start to begin consuming events.
func New(surface video.Surface, transport Transport, monitor Monitor, sched clock.Scheduler, cfg Config) *Adapter {
	ctx, cancel := context.WithCancel(context.Background())
	return &Adapter{
		surface:   surface,
		transport: transport,
		monitor:   monitor,
		sched:     sched,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start spawns the event loop goroutine.
func (a *Adapter) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case ev, ok := <-a.surface.Events():
				if !ok {
					return
				}
				a.Handle(ev)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Handle dispatches one tagged surface notification. A pause or seeking
// notification always tears handles down before any later play or seeked
// notification is processed, because events are handled in arrival order.
func (a *Adapter) Handle(ev video.Event) {
	switch ev.Kind {
	case video.EventPlay:
		a.handlePlay()

	case video.EventPause:
		a.cancelDebounce()
		a.monitor.Stop()
		a.transport.Pause()

	case video.EventSeeking:
		a.transport.Interrupt()

	case video.EventSeeked:
		a.scheduleSeek(ev.Position)

	case video.EventEnded:
		a.cancelDebounce()
		a.monitor.Stop()
		a.transport.Stop()

	default:
		log.Printf("Ignoring unknown surface event: %v", ev.Kind)
	}
}

// handlePlay waits for the surface position to actually advance before
// starting audio, confirming real playback rather than a bare play request.
// After the bounded poll window, audio starts unconditionally.
func (a *Adapter) handlePlay() {
	start := a.surface.CurrentTime()
	for i := 0; i < a.cfg.PollAttempts; i++ {
		if !a.sleep(a.cfg.PollInterval) {
			return
		}
		if a.surface.CurrentTime() > start {
			break
		}
	}

	a.transport.Play(a.surface.CurrentTime())
	a.monitor.Start()
}

// scheduleSeek debounces seeked bursts; only the last reported position
// reaches the transport. The pending callback is tracked in the WaitGroup so
// Close cannot return while a Seek is in flight.
func (a *Adapter) scheduleSeek(pos float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pendingSeek = pos
	a.stopDebounceLocked()

	a.wg.Add(1)
	var timer clock.Timer
	timer = a.sched.AfterFunc(a.cfg.SeekDebounce, func() {
		defer a.wg.Done()

		a.mu.Lock()
		target := a.pendingSeek
		if a.debounce == timer {
			a.debounce = nil
		}
		a.mu.Unlock()

		if a.ctx.Err() != nil {
			return
		}
		a.transport.Seek(target)
	})
	a.debounce = timer
}

func (a *Adapter) cancelDebounce() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopDebounceLocked()
}

// stopDebounceLocked cancels the pending debounce timer, releasing its
// WaitGroup slot only when the callback was actually prevented from running.
func (a *Adapter) stopDebounceLocked() {
	if a.debounce == nil {
		return
	}
	if a.debounce.Stop() {
		a.wg.Done()
	}
	a.debounce = nil
}

// sleep blocks for d using the injected scheduler. Reports false if the
// adapter was closed while waiting.
func (a *Adapter) sleep(d time.Duration) bool {
	done := make(chan struct{})
	timer := a.sched.AfterFunc(d, func() { close(done) })
	select {
	case <-done:
		return true
	case <-a.ctx.Done():
		timer.Stop()
		return false
	}
}

// Close stops the event loop and cancels pending timers. Waits out any
// in-flight debounce callback, so no transport call is made after Close
// returns.
func (a *Adapter) Close() {
	a.cancel()
	a.cancelDebounce()
	a.wg.Wait()
}
