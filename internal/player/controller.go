// ABOUTME: Playback controller owning the Idle/Playing/Paused state machine
// ABOUTME: Schedules synchronized one-shot handle starts against the audio clock
package player

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/internal/track"
)

// State is the canonical engine playback state. Only the controller
// transitions it.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// SyncState captures the reference point of the last continuous playback
// start. Drift is measured as elapsed time against these references, never
// as absolute positions. ManualOffset persists across play/pause cycles.
type SyncState struct {
	RefClockTime float64
	RefVideoTime float64
	ManualOffset float64
}

// Controller schedules synchronized starts and stops of per-track playback
// handles. All mutations happen under one mutex; the mixer's render path is
// the only concurrent reader and sees handles/gains through atomics.
type Controller struct {
	clk   clock.AudioClock
	sched clock.Scheduler
	sink  Sink
	mixer *Mixer
	reg   *track.Registry

	leadTime   float64 // seconds between scheduling and audible start
	rampLen    float64 // seconds of linear gain ramp on start
	seekSettle time.Duration

	mu           sync.Mutex
	state        State
	sync         SyncState
	resumeOnSeek bool
	seekTimer    clock.Timer
	disposed     bool
}

// NewController wires the playback state machine.
func NewController(clk clock.AudioClock, sched clock.Scheduler, sink Sink, mixer *Mixer, reg *track.Registry, leadTime, rampLen, seekSettle time.Duration) *Controller {
	return &Controller{
		clk:        clk,
		sched:      sched,
		sink:       sink,
		mixer:      mixer,
		reg:        reg,
		leadTime:   leadTime.Seconds(),
		rampLen:    rampLen.Seconds(),
		seekSettle: seekSettle,
	}
}

// Play starts every registered track at the given video position. No-op if
// already playing or no tracks are loaded. Each track gets a fresh one-shot
// handle scheduled slightly ahead of the audio clock, reading from
// max(0, videoPos + manual offset).
func (c *Controller) Play(videoPos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.state == Playing || c.reg.Len() == 0 {
		return
	}

	// Resume the audio clock if a previous pause suspended it.
	if err := c.sink.Resume(); err != nil {
		log.Printf("Audio clock resume failed: %v", err)
		return
	}

	now := c.clk.Now()
	readOffset := math.Max(0, videoPos+c.sync.ManualOffset)

	for _, t := range c.reg.All() {
		h := NewHandle(t, now+c.leadTime, readOffset, c.rampLen)
		t.AttachHandle(h)
		c.mixer.Attach(h)
	}

	c.sync.RefClockTime = now
	c.sync.RefVideoTime = videoPos
	c.state = Playing
	c.resumeOnSeek = false

	log.Printf("Playback started: video=%.3fs offset=%.3fs tracks=%d",
		videoPos, readOffset, c.reg.Len())
}

// Pause stops and discards every track's playback handle and suspends the
// audio clock. A pause always cancels a pending seek restart and clears
// resume intent, even during the settle window when no handles are live.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelSeekTimerLocked()
	c.resumeOnSeek = false

	if c.state != Playing {
		return
	}
	c.stopHandlesLocked()
	if err := c.sink.Suspend(); err != nil {
		log.Printf("Audio clock suspend failed: %v", err)
	}
	c.state = Paused
	log.Printf("Playback paused")
}

// Stop is pause plus resetting stored references to zero. The manual offset
// persists.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Playing {
		c.stopHandlesLocked()
		if err := c.sink.Suspend(); err != nil {
			log.Printf("Audio clock suspend failed: %v", err)
		}
	}
	c.cancelSeekTimerLocked()
	c.state = Idle
	c.sync.RefClockTime = 0
	c.sync.RefVideoTime = 0
	c.resumeOnSeek = false
}

// Interrupt tears down all active handles immediately without leaving the
// seek path a chance to bleed stale audio. Playback resumes only through a
// subsequent Seek.
func (c *Controller) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Playing {
		return
	}
	c.stopHandlesLocked()
	c.state = Paused
	c.resumeOnSeek = true
}

// Seek stops all handles abruptly and, if playback was active before the
// seek began, restarts at videoPos once the video surface has settled.
func (c *Controller) Seek(videoPos float64) {
	c.mu.Lock()

	// A pending settle timer carries resume intent from an earlier seek.
	resume := c.resumeOnSeek || c.state == Playing || c.seekTimer != nil
	c.cancelSeekTimerLocked()
	if c.state == Playing {
		c.stopHandlesLocked()
		c.state = Paused
	}
	c.resumeOnSeek = false

	if !resume || c.disposed {
		c.mu.Unlock()
		return
	}

	// The fired callback clears the timer reference so a finished restart
	// never reads as pending resume intent on a later seek.
	var timer clock.Timer
	timer = c.sched.AfterFunc(c.seekSettle, func() {
		c.mu.Lock()
		if c.seekTimer == timer {
			c.seekTimer = nil
		}
		c.mu.Unlock()
		c.Play(videoPos)
	})
	c.seekTimer = timer
	c.mu.Unlock()
}

// SetSyncOffset updates the manual offset in seconds. Positive values skip
// the audio read point ahead of the video position; negative values delay
// audio (clamped so the read offset never goes below zero).
func (c *Controller) SetSyncOffset(offsetSec float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync.ManualOffset = offsetSec
}

// SyncOffset returns the manual offset in seconds.
func (c *Controller) SyncOffset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sync.ManualOffset
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reference returns the clock and video reference times captured at the
// last transition into Playing.
func (c *Controller) Reference() (refClock, refVideo float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sync.RefClockTime, c.sync.RefVideoTime
}

// Dispose stops playback and cancels any pending seek restart. The
// controller must not be used afterwards.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Playing {
		c.stopHandlesLocked()
	}
	c.cancelSeekTimerLocked()
	c.state = Idle
	c.disposed = true
}

func (c *Controller) stopHandlesLocked() {
	for _, t := range c.reg.All() {
		t.DetachHandle()
	}
}

func (c *Controller) cancelSeekTimerLocked() {
	if c.seekTimer != nil {
		c.seekTimer.Stop()
		c.seekTimer = nil
	}
}
