// ABOUTME: Drift control loop between audio clock and video position
// ABOUTME: Deadband, proportional rate correction, and hard resync
package monitor

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/internal/player"
)

// Surface is the subset of the video surface the monitor touches. It only
// ever writes the playback rate, never audio state.
type Surface interface {
	CurrentTime() float64
	Paused() bool
	SetPlaybackRate(rate float64)
}

// Transport is the playback controller surface used during hard resync.
type Transport interface {
	Play(videoPos float64)
	Pause()
	State() player.State
	Reference() (refClock, refVideo float64)
}

// Config holds the control loop constants.
type Config struct {
	TickPeriod      time.Duration
	Deadband        float64 // seconds of drift tolerated without correction
	Gain            float64 // proportional constant applied to drift
	MaxTrim         float64 // max deviation of playback rate from 1.0
	ResyncThreshold float64 // seconds of drift forcing a hard resync
	ResyncDelay     time.Duration
}

// DefaultConfig returns the production control loop constants.
func DefaultConfig() Config {
	return Config{
		TickPeriod:      100 * time.Millisecond,
		Deadband:        0.05,
		Gain:            2.0,
		MaxTrim:         0.5,
		ResyncThreshold: 1.0,
		ResyncDelay:     50 * time.Millisecond,
	}
}

// Monitor samples audio-clock elapsed time against video elapsed time on a
// fixed tick and corrects the divergence by trimming the video playback
// rate. Audio cannot be rate-shifted without pitch distortion, so the video
// clock absorbs the correction.
type Monitor struct {
	clk       clock.AudioClock
	sched     clock.Scheduler
	surface   Surface
	transport Transport
	cfg       Config

	mu          sync.Mutex
	running     bool
	resyncing   bool
	resyncTimer clock.Timer
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// New creates a drift monitor. It does not start ticking.
func New(clk clock.AudioClock, sched clock.Scheduler, surface Surface, transport Transport, cfg Config) *Monitor {
	return &Monitor{
		clk:       clk,
		sched:     sched,
		surface:   surface,
		transport: transport,
		cfg:       cfg,
	}
}

// Start begins the tick loop. No-op if already running.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	ticker := m.sched.NewTicker(m.cfg.TickPeriod)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				m.Tick()
			case <-stopCh:
				return
			}
		}
	}()
}

// Stop halts the tick loop and cancels any pending resync restart. Safe to
// call repeatedly; returns after the loop has exited.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		if m.resyncTimer != nil {
			m.resyncTimer.Stop()
			m.resyncTimer = nil
		}
		m.mu.Unlock()
		return
	}
	m.running = false
	m.resyncing = false
	if m.resyncTimer != nil {
		m.resyncTimer.Stop()
		m.resyncTimer = nil
	}
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
}

// Tick runs one control iteration. Exposed so tests can drive the loop
// without wall-clock waits.
func (m *Monitor) Tick() {
	m.mu.Lock()
	if m.resyncing {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if m.transport.State() != player.Playing {
		return
	}

	refClock, refVideo := m.transport.Reference()
	audioElapsed := m.clk.Now() - refClock
	videoElapsed := m.surface.CurrentTime() - refVideo
	drift := audioElapsed - videoElapsed

	if math.Abs(drift) > m.cfg.ResyncThreshold {
		m.hardResync(drift)
		return
	}

	if math.Abs(drift) < m.cfg.Deadband {
		m.surface.SetPlaybackRate(1.0)
		return
	}

	var rate float64
	if drift > 0 {
		// Audio ahead: speed the video up, capped at 1+MaxTrim.
		rate = 1.0 + math.Min(drift*m.cfg.Gain, m.cfg.MaxTrim)
	} else {
		rate = 1.0 + math.Max(drift*m.cfg.Gain, -m.cfg.MaxTrim)
	}
	m.surface.SetPlaybackRate(rate)
}

// hardResync restarts playback from the surface's current position. Drift
// beyond the threshold is no longer correctable by rate trimming.
func (m *Monitor) hardResync(drift float64) {
	log.Printf("Hard resync: drift %.3fs exceeds %.3fs", drift, m.cfg.ResyncThreshold)

	m.surface.SetPlaybackRate(1.0)
	m.transport.Pause()

	m.mu.Lock()
	m.resyncing = true
	m.resyncTimer = m.sched.AfterFunc(m.cfg.ResyncDelay, func() {
		m.mu.Lock()
		m.resyncing = false
		m.resyncTimer = nil
		m.mu.Unlock()

		if m.surface.Paused() {
			// Surface paused during the settle window; stay paused rather
			// than fight the user.
			log.Printf("Hard resync abandoned: surface paused")
			return
		}
		m.transport.Play(m.surface.CurrentTime())
	})
	m.mu.Unlock()
}
