// ABOUTME: Multi-track synchronized review-audio engine public API
// ABOUTME: Wires tracks, playback controller, drift monitor, and video adapter
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/internal/decode"
	"github.com/replaydeck/reviewaudio/internal/monitor"
	"github.com/replaydeck/reviewaudio/internal/player"
	"github.com/replaydeck/reviewaudio/internal/track"
	"github.com/replaydeck/reviewaudio/internal/videosync"
	"github.com/replaydeck/reviewaudio/pkg/video"
)

// Config holds engine configuration. Zero values select production
// defaults.
type Config struct {
	// Output format for the shared sink.
	OutputSampleRate int
	OutputChannels   int

	// LeadTime is the scheduling headroom between a play call and the
	// audible start of every track handle.
	LeadTime time.Duration
	// GainRamp is the linear fade-in applied on every start to avoid clicks.
	GainRamp time.Duration
	// SeekSettle is the wait for the video surface to stabilize before
	// restarting after a seek.
	SeekSettle time.Duration

	// Drift control loop constants.
	DriftTick       time.Duration
	Deadband        float64
	DriftGain       float64
	MaxRateTrim     float64
	ResyncThreshold float64
	ResyncDelay     time.Duration

	// Video event handling.
	SeekDebounce time.Duration
	PollInterval time.Duration
	PollAttempts int

	// DecodeTimeout caps the decode worker round-trip per track.
	DecodeTimeout time.Duration

	// OnError receives every typed failure the engine logs.
	OnError func(error)
}

// TrackInfo is a display snapshot of one loaded track.
type TrackInfo struct {
	ID       string
	Label    string
	Duration float64
	Volume   int
	Muted    bool
	Solo     bool
}

// ProgressFunc receives track load progress in [0, 1] with a status note.
type ProgressFunc func(progress float64, note string)

// Engine plays several independently loaded audio tracks in lockstep with
// an externally-owned video surface. All public methods are safe for
// concurrent use; playback state mutates on one logical thread.
type Engine struct {
	cfg   Config
	reg   *track.Registry
	sched clock.Scheduler

	mu          sync.Mutex
	initialized bool
	disposed    bool
	surface     video.Surface
	sink        player.Sink
	mixer       *player.Mixer
	ctrl        *player.Controller
	mon         *monitor.Monitor
	adapter     *videosync.Adapter
	coord       *decode.Coordinator

	ctx    context.Context
	cancel context.CancelFunc

	// seams for tests
	readFile func(string) ([]byte, error)
	newSink  func(sampleRate, channels int) (player.Sink, error)
}

// New creates an engine. Call Initialize before loading tracks.
func New(cfg Config) *Engine {
	if cfg.OutputSampleRate == 0 {
		cfg.OutputSampleRate = 48000
	}
	if cfg.OutputChannels == 0 {
		cfg.OutputChannels = 2
	}
	if cfg.LeadTime == 0 {
		cfg.LeadTime = 10 * time.Millisecond
	}
	if cfg.GainRamp == 0 {
		cfg.GainRamp = 20 * time.Millisecond
	}
	if cfg.SeekSettle == 0 {
		cfg.SeekSettle = 50 * time.Millisecond
	}
	if cfg.DriftTick == 0 {
		cfg.DriftTick = 100 * time.Millisecond
	}
	if cfg.Deadband == 0 {
		cfg.Deadband = 0.05
	}
	if cfg.DriftGain == 0 {
		cfg.DriftGain = 2.0
	}
	if cfg.MaxRateTrim == 0 {
		cfg.MaxRateTrim = 0.5
	}
	if cfg.ResyncThreshold == 0 {
		cfg.ResyncThreshold = 1.0
	}
	if cfg.ResyncDelay == 0 {
		cfg.ResyncDelay = 50 * time.Millisecond
	}
	if cfg.SeekDebounce == 0 {
		cfg.SeekDebounce = 100 * time.Millisecond
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 50 * time.Millisecond
	}
	if cfg.PollAttempts == 0 {
		cfg.PollAttempts = 10
	}
	if cfg.DecodeTimeout == 0 {
		cfg.DecodeTimeout = decode.DefaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		cfg:      cfg,
		reg:      track.NewRegistry(),
		sched:    clock.Wall{},
		ctx:      ctx,
		cancel:   cancel,
		readFile: os.ReadFile,
		newSink: func(sampleRate, channels int) (player.Sink, error) {
			return player.NewOtoSink(sampleRate, channels)
		},
	}
}

// Initialize binds the engine to the video surface and creates the audio
// clock and output sink. Returns false on failure; the engine must not be
// used after a failed Initialize.
func (e *Engine) Initialize(surface video.Surface) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed || e.initialized {
		return false
	}

	sink, err := e.newSink(e.cfg.OutputSampleRate, e.cfg.OutputChannels)
	if err != nil {
		e.reportLocked(&InitializationError{Cause: err})
		return false
	}

	clk := sink.Clock()
	mixer := player.NewMixer(clk, e.cfg.OutputSampleRate, e.cfg.OutputChannels)
	if err := sink.Start(mixer); err != nil {
		sink.Close()
		e.reportLocked(&InitializationError{Cause: err})
		return false
	}
	// Idle until the first play; keeps the audio clock frozen.
	if err := sink.Suspend(); err != nil {
		log.Printf("Initial sink suspend failed: %v", err)
	}

	ctrl := player.NewController(clk, e.sched, sink, mixer, e.reg,
		e.cfg.LeadTime, e.cfg.GainRamp, e.cfg.SeekSettle)
	mon := monitor.New(clk, e.sched, surface, ctrl, monitor.Config{
		TickPeriod:      e.cfg.DriftTick,
		Deadband:        e.cfg.Deadband,
		Gain:            e.cfg.DriftGain,
		MaxTrim:         e.cfg.MaxRateTrim,
		ResyncThreshold: e.cfg.ResyncThreshold,
		ResyncDelay:     e.cfg.ResyncDelay,
	})
	adapter := videosync.New(surface, ctrl, mon, e.sched, videosync.Config{
		SeekDebounce: e.cfg.SeekDebounce,
		PollInterval: e.cfg.PollInterval,
		PollAttempts: e.cfg.PollAttempts,
	})
	adapter.Start()

	e.surface = surface
	e.sink = sink
	e.mixer = mixer
	e.ctrl = ctrl
	e.mon = mon
	e.adapter = adapter
	e.coord = decode.NewCoordinator(e.cfg.DecodeTimeout, e.sched)
	e.initialized = true

	log.Printf("Engine initialized: %dHz %dch", e.cfg.OutputSampleRate, e.cfg.OutputChannels)
	return true
}

// LoadTrack fetches raw bytes from sourceLocator, decodes them through the
// coordinator, and registers the track at the default volume. Failures are
// isolated per track: the engine and previously loaded tracks stay valid,
// and LoadTrack returns false instead of panicking across the boundary.
func (e *Engine) LoadTrack(id, sourceLocator, label string, onProgress ProgressFunc) bool {
	e.mu.Lock()
	ready := e.initialized && !e.disposed
	coord := e.coord
	ctx := e.ctx
	e.mu.Unlock()

	if !ready {
		e.report(fmt.Errorf("load %q rejected: engine not initialized", label))
		return false
	}

	raw, err := e.readFile(sourceLocator)
	if err != nil {
		e.report(&FetchError{Path: sourceLocator, Cause: err})
		return false
	}

	buf, err := coord.Decode(ctx, raw, id, label, decode.ProgressFunc(onProgress))
	if err != nil {
		e.report(translateLoadError(err, label, len(raw)))
		return false
	}

	t := track.New(id, label, buf)

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return false
	}
	e.reg.Add(t)
	e.mu.Unlock()

	log.Printf("Track %q loaded: %q %.2fs %dHz %dch vol=%d",
		id, label, buf.Duration(), buf.Format.SampleRate, buf.Format.Channels, track.DefaultVolume)
	return true
}

// UnloadTrack removes a track and stops its live handle, if any. The
// buffer is released with the track; reloading creates a fresh one.
func (e *Engine) UnloadTrack(id string) bool {
	t := e.reg.Remove(id)
	if t == nil {
		return false
	}
	t.DetachHandle()
	log.Printf("Track %q unloaded", id)
	return true
}

// SetTrackVolume sets a track's volume (clamped to 0-100) and updates its
// live gain immediately.
func (e *Engine) SetTrackVolume(id string, volume int) {
	if !e.reg.SetVolume(id, volume) {
		log.Printf("Volume change ignored: unknown track %q", id)
	}
}

// SetTrackMute sets a track's mute flag. Mute dominates volume.
func (e *Engine) SetTrackMute(id string, muted bool) {
	if !e.reg.SetMute(id, muted) {
		log.Printf("Mute change ignored: unknown track %q", id)
	}
}

// SetTrackSolo sets a track's solo flag. When any track is soloed, every
// non-soloed track is silenced regardless of its own settings.
func (e *Engine) SetTrackSolo(id string, solo bool) {
	if !e.reg.SetSolo(id, solo) {
		log.Printf("Solo change ignored: unknown track %q", id)
	}
}

// SetSyncOffset sets the manual audio/video offset in milliseconds.
// Positive values skip the audio read point ahead of the video position
// (audio leads); negative values delay audio, clamped so the read offset
// never goes below zero. Takes effect immediately when playing.
func (e *Engine) SetSyncOffset(offsetMs float64) {
	e.mu.Lock()
	ctrl := e.ctrl
	surface := e.surface
	e.mu.Unlock()

	if ctrl == nil {
		return
	}
	ctrl.SetSyncOffset(offsetMs / 1000.0)
	if ctrl.State() == player.Playing {
		// Stop/restart cycle so the new offset is audible at once.
		ctrl.Seek(surface.CurrentTime())
	}
}

// GetSyncOffset returns the manual offset in milliseconds.
func (e *Engine) GetSyncOffset() float64 {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()

	if ctrl == nil {
		return 0
	}
	return ctrl.SyncOffset() * 1000.0
}

// State returns "idle", "playing", or "paused".
func (e *Engine) State() string {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()

	if ctrl == nil {
		return player.Idle.String()
	}
	return ctrl.State().String()
}

// Tracks returns a snapshot of every loaded track for display.
func (e *Engine) Tracks() []TrackInfo {
	all := e.reg.All()
	out := make([]TrackInfo, 0, len(all))
	for _, t := range all {
		out = append(out, TrackInfo{
			ID:       t.ID,
			Label:    t.Label,
			Duration: t.Buffer.Duration(),
			Volume:   t.Volume(),
			Muted:    t.Muted(),
			Solo:     t.Solo(),
		})
	}
	return out
}

// Dispose stops playback, cancels in-flight decodes and pending timers,
// clears the registry, and releases the sink. No callback fires after
// Dispose returns; the engine must not be reused.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	adapter, mon, ctrl, sink := e.adapter, e.mon, e.ctrl, e.sink
	e.mu.Unlock()

	e.cancel()
	if adapter != nil {
		adapter.Close()
	}
	if mon != nil {
		mon.Stop()
	}
	if ctrl != nil {
		ctrl.Dispose()
	}
	for _, t := range e.reg.Clear() {
		t.DetachHandle()
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			log.Printf("Sink close failed: %v", err)
		}
	}
	log.Printf("Engine disposed")
}

// report logs err and forwards it to the configured error callback.
func (e *Engine) report(err error) {
	log.Printf("Engine error: %v", err)
	if e.cfg.OnError != nil {
		e.cfg.OnError(err)
	}
}

func (e *Engine) reportLocked(err error) {
	log.Printf("Engine error: %v", err)
	if e.cfg.OnError != nil {
		e.cfg.OnError(err)
	}
}

// translateLoadError maps internal decode failures onto the public
// taxonomy, keeping label and size context for diagnostics.
func translateLoadError(err error, label string, byteSize int) error {
	var timeout *decode.TimeoutError
	if errors.As(err, &timeout) {
		return &DecodeTimeoutError{ByteSize: timeout.ByteSize}
	}
	var validation *decode.ValidationError
	if errors.As(err, &validation) {
		return &DecodeValidationError{Reason: validation.Reason, Cause: validation.Cause}
	}
	var worker *decode.WorkerError
	if errors.As(err, &worker) {
		return &WorkerFailure{Cause: worker.Cause}
	}
	return &GenericLoadError{
		Label:  label,
		SizeMB: float64(byteSize) / (1024 * 1024),
		Cause:  err,
	}
}
