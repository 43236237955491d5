// ABOUTME: Per-track state: decoded buffer, volume, mute, solo, live gain
// ABOUTME: Gain is published atomically so the render path reads it lock-free
package track

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// DefaultVolume is deliberately attenuated so a freshly loaded track never
// startles at full level.
const DefaultVolume = 50

// PlaybackHandle is a one-shot schedulable unit bound to a track's buffer.
// It is valid for exactly one play cycle: once stopped it is discarded,
// never restarted.
type PlaybackHandle interface {
	Stop()
	Done() bool
}

// Track owns one decoded audio buffer and its gain state. The buffer is
// write-once; it is only replaced by unloading and reloading the track.
type Track struct {
	ID     string
	Label  string
	Buffer *audio.Buffer

	mu     sync.Mutex
	volume int
	muted  bool
	solo   bool
	handle PlaybackHandle

	gainBits atomic.Uint64
}

// New creates a track at the default volume with gain resolved for a
// registry with no soloed tracks.
func New(id, label string, buf *audio.Buffer) *Track {
	t := &Track{
		ID:     id,
		Label:  label,
		Buffer: buf,
		volume: DefaultVolume,
	}
	t.setGain(EffectiveGain(t.volume, t.muted, t.solo, false))
	return t
}

// Volume returns the track volume (0-100).
func (t *Track) Volume() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

// Muted reports the mute flag.
func (t *Track) Muted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.muted
}

// Solo reports the solo flag.
func (t *Track) Solo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.solo
}

// Gain returns the current effective gain level (0.0-1.0). Safe to call
// from the render goroutine.
func (t *Track) Gain() float64 {
	return math.Float64frombits(t.gainBits.Load())
}

func (t *Track) setGain(g float64) {
	t.gainBits.Store(math.Float64bits(g))
}

// AttachHandle installs a freshly created handle, enforcing disposal of any
// previous one first.
func (t *Track) AttachHandle(h PlaybackHandle) {
	t.mu.Lock()
	prev := t.handle
	t.handle = h
	t.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
}

// DetachHandle stops and discards the current handle, if any.
func (t *Track) DetachHandle() {
	t.mu.Lock()
	h := t.handle
	t.handle = nil
	t.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// HasActiveHandle reports whether a live handle is attached.
func (t *Track) HasActiveHandle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle != nil && !t.handle.Done()
}

// EffectiveGain resolves a track's audible level from its own state and the
// registry-wide solo group. Solo dominates: when any track is soloed, only
// soloed unmuted tracks are audible. Mute dominates volume in all cases.
func EffectiveGain(volume int, muted, solo, anySolo bool) float64 {
	if anySolo {
		if solo && !muted {
			return float64(volume) / 100.0
		}
		return 0.0
	}
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
