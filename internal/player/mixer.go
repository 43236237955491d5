// ABOUTME: Render mixer summing active playback handles
// ABOUTME: Produces int16 LE frames for the output sink, silence when idle
package player

import (
	"sync"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// Mixer is the shared output stage. It sums every attached handle into
// int16 little-endian frames, applying each track's live gain per pull, and
// emits silence when nothing is audible so the sink stays fed.
type Mixer struct {
	clk        clock.AudioClock
	sampleRate int
	channels   int

	mu      sync.Mutex
	handles []*Handle
}

// NewMixer creates a mixer rendering at the given output format.
func NewMixer(clk clock.AudioClock, sampleRate, channels int) *Mixer {
	return &Mixer{
		clk:        clk,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Attach adds a handle to the render set.
func (m *Mixer) Attach(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handles = append(m.handles, h)
}

// ActiveCount returns the number of live handles.
func (m *Mixer) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, h := range m.handles {
		if !h.Done() {
			n++
		}
	}
	return n
}

// Read renders the next window of mixed audio. It always fills p so the
// sink never starves; finished handles are dropped from the render set.
func (m *Mixer) Read(p []byte) (int, error) {
	frameBytes := 2 * m.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	acc := make([]int64, frames*m.channels)
	now := m.clk.Now()

	m.mu.Lock()
	kept := m.handles[:0]
	for _, h := range m.handles {
		h.mixInto(acc, frames, m.sampleRate, m.channels, now)
		if !h.Done() {
			kept = append(kept, h)
		}
	}
	m.handles = kept
	m.mu.Unlock()

	for i, v := range acc {
		if v > audio.Max24Bit {
			v = audio.Max24Bit
		}
		if v < audio.Min24Bit {
			v = audio.Min24Bit
		}
		s := audio.SampleToInt16(int32(v))
		p[i*2] = byte(s)
		p[i*2+1] = byte(uint16(s) >> 8)
	}
	for i := frames * frameBytes; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
