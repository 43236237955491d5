// ABOUTME: One-shot playback handles bound to a track's decoded buffer
// ABOUTME: A handle is valid for exactly one play cycle and never restarted
package player

import (
	"sync/atomic"

	"github.com/replaydeck/reviewaudio/internal/track"
)

// Handle schedules one track's buffer for playback from a read offset at a
// clock deadline. Created fresh on every play or seek; Stop is terminal and
// abrupt (no release ramp) so stale audio never bleeds past a seek point.
type Handle struct {
	trk     *track.Track
	startAt float64 // clock seconds at which audio becomes audible
	offset  float64 // seconds into the buffer at startAt
	rampSec float64 // linear gain ramp length applied from the start

	// render-side state, touched only by the mixer goroutine
	leadFrames int     // silence frames remaining before startAt
	leadSet    bool    // leadFrames computed on first pull
	pos        float64 // fractional frame position into the buffer
	played     int64   // output frames rendered since startAt

	stopped   atomic.Bool
	exhausted atomic.Bool
}

// NewHandle creates a handle reading trk's buffer from offset seconds,
// becoming audible at clock time startAt with a linear gain ramp of rampSec.
func NewHandle(trk *track.Track, startAt, offset, rampSec float64) *Handle {
	h := &Handle{
		trk:     trk,
		startAt: startAt,
		offset:  offset,
		rampSec: rampSec,
	}
	h.pos = float64(trk.Buffer.FrameAt(offset))
	return h
}

// Stop terminates the handle immediately. The handle cannot be restarted.
func (h *Handle) Stop() {
	h.stopped.Store(true)
}

// Done reports whether the handle has been stopped or played out.
func (h *Handle) Done() bool {
	return h.stopped.Load() || h.exhausted.Load()
}

// mixInto accumulates this handle's samples into acc (interleaved, outCh
// channels, frames frames) for the render window beginning at clock time
// now. Called only from the mixer's render path.
func (h *Handle) mixInto(acc []int64, frames, outRate, outCh int, now float64) {
	if h.Done() {
		return
	}

	buf := h.trk.Buffer
	srcCh := buf.Format.Channels
	srcFrames := buf.Frames()
	if srcCh == 0 || srcFrames == 0 {
		h.exhausted.Store(true)
		return
	}

	if !h.leadSet {
		lead := h.startAt - now
		if lead > 0 {
			h.leadFrames = int(lead * float64(outRate))
		}
		h.leadSet = true
	}

	gain := h.trk.Gain()
	step := float64(buf.Format.SampleRate) / float64(outRate)
	rampFrames := h.rampSec * float64(outRate)

	for i := 0; i < frames; i++ {
		if h.leadFrames > 0 {
			h.leadFrames--
			continue
		}

		frame := int(h.pos)
		if frame >= srcFrames {
			h.exhausted.Store(true)
			return
		}

		ramp := 1.0
		if rampFrames > 0 && float64(h.played) < rampFrames {
			ramp = float64(h.played) / rampFrames
		}
		level := gain * ramp

		for c := 0; c < outCh; c++ {
			sc := c
			if sc >= srcCh {
				sc = srcCh - 1 // duplicate last source channel (mono upmix)
			}
			s := buf.Samples[frame*srcCh+sc]
			acc[i*outCh+c] += int64(float64(s) * level)
		}

		h.pos += step
		h.played++
	}
}
