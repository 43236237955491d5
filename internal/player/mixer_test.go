// ABOUTME: Tests for the render mixer
// ABOUTME: Verifies summing, clamping, silence when idle, and handle reaping
package player

import (
	"encoding/binary"
	"testing"

	"github.com/replaydeck/reviewaudio/internal/clock"
	"github.com/replaydeck/reviewaudio/internal/track"
	"github.com/replaydeck/reviewaudio/pkg/audio"
)

func readFrames(t *testing.T, m *Mixer, frames int) []int16 {
	t.Helper()
	p := make([]byte, frames*2*2)
	n, err := m.Read(p)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != len(p) {
		t.Fatalf("expected full read of %d bytes, got %d", len(p), n)
	}
	out := make([]int16, frames*2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(p[i*2:]))
	}
	return out
}

func TestMixerSilenceWhenIdle(t *testing.T) {
	m := NewMixer(clock.NewManual(), 8000, 2)

	for i, s := range readFrames(t, m, 16) {
		if s != 0 {
			t.Fatalf("slot %d: expected silence, got %d", i, s)
		}
	}
}

func TestMixerRendersAttachedHandle(t *testing.T) {
	m := NewMixer(clock.NewManual(), 8000, 2)
	trk := track.New("t1", "Dialogue", constBuffer(8000, 8000, 1<<16))
	m.Attach(NewHandle(trk, 0, 0, 0))

	// Gain 0.5 halves 1<<16 to 1<<15; int16 output shifts right by 8.
	want := int16((1 << 15) >> 8)
	for i, s := range readFrames(t, m, 8) {
		if s != want {
			t.Fatalf("slot %d: expected %d, got %d", i, want, s)
		}
	}
}

func TestMixerSumsHandles(t *testing.T) {
	m := NewMixer(clock.NewManual(), 8000, 2)
	for _, id := range []string{"a", "b"} {
		trk := track.New(id, "Track "+id, constBuffer(8000, 8000, 1<<16))
		m.Attach(NewHandle(trk, 0, 0, 0))
	}

	want := int16((1 << 16) >> 8)
	for i, s := range readFrames(t, m, 8) {
		if s != want {
			t.Fatalf("slot %d: expected summed %d, got %d", i, want, s)
		}
	}
}

func TestMixerClampsTo24Bit(t *testing.T) {
	m := NewMixer(clock.NewManual(), 8000, 2)
	reg := track.NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		trk := track.New(id, "Track "+id, constBuffer(8000, 8000, audio.Max24Bit))
		reg.Add(trk)
		reg.SetVolume(id, 100)
		m.Attach(NewHandle(trk, 0, 0, 0))
	}

	want := audio.SampleToInt16(audio.Max24Bit)
	for i, s := range readFrames(t, m, 4) {
		if s != want {
			t.Fatalf("slot %d: expected clamp to %d, got %d", i, want, s)
		}
	}
}

func TestMixerReapsFinishedHandles(t *testing.T) {
	m := NewMixer(clock.NewManual(), 8000, 2)
	trk := track.New("t1", "Dialogue", constBuffer(8000, 4, 1<<16))
	m.Attach(NewHandle(trk, 0, 0, 0))

	if m.ActiveCount() != 1 {
		t.Fatalf("expected 1 active handle, got %d", m.ActiveCount())
	}
	readFrames(t, m, 8)
	if m.ActiveCount() != 0 {
		t.Errorf("expected exhausted handle reaped, got %d active", m.ActiveCount())
	}
}
