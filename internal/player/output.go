// ABOUTME: Master audio output sink using oto
// ABOUTME: Owns the device context and the audio clock tied to it
package player

import (
	"fmt"
	"io"
	"log"

	"github.com/ebitengine/oto/v3"

	"github.com/replaydeck/reviewaudio/internal/clock"
)

// Sink is the master output device shared by all tracks. Suspending the
// sink freezes the audio clock; playback scheduling never touches the
// device from a second goroutine.
type Sink interface {
	// Start begins pulling rendered audio from src.
	Start(src io.Reader) error
	Suspend() error
	Resume() error
	// Clock returns the audio clock driven by this sink.
	Clock() clock.AudioClock
	Close() error
}

// OtoSink renders through an oto context. The pausable clock tracks device
// running time so elapsed audio time freezes across suspend/resume.
type OtoSink struct {
	otoCtx *oto.Context
	player *oto.Player
	clk    *clock.Pausable
}

// NewOtoSink creates the device context for the given output format and
// waits for it to become ready.
func NewOtoSink(sampleRate, channels int) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return &OtoSink{
		otoCtx: ctx,
		clk:    clock.NewPausable(),
	}, nil
}

// Start attaches the render source and begins playback pulls.
func (s *OtoSink) Start(src io.Reader) error {
	if s.player != nil {
		return fmt.Errorf("sink already started")
	}
	s.player = s.otoCtx.NewPlayer(src)
	s.player.Play()
	return nil
}

// Suspend pauses the device and freezes the audio clock.
func (s *OtoSink) Suspend() error {
	s.clk.Suspend()
	return s.otoCtx.Suspend()
}

// Resume unfreezes the audio clock and resumes the device.
func (s *OtoSink) Resume() error {
	s.clk.Resume()
	return s.otoCtx.Resume()
}

// Clock returns the sink's audio clock.
func (s *OtoSink) Clock() clock.AudioClock {
	return s.clk
}

// Close tears down the player and suspends the context.
func (s *OtoSink) Close() error {
	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return err
		}
		s.player = nil
	}
	s.clk.Suspend()
	return s.otoCtx.Suspend()
}
