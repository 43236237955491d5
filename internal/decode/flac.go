// ABOUTME: FLAC file decoder
// ABOUTME: Decodes FLAC frames to interleaved int32 samples via mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// decodeFLAC decodes a complete FLAC file into a buffer.
func decodeFLAC(data []byte) (*audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	if channels == 0 {
		return nil, fmt.Errorf("flac stream reports zero channels")
	}

	// Left-justify narrower samples into the 24-bit range.
	shift := 24 - bps
	if shift < 0 {
		shift = 0
	}

	samples := make([]int32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame parse failed: %w", err)
		}

		n := int(frame.BlockSize)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, frame.Subframes[ch].Samples[i]<<shift)
			}
		}
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      CodecFLAC,
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   bps,
		},
	}, nil
}
