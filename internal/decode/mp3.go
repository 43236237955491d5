// ABOUTME: MP3 file decoder
// ABOUTME: Decodes MPEG Layer III audio to int32 samples
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// decodeMP3 decodes a complete MP3 file into a buffer. go-mp3 always
// produces 16-bit stereo output.
func decodeMP3(data []byte) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode failed: %w", err)
	}

	numSamples := len(raw) / 2
	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      CodecMP3,
			SampleRate: dec.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}
