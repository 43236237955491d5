// ABOUTME: Ogg Vorbis file decoder
// ABOUTME: Decodes vorbis streams to int32 samples via jfreymuth/oggvorbis
package decode

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// decodeVorbis decodes a complete Ogg Vorbis file into a buffer.
func decodeVorbis(data []byte) (*audio.Buffer, error) {
	pcm, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis decode failed: %w", err)
	}

	samples := make([]int32, len(pcm))
	for i, v := range pcm {
		samples[i] = audio.SampleFromFloat32(v)
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      CodecVorbis,
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   24,
		},
	}, nil
}
