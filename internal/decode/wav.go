// ABOUTME: WAV file decoder
// ABOUTME: Decodes RIFF/WAVE PCM to int32 samples via go-audio
package decode

import (
	"bytes"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// decodeWAV decodes a complete WAV file into a buffer.
func decodeWAV(data []byte) (*audio.Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode failed: %w", err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels == 0 || pcm.Format.SampleRate == 0 {
		return nil, fmt.Errorf("wav file missing format information")
	}

	bitDepth := int(dec.BitDepth)
	samples, err := interleaveWAV(pcm, bitDepth)
	if err != nil {
		return nil, err
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      CodecWAV,
			SampleRate: pcm.Format.SampleRate,
			Channels:   pcm.Format.NumChannels,
			BitDepth:   bitDepth,
		},
	}, nil
}

// interleaveWAV left-justifies go-audio integer PCM into 24-bit range.
func interleaveWAV(pcm *goaudio.IntBuffer, bitDepth int) ([]int32, error) {
	samples := make([]int32, len(pcm.Data))
	switch bitDepth {
	case 16:
		for i, v := range pcm.Data {
			samples[i] = audio.SampleFromInt16(int16(v))
		}
	case 24:
		for i, v := range pcm.Data {
			samples[i] = int32(v)
		}
	case 8:
		// 8-bit WAV is unsigned; recenter then left-justify
		for i, v := range pcm.Data {
			samples[i] = int32(v-128) << 16
		}
	default:
		return nil, fmt.Errorf("unsupported wav bit depth: %d", bitDepth)
	}
	return samples, nil
}
