// ABOUTME: Ogg Opus file decoder
// ABOUTME: Decodes .opus files via libopusfile stream reading
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	opus "gopkg.in/hraban/opus.v2"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

const (
	// libopusfile always decodes at 48 kHz
	opusSampleRate = 48000
	// Max opus frame is 120 ms: 5760 samples per channel at 48 kHz
	opusMaxFrame = 5760
)

// opusChannelCount reads the channel count from the OpusHead header. The
// stream decoder emits the native channel count, so it must be known before
// sizing the read buffer.
func opusChannelCount(data []byte) (int, error) {
	i := bytes.Index(data, []byte("OpusHead"))
	if i < 0 || len(data) < i+10 {
		return 0, fmt.Errorf("opus head not found")
	}
	// OpusHead layout: 8-byte magic, 1-byte version, 1-byte channel count.
	channels := int(data[i+9])
	if channels < 1 || channels > 2 {
		return 0, fmt.Errorf("unsupported opus channel count: %d", channels)
	}
	return channels, nil
}

// decodeOpus decodes a complete Ogg Opus file into a buffer. Output is
// interleaved 16-bit at 48 kHz at the stream's native channel count.
func decodeOpus(data []byte) (*audio.Buffer, error) {
	channels, err := opusChannelCount(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	pcm := make([]int16, opusMaxFrame*channels)
	var samples []int32
	for {
		// Read returns the number of samples per channel.
		n, err := stream.Read(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		if n == 0 {
			break
		}
		for _, s := range pcm[:n*channels] {
			samples = append(samples, audio.SampleFromInt16(s))
		}
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      CodecOpus,
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}
