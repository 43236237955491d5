// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded track buffers, formats, and sample conversions
package audio

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes decoded audio data
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds a fully decoded track. Samples are interleaved PCM stored as
// int32 left-justified in 24-bit range (int32 to support both 16-bit and
// 24-bit sources). A Buffer is never mutated after decode; tracks replace
// buffers by unloading and reloading.
type Buffer struct {
	Samples []int32
	Format  Format
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.Format.SampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Format.SampleRate)
}

// FrameAt converts a time offset in seconds to a frame index, clamped to the
// buffer bounds.
func (b *Buffer) FrameAt(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	frame := int(seconds * float64(b.Format.SampleRate))
	if frames := b.Frames(); frame > frames {
		return frames
	}
	return frame
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleFromFloat32 converts a float32 sample in [-1, 1] to 24-bit range.
func SampleFromFloat32(sample float32) int32 {
	v := int32(float64(sample) * float64(Max24Bit))
	if v > Max24Bit {
		v = Max24Bit
	}
	if v < Min24Bit {
		v = Min24Bit
	}
	return v
}
