// ABOUTME: Tests for WAV decoding
// ABOUTME: Synthesizes minimal RIFF files and checks sample and format fidelity
package decode

import (
	"encoding/binary"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// makeWAV builds a minimal 16-bit PCM RIFF/WAVE file.
func makeWAV(sampleRate, channels int, samples []int16) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize))
	copy(buf[8:], "WAVE")

	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(buf[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(buf[34:], 16)

	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(s))
	}
	return buf
}

// sineWAV builds count frames of a mono sine tone.
func sineWAV(sampleRate, frames int) []byte {
	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}
	return makeWAV(sampleRate, 1, samples)
}

func TestDecodeWAVFormat(t *testing.T) {
	data := sineWAV(8000, 8000)

	buf, err := decodeWAV(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Format.SampleRate != 8000 {
		t.Errorf("expected 8000Hz, got %d", buf.Format.SampleRate)
	}
	if buf.Format.Channels != 1 {
		t.Errorf("expected mono, got %d channels", buf.Format.Channels)
	}
	if buf.Format.Codec != CodecWAV {
		t.Errorf("expected codec wav, got %q", buf.Format.Codec)
	}
	if buf.Frames() != 8000 {
		t.Errorf("expected 8000 frames, got %d", buf.Frames())
	}
	if buf.Duration() != 1.0 {
		t.Errorf("expected 1.0s duration, got %f", buf.Duration())
	}
}

func TestDecodeWAVSampleValues(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 0, 0, 0}
	data := makeWAV(8000, 2, samples)

	buf, err := decodeWAV(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(buf.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(buf.Samples))
	}
	for i, s := range samples {
		want := audio.SampleFromInt16(s)
		if buf.Samples[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, buf.Samples[i])
		}
	}
	if buf.Format.Channels != 2 {
		t.Errorf("expected stereo, got %d channels", buf.Format.Channels)
	}
}

func TestInterleaveWAVBitDepths(t *testing.T) {
	pcm := &goaudio.IntBuffer{Data: []int{0, 128, 255}}

	samples, err := interleaveWAV(pcm, 8)
	if err != nil {
		t.Fatalf("8-bit interleave failed: %v", err)
	}
	if samples[0] != -128<<16 || samples[1] != 0 || samples[2] != 127<<16 {
		t.Errorf("unexpected 8-bit recentering: %v", samples)
	}

	if _, err := interleaveWAV(pcm, 12); err == nil {
		t.Error("expected error for unsupported bit depth")
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := decodeWAV([]byte("definitely not a wav file")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDecodeBytesDispatch(t *testing.T) {
	data := sineWAV(8000, 100)

	codec, err := Sniff(data)
	if err != nil {
		t.Fatalf("sniff failed: %v", err)
	}
	if codec != CodecWAV {
		t.Fatalf("expected wav, got %q", codec)
	}

	buf, err := decodeBytes(codec, data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Frames() != 100 {
		t.Errorf("expected 100 frames, got %d", buf.Frames())
	}
}

func TestDecodeBytesUnknownCodec(t *testing.T) {
	if _, err := decodeBytes("midi", nil); err == nil {
		t.Error("expected error for unsupported codec")
	}
}
