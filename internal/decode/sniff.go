// ABOUTME: Audio container detection from magic bytes
// ABOUTME: Distinguishes WAV, FLAC, MP3, Ogg Vorbis, and Ogg Opus sources
package decode

import "fmt"

// Codec identifiers produced by Sniff.
const (
	CodecWAV    = "wav"
	CodecMP3    = "mp3"
	CodecFLAC   = "flac"
	CodecVorbis = "vorbis"
	CodecOpus   = "opus"
)

// Sniff detects the audio container from the leading bytes of a file.
// Returns a codec identifier or an error for unrecognized data.
func Sniff(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("file too short to identify (%d bytes)", len(data))
	}

	// RIFF/WAVE container
	if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return CodecWAV, nil
	}

	// FLAC stream marker
	if string(data[0:4]) == "fLaC" {
		return CodecFLAC, nil
	}

	// Ogg page; discriminate Opus vs Vorbis by the first packet header
	if string(data[0:4]) == "OggS" {
		if len(data) >= 36 && string(data[28:36]) == "OpusHead" {
			return CodecOpus, nil
		}
		if len(data) >= 35 && string(data[29:35]) == "vorbis" {
			return CodecVorbis, nil
		}
		return "", fmt.Errorf("ogg container with unsupported codec")
	}

	// ID3v2 tag preceding MP3 frames
	if string(data[0:3]) == "ID3" {
		return CodecMP3, nil
	}

	// Bare MPEG audio frame: 11-bit syncword, Layer III
	if data[0] == 0xFF && (data[1]&0xE0) == 0xE0 {
		layer := (data[1] >> 1) & 0x03
		if layer == 1 {
			return CodecMP3, nil
		}
	}

	return "", fmt.Errorf("unrecognized audio format")
}
