// ABOUTME: Tests for audio container detection
// ABOUTME: Covers magic bytes for every supported codec and rejection cases
package decode

import "testing"

func oggPage(codecMarker []byte, markerOffset int) []byte {
	data := make([]byte, 64)
	copy(data, "OggS")
	copy(data[markerOffset:], codecMarker)
	return data
}

func TestSniff(t *testing.T) {
	wavHeader := make([]byte, 12)
	copy(wavHeader, "RIFF")
	copy(wavHeader[8:], "WAVE")

	flacHeader := make([]byte, 12)
	copy(flacHeader, "fLaC")

	id3Header := make([]byte, 12)
	copy(id3Header, "ID3")

	mp3Frame := make([]byte, 12)
	mp3Frame[0] = 0xFF
	mp3Frame[1] = 0xFB // MPEG-1 Layer III

	mp3BadLayer := make([]byte, 12)
	mp3BadLayer[0] = 0xFF
	mp3BadLayer[1] = 0xE7 // Layer I

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{"wav", wavHeader, CodecWAV, false},
		{"flac", flacHeader, CodecFLAC, false},
		{"id3 mp3", id3Header, CodecMP3, false},
		{"bare mp3 frame", mp3Frame, CodecMP3, false},
		{"ogg opus", oggPage([]byte("OpusHead"), 28), CodecOpus, false},
		{"ogg vorbis", oggPage([]byte("\x01vorbis"), 28), CodecVorbis, false},
		{"ogg unknown codec", oggPage([]byte("speex"), 28), "", true},
		{"mpeg wrong layer", mp3BadLayer, "", true},
		{"garbage", []byte("this is not audio data at all"), "", true},
		{"too short", []byte("RIFF"), "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got codec %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
