// ABOUTME: Codec dispatch for full-file decoding
// ABOUTME: Routes sniffed containers to the matching decoder
package decode

import (
	"fmt"

	"github.com/replaydeck/reviewaudio/pkg/audio"
)

// decodeBytes decodes a complete file of the given codec into a buffer.
func decodeBytes(codec string, data []byte) (*audio.Buffer, error) {
	switch codec {
	case CodecWAV:
		return decodeWAV(data)
	case CodecMP3:
		return decodeMP3(data)
	case CodecFLAC:
		return decodeFLAC(data)
	case CodecVorbis:
		return decodeVorbis(data)
	case CodecOpus:
		return decodeOpus(data)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}
