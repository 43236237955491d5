// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides fundamental audio types shared across the engine.
//
// This package defines core types used throughout the reviewaudio library:
//   - Format: Describes decoded audio (codec, sample rate, channels, bit depth)
//   - Buffer: A fully decoded track as interleaved int32 PCM in 24-bit range
//
// It also provides utilities for converting between different sample formats:
//   - 16-bit ↔ 24-bit conversions
//   - float32 [-1, 1] → 24-bit range
//
// Example:
//
//	format := audio.Format{
//	    Codec:      "wav",
//	    SampleRate: 48000,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//
//	// Convert 16-bit sample to 24-bit range
//	sample24 := audio.SampleFromInt16(sample16)
package audio
