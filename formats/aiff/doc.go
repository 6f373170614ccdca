// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff. It is used for local files in
// the file and sig commands; radio streams are never AIFF.
//
// # Supported Formats
//
// Currently supported:
//   - AIFF with uncompressed PCM
//   - 8, 16, 24 and 32 bit samples
//   - Mono and multi-channel
//   - Any sample rate
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("clip.aiff")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Readers that cannot seek are buffered in memory first.
//
// # Output Format
//
// AIFF decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as stored in the COMM chunk
//   - Sample rate: as stored in the COMM chunk
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores the sample rate as an 80-bit float
//
// go-audio hides both differences, and samples reach audio.IntSource as
// plain integers either way.
//
// # Error Handling
//
// The package defines:
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: a bit depth other than 8, 16, 24 or 32
//   - ErrUnsupportedAiffLayout: a header the sample source cannot use
//
// # File Extensions
//
// DetectFormat in the root package maps .aif and .aiff to this decoder.
// AIFF-C (.aifc) is not supported.
package aiff
