// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and 16-bit PCM writing.
//
// Both directions go through github.com/go-audio/wav.
//
// # Supported Formats
//
// The decoder supports:
//   - RIFF/WAVE with format tag 1 (PCM) or 0xFFFE (extensible)
//   - 16, 24 and 32 bit signed integer samples
//   - Any channel count and sample rate
//
// # Decoding WAV Files
//
//	file, _ := os.Open("clip.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// go-audio seeks between chunks, so a reader that cannot seek is read into
// memory first.
//
// # Writing WAV Files
//
// WriteWAV16 stores mono 16-bit PCM. The sig command uses it to dump the
// exact signal that was fingerprinted:
//
//	out, _ := os.Create("capture.wav")
//	err := wav.WriteWAV16(out, 16000, pcm)
//
// The writer needs an io.WriteSeeker because the RIFF sizes are patched in
// after the samples are written.
//
// # Error Handling
//
// The package defines:
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrUnsupportedWavLayout: float or compressed data, or a broken format chunk
//   - ErrUnsupportedBitDepth: integer PCM of a depth other than 16, 24 or 32
//
// Example:
//
//	source, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrUnsupportedWavLayout) {
//	    fmt.Println("not integer PCM")
//	}
package wav
