// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MPEG audio decoding for stream captures and files.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode frames and
// exposes the result as an audio.Source.
//
// # Supported Formats
//
// The decoder supports:
//   - MPEG Layer III
//   - Constant and variable bitrates
//   - Mono and stereo streams (output is always stereo)
//
// # Decoding a Capture
//
// Use the Decoder on the bytes read from a radio stream:
//
//	capture, _ := fetcher.Fetch(ctx, "https://radio.example/live.mp3")
//	source, err := mp3.Decoder{}.Decode(bytes.NewReader(capture.Data))
//	if err != nil {
//	    // errors.Is(err, audio.ErrNoFrames)
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Frame Resync
//
// A capture starts wherever the server happened to be, usually in the middle
// of a frame, and files may begin with an ID3 tag. When go-mp3 cannot start
// at the head of the buffer the decoder looks for the next frame sync word
// (0xFFE) and tries again, up to MaxResync times. If no position decodes,
// Decode returns an error wrapping audio.ErrNoFrames.
//
// # Truncated Tails
//
// A bounded capture almost never ends on a frame boundary. A short or
// corrupt final frame ends the source with io.EOF and the samples decoded
// so far are kept.
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: 2 (interleaved left, right)
//   - Sample rate: the stream's own rate (typically 44.1kHz or 48kHz)
//
// To get the 16kHz mono signal used for fingerprinting, use the audio
// package:
//
//	pcm, err := audio.ReadMono16(source, 16000, 12*16000, 4096)
//
// # Limitations
//
// Note:
//   - Decoding only, no MP3 writing
//   - The whole input is buffered, which is fine for a bounded capture
//   - ReadSamples only returns whole stereo frames
package mp3
