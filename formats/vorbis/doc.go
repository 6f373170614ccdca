// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding.
//
// This package uses github.com/jfreymuth/oggvorbis and exposes the stream
// as an audio.Source. Many Icecast stations serve application/ogg, which the
// root package maps to this decoder.
//
// # Decoding
//
//	source, err := vorbis.Decoder{}.Decode(bytes.NewReader(capture.Data))
//	if err != nil {
//	    // errors.Is(err, audio.ErrNoFrames)
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Output Format
//
// Vorbis decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as declared in the identification header
//   - Sample rate: as declared in the identification header
//
// ReadSamples trims dst to a whole number of frames, so the interleaving
// never shifts between reads.
//
// # Truncated Streams
//
// A capture cut at the byte budget stops in the middle of an Ogg page. The
// decoder reports io.ErrUnexpectedEOF there; the source turns that into a
// clean io.EOF and keeps the samples already read.
//
// # Limitations
//
// Note:
//   - Decoding only
//   - A capture must start at the beginning of the Ogg stream, since the
//     Vorbis headers are needed before any audio packet
package vorbis
