// SPDX-License-Identifier: EPL-2.0

// Package signature computes spectral peak fingerprints of 16 kHz mono PCM
// and serializes them in the binary format the recognition service expects.
//
// # Generation
//
// The input is processed in hops of 128 samples. After every hop the last
// 2048 samples are Hann-windowed and transformed with a real FFT
// (gonum.org/v1/gonum/dsp/fourier), giving 1025 power bins. The frame is
// stored in a ring of 256 frames, and a second ring holds a "spread" copy
// dilated over three neighbouring bins and over the frames 1, 3 and 6 hops
// back.
//
// Once 46 hops are available, each pass examines the frame 46 hops old.
// A bin is a peak when its magnitude is at least 1/64, is not below the
// spread value one bin down, and exceeds the spread values at eight
// frequency offsets and fourteen time offsets around it. Peaks are stored
// with a log-scaled magnitude and a bin position refined to 1/64 of a bin
// by parabolic interpolation, and are bucketed into four frequency bands
// between 250 and 5500 Hz. Anything outside those bands is dropped.
//
// Generation is deterministic: the same samples always give the same peaks.
//
// # Wire format
//
// Encode writes a 48-byte little-endian header (magic, CRC-32 of the rest,
// size, sample rate id, sample count) followed by one length-prefixed peak
// list per band. Peaks are delta coded by pass number. Decode reverses it
// and checks every magic, size and the checksum. EncodeURI wraps the bytes
// as a base64 data URI.
package signature
