// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing that turns a decoded stream into
// the mono 16 kHz signal fingerprinting expects.
//
// # Source Interface
//
// Every decoder and processor implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1, 1]. A read may return data
// together with io.EOF, so callers consume n before checking the error.
//
// # Resampling
//
// Resampler converts between rates with a Hann-windowed sinc kernel whose
// cutoff follows the lower of the two Nyquist frequencies:
//
//	rs, err := audio.NewResampler(source, 16000)
//	buf := make([]float32, 4096)
//	n, err := rs.ReadSamples(buf)
//
// Equal rates pass samples through untouched.
//
// # Channel Mixing
//
// MonoMixer averages all channels into one. ReadMono16 chains the mixer in
// front of the resampler and collects int16 PCM up to a sample limit:
//
//	pcm, err := audio.ReadMono16(source, 16000, 12*16000, 4096)
//
// # Format Registry
//
// Registry maps a format key to a Decoder:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode("wav", file)
//
// IntSource adapts the integer buffers of the go-audio decoders.
//
// # Processing Chain
//
// Fingerprinting needs one fixed shape of signal, so every capture takes
// the same path:
//
//	decoder (mp3, ogg, wav, aiff)
//	    -> MonoMixer       (average channels)
//	    -> Resampler       (band-limited, to 16000 Hz)
//	    -> ReadMono16      (float32 -> int16, stop at the sample limit)
//
// Mixing runs first so the sinc kernel only filters one channel.
//
// # Resampler Details
//
// The kernel spans SincZeroCrossings zero crossings on each side of the
// interpolation point. When downsampling, the cutoff drops to the target
// Nyquist frequency, so 44.1kHz music above 8kHz is filtered out rather
// than folded back into the fingerprinting bands. Output length is
// ceil(inputFrames * dstRate / srcRate).
//
// The resampler keeps a sliding history of source frames and trims it as
// output advances, so memory stays bounded on long inputs.
//
// # Error Handling
//
// The package defines:
//   - ErrNoFrames: a decoder found nothing it could decode
//   - ErrInvalidRate: a source or target rate is not positive
//   - ErrInvalidDstSize: a read buffer is not a whole number of frames
//   - ErrUnknownFormat: Registry.Decode was asked for an unregistered key
//
// Errors are wrapped with context and are meant to be tested with
// errors.Is:
//
//	src, err := registry.Decode("flac", r)
//	if errors.Is(err, audio.ErrUnknownFormat) {
//	    // fall back to another decoder
//	}
//
// # Performance
//
// The mixer reuses its scratch buffer and the resampler trims its history
// in place, so steady-state reads rarely allocate. See the benchmarks in
// this package for numbers.
package audio
