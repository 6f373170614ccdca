// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// PCMReader is the reading half of the go-audio wav and aiff decoders.
type PCMReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// IntSource adapts a go-audio integer PCM decoder to Source.
type IntSource struct {
	dec      PCMReader
	format   *goaudio.Format
	scale    float32
	intBuf   *goaudio.IntBuffer
	finished bool
}

// NewIntSource wraps dec, whose samples are signed integers of bitDepth bits.
func NewIntSource(dec PCMReader, format *goaudio.Format, bitDepth int) (*IntSource, error) {
	if format == nil || format.SampleRate <= 0 || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidRate)
	}

	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}

	return &IntSource{
		dec:    dec,
		format: format,
		scale:  1 / float32(int64(1)<<(bitDepth-1)),
	}, nil
}

func (s *IntSource) SampleRate() int { return s.format.SampleRate }
func (s *IntSource) Channels() int   { return s.format.NumChannels }
func (s *IntSource) Close() error    { return nil }

func (s *IntSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}

	return 4096
}

func (s *IntSource) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.format,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}

	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return n, fmt.Errorf("read pcm: %w", err)
	case err != nil || n == 0:
		s.finished = true
		return n, io.EOF
	}

	return n, nil
}
