// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audtag/audio"
	"github.com/ik5/audtag/utils"
)

// MaxResync is the number of sync words tried after the first attempt fails.
const MaxResync = 64

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return 2 }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// ReadSamples converts whole stereo frames of 16-bit PCM. A truncated or
// corrupt tail ends the stream instead of failing it, since captured radio
// rarely stops on a frame boundary.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	need := len(dst) / 2 * 4
	if need == 0 {
		return 0, nil
	}
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.dec, s.buf)
	n -= n % 4

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if err != nil {
		s.done = true
		return samples, io.EOF
	}

	return samples, nil
}

// Decoder reads MPEG audio. go-mp3 always emits stereo.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading mp3 data: %w", err)
	}

	off := 0
	var lastErr error
	for range MaxResync + 1 {
		// Hide Seek so go-mp3 does not scan the whole buffer for its length.
		dec, err := gomp3.NewDecoder(struct{ io.Reader }{bytes.NewReader(data[off:])})
		if err == nil {
			return &source{
				dec:        dec,
				sampleRate: dec.SampleRate(),
				buf:        make([]byte, 8192),
			}, nil
		}
		lastErr = err

		off = nextSync(data, off+1)
		if off < 0 {
			break
		}
	}

	if lastErr == nil {
		lastErr = io.ErrUnexpectedEOF
	}

	return nil, fmt.Errorf("%w: %w", audio.ErrNoFrames, lastErr)
}

// nextSync returns the offset of the first MPEG frame sync word at or after
// from, or -1.
func nextSync(data []byte, from int) int {
	for i := max(from, 0); i+1 < len(data); i++ {
		if data[i] == 0xFF && data[i+1]&0xE0 == 0xE0 {
			return i
		}
	}

	return -1
}
