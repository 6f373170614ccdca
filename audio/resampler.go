// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audtag/utils"
)

const (
	// SincZeroCrossings is the number of kernel zero crossings on each side
	// of the interpolation point at the cutoff frequency.
	SincZeroCrossings = 16

	// maxStalls bounds consecutive empty reads before giving up.
	maxStalls = 64

	// historyTrim is the minimum number of stale frames dropped at once.
	historyTrim = 4096
)

// Resampler streams src at a new sample rate using a band-limited
// Hann-windowed sinc kernel. Channel count is preserved.
//
// When downsampling the kernel cutoff is lowered to the destination Nyquist
// frequency, so content above it is attenuated instead of aliased.
type Resampler struct {
	src      Source
	channels int
	srcRate  int64
	dstRate  int

	cutoff    float64
	halfWidth float64

	passthrough bool

	// hist holds interleaved source frames; hist[0] is absolute frame base.
	hist []float32
	base int64
	out  int64

	srcBuf []float32
	eof    bool
	stalls int
}

// NewResampler wraps src so it produces dstRate samples per second.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	srcRate := src.SampleRate()
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, srcRate, dstRate)
	}

	channels := max(src.Channels(), 1)
	cutoff := min(1, float64(dstRate)/float64(srcRate))

	return &Resampler{
		src:         src,
		channels:    channels,
		srcRate:     int64(srcRate),
		dstRate:     dstRate,
		cutoff:      cutoff,
		halfWidth:   SincZeroCrossings / cutoff,
		passthrough: srcRate == dstRate,
		srcBuf:      make([]float32, max(src.BufSize(), 1024)/channels*channels),
	}, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}

	return nil
}

// ReadSamples produces interleaved samples at the destination rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.passthrough {
		return r.src.ReadSamples(dst)
	}

	ch := r.channels
	written := 0
	for written < len(dst)/ch {
		// Output frame out sits at source position out*srcRate/dstRate.
		pos := r.out * r.srcRate
		t := float64(pos) / float64(r.dstRate)
		lo := int64(math.Ceil(t - r.halfWidth))
		hi := int64(math.Floor(t + r.halfWidth))

		for !r.eof && r.end() <= hi {
			if err := r.fill(); err != nil {
				return written * ch, err
			}
		}

		end := r.end()
		if r.eof && pos >= end*int64(r.dstRate) {
			return written * ch, io.EOF
		}

		frame := dst[written*ch : (written+1)*ch]
		clear(frame)
		for k := max(lo, r.base); k <= min(hi, end-1); k++ {
			w := float32(utils.HannSinc(t-float64(k), r.cutoff, r.halfWidth))
			if w == 0 {
				continue
			}

			off := int(k-r.base) * ch
			for c := range ch {
				frame[c] += r.hist[off+c] * w
			}
		}

		written++
		r.out++
		r.trim(lo)
	}

	return written * ch, nil
}

// end is the absolute index one past the last buffered frame.
func (r *Resampler) end() int64 {
	return r.base + int64(len(r.hist)/r.channels)
}

func (r *Resampler) fill() error {
	n, err := r.src.ReadSamples(r.srcBuf)
	n -= n % r.channels
	r.hist = append(r.hist, r.srcBuf[:n]...)

	switch {
	case errors.Is(err, io.EOF):
		r.eof = true
		return nil
	case err != nil:
		return fmt.Errorf("resample read: %w", err)
	case n == 0:
		r.stalls++
		if r.stalls >= maxStalls {
			return io.ErrNoProgress
		}
	default:
		r.stalls = 0
	}

	return nil
}

// trim drops frames before lo once enough of them accumulate.
func (r *Resampler) trim(lo int64) {
	stale := lo - r.base
	if stale < historyTrim {
		return
	}

	n := copy(r.hist, r.hist[int(stale)*r.channels:])
	r.hist = r.hist[:n]
	r.base = lo
}
