// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtag/utils"
)

// ReadMono16 downmixes src to mono, resamples it to targetRate and collects
// the result as 16-bit PCM.
//
// Reading stops at end of stream or once maxSamples samples are collected;
// maxSamples <= 0 means no limit. A source error after some samples were
// produced is returned together with those samples.
func ReadMono16(src Source, targetRate, maxSamples, bufSize int) ([]int16, error) {
	rs, err := NewResampler(NewMonoMixer(src), targetRate)
	if err != nil {
		return nil, err
	}

	if bufSize <= 0 {
		bufSize = 4096
	}
	buf := make([]float32, bufSize)

	var pcm []int16
	if maxSamples > 0 {
		pcm = make([]int16, 0, maxSamples)
	}

	for {
		want := len(buf)
		if maxSamples > 0 {
			want = min(want, maxSamples-len(pcm))
		}
		if want == 0 {
			return pcm, nil
		}

		n, err := rs.ReadSamples(buf[:want])
		for _, v := range buf[:n] {
			pcm = append(pcm, utils.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			return pcm, nil
		}
		if err != nil {
			return pcm, fmt.Errorf("collect pcm: %w", err)
		}
	}
}
