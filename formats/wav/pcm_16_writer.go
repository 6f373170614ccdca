// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV16 writes samples as a mono 16-bit PCM WAV at sampleRate.
// The writer must seek so the chunk sizes can be patched on close.
func WriteWAV16(w io.WriteSeeker, sampleRate int, samples []int16) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, formatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}

	return nil
}
