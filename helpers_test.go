// SPDX-License-Identifier: EPL-2.0

package audtag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audtag/formats/wav"
)

// wavBytes encodes pcm as a mono 16-bit WAV file and returns its bytes.
func wavBytes(tb testing.TB, rate int, pcm []int16) []byte {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "capture.wav")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	if err := wav.WriteWAV16(f, rate, pcm); err != nil {
		f.Close()
		tb.Fatal(err)
	}
	if err := f.Close(); err != nil {
		tb.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatal(err)
	}

	return data
}
