// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audtag/utils"
)

func writeTemp(t *testing.T, sampleRate int, samples []int16) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create() error = %v", err)
	}
	defer f.Close()

	if err := WriteWAV16(f, sampleRate, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	return path
}

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	samples := []int16{1, -1, 1000, -1000, 32767}
	raw, err := os.ReadFile(writeTemp(t, 16000, samples))
	if err != nil {
		t.Fatalf("os.ReadFile() error = %v", err)
	}

	if len(raw) != 44+len(samples)*2 {
		t.Fatalf("file size = %d, want %d", len(raw), 44+len(samples)*2)
	}

	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{name: "riff size", got: binary.LittleEndian.Uint32(raw[4:8]), want: uint32(36 + len(samples)*2)},
		{name: "format tag", got: uint32(binary.LittleEndian.Uint16(raw[20:22])), want: formatPCM},
		{name: "channels", got: uint32(binary.LittleEndian.Uint16(raw[22:24])), want: 1},
		{name: "sample rate", got: binary.LittleEndian.Uint32(raw[24:28]), want: 16000},
		{name: "byte rate", got: binary.LittleEndian.Uint32(raw[28:32]), want: 32000},
		{name: "block align", got: uint32(binary.LittleEndian.Uint16(raw[32:34])), want: 2},
		{name: "bits", got: uint32(binary.LittleEndian.Uint16(raw[34:36])), want: 16},
		{name: "data size", got: binary.LittleEndian.Uint32(raw[40:44]), want: uint32(len(samples) * 2)},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" || string(raw[36:40]) != "data" {
		t.Errorf("unexpected chunk ids in %q", raw[:44])
	}
}

func TestWriteWAV16_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 20000)
	for i := range samples {
		samples[i] = int16((i*7919)%65536 - 32768)
	}

	f, err := os.Open(writeTemp(t, 44100, samples))
	if err != nil {
		t.Fatalf("os.Open() error = %v", err)
	}
	defer f.Close()

	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 44100 || src.Channels() != 1 {
		t.Errorf("format = %d Hz/%d ch, want 44100/1", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src.ReadSamples)
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, want := range samples {
		if v := utils.Float32ToInt16(got[i]); v != want {
			t.Fatalf("sample %d = %d, want %d", i, v, want)
		}
	}
}
