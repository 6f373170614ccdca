// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audtag/audio"
)

// mockOggReader simulates oggvorbis.Reader, which counts values
type mockOggReader struct {
	sampleRate int
	channels   int
	values     []float32
	tailErr    error
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if len(m.values) == 0 {
		if m.tailErr != nil {
			return 0, m.tailErr
		}
		return 0, io.EOF
	}

	n := copy(p, m.values)
	m.values = m.values[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("OggS but not really")} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		if !errors.Is(err, audio.ErrNoFrames) {
			t.Errorf("Decode(%q) error = %v, want ErrNoFrames", data, err)
		}
	}
}

func TestSource_ReadsValues(t *testing.T) {
	t.Parallel()

	values := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	src := &source{
		dec:        &mockOggReader{sampleRate: 44100, channels: 2, values: values},
		sampleRate: 44100,
		channels:   2,
	}

	dst := make([]float32, 5) // trimmed to two whole frames
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}
	for i := range n {
		if dst[i] != values[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], values[i])
		}
	}

	n, err = src.ReadSamples(dst)
	if n != 2 || err != nil {
		t.Errorf("second read = %d, %v; want 2, nil", n, err)
	}
}

func TestSource_Tail(t *testing.T) {
	t.Parallel()

	broken := errors.New("bad packet")

	tests := []struct {
		name    string
		tailErr error
		wantErr error
	}{
		{name: "clean end", tailErr: nil, wantErr: io.EOF},
		{name: "truncated page", tailErr: io.ErrUnexpectedEOF, wantErr: io.EOF},
		{name: "corrupt packet", tailErr: broken, wantErr: broken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{
				dec:        &mockOggReader{sampleRate: 8000, channels: 1, values: []float32{0.5}, tailErr: tt.tailErr},
				sampleRate: 8000,
				channels:   1,
			}

			dst := make([]float32, 4)
			if n, err := src.ReadSamples(dst); n != 1 || err != nil {
				t.Fatalf("first read = %d, %v; want 1, nil", n, err)
			}

			_, err := src.ReadSamples(dst)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("tail read error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
