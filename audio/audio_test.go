// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ik5/audtag/internal/audiotest"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

type failingDecoder struct{}

func (failingDecoder) Decode(io.Reader) (Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}
	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}

	if _, ok := registry.Get("flac"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	first := &mockDecoder{name: "first"}
	second := &mockDecoder{name: "second"}

	registry.Register("mp3", first)
	registry.Register("mp3", second)

	got, _ := registry.Get("mp3")
	if got != second {
		t.Error("Registry.Register() did not replace the earlier decoder")
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, f := range []string{"wav", "aiff", "ogg", "mp3"} {
		registry.Register(f, &mockDecoder{name: f})
	}

	want := []string{"aiff", "mp3", "ogg", "wav"}
	if got := registry.Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_Decode(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{name: "wav"})
	registry.Register("bad", failingDecoder{})

	tests := []struct {
		name    string
		format  string
		wantErr error
		errText string
	}{
		{name: "registered", format: "wav"},
		{name: "unknown", format: "flac", wantErr: ErrUnknownFormat},
		{name: "decoder failure", format: "bad", errText: "decode bad: decode failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := registry.Decode(tt.format, strings.NewReader(""))
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || err.Error() != tt.errText {
					t.Errorf("Decode() error = %v, want %q", err, tt.errText)
				}
			default:
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if src.SampleRate() != 44100 || src.Channels() != 2 {
					t.Errorf("Decode() source = %d Hz/%d ch", src.SampleRate(), src.Channels())
				}
			}
		})
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			format := string(rune('a' + id))
			registry.Register(format, &mockDecoder{name: format})
			if _, ok := registry.Get(format); !ok {
				t.Errorf("format %q missing after Register", format)
			}
			_ = registry.Formats()
		}(i)
	}
	wg.Wait()

	if got := len(registry.Formats()); got != 10 {
		t.Errorf("len(Formats()) = %d, want 10", got)
	}
}
