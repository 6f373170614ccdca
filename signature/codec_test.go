// SPDX-License-Identifier: EPL-2.0

package signature

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"reflect"
	"strings"
	"testing"

	"github.com/ik5/audtag/internal/audiotest"
)

func handmadeSignature() *DecodedSignature {
	return &DecodedSignature{
		SampleRateHz:  SampleRate,
		NumberSamples: 12 * SampleRate,
		Peaks: map[FrequencyBand][]FrequencyPeak{
			Band250To520: {
				{PassNumber: 0, Magnitude: 7000, CorrectedBin: 2100, SampleRateHz: SampleRate},
				{PassNumber: 0, Magnitude: 7100, CorrectedBin: 2300, SampleRateHz: SampleRate},
				{PassNumber: 254, Magnitude: 9000, CorrectedBin: 4000, SampleRateHz: SampleRate},
			},
			Band1450To3500: {
				{PassNumber: 300, Magnitude: 12000, CorrectedBin: 20000, SampleRateHz: SampleRate},
				{PassNumber: 555, Magnitude: 12001, CorrectedBin: 20001, SampleRateHz: SampleRate},
				{PassNumber: 809, Magnitude: 65535, CorrectedBin: 28000, SampleRateHz: SampleRate},
				{PassNumber: 1500, Magnitude: 0, CorrectedBin: 12000, SampleRateHz: SampleRate},
			},
			Band3500To5500: {
				{PassNumber: 70000, Magnitude: 1, CorrectedBin: 45000, SampleRateHz: SampleRate},
			},
		},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  *DecodedSignature
	}{
		{name: "handmade with pass escapes", sig: handmadeSignature()},
		{name: "generated from noise", sig: Generate(audiotest.Noise(4*SampleRate, 11, 9000))},
		{name: "no peaks", sig: &DecodedSignature{SampleRateHz: SampleRate, NumberSamples: 100, Peaks: map[FrequencyBand][]FrequencyPeak{}}},
		{name: "44.1k header", sig: &DecodedSignature{SampleRateHz: 44100, NumberSamples: 1, Peaks: map[FrequencyBand][]FrequencyPeak{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := Encode(tt.sig)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if len(raw)%4 != 0 {
				t.Errorf("len(raw) = %d, want a multiple of 4", len(raw))
			}

			got, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.sig) {
				t.Errorf("round trip = %+v, want %+v", got, tt.sig)
			}
		})
	}
}

func TestEncode_Header(t *testing.T) {
	t.Parallel()

	raw, err := Encode(handmadeSignature())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	fields := []struct {
		name   string
		offset int
		want   uint32
	}{
		{name: "magic1", offset: 0, want: 0xcafe2580},
		{name: "checksum", offset: 4, want: crc32.ChecksumIEEE(raw[8:])},
		{name: "size", offset: 8, want: uint32(len(raw) - 48)},
		{name: "magic2", offset: 12, want: 0x94119c00},
		{name: "sample rate id", offset: 28, want: 3 << 27},
		{name: "samples plus offset", offset: 40, want: 12*SampleRate + 3840},
		{name: "trailer", offset: 44, want: 0x007c0000},
		{name: "section tag", offset: 48, want: 0x40000000},
		{name: "section size", offset: 52, want: uint32(len(raw) - 48)},
		{name: "first band tag", offset: 56, want: 0x60030040},
		// three peaks of five bytes, no escape
		{name: "first band length", offset: 60, want: 15},
	}

	for _, f := range fields {
		if got := binary.LittleEndian.Uint32(raw[f.offset:]); got != f.want {
			t.Errorf("%s = %#x, want %#x", f.name, got, f.want)
		}
	}

	for _, off := range []int{16, 20, 24, 32, 36} {
		if v := binary.LittleEndian.Uint32(raw[off:]); v != 0 {
			t.Errorf("reserved word at %d = %#x, want 0", off, v)
		}
	}
}

func TestEncode_PassEscape(t *testing.T) {
	t.Parallel()

	sig := &DecodedSignature{
		SampleRateHz: SampleRate,
		Peaks: map[FrequencyBand][]FrequencyPeak{
			Band520To1450: {
				{PassNumber: 254, Magnitude: 0x0102, CorrectedBin: 0x0304},
				{PassNumber: 509, Magnitude: 0x0506, CorrectedBin: 0x0708},
			},
		},
	}

	raw, err := Encode(sig)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := []byte{
		0x41, 0x00, 0x03, 0x60, // band tag
		15, 0, 0, 0, // payload length
		254, 0x02, 0x01, 0x04, 0x03, // delta 254 from 0
		0xff, 0xfd, 0x01, 0x00, 0x00, // escape to absolute pass 509
		0, 0x06, 0x05, 0x08, 0x07,
		0, // padding
	}
	if got := raw[56:]; !reflect.DeepEqual(got, want) {
		t.Errorf("band bytes = % x, want % x", got, want)
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  *DecodedSignature
		want error
	}{
		{
			name: "unsupported rate",
			sig:  &DecodedSignature{SampleRateHz: 22050},
			want: ErrUnsupportedSampleRate,
		},
		{
			name: "unordered peaks",
			sig: &DecodedSignature{
				SampleRateHz: SampleRate,
				Peaks: map[FrequencyBand][]FrequencyPeak{
					Band250To520: {{PassNumber: 10}, {PassNumber: 9}},
				},
			},
			want: ErrPeakOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Encode(tt.sig); !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	good, err := Encode(handmadeSignature())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	mutate := func(f func([]byte) []byte) []byte {
		return f(append([]byte(nil), good...))
	}
	resum := func(b []byte) []byte {
		binary.LittleEndian.PutUint32(b[4:], crc32.ChecksumIEEE(b[8:]))
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrTruncated},
		{name: "short", data: good[:40], want: ErrTruncated},
		{name: "cut payload", data: good[:len(good)-4], want: ErrTruncated},
		{name: "bad magic", data: mutate(func(b []byte) []byte { b[0] ^= 0xff; return b }), want: ErrInvalidMagic},
		{name: "flipped peak byte", data: mutate(func(b []byte) []byte { b[len(b)-3] ^= 0x01; return b }), want: ErrChecksumMismatch},
		{
			name: "unknown rate id",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[28:], 9<<27)
				return resum(b)
			}),
			want: ErrUnsupportedSampleRate,
		},
		{
			name: "unknown band tag",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[56:], 0x60030050)
				return resum(b)
			}),
			want: ErrInvalidMagic,
		},
		{
			name: "band length past end",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[60:], 4096)
				return resum(b)
			}),
			want: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Decode(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestURI(t *testing.T) {
	t.Parallel()

	sig := handmadeSignature()
	uri, err := EncodeURI(sig)
	if err != nil {
		t.Fatalf("EncodeURI() error = %v", err)
	}
	if !strings.HasPrefix(uri, "data:audio/vnd.shazam.sig;base64,") {
		t.Errorf("uri prefix = %q", uri[:40])
	}

	got, err := DecodeURI(uri)
	if err != nil {
		t.Fatalf("DecodeURI() error = %v", err)
	}
	if !reflect.DeepEqual(got, sig) {
		t.Error("DecodeURI(EncodeURI()) differs from input")
	}

	for _, bad := range []string{"", "data:audio/wav;base64,AAAA", URIPrefix + "!!not base64!!"} {
		if _, err := DecodeURI(bad); !errors.Is(err, ErrInvalidURI) {
			t.Errorf("DecodeURI(%q) error = %v, want ErrInvalidURI", bad, err)
		}
	}
}
