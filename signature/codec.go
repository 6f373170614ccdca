// SPDX-License-Identifier: EPL-2.0

package signature

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
)

// URIPrefix introduces a base64 encoded signature in recognition requests.
const URIPrefix = "data:audio/vnd.shazam.sig;base64,"

const (
	headerSize = 48

	magic1        = 0xcafe2580
	magic2        = 0x94119c00
	sectionTag    = 0x40000000
	bandTagBase   = 0x60030040
	headerTrailer = (15 << 19) + 0x40000

	passEscape = 0xff
)

var sampleRateIDs = map[uint32]uint32{
	8000:  1,
	11025: 2,
	16000: 3,
	32000: 4,
	44100: 5,
	48000: 6,
}

// sampleOffset is the extra sample count the header carries past the end of
// the audio, a quarter second minus 10 ms at the given rate.
func sampleOffset(rate uint32) uint32 {
	return uint32(float64(rate) * 0.24)
}

// Encode serializes sig into the binary signature format: a 48 byte header,
// a section tag, then one length-prefixed peak list per non-empty band in
// band order. All integers are little endian.
func Encode(sig *DecodedSignature) ([]byte, error) {
	rateID, ok := sampleRateIDs[sig.SampleRateHz]
	if !ok {
		return nil, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, sig.SampleRateHz)
	}

	var body bytes.Buffer
	bands := make([]FrequencyBand, 0, len(sig.Peaks))
	for band, peaks := range sig.Peaks {
		if len(peaks) > 0 {
			bands = append(bands, band)
		}
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i] < bands[j] })

	for _, band := range bands {
		if !band.Valid() {
			return nil, fmt.Errorf("encode: unknown band %d", band)
		}

		payload, err := encodePeaks(sig.Peaks[band])
		if err != nil {
			return nil, fmt.Errorf("encode band %s: %w", band, err)
		}

		body.Write(le32(bandTagBase + uint32(band)))
		body.Write(le32(uint32(len(payload))))
		body.Write(payload)
		body.Write(make([]byte, (4-len(payload)%4)%4))
	}

	size := uint32(8 + body.Len())
	out := make([]byte, headerSize, headerSize+int(size))

	binary.LittleEndian.PutUint32(out[0:], magic1)
	binary.LittleEndian.PutUint32(out[8:], size)
	binary.LittleEndian.PutUint32(out[12:], magic2)
	binary.LittleEndian.PutUint32(out[28:], rateID<<27)
	binary.LittleEndian.PutUint32(out[40:], sig.NumberSamples+sampleOffset(sig.SampleRateHz))
	binary.LittleEndian.PutUint32(out[44:], headerTrailer)

	out = append(out, le32(sectionTag)...)
	out = append(out, le32(size)...)
	out = append(out, body.Bytes()...)

	binary.LittleEndian.PutUint32(out[4:], crc32.ChecksumIEEE(out[8:]))

	return out, nil
}

func encodePeaks(peaks []FrequencyPeak) ([]byte, error) {
	var buf bytes.Buffer
	var pass uint32

	for _, p := range peaks {
		if p.PassNumber < pass {
			return nil, fmt.Errorf("%w: %d after %d", ErrPeakOrder, p.PassNumber, pass)
		}

		if p.PassNumber-pass >= passEscape {
			buf.WriteByte(passEscape)
			buf.Write(le32(p.PassNumber))
			pass = p.PassNumber
		}

		buf.WriteByte(byte(p.PassNumber - pass))
		buf.Write(le16(p.Magnitude))
		buf.Write(le16(p.CorrectedBin))
		pass = p.PassNumber
	}

	return buf.Bytes(), nil
}

// Decode parses the binary format written by Encode and verifies its magic
// numbers, sizes and checksum.
func Decode(data []byte) (*DecodedSignature, error) {
	if len(data) < headerSize+8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	if binary.LittleEndian.Uint32(data[0:]) != magic1 || binary.LittleEndian.Uint32(data[12:]) != magic2 {
		return nil, ErrInvalidMagic
	}

	size := binary.LittleEndian.Uint32(data[8:])
	if int(size) != len(data)-headerSize {
		return nil, fmt.Errorf("%w: header says %d payload bytes, have %d", ErrTruncated, size, len(data)-headerSize)
	}

	if sum := crc32.ChecksumIEEE(data[8:]); sum != binary.LittleEndian.Uint32(data[4:]) {
		return nil, fmt.Errorf("%w: %#08x", ErrChecksumMismatch, sum)
	}

	rate, ok := rateForID(binary.LittleEndian.Uint32(data[28:]) >> 27)
	if !ok {
		return nil, ErrUnsupportedSampleRate
	}

	if binary.LittleEndian.Uint32(data[48:]) != sectionTag || binary.LittleEndian.Uint32(data[52:]) != size {
		return nil, fmt.Errorf("%w: section header", ErrInvalidMagic)
	}

	sig := &DecodedSignature{
		SampleRateHz:  rate,
		NumberSamples: binary.LittleEndian.Uint32(data[40:]) - sampleOffset(rate),
		Peaks:         make(map[FrequencyBand][]FrequencyPeak),
	}

	rest := data[headerSize+8:]
	for len(rest) > 0 {
		if len(rest) < 8 {
			return nil, fmt.Errorf("%w: band header", ErrTruncated)
		}

		band := FrequencyBand(int64(binary.LittleEndian.Uint32(rest)) - bandTagBase)
		if !band.Valid() {
			return nil, fmt.Errorf("%w: band tag %#x", ErrInvalidMagic, binary.LittleEndian.Uint32(rest))
		}

		length := int(binary.LittleEndian.Uint32(rest[4:]))
		padded := length + (4-length%4)%4
		if length < 0 || len(rest)-8 < padded {
			return nil, fmt.Errorf("%w: band %s", ErrTruncated, band)
		}

		peaks, err := decodePeaks(rest[8:8+length], rate)
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", band, err)
		}
		sig.Peaks[band] = append(sig.Peaks[band], peaks...)

		rest = rest[8+padded:]
	}

	return sig, nil
}

func decodePeaks(data []byte, rate uint32) ([]FrequencyPeak, error) {
	var peaks []FrequencyPeak
	var pass uint32

	for len(data) > 0 {
		if data[0] == passEscape {
			if len(data) < 5 {
				return nil, fmt.Errorf("%w: pass escape", ErrTruncated)
			}
			pass = binary.LittleEndian.Uint32(data[1:])
			data = data[5:]
			continue
		}

		if len(data) < 5 {
			return nil, fmt.Errorf("%w: peak", ErrTruncated)
		}

		pass += uint32(data[0])
		peaks = append(peaks, FrequencyPeak{
			PassNumber:   pass,
			Magnitude:    binary.LittleEndian.Uint16(data[1:]),
			CorrectedBin: binary.LittleEndian.Uint16(data[3:]),
			SampleRateHz: rate,
		})
		data = data[5:]
	}

	return peaks, nil
}

// EncodeURI returns the data URI form of sig used in recognition requests.
func EncodeURI(sig *DecodedSignature) (string, error) {
	raw, err := Encode(sig)
	if err != nil {
		return "", err
	}

	return URIPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeURI parses a data URI produced by EncodeURI.
func DecodeURI(uri string) (*DecodedSignature, error) {
	b64, ok := strings.CutPrefix(uri, URIPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidURI, URIPrefix)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	return Decode(raw)
}

func rateForID(id uint32) (uint32, bool) {
	for rate, rid := range sampleRateIDs {
		if rid == id {
			return rate, true
		}
	}

	return 0, false
}

func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
