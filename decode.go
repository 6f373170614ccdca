// SPDX-License-Identifier: EPL-2.0

package audtag

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/ik5/audtag/audio"
	"github.com/ik5/audtag/formats/aiff"
	"github.com/ik5/audtag/formats/mp3"
	"github.com/ik5/audtag/formats/vorbis"
	"github.com/ik5/audtag/formats/wav"
	"github.com/ik5/audtag/signature"
)

const (
	// TargetRate is the rate every capture is resampled to before
	// fingerprinting.
	TargetRate = signature.SampleRate
	// CaptureSeconds is how much audio a single recognition uses.
	CaptureSeconds = 12
	// MaxSamples is CaptureSeconds of mono audio at TargetRate.
	MaxSamples = CaptureSeconds * TargetRate

	// DefaultFormat is assumed when neither content type nor path name a
	// known format. Most radio streams are MPEG audio.
	DefaultFormat = "mp3"

	readBufSize = 4096
)

// DefaultRegistry returns a registry with the mp3, ogg, wav and aiff
// decoders.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}

var contentTypes = map[string]string{
	"audio/mpeg":      "mp3",
	"audio/mp3":       "mp3",
	"audio/mpeg3":     "mp3",
	"audio/x-mpeg":    "mp3",
	"application/ogg": "ogg",
	"audio/ogg":       "ogg",
	"audio/vorbis":    "ogg",
	"audio/wav":       "wav",
	"audio/wave":      "wav",
	"audio/x-wav":     "wav",
	"audio/vnd.wave":  "wav",
	"audio/aiff":      "aiff",
	"audio/x-aiff":    "aiff",
}

var extensions = map[string]string{
	".mp3":  "mp3",
	".ogg":  "ogg",
	".oga":  "ogg",
	".wav":  "wav",
	".wave": "wav",
	".aif":  "aiff",
	".aiff": "aiff",
}

// FormatFromContentType maps a Content-Type header onto a registry key.
func FormatFromContentType(contentType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}

	f, ok := contentTypes[mt]
	return f, ok
}

// FormatFromPath maps a file path or URL onto a registry key by extension.
func FormatFromPath(p string) (string, bool) {
	if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}

	f, ok := extensions[strings.ToLower(path.Ext(p))]
	return f, ok
}

// DetectFormat tries the content type, then the location, then falls back
// to DefaultFormat.
func DetectFormat(contentType, location string) string {
	if f, ok := FormatFromContentType(contentType); ok {
		return f
	}
	if f, ok := FormatFromPath(location); ok {
		return f
	}

	return DefaultFormat
}

// DecodeToMono16 decodes r as format and returns at most maxSamples mono
// samples at TargetRate. A non-positive maxSamples means MaxSamples.
//
// Input that yields no samples at all fails with ErrDecode. A read error
// after some audio was decoded ends the capture early without error.
func DecodeToMono16(reg *audio.Registry, format string, r io.Reader, maxSamples int) ([]int16, error) {
	if maxSamples <= 0 {
		maxSamples = MaxSamples
	}

	src, err := reg.Decode(format, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer src.Close()

	pcm, err := audio.ReadMono16(src, TargetRate, maxSamples, readBufSize)
	if len(pcm) == 0 {
		if err == nil {
			err = audio.ErrNoFrames
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}

	return pcm, nil
}

// Fingerprint decodes r and generates the signature of its first
// maxSamples samples. The PCM used is returned alongside.
func Fingerprint(reg *audio.Registry, format string, r io.Reader, maxSamples int) (*signature.DecodedSignature, []int16, error) {
	pcm, err := DecodeToMono16(reg, format, r, maxSamples)
	if err != nil {
		return nil, nil, err
	}

	return signature.Generate(pcm), pcm, nil
}
