// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds sources and PCM generators shared by tests.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates audio from a waveform function.
// It satisfies audio.Source without importing it.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     func(sample int, channel int) float32
	closed       bool
}

// NewMockSource creates a source of totalSamples frames, each value produced
// by waveform.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a source of zeros.
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource creates a source with the same sine on every channel.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a source with a constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// NewSliceSource plays back interleaved samples.
func NewSliceSource(sampleRate, channels int, data []float32) *MockSource {
	return NewMockSource(sampleRate, channels, len(data)/channels, func(sample int, channel int) float32 {
		return data[sample*channels+channel]
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the source.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for frame := range frames {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.generated+frame, ch)
		}
	}

	m.generated += frames
	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// StallSource never produces samples and never fails.
type StallSource struct {
	Rate int
}

func (s StallSource) SampleRate() int {
	return s.Rate
}

func (s StallSource) Channels() int {
	return 1
}

func (s StallSource) BufSize() int {
	return 4096
}

func (s StallSource) Close() error {
	return nil
}

func (s StallSource) ReadSamples([]float32) (int, error) {
	return 0, nil
}

// ErrorSource fails every read with Err.
type ErrorSource struct {
	Rate int
	Err  error
}

func (s ErrorSource) SampleRate() int {
	return s.Rate
}

func (s ErrorSource) Channels() int {
	return 1
}

func (s ErrorSource) BufSize() int {
	return 4096
}

func (s ErrorSource) Close() error {
	return nil
}

func (s ErrorSource) ReadSamples([]float32) (int, error) {
	return 0, s.Err
}
