// SPDX-License-Identifier: EPL-2.0

package signature

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// SampleRate is the only input rate the generator accepts.
	SampleRate = 16000
	// WindowSize is the FFT length in samples.
	WindowSize = 2048
	// HopSize is the number of new samples per analysis pass.
	HopSize = 128
	// Bins is the number of real FFT bins per frame.
	Bins = WindowSize/2 + 1
	// History is the capacity of the frame rings.
	History = 256

	recognitionLag = 46
	spreadLag      = 49

	minPeakBin = 10
	maxPeakBin = 1014

	magnitudeFloor = 1.0 / 64
	powerFloor     = 1e-10
	powerScale     = 1 << 17
)

var (
	spreadOffsets = [...]int{1, 3, 6}
	freqNeighbors = [...]int{-10, -7, -4, -3, 1, 2, 5, 8}
	timeNeighbors = [...]int{-53, -45, 165, 172, 179, 186, 193, 200, 214, 221, 228, 235, 242, 249}
)

// Generator turns 16 kHz mono PCM into a DecodedSignature.
//
// Samples are consumed in hops of HopSize. Every hop produces one spectral
// frame; peak recognition for a frame runs recognitionLag hops later, once
// the spreading data around it is complete. A Generator is not safe for
// concurrent use.
type Generator struct {
	samples   [WindowSize]int16
	sampleIdx int

	windowed []float64
	coeffs   []complex128
	fft      *fourier.FFT

	frames   [History][Bins]float64
	frameIdx int

	spread    [History][Bins]float64
	spreadIdx int

	passes  uint32
	pending []int16

	numberSamples uint32
	peaks         map[FrequencyBand][]FrequencyPeak
}

func NewGenerator() *Generator {
	return &Generator{
		windowed: make([]float64, WindowSize),
		coeffs:   make([]complex128, Bins),
		fft:      fourier.NewFFT(WindowSize),
		pending:  make([]int16, 0, HopSize),
		peaks:    make(map[FrequencyBand][]FrequencyPeak),
	}
}

// Generate fingerprints a complete buffer. A trailing partial hop counts
// toward NumberSamples but is not analysed.
func Generate(pcm []int16) *DecodedSignature {
	g := NewGenerator()
	g.Write(pcm)

	return g.Signature()
}

// Write feeds more samples. Partial hops are kept until completed by a
// later call.
func (g *Generator) Write(pcm []int16) {
	g.numberSamples += uint32(len(pcm))

	if len(g.pending) > 0 {
		n := min(HopSize-len(g.pending), len(pcm))
		g.pending = append(g.pending, pcm[:n]...)
		pcm = pcm[n:]

		if len(g.pending) < HopSize {
			return
		}
		g.process(g.pending)
		g.pending = g.pending[:0]
	}

	for len(pcm) >= HopSize {
		g.process(pcm[:HopSize])
		pcm = pcm[HopSize:]
	}

	g.pending = append(g.pending, pcm...)
}

// Passes reports how many hops were analysed so far.
func (g *Generator) Passes() uint32 { return g.passes }

// Signature returns a copy of the peaks found so far.
func (g *Generator) Signature() *DecodedSignature {
	sig := &DecodedSignature{
		SampleRateHz:  SampleRate,
		NumberSamples: g.numberSamples,
		Peaks:         make(map[FrequencyBand][]FrequencyPeak, len(g.peaks)),
	}

	for band, peaks := range g.peaks {
		sig.Peaks[band] = append([]FrequencyPeak(nil), peaks...)
	}

	return sig
}

func (g *Generator) process(hop []int16) {
	g.doFFT(hop)
	g.doPeakSpreading()

	g.passes++
	if g.passes >= recognitionLag {
		g.doPeakRecognition()
	}
}

func ring(i int) int { return i & (History - 1) }

func (g *Generator) doFFT(hop []int16) {
	copy(g.samples[g.sampleIdx:g.sampleIdx+HopSize], hop)
	g.sampleIdx = (g.sampleIdx + HopSize) & (WindowSize - 1)

	// Oldest sample first.
	for i, w := range &hanning {
		g.windowed[i] = float64(g.samples[(i+g.sampleIdx)&(WindowSize-1)]) * w
	}

	g.coeffs = g.fft.Coefficients(g.coeffs, g.windowed)

	frame := &g.frames[g.frameIdx]
	for i, c := range g.coeffs {
		power := (real(c)*real(c) + imag(c)*imag(c)) / powerScale
		frame[i] = max(power, powerFloor)
	}

	g.frameIdx = ring(g.frameIdx + 1)
}

func (g *Generator) doPeakSpreading() {
	spread := &g.spread[g.spreadIdx]
	*spread = g.frames[ring(g.frameIdx-1)]

	for p := 0; p <= Bins-3; p++ {
		spread[p] = max(spread[p], spread[p+1], spread[p+2])
	}

	for _, back := range spreadOffsets {
		former := &g.spread[ring(g.spreadIdx-back)]
		for p := range former {
			former[p] = max(former[p], spread[p])
		}
	}

	g.spreadIdx = ring(g.spreadIdx + 1)
}

func (g *Generator) doPeakRecognition() {
	fft46 := &g.frames[ring(g.frameIdx-recognitionLag)]
	spread49 := &g.spread[ring(g.spreadIdx-spreadLag)]

	for bin := minPeakBin; bin <= maxPeakBin; bin++ {
		mag := fft46[bin]
		if mag < magnitudeFloor || mag < spread49[bin-1] {
			continue
		}

		freqMax := 0.0
		for _, off := range freqNeighbors {
			freqMax = max(freqMax, spread49[bin+off])
		}
		if mag <= freqMax {
			continue
		}

		timeMax := freqMax
		for _, off := range timeNeighbors {
			timeMax = max(timeMax, g.spread[ring(g.spreadIdx+off)][bin-1])
		}
		if mag <= timeMax {
			continue
		}

		g.storePeak(fft46, bin)
	}
}

func scaledLog(v float64) float64 {
	return math.Log(max(v, magnitudeFloor))*1477.3 + 6144
}

func (g *Generator) storePeak(frame *[Bins]float64, bin int) {
	mag := scaledLog(frame[bin])
	before := scaledLog(frame[bin-1])
	after := scaledLog(frame[bin+1])

	// Parabolic interpolation over the three log magnitudes, in 1/64 bin.
	correction := 0.0
	if variation := 2*mag - before - after; variation > 0 {
		correction = (after - before) * 32 / variation
	}

	corrected := clampU16(float64(bin*64) + math.Trunc(correction))
	hz := float64(corrected) * (SampleRate / 2.0 / 1024 / 64)

	band, ok := BandForFrequency(hz)
	if !ok {
		return
	}

	g.peaks[band] = append(g.peaks[band], FrequencyPeak{
		PassNumber:   g.passes - recognitionLag,
		Magnitude:    clampU16(mag),
		CorrectedBin: corrected,
		SampleRateHz: SampleRate,
	})
}

func clampU16(v float64) uint16 {
	return uint16(min(max(v, 0), math.MaxUint16))
}
