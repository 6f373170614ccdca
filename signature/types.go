// SPDX-License-Identifier: EPL-2.0

package signature

import "fmt"

// FrequencyBand buckets peaks by frequency. Values double as the band index
// in the wire format.
type FrequencyBand int

const (
	Band250To520 FrequencyBand = iota
	Band520To1450
	Band1450To3500
	Band3500To5500
)

// Bands lists every band in wire order.
var Bands = [...]FrequencyBand{Band250To520, Band520To1450, Band1450To3500, Band3500To5500}

var bandEdges = [...][2]float64{
	Band250To520:   {250, 520},
	Band520To1450:  {520, 1450},
	Band1450To3500: {1450, 3500},
	Band3500To5500: {3500, 5500},
}

// Range returns the half-open interval [lo, hi) in Hz covered by b.
func (b FrequencyBand) Range() (lo, hi float64) {
	if !b.Valid() {
		return 0, 0
	}

	return bandEdges[b][0], bandEdges[b][1]
}

func (b FrequencyBand) Valid() bool {
	return b >= Band250To520 && b <= Band3500To5500
}

func (b FrequencyBand) String() string {
	if !b.Valid() {
		return fmt.Sprintf("FrequencyBand(%d)", int(b))
	}

	lo, hi := b.Range()
	return fmt.Sprintf("%.0f-%.0f Hz", lo, hi)
}

// BandForFrequency classifies hz. Frequencies below 250 Hz or at and above
// 5500 Hz belong to no band.
func BandForFrequency(hz float64) (FrequencyBand, bool) {
	for _, b := range Bands {
		if lo, hi := b.Range(); hz >= lo && hz < hi {
			return b, true
		}
	}

	return 0, false
}

// FrequencyPeak is one spectral peak confirmed by the generator.
type FrequencyPeak struct {
	// PassNumber is the index of the analysis hop the peak belongs to.
	PassNumber uint32
	// Magnitude is the log-scaled peak magnitude.
	Magnitude uint16
	// CorrectedBin is the FFT bin times 64 plus the sub-bin correction.
	CorrectedBin uint16
	SampleRateHz uint32
}

// FrequencyHz converts the corrected bin back to a frequency.
func (p FrequencyPeak) FrequencyHz() float64 {
	return float64(p.CorrectedBin) * float64(p.SampleRateHz) / 2 / 1024 / 64
}

// Seconds is the position of the peak's analysis hop in the input.
func (p FrequencyPeak) Seconds() float64 {
	return float64(p.PassNumber) * HopSize / float64(p.SampleRateHz)
}

// DecodedSignature is the structured fingerprint of a PCM buffer.
type DecodedSignature struct {
	SampleRateHz  uint32
	NumberSamples uint32
	Peaks         map[FrequencyBand][]FrequencyPeak
}

// DurationMs is the length of the fingerprinted audio in milliseconds.
func (s *DecodedSignature) DurationMs() uint32 {
	if s.SampleRateHz == 0 {
		return 0
	}

	return uint32(float64(s.NumberSamples) / float64(s.SampleRateHz) * 1000)
}

// PeakCount is the total number of peaks across all bands.
func (s *DecodedSignature) PeakCount() int {
	n := 0
	for _, peaks := range s.Peaks {
		n += len(peaks)
	}

	return n
}
