// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Sinc returns the normalized sinc function sin(pi*x) / (pi*x).
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x
	return math.Sin(px) / px
}

// HannSinc evaluates a Hann-windowed low-pass sinc kernel at offset x,
// measured in input samples.
//
// cutoff is the pass band edge relative to the input Nyquist frequency
// (0 < cutoff <= 1) and halfWidth is the window half length in input
// samples. The kernel is zero outside (-halfWidth, halfWidth) and sums to
// roughly 1 over integer offsets, so DC gain is preserved.
func HannSinc(x, cutoff, halfWidth float64) float64 {
	if x <= -halfWidth || x >= halfWidth {
		return 0
	}

	window := 0.5 + 0.5*math.Cos(math.Pi*x/halfWidth)
	return cutoff * Sinc(cutoff*x) * window
}
