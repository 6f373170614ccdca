// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"
	"math/rand"
)

// Sine16 returns n samples of a sine at freq Hz with peak amplitude amp.
func Sine16(n, rate int, freq float64, amp float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}

	return out
}

// Burst writes a Hann-enveloped tone of length samples into pcm starting at
// start. Samples are added to what is already there and saturate at the
// int16 limits.
func Burst(pcm []int16, start, length, rate int, freq, amp float64) {
	for i := range length {
		j := start + i
		if j < 0 || j >= len(pcm) {
			continue
		}

		env := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(length))
		v := float64(pcm[j]) + amp*env*math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		pcm[j] = int16(max(math.MinInt16, min(math.MaxInt16, v)))
	}
}

// Noise returns n samples of uniform noise in [-amp, amp] from a seeded
// generator, so the same seed always yields the same samples.
func Noise(n int, seed int64, amp int) []int16 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]int16, n)
	for i := range out {
		out[i] = int16(rng.Intn(2*amp+1) - amp)
	}

	return out
}
