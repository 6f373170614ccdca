// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestSinc(t *testing.T) {
	t.Parallel()

	if Sinc(0) != 1 {
		t.Errorf("Sinc(0) = %v, want 1", Sinc(0))
	}

	for _, x := range []float64{-3, -2, -1, 1, 2, 3} {
		if math.Abs(Sinc(x)) > 1e-12 {
			t.Errorf("Sinc(%v) = %v, want 0 at integer zero crossings", x, Sinc(x))
		}
	}

	if got := Sinc(0.5); math.Abs(got-2/math.Pi) > 1e-12 {
		t.Errorf("Sinc(0.5) = %v, want %v", got, 2/math.Pi)
	}
}

func TestHannSincOutsideWindow(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{-16, 16, 20, -100} {
		if got := HannSinc(x, 1, 16); got != 0 {
			t.Errorf("HannSinc(%v) = %v, want 0 outside window", x, got)
		}
	}
}

func TestHannSincUnityGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cutoff float64
		frac   float64
	}{
		{name: "full band on sample", cutoff: 1, frac: 0},
		{name: "full band between samples", cutoff: 1, frac: 0.37},
		{name: "44.1k to 16k", cutoff: 16000.0 / 44100.0, frac: 0.5},
		{name: "48k to 16k", cutoff: 1.0 / 3.0, frac: 0.21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			halfWidth := 16 / tt.cutoff
			sum := 0.0
			for k := -int(halfWidth) - 1; k <= int(halfWidth)+1; k++ {
				sum += HannSinc(tt.frac-float64(k), tt.cutoff, halfWidth)
			}

			if math.Abs(sum-1) > 0.02 {
				t.Errorf("kernel sum = %v, want ≈1", sum)
			}
		})
	}
}
