// SPDX-License-Identifier: EPL-2.0

package signature

import "math"

// hanning holds the interior of a Hann window of WindowSize+2 points, so
// neither end of the analysis window is zeroed.
var hanning = func() [WindowSize]float64 {
	var w [WindowSize]float64
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i+1)/(WindowSize+1))
	}

	return w
}()
