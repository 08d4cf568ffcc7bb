// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package mask builds the soft clipping mask that drives highlight
// reconstruction (§4.5): a sigmoid of pixel norm centred on the
// reconstruction threshold.
package mask

import "math"

// MinPixelsToReconstruct is the count of above-opacity pixels at or
// below which reconstruction is skipped entirely (§4.5: "if the count is
// <= 9, report no reconstruction needed").
const MinPixelsToReconstruct = 9

// argCutoff is the arg value below which mask opacity exceeds ~5.88%
// (1/(1+2^4)).
const argCutoff = 4

// Build computes the clipping mask alpha for an interleaved 4-channel
// RGB buffer (first 3 channels only), and reports whether
// reconstruction is warranted. threshold and feather are the
// reconstruct_threshold/reconstruct_feather fields of the runtime
// data (§3).
func Build(src []float32, width, height int, threshold, feather float32) (alpha []float32, needed bool) {
	alpha = make([]float32, width*height)
	above := 0
	for i := 0; i < width*height; i++ {
		px := i * 4
		r, g, b := src[px], src[px+1], src[px+2]
		m := sqrtf(r*r + g*g + b*b)
		arg := -m*(feather/threshold) + feather
		alpha[i] = 1 / (1 + pow2(arg))
		if arg < argCutoff {
			above++
		}
	}
	return alpha, above > MinPixelsToReconstruct
}

func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func pow2(x float32) float32  { return float32(math.Exp2(float64(x))) }
