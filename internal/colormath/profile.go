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

package colormath

import colorful "github.com/lucasb-eyer/go-colorful"

// Profile is the read-only working-color-space matrix the host
// supplies for luminance-weighted pixel norms (§1: "Any ICC
// working-profile lookup is a pure function supplied by the host").
// The core never parses an ICC profile itself; it only consumes the
// row of the RGB-to-XYZ matrix that produces Y.
type Profile struct {
	LuminanceRow [3]float32
}

// ProfileFromXYZPrimaries builds a Profile's luminance row from the
// CIE xy chromaticities of a working space's R, G and B primaries and
// its white point, matching how a host would derive it from an ICC
// profile's colorant tags. Useful for hosts that only have primaries
// on hand rather than a precomputed 3x3 matrix.
func ProfileFromXYZPrimaries(rXY, gXY, bXY, whiteXY [2]float32) *Profile {
	toXYZ := func(xy [2]float32) colorful.Color {
		x, y := float64(xy[0]), float64(xy[1])
		if y == 0 {
			return colorful.Color{R: 0, G: 0, B: 0}
		}
		Y := 1.0
		X := (x / y) * Y
		Z := ((1 - x - y) / y) * Y
		return colorful.Color{R: X, G: Y, B: Z}
	}
	rXYZ, gXYZ, bXYZ := toXYZ(rXY), toXYZ(gXY), toXYZ(bXY)
	wXYZ := toXYZ(whiteXY)

	// Solve for per-primary scale factors so R=G=B=1 maps to the
	// white point, the standard RGB-to-XYZ matrix construction.
	det := rXYZ.R*(gXYZ.G*bXYZ.B-gXYZ.B*bXYZ.G) -
		rXYZ.G*(gXYZ.R*bXYZ.B-gXYZ.B*bXYZ.R) +
		rXYZ.B*(gXYZ.R*bXYZ.G-gXYZ.G*bXYZ.R)
	if det == 0 {
		return &Profile{LuminanceRow: fallbackLuminanceWeights}
	}
	sr := (wXYZ.R*(gXYZ.G*bXYZ.B-gXYZ.B*bXYZ.G) - wXYZ.G*(gXYZ.R*bXYZ.B-gXYZ.B*bXYZ.R) + wXYZ.B*(gXYZ.R*bXYZ.G-gXYZ.G*bXYZ.R)) / det
	sg := (rXYZ.R*(wXYZ.G*bXYZ.B-wXYZ.B*bXYZ.G) - rXYZ.G*(wXYZ.R*bXYZ.B-wXYZ.B*bXYZ.R) + rXYZ.B*(wXYZ.R*bXYZ.G-wXYZ.G*bXYZ.R)) / det
	sb := (rXYZ.R*(gXYZ.G*wXYZ.B-gXYZ.B*wXYZ.G) - rXYZ.G*(gXYZ.R*wXYZ.B-gXYZ.B*wXYZ.R) + rXYZ.B*(gXYZ.R*wXYZ.G-gXYZ.G*wXYZ.R)) / det

	return &Profile{LuminanceRow: [3]float32{
		float32(sr * rXYZ.G),
		float32(sg * gXYZ.G),
		float32(sb * bXYZ.G),
	}}
}
