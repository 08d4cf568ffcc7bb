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

package curve

// Eval evaluates the spline at x (filmic_spline of §4.1): the toe
// polynomial below LatitudeMin, the shoulder polynomial above
// LatitudeMax, and the linear latitude segment in between. Each
// polynomial is evaluated by Horner's rule.
func Eval(s *Spline, x float32) float32 {
	switch {
	case x < s.LatitudeMin:
		return horner(s.Coeffs[segToe][:], x)
	case x > s.LatitudeMax:
		return horner(s.Coeffs[segShoulder][:], x)
	default:
		return horner(s.Coeffs[segLatitude][:], x)
	}
}

// horner evaluates sum_k c[k]*x^k via Horner's rule, highest degree
// first.
func horner(c []float32, x float32) float32 {
	v := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}
