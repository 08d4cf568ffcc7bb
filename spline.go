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

package filmictone

import "github.com/wisp-imaging/filmictone/internal/curve"

// ComputeSpline returns the spline Commit derives for p, for the
// on-canvas curve-rendering collaborator of §6
// ("compute_spline(params, spline_out)"). It runs the full Commit and
// discards the rest of the RuntimeData. On a degenerate solver
// pivot it returns curve.Identity() rather than an error, since the
// curve-drawing caller has no fallback path of its own.
func ComputeSpline(p ParamsV2) *curve.Spline {
	rt, err := Commit(p)
	if err != nil {
		return curve.Identity()
	}
	return rt.Spline
}
