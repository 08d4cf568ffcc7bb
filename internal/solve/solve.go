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

// Package solve provides the small dense linear solver used by the
// curve synthesizer to fit the toe and shoulder polynomials.
// nightlight reaches for gonum.org/v1/gonum for numerical work of
// comparable weight (internal/star/align.go, internal/stats/histogram.go
// both import gonum/optimize), so this solves via gonum/mat's LU
// decomposition rather than a hand-rolled elimination routine.
package solve

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the system matrix has no usable pivot,
// i.e. Gaussian elimination with partial pivoting would stall. Per
// spec §4.2/§7 this should not occur for well-formed spline anchors;
// callers treat it as non-fatal and fall back to an identity spline.
var ErrSingular = errors.New("solve: degenerate pivot, system is singular or near-singular")

// pivotEpsilon is the minimum acceptable reciprocal condition number
// (1/Cond) after LU factorization; below it we report ErrSingular
// instead of returning a numerically meaningless solution.
const pivotEpsilon = 1e-9

// Solve solves the dense n x n system a*x = b for n in {4, 5}, where a
// is stored row-major (a[i*n+j] is row i, column j). Returns
// ErrSingular on a degenerate pivot.
func Solve(n int, a []float64, b []float64) ([]float64, error) {
	if len(a) != n*n || len(b) != n {
		return nil, errors.New("solve: dimension mismatch")
	}
	A := mat.NewDense(n, n, append([]float64(nil), a...))
	B := mat.NewVecDense(n, append([]float64(nil), b...))

	var lu mat.LU
	lu.Factorize(A)
	if cond := lu.Cond(); cond > 1/pivotEpsilon {
		return nil, ErrSingular
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, B); err != nil {
		return nil, ErrSingular
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
