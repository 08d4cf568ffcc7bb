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

// Package curve synthesizes the five-node piecewise-polynomial
// tone-mapping spline from a set of scene/display anchors, and
// evaluates it. It knows nothing about the host-facing parameter
// record; the root package translates Params into an Anchors value.
package curve

import (
	"math"

	"github.com/wisp-imaging/filmictone/internal/solve"
)

// Degree selects the polynomial family fit to an outer (toe/shoulder)
// segment: Quartic adds a zero-derivative constraint at the curve's
// outer endpoint, Cubic drops it (§4.3 "plus, for the quartic
// variant, first derivative = 0 at the end-point").
type Degree int

const (
	Cubic   Degree = 3
	Quartic Degree = 4
)

// Anchors collects every scalar the curve synthesizer needs, already
// derived from the host-facing Params by the caller.
type Anchors struct {
	BlackSource float32 // EV, negative
	WhiteSource float32 // EV, positive
	GreyLog     float32 // |BlackSource| / DynamicRange; node position of scene grey in log coordinates

	GreyDisplay  float32 // display-domain value at GreyLog
	BlackDisplay float32 // display-domain value at x=0
	WhiteDisplay float32 // display-domain value at x=1

	LatitudePercent float32 // width of the linear section, 0..100
	Contrast        float32 // slope of the linear section (already clamped by the caller)
	BalancePercent  float32 // shoulder/toe shift, -50..+50

	ToeDegree      Degree
	ShoulderDegree Degree
}

// Spline is the derived, recomputed-per-commit five-node piecewise
// polynomial described in §3. Coeffs[seg][k] is the coefficient of
// x^k (k=0..4) in segment seg's polynomial (seg: 0=toe, 1=shoulder,
// 2=latitude); unused high-order terms of a cubic segment are zero.
type Spline struct {
	X [5]float32
	Y [5]float32

	Coeffs [3][5]float32

	LatitudeMin float32 // X[1]
	LatitudeMax float32 // X[3]
}

const (
	segToe      = 0
	segShoulder = 1
	segLatitude = 2
)

// Synthesize derives the spline's nodes and segment coefficients from
// a. It solves two independent small linear systems (toe, shoulder)
// via the solve package; a degenerate pivot is reported as
// solve.ErrSingular, and per §7 the caller may fall back to an
// identity spline rather than treat it as fatal.
func Synthesize(a Anchors) (*Spline, error) {
	dynamicRange := a.WhiteSource - a.BlackSource

	latitudeScaled := (a.LatitudePercent / 100) * dynamicRange
	toeOffset := (latitudeScaled / dynamicRange) * absf(a.BlackSource/dynamicRange)
	shoulderOffset := (latitudeScaled / dynamicRange) * absf(a.WhiteSource/dynamicRange)

	toeLog := a.GreyLog - toeOffset
	shoulderLog := a.GreyLog + shoulderOffset

	b := a.GreyDisplay - a.Contrast*a.GreyLog
	yToe := a.Contrast*toeLog + b
	yShoulder := a.Contrast*shoulderLog + b

	// Balance: shift both outer nodes along the linear segment's slope.
	norm := sqrtf(a.Contrast*a.Contrast + 1)
	c := -(2 * latitudeScaled / dynamicRange) * (a.BalancePercent / 100)
	toeLog += c / norm
	shoulderLog += c / norm
	yToe += c * a.Contrast / norm
	yShoulder += c * a.Contrast / norm

	s := &Spline{
		X:           [5]float32{0, toeLog, a.GreyLog, shoulderLog, 1},
		Y:           [5]float32{a.BlackDisplay, yToe, a.GreyDisplay, yShoulder, a.WhiteDisplay},
		LatitudeMin: toeLog,
		LatitudeMax: shoulderLog,
	}

	toeCoeffs, err := fitOuterSegment(a.ToeDegree, 0, toeLog, s.Y[0], s.Y[1], a.Contrast)
	if err != nil {
		return nil, err
	}
	shoulderCoeffs, err := fitOuterSegment(a.ShoulderDegree, 1, shoulderLog, s.Y[4], s.Y[3], a.Contrast)
	if err != nil {
		return nil, err
	}
	s.Coeffs[segToe] = toeCoeffs
	s.Coeffs[segShoulder] = shoulderCoeffs
	s.Coeffs[segLatitude][0] = s.Y[1] - a.Contrast*s.X[1]
	s.Coeffs[segLatitude][1] = a.Contrast

	return s, nil
}

// Identity returns a pass-through spline (linear 0..1, contrast 1)
// used as the §7 fallback when the solver reports a degenerate pivot.
func Identity() *Spline {
	return &Spline{
		X:           [5]float32{0, 0.25, 0.5, 0.75, 1},
		Y:           [5]float32{0, 0.25, 0.5, 0.75, 1},
		LatitudeMin: 0.25,
		LatitudeMax: 0.75,
		Coeffs: [3][5]float32{
			segToe:      {0, 1, 0, 0, 0},
			segShoulder: {0, 1, 0, 0, 0},
			segLatitude: {0, 1, 0, 0, 0},
		},
	}
}

// fitOuterSegment solves for the polynomial coefficients of an outer
// segment given its far endpoint xe (0 for toe, 1 for shoulder with
// value ye), the adjacent latitude node (xn, yn), and the contrast
// the segment must match in value and first derivative at xn.
func fitOuterSegment(deg Degree, xe, xn, ye, yn, contrast float32) ([5]float32, error) {
	n := int(deg) + 1
	a := make([]float64, n*n)
	bRhs := make([]float64, n)
	row := 0

	setRow := func(coeffs []float64, rhs float64) {
		copy(a[row*n:row*n+n], coeffs)
		bRhs[row] = rhs
		row++
	}

	// P(xe) = ye
	setRow(powRow(n, float64(xe), 0), float64(ye))
	// P(xn) = yn
	setRow(powRow(n, float64(xn), 0), float64(yn))
	// P'(xn) = contrast
	setRow(derivRow(n, float64(xn), 1), float64(contrast))
	// P''(xn) = 0
	setRow(derivRow(n, float64(xn), 2), 0)
	if deg == Quartic {
		// P'(xe) = 0
		setRow(derivRow(n, float64(xe), 1), 0)
	}

	x, err := solve.Solve(n, a, bRhs)
	if err != nil {
		return [5]float32{}, err
	}
	var out [5]float32
	for i, v := range x {
		out[i] = float32(v)
	}
	return out, nil
}

// powRow returns the row of coefficients for evaluating
// sum_k c_k * x^k at point x (the `order`-th derivative, order=0
// meaning the value itself).
func powRow(n int, x float64, order int) []float64 {
	return derivRow(n, x, order)
}

// derivRow returns the row of coefficients for the `order`-th
// derivative of sum_k c_k x^k evaluated at x: coefficient of c_k is
// the order-th derivative factor (falling factorial) times x^(k-order),
// or 0 when k<order.
func derivRow(n int, x float64, order int) []float64 {
	row := make([]float64, n)
	for k := 0; k < n; k++ {
		if k < order {
			row[k] = 0
			continue
		}
		factor := 1.0
		for i := 0; i < order; i++ {
			factor *= float64(k - i)
		}
		row[k] = factor * ipow(x, k-order)
	}
	return row
}

func ipow(x float64, p int) float64 {
	if p <= 0 {
		return 1
	}
	v := 1.0
	for i := 0; i < p; i++ {
		v *= x
	}
	return v
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
