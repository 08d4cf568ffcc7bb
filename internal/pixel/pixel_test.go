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

package pixel

import (
	"testing"

	"github.com/wisp-imaging/filmictone/internal/colormath"
	"github.com/wisp-imaging/filmictone/internal/curve"
)

func testParams(preserve PreserveColor, v Version) Params {
	return Params{
		Spline:        curve.Identity(),
		GreySource:    1,
		BlackSource:   -8,
		DynamicRange:  12,
		OutputPower:   2.2,
		SigmaToe:      0.01,
		SigmaShoulder: 0.01,
		Saturation:    1,
		Preserve:      preserve,
		Version:       v,
		NormVariant:   colormath.NormLuminance,
	}
}

func TestTransformBlackPixel(t *testing.T) {
	width, height := 1, 1
	src := []float32{0, 0, 0, 1}
	dst := make([]float32, 4)
	Transform(dst, src, width, height, testParams(PreserveNone, V2))
	for c := 0; c < 3; c++ {
		if dst[c] < 0 || dst[c] > 1e-3 {
			t.Errorf("channel %d = %v, want ~0", c, dst[c])
		}
	}
	if dst[3] != 1 {
		t.Errorf("4th channel not passed through: %v", dst[3])
	}
}

func TestChromaV2GamutClamp(t *testing.T) {
	width, height := 1, 1
	// A bright, saturated pixel likely to overflow before gamut mapping.
	src := []float32{50, 0.001, 0.001, 1}
	dst := make([]float32, 4)
	Transform(dst, src, width, height, testParams(PreserveLuminance, V2))
	for c := 0; c < 3; c++ {
		if dst[c] < 0 || dst[c] > 1 {
			t.Fatalf("channel %d = %v, out of [0,1] after gamut mapping", c, dst[c])
		}
	}
}

func TestChromaV1NegativeChannelSanitised(t *testing.T) {
	width, height := 1, 1
	src := []float32{-0.1, 0.5, 0.5, 1}
	dst := make([]float32, 4)
	Transform(dst, src, width, height, testParams(PreserveMaxRGB, V1))
	for c := 0; c < 3; c++ {
		v := dst[c]
		if v != v { // NaN check
			t.Fatalf("channel %d is NaN", c)
		}
	}
	if dst[0] > dst[1] || dst[0] > dst[2] {
		t.Errorf("expected R <= G,B after sanitising a negative red channel, got (%v %v %v)", dst[0], dst[1], dst[2])
	}
}

func TestSplitIdentityGrey(t *testing.T) {
	width, height := 1, 1
	grey := float32(0.1845)
	src := []float32{grey, grey, grey, 1}
	dst := make([]float32, 4)
	p := testParams(PreserveNone, V2)
	p.GreySource = grey
	p.Spline = curve.Identity()
	Transform(dst, src, width, height, p)
	// Identity spline over a log-mapped grey point evaluates to the
	// input's normalized log position raised to OutputPower; just
	// assert it is finite and within range rather than pinning an
	// exact constant tied to the identity spline's shape.
	for c := 0; c < 3; c++ {
		if dst[c] < 0 || dst[c] > 1 {
			t.Errorf("channel %d = %v, out of range", c, dst[c])
		}
	}
}
