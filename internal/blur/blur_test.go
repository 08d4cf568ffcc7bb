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

package blur

import "testing"

func constImage(width, height int, r, g, b, a float32) []float32 {
	buf := make([]float32, width*height*4)
	for i := 0; i < width*height; i++ {
		px := i * 4
		buf[px], buf[px+1], buf[px+2], buf[px+3] = r, g, b, a
	}
	return buf
}

func TestHorizontalVerticalPreserveConstant(t *testing.T) {
	width, height := 12, 9
	src := constImage(width, height, 0.3, 0.6, 0.9, 1)
	dst := make([]float32, len(src))
	tmp := make([]float32, len(src))

	Horizontal(tmp, src, width, height, 1)
	Vertical(dst, tmp, width, height, 1)

	for i := 0; i < width*height; i++ {
		px := i * 4
		if absf(dst[px]-0.3) > 1e-5 || absf(dst[px+1]-0.6) > 1e-5 || absf(dst[px+2]-0.9) > 1e-5 {
			t.Fatalf("pixel %d: got (%v %v %v), want (0.3 0.6 0.9)", i, dst[px], dst[px+1], dst[px+2])
		}
		if dst[px+3] != 1 {
			t.Fatalf("pixel %d: 4th channel not passed through: %v", i, dst[px+3])
		}
	}
}

func TestHorizontalClampBoundary(t *testing.T) {
	width, height := 5, 1
	src := make([]float32, width*4)
	src[0*4] = 10 // single bright pixel at x=0, rest zero
	src[0*4+3] = 1
	dst := make([]float32, len(src))
	Horizontal(dst, src, width, height, 1)

	// Kernel is symmetric [1,4,6,4,1]/16; a clamp boundary duplicates
	// the edge pixel instead of treating it as zero, so x=0's result
	// should combine the weight of taps that would read x=-1 and x=-2
	// with the real pixel's own weight, strictly more than using only
	// the interior taps.
	if dst[0] <= 10*6.0/16 {
		t.Errorf("clamp boundary not applied: dst[0]=%v", dst[0])
	}
}

func TestMonoBlurPreservesConstant(t *testing.T) {
	width, height := 4, 4
	src := make([]float32, width*height)
	for i := range src {
		src[i] = float32(i)
	}
	tmp := make([]float32, len(src))
	dst := make([]float32, len(src))
	HorizontalMono(tmp, src, width, height, 1)
	VerticalMono(dst, tmp, width, height, 1)

	// A constant field should stay constant; use a constant field as a
	// simpler invariant than reproducing the convolution by hand.
	constSrc := make([]float32, width*height)
	for i := range constSrc {
		constSrc[i] = 5
	}
	constTmp := make([]float32, len(constSrc))
	constDst := make([]float32, len(constSrc))
	HorizontalMono(constTmp, constSrc, width, height, 1)
	VerticalMono(constDst, constTmp, width, height, 1)
	for i, v := range constDst {
		if absf(v-5) > 1e-5 {
			t.Fatalf("mono blur of constant field not constant at %d: %v", i, v)
		}
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
