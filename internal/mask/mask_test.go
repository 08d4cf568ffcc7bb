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

package mask

import "testing"

func TestBuildPureWhiteClipped(t *testing.T) {
	width, height := 16, 16
	src := make([]float32, width*height*4)
	for i := 0; i < width*height; i++ {
		px := i * 4
		src[px] = 4.0
		src[px+1] = 4.0
		src[px+2] = 4.0
		src[px+3] = 1.0
	}
	alpha, needed := Build(src, width, height, 1 /* threshold, EV 0 -> linear 1 */, 1)
	if !needed {
		t.Fatal("expected reconstruction to be needed for a fully clipped image")
	}
	for i, a := range alpha {
		if a < 0.95 {
			t.Fatalf("pixel %d: alpha = %v, want >= 0.95", i, a)
		}
	}
}

func TestBuildBelowMinPixelsSkipsReconstruction(t *testing.T) {
	width, height := 16, 16
	src := make([]float32, width*height*4)
	for i := 0; i < width*height; i++ {
		px := i * 4
		src[px], src[px+1], src[px+2] = 0.01, 0.01, 0.01
		src[px+3] = 1
	}
	// feather 16 is the runtime value 2^(12/3) for the default 3 EV
	// feather; with feather 1, arg never exceeds 1 and every pixel counts.
	_, needed := Build(src, width, height, 1, 16)
	if needed {
		t.Fatal("expected no reconstruction needed for a dark image")
	}
}

func TestBuildMonotonicWithNorm(t *testing.T) {
	width, height := 1, 5
	src := make([]float32, width*height*4)
	norms := []float32{0.01, 0.5, 1.0, 2.0, 8.0}
	for i, n := range norms {
		px := i * 4
		src[px], src[px+1], src[px+2] = n, 0, 0
		src[px+3] = 1
	}
	alpha, _ := Build(src, width, height, 1, 2)
	for i := 1; i < len(alpha); i++ {
		if alpha[i] <= alpha[i-1] {
			t.Fatalf("alpha not monotonically increasing with norm: alpha[%d]=%v <= alpha[%d]=%v",
				i, alpha[i], i-1, alpha[i-1])
		}
	}
}
