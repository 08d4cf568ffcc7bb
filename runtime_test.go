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

import "testing"

func TestCommitDefaultParams(t *testing.T) {
	p := NewParamsV2Default()
	rt, err := Commit(p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if rt.Spline == nil {
		t.Fatal("Commit produced a nil spline")
	}
	if rt.DynamicRange <= 0 {
		t.Errorf("DynamicRange = %v, want > 0", rt.DynamicRange)
	}
	if rt.Contrast < p.Contrast*0.999 {
		// contrast is only ever clamped upward
		t.Errorf("Contrast = %v below configured %v", rt.Contrast, p.Contrast)
	}
}

func TestCommitContrastClamp(t *testing.T) {
	p := NewParamsV2Default()
	// Shrink the dynamic range so grey_log grows and the configured
	// contrast falls under the required minimum (§8 scenario 6).
	p.BlackSource = -1
	p.WhiteSource = 1
	p.Contrast = 0.01

	rt, err := Commit(p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	greyLog := absf32(p.BlackSource) / (p.WhiteSource - p.BlackSource)
	greyDisplay := rt.Spline.Y[2]
	minContrast := greyDisplay / greyLog
	if rt.Contrast <= minContrast {
		t.Errorf("Contrast = %v, want > %v (grey_display/grey_log)", rt.Contrast, minContrast)
	}
}

func TestComputeSplineIdentityFallbackNeverPanics(t *testing.T) {
	p := NewParamsV2Default()
	// Latitude 100% puts the toe node at x=0 and the shoulder node at
	// x=1, so both outer systems have repeated rows and the solver
	// reports a degenerate pivot.
	p.Latitude = 100
	s := ComputeSpline(p)
	if s == nil {
		t.Fatal("ComputeSpline returned nil")
	}
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
