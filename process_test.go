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

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func fillConstant(width, height int, r, g, b float32) []float32 {
	buf := make([]float32, width*height*4)
	for i := 0; i < width*height; i++ {
		px := i * 4
		buf[px], buf[px+1], buf[px+2], buf[px+3] = r, g, b, 1
	}
	return buf
}

func TestProcessConstantGreyImage(t *testing.T) {
	width, height := 8, 8
	p := NewParamsV2Default()
	// Place the scene grey anchor exactly at the test pixel's value, so
	// the pixel lands precisely on the spline's grey node: log_tonemap
	// then evaluates to grey_log, and the spline by construction returns
	// grey_display there (§4.3's "identity grey" property of §8).
	p.GreySource = float32(math.Log2(0.1845))
	rt, err := Commit(p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	in := fillConstant(width, height, 0.1845, 0.1845, 0.1845)
	out := make([]float32, len(in))
	roi := ROI{Width: width, Height: height, Scale: 1}

	var logBuf bytes.Buffer
	prevWriter := LogWriter
	LogWriter = &logBuf
	defer func() { LogWriter = prevWriter }()

	Process(in, out, roi, roi, rt, p, nil)

	// Raising grey_display = (target_grey/100)^(1/output_power) back to
	// output_power in the display-gamma tail recovers target_grey/100
	// exactly, independent of output_power's value.
	want := p.TargetGrey / 100
	for c := 0; c < 3; c++ {
		if math.Abs(float64(out[c]-want)) > 1e-3 {
			t.Errorf("channel %d = %v, want close to %v", c, out[c], want)
		}
	}
}

func TestProcessBlackPixel(t *testing.T) {
	width, height := 4, 4
	p := NewParamsV2Default()
	rt, err := Commit(p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	in := fillConstant(width, height, 0, 0, 0)
	out := make([]float32, len(in))
	roi := ROI{Width: width, Height: height, Scale: 1}
	Process(in, out, roi, roi, rt, p, nil)

	// The toe segment's far-endpoint constraint pins the spline to
	// black_display at x=0, and raising it back to output_power in the
	// display tail recovers target_black/100 exactly.
	want := p.TargetBlack / 100
	for c := 0; c < 3; c++ {
		if math.Abs(float64(out[c]-want)) > 1e-4 {
			t.Errorf("channel %d = %v, want %v", c, out[c], want)
		}
	}
}

func TestProcessPureWhiteClippedTriggersReconstruction(t *testing.T) {
	width, height := 32, 32
	p := NewParamsV2Default()
	// Anchor scene grey at 18.45% so the 0 EV threshold lands at
	// 2^4 * 0.1845 ~= 2.95, below the 4.0-per-channel norm of ~6.93.
	p.GreySource = float32(math.Log2(0.1845))
	p.ReconstructThreshold = 0
	rt, err := Commit(p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	in := fillConstant(width, height, 4.0, 4.0, 4.0)
	out := make([]float32, len(in))
	roi := ROI{Width: width, Height: height, Scale: 1}

	var logBuf bytes.Buffer
	prevWriter := LogWriter
	LogWriter = &logBuf
	defer func() { LogWriter = prevWriter }()

	Process(in, out, roi, roi, rt, p, nil)

	if !strings.Contains(logBuf.String(), "reconstruct:") {
		t.Error("expected the wavelet reconstructor to run for a clipped image")
	}
	for i := 0; i < len(out); i++ {
		if math.IsNaN(float64(out[i])) {
			t.Fatalf("output contains NaN at index %d", i)
		}
	}
}

func TestProcessRejectsMismatchedChannelCount(t *testing.T) {
	width, height := 4, 4
	p := NewParamsV2Default()
	rt, _ := Commit(p)

	in := make([]float32, width*height*3) // wrong stride
	out := make([]float32, width*height*4)
	roi := ROI{Width: width, Height: height, Scale: 1}

	var logBuf bytes.Buffer
	prevWriter := LogWriter
	LogWriter = &logBuf
	defer func() { LogWriter = prevWriter }()

	Process(in, out, roi, roi, rt, p, nil)
	if logBuf.Len() == 0 {
		t.Error("expected a user-visible log message on channel count mismatch")
	}
}

func TestProcessRejectsMismatchedROI(t *testing.T) {
	p := NewParamsV2Default()
	rt, _ := Commit(p)
	in := fillConstant(4, 4, 0, 0, 0)
	out := make([]float32, 8*8*4)

	var logBuf bytes.Buffer
	prevWriter := LogWriter
	LogWriter = &logBuf
	defer func() { LogWriter = prevWriter }()

	Process(in, out, ROI{Width: 4, Height: 4, Scale: 1}, ROI{Width: 8, Height: 8, Scale: 1}, rt, p, nil)
	if logBuf.Len() == 0 {
		t.Error("expected a user-visible log message on ROI mismatch")
	}
}
