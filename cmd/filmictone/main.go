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

package main

import (
	"flag"
	"fmt"
	"os"

	filmictone "github.com/wisp-imaging/filmictone"
)

const version = "0.1.0"

var width = flag.Int64("width", 64, "synthetic test image width")
var height = flag.Int64("height", 64, "synthetic test image height")
var grey = flag.Float64("grey", 0.1845, "fill value for the synthetic test image, per channel")
var threshold = flag.Float64("threshold", 3, "reconstruct_threshold parameter, EV relative to white")
var hq = flag.Bool("hq", false, "enable high_quality_reconstruction")

func main() {
	flag.Parse()
	fmt.Printf("filmictone %s\n", version)

	w, h := int(*width), int(*height)
	in := make([]float32, w*h*4)
	for i := 0; i < w*h; i++ {
		px := i * 4
		in[px] = float32(*grey)
		in[px+1] = float32(*grey)
		in[px+2] = float32(*grey)
		in[px+3] = 1
	}

	p := filmictone.NewParamsV2Default()
	p.ReconstructThreshold = float32(*threshold)
	p.HighQualityReconstruction = *hq

	rt, err := filmictone.Commit(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commit: spline solver degraded to identity: %v\n", err)
	}

	out := make([]float32, w*h*4)
	roi := filmictone.ROI{Width: w, Height: h, Scale: 1}
	filmictone.Process(in, out, roi, roi, rt, p, nil)

	fmt.Printf("processed %dx%d, sample pixel (0,0): %.6f %.6f %.6f\n", w, h, out[0], out[1], out[2])
}
