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
	"fmt"
	"io"
	"os"

	"github.com/wisp-imaging/filmictone/internal/colormath"
	"github.com/wisp-imaging/filmictone/internal/mask"
	"github.com/wisp-imaging/filmictone/internal/pixel"
	"github.com/wisp-imaging/filmictone/internal/wavelet"
)

// ROI describes the region of the working buffer a Process call
// covers, and the zoom factor the host is currently rendering at
// (§6's "roi.scale and piece.iscale provide the zoom factor consumed
// by the scale count formula").
type ROI struct {
	Width, Height int
	Scale         float32 // roi.scale / piece.iscale, combined by the host
}

// LogWriter is where Process and its collaborators report user-
// visible diagnostics (channel-count rejection, scratch allocation
// fallback). Defaults to os.Stdout, following nightlight's singleton
// LogPrintf in internal/log.go, adapted here to an injectable
// io.Writer so library callers aren't forced onto process-wide
// stdout.
var LogWriter io.Writer = os.Stdout

// Process fills out from in per §6: in and out are 4-channel
// interleaved float32 buffers (RGB + a 4th channel carried through
// unchanged), roiIn and roiOut must agree on width and height, and rt
// is the committed runtime data from Commit. profile may be nil.
//
// If reconstruction is warranted and the reconstructor's scratch memory
// budget check fails, Process falls back to tone-mapping the original,
// unreconstructed input (§7).
func Process(in, out []float32, roiIn, roiOut ROI, rt RuntimeData, p ParamsV2, profile *colormath.Profile) {
	width, height := roiOut.Width, roiOut.Height
	if roiIn.Width != roiOut.Width || roiIn.Height != roiOut.Height {
		fmt.Fprintf(LogWriter, "process: roi_in and roi_out dimensions differ (%dx%d vs %dx%d)\n",
			roiIn.Width, roiIn.Height, roiOut.Width, roiOut.Height)
		return
	}
	wantLen := width * height * 4
	if len(in) != wantLen || len(out) != wantLen {
		fmt.Fprintf(LogWriter, "process: input channel count != 4, skipping\n")
		return
	}

	source := in
	alphaMask, needed := mask.Build(in, width, height, rt.ReconstructThreshold, rt.ReconstructFeather)
	if needed {
		reconstructed := make([]float32, len(in))
		opt := wavelet.Options{
			Zoom:        roiOut.Scale,
			Threshold:   rt.ReconstructThreshold,
			Feather:     rt.ReconstructFeather,
			HighQuality: p.HighQualityReconstruction,
			NormVariant: normVariantFor(p.Preserve),
			Profile:     profile,
			Mixes: wavelet.Mixes{
				BloomVsDetails:     rt.BloomVsDetails,
				GreyVsColor:        rt.GreyVsColor,
				StructureVsTexture: rt.StructureVsTexture,
			},
		}
		if wavelet.Reconstruct(reconstructed, in, alphaMask, width, height, opt, LogWriter) {
			source = reconstructed
		}
	}

	pp := pixel.Params{
		Spline:        rt.Spline,
		GreySource:    rt.GreySource,
		BlackSource:   p.BlackSource,
		DynamicRange:  rt.DynamicRange,
		OutputPower:   rt.OutputPower,
		SigmaToe:      rt.SigmaToe,
		SigmaShoulder: rt.SigmaShoulder,
		Saturation:    rt.Saturation,
		Preserve:      pixelPreserveFor(p.Preserve),
		Version:       pixelVersionFor(rt.Version),
		NormVariant:   normVariantFor(p.Preserve),
		Profile:       profile,
	}

	pixel.Transform(out, source, width, height, pp)
}

func normVariantFor(p PreserveColor) colormath.NormVariant {
	switch p {
	case PreserveMaxRGB:
		return colormath.NormMax
	case PreservePowerNorm:
		return colormath.NormPower
	default:
		return colormath.NormLuminance
	}
}

func pixelPreserveFor(p PreserveColor) pixel.PreserveColor {
	if p == PreserveNone {
		return pixel.PreserveNone
	}
	return pixel.PreserveMaxRGB
}

func pixelVersionFor(v SchemaVersion) pixel.Version {
	if v == VersionV1 {
		return pixel.V1
	}
	return pixel.V2
}
