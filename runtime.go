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
	"math"

	"github.com/wisp-imaging/filmictone/internal/curve"
)

// minContrastSlack is the 1.0001 factor of §4.8's contrast clamp.
const minContrastSlack = 1.0001

// RuntimeData is what Commit produces (§3): the spline plus every
// scalar the pixel transformer and wavelet reconstructor need,
// computed once per parameter commit and then held immutably for the
// lifetime of one Process call.
type RuntimeData struct {
	Spline *curve.Spline

	DynamicRange float32
	GreySource   float32 // as a fraction, 2^GreySourceEV
	OutputPower  float32
	Contrast     float32 // effective, clamped

	SigmaToe      float32
	SigmaShoulder float32
	Saturation    float32 // effective, 2*p/100+1

	ReconstructThreshold float32
	ReconstructFeather   float32

	BloomVsDetails     float32 // remapped to 0..1
	GreyVsColor        float32
	StructureVsTexture float32

	Version SchemaVersion
}

// Commit is the pure transform of §4.8: params -> runtime data. It
// never mutates p and performs no I/O.
func Commit(p ParamsV2) (RuntimeData, error) {
	dynamicRange := p.WhiteSource - p.BlackSource
	greyLog := absf(p.BlackSource) / dynamicRange

	greyDisplay := float32(math.Pow(0.1845, float64(1/p.OutputPower)))
	if p.CustomGrey {
		greyDisplay = float32(math.Pow(float64(p.TargetGrey/100), float64(1/p.OutputPower)))
	}

	contrast := p.Contrast
	minContrast := minContrastSlack * greyDisplay / greyLog
	if contrast < minContrast {
		contrast = minContrast
	}

	blackDisplay := float32(math.Pow(float64(p.TargetBlack/100), float64(1/p.OutputPower)))
	whiteDisplay := float32(math.Pow(float64(p.TargetWhite/100), float64(1/p.OutputPower)))

	anchors := curve.Anchors{
		BlackSource: p.BlackSource,
		WhiteSource: p.WhiteSource,
		GreyLog:     greyLog,

		GreyDisplay:  greyDisplay,
		BlackDisplay: blackDisplay,
		WhiteDisplay: whiteDisplay,

		LatitudePercent: p.Latitude,
		Contrast:        contrast,
		BalancePercent:  p.Balance,

		ToeDegree:      curve.Degree(p.Shadows),
		ShoulderDegree: curve.Degree(p.Highlights),
	}

	spline, err := curve.Synthesize(anchors)
	if err != nil {
		spline = curve.Identity()
	}

	latitudeMin := spline.LatitudeMin
	latitudeMax := spline.LatitudeMax
	sigmaToe := (latitudeMin / 3) * (latitudeMin / 3)
	sigmaShoulder := ((1 - latitudeMax) / 3) * ((1 - latitudeMax) / 3)

	greySource := float32(math.Pow(2, float64(p.GreySource)))

	rt := RuntimeData{
		Spline: spline,

		DynamicRange: dynamicRange,
		GreySource:   greySource,
		OutputPower:  p.OutputPower,
		Contrast:     contrast,

		SigmaToe:      sigmaToe,
		SigmaShoulder: sigmaShoulder,
		Saturation:    2*p.Saturation/100 + 1,

		ReconstructThreshold: float32(math.Pow(2, float64(p.WhiteSource+p.ReconstructThreshold))) * greySource,
		ReconstructFeather:   float32(math.Pow(2, float64(12/p.ReconstructFeather))),

		BloomVsDetails:     remapMix(p.BloomVsDetails),
		GreyVsColor:        remapMix(p.GreyVsColor),
		StructureVsTexture: remapMix(p.StructureVsTexture),

		Version: SchemaVersion(p.Version),
	}
	return rt, err
}

// remapMix maps a -100..+100 slider to 0..1, per §3.
func remapMix(p float32) float32 {
	return (p/100 + 1) / 2
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
