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

// Package pixel implements the four pixel-transformer variants (§4.7):
// split and chroma color handling, each in v1/v2 flavors, all sharing
// the same spline-evaluation and display-gamma tail. Grounded on
// nightlight's Image.ApplyPixelFunction in internal/fits/pixelops.go
// for the row-parallel, per-pixel-closure shape of the transform loop.
package pixel

import (
	"math"
	"runtime"

	"github.com/wisp-imaging/filmictone/internal/colormath"
	"github.com/wisp-imaging/filmictone/internal/curve"
)

// PreserveColor selects the color-handling variant.
type PreserveColor int

const (
	PreserveNone PreserveColor = iota
	PreserveMaxRGB
	PreserveLuminance
	PreservePowerNorm
)

// Version selects the v1/v2 desaturation formula.
type Version int

const (
	V1 Version = iota
	V2
)

// Params bundles the scalar state a transform needs per pixel,
// mirroring the relevant subset of the runtime data of §3.
type Params struct {
	Spline        *curve.Spline
	GreySource    float32
	BlackSource   float32
	DynamicRange  float32
	OutputPower   float32
	SigmaToe      float32
	SigmaShoulder float32
	Saturation    float32
	Preserve      PreserveColor
	Version       Version
	NormVariant   colormath.NormVariant
	Profile       *colormath.Profile
}

// Transform fills dst (width*height*4 interleaved float32, 4th channel
// alpha/unused passed through) from src of the same shape, dispatching
// to one of the four variants of §4.7 by (Preserve, Version). Rows are
// split across worker goroutines via a semaphore, the same
// row-striped worker-pool idiom the blur package uses,
// following nightlight's Image.ApplyPixelFunction.
func Transform(dst, src []float32, width, height int, p Params) {
	fn := selectVariant(p)
	numBatches := 8 * runtime.NumCPU()
	if numBatches > height {
		numBatches = height
	}
	if numBatches < 1 {
		numBatches = 1
	}
	batchSize := (height + numBatches - 1) / numBatches
	sem := make(chan bool, runtime.NumCPU())
	for y0 := 0; y0 < height; y0 += batchSize {
		y1 := y0 + batchSize
		if y1 > height {
			y1 = height
		}
		sem <- true
		go func(y0, y1 int) {
			defer func() { <-sem }()
			for y := y0; y < y1; y++ {
				rowBase := y * width * 4
				for x := 0; x < width; x++ {
					px := rowBase + x*4
					r, g, b := fn(src[px], src[px+1], src[px+2], p)
					dst[px] = r
					dst[px+1] = g
					dst[px+2] = b
					dst[px+3] = src[px+3]
				}
			}
		}(y0, y1)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
}

type variantFunc func(r, g, b float32, p Params) (float32, float32, float32)

func selectVariant(p Params) variantFunc {
	if p.Preserve == PreserveNone {
		if p.Version == V1 {
			return splitPixel(true)
		}
		return splitPixel(false)
	}
	if p.Version == V1 {
		return chromaV1Pixel
	}
	return chromaV2Pixel
}

func splitPixel(v1 bool) variantFunc {
	return func(r, g, b float32, p Params) (float32, float32, float32) {
		rr := colormath.Floor(r)
		gg := colormath.Floor(g)
		bb := colormath.Floor(b)
		tr := colormath.LogTonemap(rr, p.GreySource, p.BlackSource, p.DynamicRange, v1)
		tg := colormath.LogTonemap(gg, p.GreySource, p.BlackSource, p.DynamicRange, v1)
		tb := colormath.LogTonemap(bb, p.GreySource, p.BlackSource, p.DynamicRange, v1)
		lum := colormath.GetPixelNorm(tr, tg, tb, colormath.NormLuminance, p.Profile)
		var desat float32
		if v1 {
			desat = colormath.FilmicDesaturateV1(lum, p.SigmaToe, p.SigmaShoulder, p.Saturation)
		} else {
			desat = colormath.FilmicDesaturateV2(lum, p.SigmaToe, p.SigmaShoulder, p.Saturation)
		}
		tr = colormath.LinearSaturation(tr, lum, desat)
		tg = colormath.LinearSaturation(tg, lum, desat)
		tb = colormath.LinearSaturation(tb, lum, desat)
		return outputTail(tr, p), outputTail(tg, p), outputTail(tb, p)
	}
}

func chromaV1Pixel(r, g, b float32, p Params) (float32, float32, float32) {
	norm := colormath.Floor(colormath.GetPixelNorm(r, g, b, p.NormVariant, p.Profile))
	ratioR := r / norm
	ratioG := g / norm
	ratioB := b / norm
	minRatio := minf3(ratioR, ratioG, ratioB)
	if minRatio < 0 {
		ratioR -= minRatio
		ratioG -= minRatio
		ratioB -= minRatio
	}
	tnorm := colormath.LogTonemap(norm, p.GreySource, p.BlackSource, p.DynamicRange, true)
	desat := colormath.FilmicDesaturateV1(tnorm, p.SigmaToe, p.SigmaShoulder, p.Saturation)

	sr := ratioR * norm
	sg := ratioG * norm
	sb := ratioB * norm
	lum := colormath.GetPixelNorm(sr, sg, sb, colormath.NormLuminance, p.Profile)

	ratioR = colormath.LinearSaturation(sr, lum, desat) / norm
	ratioG = colormath.LinearSaturation(sg, lum, desat) / norm
	ratioB = colormath.LinearSaturation(sb, lum, desat) / norm

	outNorm := curve.Eval(p.Spline, tnorm)
	outNorm = colormath.Clamp01(outNorm)
	outNorm = powf(outNorm, p.OutputPower)
	return ratioR * outNorm, ratioG * outNorm, ratioB * outNorm
}

func chromaV2Pixel(r, g, b float32, p Params) (float32, float32, float32) {
	norm := colormath.Floor(colormath.GetPixelNorm(r, g, b, p.NormVariant, p.Profile))
	ratioR := r / norm
	ratioG := g / norm
	ratioB := b / norm
	minRatio := minf3(ratioR, ratioG, ratioB)
	if minRatio < 0 {
		ratioR -= minRatio
		ratioG -= minRatio
		ratioB -= minRatio
	}
	tnorm := colormath.LogTonemap(norm, p.GreySource, p.BlackSource, p.DynamicRange, false)
	desat := colormath.FilmicDesaturateV2(tnorm, p.SigmaToe, p.SigmaShoulder, p.Saturation)
	outNorm := curve.Eval(p.Spline, tnorm)
	outNorm = colormath.Clamp01(outNorm)
	outNorm = powf(outNorm, p.OutputPower)

	ratioR = maxf2(ratioR+(1-ratioR)*(1-desat), 0)
	ratioG = maxf2(ratioG+(1-ratioG)*(1-desat), 0)
	ratioB = maxf2(ratioB+(1-ratioB)*(1-desat), 0)

	outR := ratioR * outNorm
	outG := ratioG * outNorm
	outB := ratioB * outNorm

	maxOut := maxf3(outR, outG, outB)
	if maxOut > 1 {
		ratioR = maxf2(ratioR+(1-maxOut), 0)
		ratioG = maxf2(ratioG+(1-maxOut), 0)
		ratioB = maxf2(ratioB+(1-maxOut), 0)
		outR = colormath.Clamp01(ratioR * outNorm)
		outG = colormath.Clamp01(ratioG * outNorm)
		outB = colormath.Clamp01(ratioB * outNorm)
	}
	return outR, outG, outB
}

// outputTail evaluates the spline at a log-encoded value and applies
// the shared clamp + display-gamma tail, for the split variants.
func outputTail(t float32, p Params) float32 {
	v := curve.Eval(p.Spline, t)
	v = colormath.Clamp01(v)
	return powf(v, p.OutputPower)
}

func powf(x, e float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Pow(float64(x), float64(e)))
}

func minf3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxf3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func maxf2(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
