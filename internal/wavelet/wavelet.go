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

// Package wavelet implements the multi-scale à-trous inpainting
// reconstructor (§4.6): it fills clipped highlight regions with
// achromatic structure plus recovered color detail, band by band.
package wavelet

import (
	"fmt"
	"io"
	"math"

	"github.com/wisp-imaging/filmictone/internal/blur"
	"github.com/wisp-imaging/filmictone/internal/colormath"
)

const filterSize = 5
const minScales = 1
const maxScales = 12

// NumScales computes the number of wavelet scales for a reconstruction
// at the given rendering zoom, per §4.6.
func NumScales(maxDim int, zoom float32) int {
	v := 2*float64(maxDim)*float64(zoom)/((filterSize-1)*filterSize) - 1
	s := int(math.Floor(math.Log2(v)))
	if s < minScales {
		return minScales
	}
	if s > maxScales {
		return maxScales
	}
	return s
}

// Mixes carries the three -100..+100 reconstruction sliders already
// remapped to 0..1 by commit (§3).
type Mixes struct {
	BloomVsDetails     float32 // δ
	GreyVsColor        float32 // β
	StructureVsTexture float32 // γ
}

// Options configures a reconstruction pass.
type Options struct {
	Zoom        float32
	Threshold   float32
	Feather     float32
	Mixes       Mixes
	HighQuality bool
	NormVariant colormath.NormVariant
	Profile     *colormath.Profile
}

// Reconstruct fills dst with the reconstructed image for src (both
// width*height*4 interleaved float32 buffers) using alpha as the
// clipping mask. Returns false (dst left untouched) when the scratch
// buffer budget can't be met - §7's "scratch allocation failed"
// path - in which case the caller must fall back to the original
// image.
func Reconstruct(dst, src, alpha []float32, width, height int, opt Options, logWriter io.Writer) bool {
	if !checkBudget(width, height, logWriter) {
		return false
	}

	maxDim := width
	if height > maxDim {
		maxDim = height
	}
	scales := NumScales(maxDim, opt.Zoom)
	fmt.Fprintf(logWriter, "reconstruct: %d scales for %dx%d at zoom %.3g\n", scales, width, height, opt.Zoom)

	sc := newScratchSet(width, height)
	defer sc.release()

	runPass(dst, src, alpha, width, height, scales, opt.Mixes, false, sc)

	if opt.HighQuality {
		norm := make([]float32, width*height)
		ratios := make([]float32, width*height*4)
		for i := 0; i < width*height; i++ {
			px := i * 4
			n := colormath.Floor(colormath.GetPixelNorm(src[px], src[px+1], src[px+2], opt.NormVariant, opt.Profile))
			norm[i] = n
			ratios[px] = src[px] / n
			ratios[px+1] = src[px+1] / n
			ratios[px+2] = src[px+2] / n
			ratios[px+3] = src[px+3]
		}
		ratiosOut := make([]float32, width*height*4)
		runPass(ratiosOut, ratios, alpha, width, height, scales, opt.Mixes, true, sc)
		for i := 0; i < width*height; i++ {
			px := i * 4
			n := norm[i]
			dst[px] = ratiosOut[px] * n
			dst[px+1] = ratiosOut[px+1] * n
			dst[px+2] = ratiosOut[px+2] * n
			dst[px+3] = src[px+3]
		}
	}
	return true
}

// runPass executes the full multi-scale band decomposition and
// synthesis of §4.6 step 2 for one signal (either raw RGB or
// chromaticity ratios, selected by ratiosVariant), writing the
// accumulated result into out.
func runPass(out, signal, alpha []float32, width, height, scales int, mixes Mixes, ratiosVariant bool, sc *scratchSet) {
	pixels := width * height

	// R = I * (1 - alpha): valid pixels pass through unchanged.
	for i := 0; i < pixels; i++ {
		px := i * 4
		a := 1 - alpha[i]
		out[px] = signal[px] * a
		out[px+1] = signal[px+1] * a
		out[px+2] = signal[px+2] * a
		out[px+3] = signal[px+3]
	}

	lfPrev, lfCur := sc.lfA, sc.lfB
	copy(lfPrev, signal)

	for s := 0; s < scales; s++ {
		mult := 1 << uint(s)

		blur.Horizontal(sc.temp, lfPrev, width, height, mult)
		blur.Vertical(lfCur, sc.temp, width, height, mult)

		computeHF(sc.hf, lfPrev, lfCur, pixels)
		computeTextureMap(sc.greyTexture, sc.hf, pixels, ratiosVariant)

		// Inpaint: blur HF and the texture map with the same dilated
		// kernel, so clipped regions borrow detail from their
		// surroundings.
		blur.Horizontal(sc.temp, sc.hf, width, height, mult)
		blur.Vertical(sc.hf, sc.temp, width, height, mult)
		monoTemp := sc.temp[:pixels]
		blur.HorizontalMono(monoTemp, sc.greyTexture, width, height, mult)
		blur.VerticalMono(sc.greyTexture, monoTemp, width, height, mult)

		synthesizeBand(out, lfCur, sc.hf, sc.greyTexture, alpha, pixels, scales, mixes, ratiosVariant)

		lfPrev, lfCur = lfCur, lfPrev
	}
}

func computeHF(hf, prev, cur []float32, pixels int) {
	for i := 0; i < pixels; i++ {
		px := i * 4
		hf[px] = prev[px] - cur[px]
		hf[px+1] = prev[px+1] - cur[px+1]
		hf[px+2] = prev[px+2] - cur[px+2]
	}
}

// computeTextureMap picks, per pixel, the signed HF value of the
// channel with the largest (RGB variant) or smallest (ratios variant)
// absolute value - the per-pixel extremum across channels of §4.6.
func computeTextureMap(tex, hf []float32, pixels int, useMin bool) {
	for i := 0; i < pixels; i++ {
		px := i * 4
		r, g, b := hf[px], hf[px+1], hf[px+2]
		ar, ag, ab := absf(r), absf(g), absf(b)
		var pick float32
		if useMin {
			pick = r
			m := ar
			if ag < m {
				m, pick = ag, g
			}
			if ab < m {
				pick = b
			}
		} else {
			pick = r
			m := ar
			if ag > m {
				m, pick = ag, g
			}
			if ab > m {
				pick = b
			}
		}
		tex[i] = pick
	}
}

func synthesizeBand(out, lf, hf, tex, alpha []float32, pixels, scales int, mixes Mixes, ratiosVariant bool) {
	invS := 1 / float32(scales)
	for i := 0; i < pixels; i++ {
		a := alpha[i]
		if a <= 0 {
			continue
		}
		px := i * 4
		hfR, hfG, hfB := hf[px], hf[px+1], hf[px+2]
		lfR, lfG, lfB := lf[px], lf[px+1], lf[px+2]

		maxAbsHF := maxf(absf(hfR), absf(hfG), absf(hfB))

		var lfExtreme float32
		if ratiosVariant {
			lfExtreme = maxf(lfR, lfG, lfB)
		} else {
			lfExtreme = minf(lfR, lfG, lfB)
		}

		greyTexture := mixes.StructureVsTexture * tex[i]
		greyDetails := (1 - mixes.StructureVsTexture) * maxAbsHF
		greyHF := (1 - mixes.GreyVsColor) * (greyDetails + greyTexture)
		greyLF := (1 - mixes.GreyVsColor) * lfExtreme

		hfC := [3]float32{hfR, hfG, hfB}
		lfC := [3]float32{lfR, lfG, lfB}
		for c := 0; c < 3; c++ {
			colorLF := mixes.GreyVsColor * lfC[c]
			colorHF := mixes.GreyVsColor * (1 - mixes.StructureVsTexture) * hfC[c]
			out[px+c] += a * (mixes.BloomVsDetails*(greyHF+colorHF) + (greyLF+colorLF)*invS)
		}
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxf(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
