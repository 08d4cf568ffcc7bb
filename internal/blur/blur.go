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

// Package blur implements the separable, à-trous dilated B-spline
// blur used by the wavelet reconstructor (§4.4). The two-pass
// separable-convolution-with-edge-clamp shape is grounded on
// nightlight's Convolve1DX/Convolve1DY in internal/usm.go; the kernel
// and the dilation between taps are specific to this spec.
package blur

import (
	"runtime"
)

// Kernel is the fixed 5-tap B-spline kernel h = [1,4,6,4,1]/16.
var Kernel = [5]float32{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// Channels is the interleaved pixel stride; only the first 3
// (R,G,B) participate per §4.4, the 4th is carried through unchanged.
const Channels = 4

const colorChannels = 3

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Horizontal convolves src along the x axis with Kernel dilated by
// mult, writing to dst. src and dst must both be width*height*4
// float32 interleaved buffers and may not alias.
func Horizontal(dst, src []float32, width, height, mult int) {
	parallelRows(height, func(y0, y1 int) {
		horizontalRows(dst, src, width, mult, y0, y1)
	})
}

// Vertical convolves src along the y axis with Kernel dilated by
// mult, writing to dst. src and dst must both be width*height*4
// float32 interleaved buffers and may not alias.
func Vertical(dst, src []float32, width, height, mult int) {
	parallelRows(height, func(y0, y1 int) {
		verticalRows(dst, src, width, height, mult, y0, y1)
	})
}

func horizontalRows(dst, src []float32, width, mult, y0, y1 int) {
	for y := y0; y < y1; y++ {
		rowBase := y * width * Channels
		for x := 0; x < width; x++ {
			horizontalPixel(dst, src, rowBase, width, mult, x)
		}
	}
}

func horizontalPixel(dst, src []float32, rowBase, width, mult, x int) {
	px := rowBase + x*Channels
	for c := 0; c < colorChannels; c++ {
		sum := float32(0)
		for t := -2; t <= 2; t++ {
			xx := clampIndex(x+t*mult, width)
			sum += src[rowBase+xx*Channels+c] * Kernel[t+2]
		}
		dst[px+c] = sum
	}
	dst[px+colorChannels] = src[px+colorChannels]
}

func verticalRows(dst, src []float32, width, height, mult, y0, y1 int) {
	for y := y0; y < y1; y++ {
		rowBase := y * width * Channels
		for x := 0; x < width; x++ {
			px := rowBase + x*Channels
			for c := 0; c < colorChannels; c++ {
				sum := float32(0)
				for t := -2; t <= 2; t++ {
					yy := clampIndex(y+t*mult, height)
					sum += src[yy*width*Channels+x*Channels+c] * Kernel[t+2]
				}
				dst[px+c] = sum
			}
			dst[px+colorChannels] = src[px+colorChannels]
		}
	}
}

// HorizontalMono convolves a single-channel src along the x axis,
// for the wavelet reconstructor's texture-map inpainting pass (§4.6),
// which needs the same dilated kernel applied to a 1-channel map
// instead of the 4-channel interleaved pixel layout.
func HorizontalMono(dst, src []float32, width, height, mult int) {
	parallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			rowBase := y * width
			for x := 0; x < width; x++ {
				sum := float32(0)
				for t := -2; t <= 2; t++ {
					xx := clampIndex(x+t*mult, width)
					sum += src[rowBase+xx] * Kernel[t+2]
				}
				dst[rowBase+x] = sum
			}
		}
	})
}

// VerticalMono is HorizontalMono's y-axis counterpart.
func VerticalMono(dst, src []float32, width, height, mult int) {
	parallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				sum := float32(0)
				for t := -2; t <= 2; t++ {
					yy := clampIndex(y+t*mult, height)
					sum += src[yy*width+x] * Kernel[t+2]
				}
				dst[y*width+x] = sum
			}
		}
	})
}

// parallelRows splits [0,rows) into 8*NumCPU() batches over a
// semaphore channel, the same work-splitting idiom as nightlight's
// Image.ApplyPixelFunction (internal/fits/pixelops.go), adapted from
// flat-slice batches to row ranges since the blur needs whole rows.
func parallelRows(rows int, work func(y0, y1 int)) {
	if rows == 0 {
		return
	}
	numBatches := 8 * runtime.NumCPU()
	if numBatches > rows {
		numBatches = rows
	}
	batchSize := (rows + numBatches - 1) / numBatches
	sem := make(chan bool, runtime.NumCPU())
	for lower := 0; lower < rows; lower += batchSize {
		upper := lower + batchSize
		if upper > rows {
			upper = rows
		}
		sem <- true
		go func(y0, y1 int) {
			defer func() { <-sem }()
			work(y0, y1)
		}(lower, upper)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
}
