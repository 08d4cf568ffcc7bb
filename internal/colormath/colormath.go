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

// Package colormath implements the scalar kernels shared by the curve
// synthesizer and the pixel transformer: log encoding, pixel norms,
// desaturation weighting and linear saturation. All functions are
// total over finite float32 inputs, following the ApplyPixelFunction
// kernels in nightlight's internal/fits/pixelops.go: small, pure,
// allocation-free functions meant to be called in a tight per-pixel
// loop.
package colormath

import "math"

// LogFloor is the smallest value any division or logarithm in this
// package is allowed to see; inputs are raised to it by callers before
// use (§7: "flush-to-floor behaviour implemented by explicit
// max(x, 2^-16)").
const LogFloor = float32(1.0 / 65536.0) // 2^-16

// Floor raises x to LogFloor if it is smaller (or NaN-like negative).
func Floor(x float32) float32 {
	if x < LogFloor {
		return LogFloor
	}
	return x
}

// LogTonemap log-encodes a scene-referred value relative to a grey
// point, normalizes it by the dynamic range, and clamps it into the
// spline's input domain. v1 clamps the lower bound to LogFloor instead
// of 0, matching the legacy behavior callers must preserve for
// migrated v1 parameter sets.
func LogTonemap(x, grey, black, rng float32, v1 bool) float32 {
	v := (log2(x/grey) - black) / rng
	lo := float32(0)
	if v1 {
		lo = LogFloor
	}
	if v < lo {
		return lo
	}
	if v > 1 {
		return 1
	}
	return v
}

func log2(x float32) float32 {
	return float32(math.Log2(float64(x)))
}

// PixelNormPower computes the "power norm" of a pixel: the weighted
// mean of |channel|, shaped so it tracks the brightest channel more
// than a simple average while staying continuous everywhere, including
// at the origin (the max(...,1e-12) guard avoids a 0/0).
func PixelNormPower(r, g, b float32) float32 {
	ar, ag, ab := abs32(r), abs32(g), abs32(b)
	num := ar*ar*ar + ag*ag*ag + ab*ab*ab
	den := r*r + g*g + b*b
	if den < 1e-12 {
		den = 1e-12
	}
	return num / den
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// NormVariant selects how GetPixelNorm reduces a pixel to a scalar.
type NormVariant int

const (
	// NormMax takes the largest channel value.
	NormMax NormVariant = iota
	// NormLuminance weights channels by a profile matrix (or a
	// camera-RGB fallback when none is supplied).
	NormLuminance
	// NormPower uses PixelNormPower.
	NormPower
)

// fallbackLuminanceWeights is the luminance row GetPixelNorm uses when
// no working profile is supplied: the camera-RGB fallback row that nightlight's
// go-colorful-based color code uses in the absence of an ICC profile
// (see internal/fits/rgb.go's channel-weighted combinations): this is
// not the sRGB primaries but a gentler red/green/blue split, since raw
// camera-referred data generally isn't standard-gamut sRGB yet.
var fallbackLuminanceWeights = [3]float32{0.2658, 0.6781, 0.0561}

// GetPixelNorm reduces a pixel to a scalar per the given variant.
// profile may be nil, in which case NormLuminance uses the camera-RGB
// fallback weights.
func GetPixelNorm(r, g, b float32, variant NormVariant, profile *Profile) float32 {
	switch variant {
	case NormMax:
		m := r
		if g > m {
			m = g
		}
		if b > m {
			m = b
		}
		return m
	case NormLuminance:
		w := fallbackLuminanceWeights
		if profile != nil {
			w = profile.LuminanceRow
		}
		return r*w[0] + g*w[1] + b*w[2]
	case NormPower:
		return PixelNormPower(r, g, b)
	default:
		return PixelNormPower(r, g, b)
	}
}

// FilmicDesaturateV1 computes the v1 desaturation weight: the
// proportion of saturation to retain at log position x, pulled toward
// 0 near the toe and shoulder Gaussian skirts.
func FilmicDesaturateV1(x, sigmaToe, sigmaShoulder, saturation float32) float32 {
	toe := expf(-0.5 * x * x / sigmaToe)
	shoulder := expf(-0.5 * (1 - x) * (1 - x) / sigmaShoulder)
	v := (toe + shoulder) / saturation
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return 1 - v
}

// FilmicDesaturateV2 is the v2 variant: same Gaussian skirts, a
// different normalization (k) and no final clamp, since the curve
// synthesizer's effective saturation already keeps it in range for
// well-formed parameters.
func FilmicDesaturateV2(x, sigmaToe, sigmaShoulder, saturation float32) float32 {
	k := float32(0.5) / sqrtf(saturation)
	toe := expf(-x * x / sigmaToe * k)
	shoulder := expf(-(1 - x) * (1 - x) / sigmaShoulder * k)
	return saturation - (toe+shoulder)*saturation
}

func expf(x float32) float32  { return float32(math.Exp(float64(x))) }
func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// LinearSaturation blends x toward its luminance lum by factor d: d=1
// keeps x unchanged, d=0 collapses it to lum (full desaturation).
func LinearSaturation(x, lum, d float32) float32 {
	return lum + d*(x-lum)
}

// Clamp01 clamps x into [0,1].
func Clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
