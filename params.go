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
	"encoding/json"

	"github.com/wisp-imaging/filmictone/internal/colormath"
)

// PreserveColor selects how the pixel transformer protects chroma
// (§3, §4.7).
type PreserveColor int

const (
	PreserveNone PreserveColor = iota
	PreserveMaxRGB
	PreserveLuminance
	PreservePowerNorm
)

// Degree selects the polynomial family fit to the toe or shoulder
// segment (§4.3).
type Degree int

const (
	Poly3 Degree = 3
	Poly4 Degree = 4
)

// SchemaVersion distinguishes the persisted parameter layouts of §4.9.
type SchemaVersion int

const (
	VersionV1 SchemaVersion = 1
	VersionV2 SchemaVersion = 2
)

// ParamsV2 is the current, user-facing, persisted parameter record
// (§3). Percent-valued fields follow the spec's native units (e.g.
// Contrast is a slope, Saturation is -50..+50, not a fraction);
// NewParamsV2Default fills every field with the shipped defaults, the
// same per-feature default-struct construction idiom nightlight's
// config loader uses throughout internal/ops (see UnmarshalJSON
// below, grounded on internal/ops/stretch/stretch.go's
// NewOp*Default/UnmarshalJSON pairs).
type ParamsV2 struct {
	GreySource  float32 `json:"greySource"`  // EV, scene grey anchor; the linear grey is 2^GreySource (0 EV = 1.0, not a percentage)
	BlackSource float32 `json:"blackSource"` // EV, negative
	WhiteSource float32 `json:"whiteSource"` // EV, positive

	TargetBlack float32 `json:"targetBlack"` // display percent, 0..100
	TargetGrey  float32 `json:"targetGrey"`  // display percent, 0..100
	TargetWhite float32 `json:"targetWhite"` // display percent, 0..100

	OutputPower float32 `json:"outputPower"` // display transfer exponent

	Latitude   float32 `json:"latitude"` // percent of dynamic range, 0..100
	Contrast   float32 `json:"contrast"` // slope of the linear section
	Balance    float32 `json:"balance"`  // -50..+50
	Saturation float32 `json:"saturation"` // -50..+50

	SecurityFactor float32 `json:"securityFactor"` // symmetric enlarge of source range, percent

	ReconstructThreshold float32 `json:"reconstructThreshold"` // EV relative to white
	ReconstructFeather   float32 `json:"reconstructFeather"`   // EV transition width
	BloomVsDetails       float32 `json:"bloomVsDetails"`       // -100..+100
	GreyVsColor          float32 `json:"greyVsColor"`          // -100..+100
	StructureVsTexture   float32 `json:"structureVsTexture"`   // -100..+100

	Preserve   PreserveColor `json:"preserve"`
	Shadows    Degree        `json:"shadows"`
	Highlights Degree        `json:"highlights"`
	Version    SchemaVersion `json:"version"`

	AutoHardness              bool `json:"autoHardness"`
	CustomGrey                bool `json:"customGrey"`
	HighQualityReconstruction bool `json:"highQualityReconstruction"`
}

// UnmarshalJSON decodes a ParamsV2 with the shipped defaults pre-
// filled, so a persisted document that omits a field (added in a
// later schema revision, or simply left at default) resolves to
// NewParamsV2Default's value for it rather than the zero value.
// Mirrors nightlight's "type defaults T; json.Unmarshal(data, &def)"
// idiom used throughout internal/ops/stretch/stretch.go.
func (p *ParamsV2) UnmarshalJSON(data []byte) error {
	type defaults ParamsV2
	def := defaults(NewParamsV2Default())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*p = ParamsV2(def)
	return nil
}

// NewParamsV2Default returns the shipped default parameter set.
func NewParamsV2Default() ParamsV2 {
	return ParamsV2{
		GreySource:  0,
		BlackSource: -8,
		WhiteSource: 4,

		TargetBlack: 0.01529,
		TargetGrey:  18.45,
		TargetWhite: 100,

		OutputPower: 2.2,

		Latitude:   33,
		Contrast:   1.5,
		Balance:    0,
		Saturation: 0,

		SecurityFactor: 0,

		ReconstructThreshold: 3,
		ReconstructFeather:   3,
		BloomVsDetails:       0,
		GreyVsColor:          0,
		StructureVsTexture:   0,

		Preserve:   PreserveLuminance,
		Shadows:    Poly4,
		Highlights: Poly3,
		Version:    VersionV2,

		AutoHardness:              true,
		CustomGrey:                true,
		HighQualityReconstruction: false,
	}
}

// ParamsV1 is the legacy 13-field parameter record migrate.go upgrades
// from (§4.9).
type ParamsV1 struct {
	GreySource  float32 `json:"greySource"`
	BlackSource float32 `json:"blackSource"`
	WhiteSource float32 `json:"whiteSource"`

	TargetBlack float32 `json:"targetBlack"`
	TargetGrey  float32 `json:"targetGrey"`
	TargetWhite float32 `json:"targetWhite"`

	OutputPower float32 `json:"outputPower"`

	Latitude   float32 `json:"latitude"`
	Contrast   float32 `json:"contrast"`
	Balance    float32 `json:"balance"`
	Saturation float32 `json:"saturation"`

	SecurityFactor float32       `json:"securityFactor"`
	Preserve       PreserveColor `json:"preserve"`
}

// NormVariant re-exports colormath's pixel-norm selector so callers
// configuring ParamsV2.Preserve == PreservePowerNorm / MaxRGB don't
// need to import the internal package directly for Process's Profile
// argument plumbing.
type NormVariant = colormath.NormVariant
