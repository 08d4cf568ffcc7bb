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

// Migrate upgrades a v1 parameter record to v2 (§4.9): the 13 shared
// fields are copied verbatim, the new v2-only fields are set to
// defaults that reproduce v1 behaviour (reconstruction effectively
// disabled, legacy degrees and grey handling). Only v1 -> v2 is
// supported; any other (oldVersion, newVersion) pair reports failure
// without touching out, per §6's "migrate(...) -> ok?" contract.
func Migrate(oldParams ParamsV1, oldVersion, newVersion SchemaVersion, out *ParamsV2) bool {
	if oldVersion != VersionV1 || newVersion != VersionV2 {
		return false
	}

	*out = ParamsV2{
		GreySource:  oldParams.GreySource,
		BlackSource: oldParams.BlackSource,
		WhiteSource: oldParams.WhiteSource,

		TargetBlack: oldParams.TargetBlack,
		TargetGrey:  oldParams.TargetGrey,
		TargetWhite: oldParams.TargetWhite,

		OutputPower: oldParams.OutputPower,

		Latitude:   oldParams.Latitude,
		Contrast:   oldParams.Contrast,
		Balance:    oldParams.Balance,
		Saturation: oldParams.Saturation,

		SecurityFactor: oldParams.SecurityFactor,
		Preserve:       oldParams.Preserve,

		// New v2 fields, defaulted so a migrated v1 set behaves exactly
		// as it did before reconstruction existed.
		ReconstructThreshold: 3,
		ReconstructFeather:   3,
		BloomVsDetails:       0,
		GreyVsColor:          0,
		StructureVsTexture:   0,

		Shadows:    Poly4,
		Highlights: Poly3,
		Version:    VersionV1,

		AutoHardness:              true,
		CustomGrey:                true,
		HighQualityReconstruction: false,
	}
	return true
}
