// SPDX-License-Identifier: MIT
// Package scale maps values between a logarithmic source range and a
// linear target range. Equal ratios in the source (octaves, decades)
// map to equal distances in the target, which is what puts low notes
// the same visual distance apart as high ones on a spectrogram axis.
package scale

import "math"

// MapLog maps value from the logarithmic range [fromLow, fromHigh]
// onto the linear range [toLow, toHigh]. The normalized position is
// clamped to [0, 1], so out-of-range values pin to the nearest target
// bound.
//
// Both source bounds must be positive; a degenerate range returns
// toLow instead of NaN. Configuration-time validation (see
// spectro.Metadata.Validate) keeps degenerate ranges from reaching
// this point through the engine.
func MapLog(value, fromLow, fromHigh, toLow, toHigh float64) float64 {
	if fromLow <= 0 || fromHigh <= 0 {
		return toLow
	}
	span := math.Log10(fromHigh) - math.Log10(fromLow)
	if span == 0 {
		return toLow
	}
	t := (math.Log10(value) - math.Log10(fromLow)) / span
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return toLow + t*(toHigh-toLow)
}

// UnmapLog inverts MapLog for mapped values inside [toLow, toHigh].
// Values that MapLog clamped cannot be recovered.
func UnmapLog(mapped, fromLow, fromHigh, toLow, toHigh float64) float64 {
	if fromLow <= 0 || fromHigh <= 0 {
		return fromLow
	}
	span := toHigh - toLow
	if span == 0 {
		return fromLow
	}
	t := (mapped - toLow) / span
	lg := math.Log10(fromLow) + t*(math.Log10(fromHigh)-math.Log10(fromLow))
	return math.Pow(10, lg)
}
