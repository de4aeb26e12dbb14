// SPDX-License-Identifier: MIT
package spectro

import (
	"image/color"
	"math"

	"spectro/internal/scale"
)

// Amplitude range mapped onto the gradient. Ticks use dBFS: 0 dB is
// full scale, quieter readings go negative. Anything at or below
// DBFloor takes the first gradient stop.
const (
	DBFloor = -200.0
	DBCeil  = 0.0
)

// Cell is one colored point of a slice column. Y runs top-down in
// pixels: low frequencies land near Height, high frequencies near 0.
type Cell struct {
	Y     float64
	Color color.RGBA
}

// Slice is one time column of the rolling spectrogram, derived from
// one tick. Immutable once built; the ring buffer that holds it is its
// sole owner.
type Slice struct {
	Width  int
	Height int
	Cells  []Cell
}

// Pair is one decoded (frequency, amplitude) reading from a tick.
type Pair struct {
	Freq float64 // Hz
	DB   float64 // dBFS, <= 0
}

// DecodeTick converts an interleaved tick (even indices frequency, odd
// indices amplitude) into pairs. Builders work on the interleaved form
// directly; this is for callers that want the pair view.
func DecodeTick(samples []float64) []Pair {
	pairs := make([]Pair, 0, len(samples)/2)
	for i := 0; i+1 < len(samples); i += 2 {
		pairs = append(pairs, Pair{Freq: samples[i], DB: samples[i+1]})
	}
	return pairs
}

// BuildSlice converts one interleaved tick into a slice column of the
// given pixel dimensions. Pairs outside [meta.MinFreq, meta.MaxFreq]
// are dropped; the rest map to a vertical position on the log axis
// (low frequency at the bottom) and a gradient color from the
// amplitude over [DBFloor, DBCeil].
//
// Pure function of its inputs: same tick, metadata, and gradient give
// identical slices, so construction can run on the producer goroutine.
// Single pass over the tick; this runs once per audio tick.
func BuildSlice(samples []float64, meta Metadata, grad Gradient, width, height int) Slice {
	cells := make([]Cell, 0, len(samples)/2)
	h := float64(height)
	for i := 0; i+1 < len(samples); i += 2 {
		if c, ok := buildCell(samples[i], samples[i+1], meta, grad, h); ok {
			cells = append(cells, c)
		}
	}
	return Slice{Width: width, Height: height, Cells: cells}
}

// BuildSliceFromPairs is BuildSlice for a pre-decoded tick.
func BuildSliceFromPairs(pairs []Pair, meta Metadata, grad Gradient, width, height int) Slice {
	cells := make([]Cell, 0, len(pairs))
	h := float64(height)
	for _, p := range pairs {
		if c, ok := buildCell(p.Freq, p.DB, meta, grad, h); ok {
			cells = append(cells, c)
		}
	}
	return Slice{Width: width, Height: height, Cells: cells}
}

func buildCell(freq, db float64, meta Metadata, grad Gradient, height float64) (Cell, bool) {
	// NaN fails the range test in this form, so poisoned readings
	// drop out with the out-of-range ones.
	if !(freq >= meta.MinFreq && freq <= meta.MaxFreq) || math.IsNaN(db) {
		return Cell{}, false
	}
	// Inverted: MapLog grows upward, pixel rows grow downward.
	y := height - scale.MapLog(freq, meta.MinFreq, meta.MaxFreq, 0, height)
	t := (db - DBFloor) / (DBCeil - DBFloor)
	return Cell{Y: y, Color: grad.At(t)}, true
}
