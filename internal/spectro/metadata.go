// SPDX-License-Identifier: MIT
/*
Package spectro implements the rolling log-frequency spectrogram core:
turning FFT magnitude ticks into immutable colored slices, keeping a
bounded sliding window of them, and planning the pitch-labeled
frequency axis.

The package is pure except for the Engine, which owns the one
synchronization point between the producing audio context and the
consuming render context.
*/
package spectro

import (
	"fmt"

	"spectro/pkg/bitint"
)

// Engine defaults. MinFreq stays above the lowest piano octave rather
// than at zero: the log axis is undefined at 0 Hz.
const (
	DefaultMinFreq  = 48.0
	DefaultMaxFreq  = 13500.0
	DefaultCapacity = 120
)

// Metadata describes one FFT configuration: how many
// (frequency, amplitude) pairs a tick carries and the frequency window
// of interest. It is a value type, snapshotted per tick; changing the
// configuration means building a new Metadata, never mutating one a
// producer already holds.
type Metadata struct {
	FFTSize    int     // pairs per tick, power of two
	MinFreq    float64 // lower axis bound, Hz, must be > 0
	MaxFreq    float64 // upper axis bound, Hz
	SampleRate float64 // Hz
}

// Validate rejects configurations the core cannot render. A MinFreq of
// zero is rejected here so the degenerate log-range fallback in
// scale.MapLog is unreachable through validated metadata.
func (m Metadata) Validate() error {
	if !bitint.IsPowerOfTwo(m.FFTSize) {
		return fmt.Errorf("fft size must be a power of 2, got %d (next: %d)", m.FFTSize, bitint.NextPowerOfTwo(m.FFTSize))
	}
	if m.MinFreq <= 0 {
		return fmt.Errorf("min frequency must be positive, got %g", m.MinFreq)
	}
	if m.MaxFreq <= m.MinFreq {
		return fmt.Errorf("max frequency %g must exceed min frequency %g", m.MaxFreq, m.MinFreq)
	}
	if m.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %g", m.SampleRate)
	}
	return nil
}

// TickLen returns the expected sample count of one interleaved tick:
// FFTSize (frequency, amplitude) pairs.
func (m Metadata) TickLen() int {
	return 2 * m.FFTSize
}

// InputLen returns the number of time-domain samples one transform
// consumes. Twice the FFT size, so a tick carries FFTSize unique bins.
func (m Metadata) InputLen() int {
	return 2 * m.FFTSize
}

// BinCount returns the number of unique frequency bins per tick.
func (m Metadata) BinCount() int {
	return m.FFTSize
}

// FreqForBin returns the center frequency in Hz of tick pair i.
func (m Metadata) FreqForBin(i int) float64 {
	if i < 0 || i >= m.FFTSize {
		return 0
	}
	return float64(i) * m.SampleRate / float64(m.InputLen())
}
