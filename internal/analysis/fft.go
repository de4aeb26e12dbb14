// SPDX-License-Identifier: MIT
// Package analysis turns raw capture buffers into spectrogram ticks:
// interleaved (frequency, dBFS) pairs ready for slice building.
package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	applog "spectro/internal/log"
	"spectro/internal/spectro"
)

// TickSink receives one tick per processed buffer. Implementations
// must not retain the samples slice past the call; the processor
// reuses it. spectro.Engine.OnTick satisfies this contract.
type TickSink interface {
	OnTick(samples []float64, meta spectro.Metadata)
}

// Processor performs the FFT over pre-allocated workspace buffers.
// The transform runs over meta.InputLen() time-domain samples (twice
// the FFT size), so each tick carries meta.FFTSize unique
// (frequency, amplitude) pairs.
//
// Not safe for concurrent Process calls; one capture stream drives one
// processor.
type Processor struct {
	meta spectro.Metadata
	fft  *fourier.FFT
	sink TickSink

	input  []float64    // windowed time-domain samples
	coeffs []complex128 // FFT output
	win    []float64    // Hann coefficients
	tick   []float64    // interleaved (freq, dB) output, reused every call
}

// NewProcessor validates the metadata and pre-allocates every buffer
// Process needs, so the hot path stays allocation-free.
func NewProcessor(meta spectro.Metadata, sink TickSink) (*Processor, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	n := meta.InputLen()
	win := make([]float64, n)
	for i := range win {
		win[i] = 1.0
	}
	window.Hann(win)

	applog.Debugf("analysis: initializing processor (fft size %d, input %d samples, %.1f Hz)",
		meta.FFTSize, n, meta.SampleRate)

	return &Processor{
		meta:   meta,
		fft:    fourier.NewFFT(n),
		sink:   sink,
		input:  make([]float64, n),
		coeffs: make([]complex128, n/2+1),
		win:    win,
		tick:   make([]float64, meta.TickLen()),
	}, nil
}

// Metadata returns the immutable configuration snapshot this processor
// was built with.
func (p *Processor) Metadata() spectro.Metadata {
	return p.meta
}

// InputLen returns the number of samples Process expects per buffer.
func (p *Processor) InputLen() int {
	return len(p.input)
}

// Process windows the buffer, runs the FFT, converts magnitudes to
// dBFS, and emits one tick to the sink. Buffers shorter than
// InputLen() are zero-padded. No allocations after construction.
func (p *Processor) Process(buf []int32) {
	const norm = 1.0 / float64(1<<31)
	for i := range p.input {
		if i < len(buf) {
			p.input[i] = float64(buf[i]) * norm * p.win[i]
		} else {
			p.input[i] = 0
		}
	}

	p.fft.Coefficients(p.coeffs, p.input)

	// Coherent-gain scaling: a full-scale sine under a Hann window sums
	// to N/4, so dividing by that puts it at 0 dBFS.
	scale := 4.0 / float64(len(p.input))
	for i := range p.meta.FFTSize {
		mag := cmplx.Abs(p.coeffs[i]) * scale
		db := spectro.DBFloor
		if mag > 0 {
			db = 20 * math.Log10(mag)
			if db < spectro.DBFloor {
				db = spectro.DBFloor
			} else if db > spectro.DBCeil {
				db = spectro.DBCeil
			}
		}
		p.tick[2*i] = p.fft.Freq(i) * p.meta.SampleRate
		p.tick[2*i+1] = db
	}

	if p.sink != nil {
		p.sink.OnTick(p.tick, p.meta)
	}
}
