// SPDX-License-Identifier: MIT
package spectro

import "testing"

func validMetadata() Metadata {
	return Metadata{FFTSize: 2048, MinFreq: 48.0, MaxFreq: 13500.0, SampleRate: 44100}
}

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Metadata)
		ok     bool
	}{
		{"defaults", func(m *Metadata) {}, true},
		{"fft size 1024", func(m *Metadata) { m.FFTSize = 1024 }, true},
		{"fft size not power of two", func(m *Metadata) { m.FFTSize = 1000 }, false},
		{"fft size zero", func(m *Metadata) { m.FFTSize = 0 }, false},
		{"zero min frequency", func(m *Metadata) { m.MinFreq = 0 }, false},
		{"negative min frequency", func(m *Metadata) { m.MinFreq = -5 }, false},
		{"inverted range", func(m *Metadata) { m.MinFreq, m.MaxFreq = 500, 100 }, false},
		{"equal range", func(m *Metadata) { m.MaxFreq = m.MinFreq }, false},
		{"zero sample rate", func(m *Metadata) { m.SampleRate = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetadata()
			tt.mutate(&m)
			err := m.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}

func TestMetadataDerived(t *testing.T) {
	m := validMetadata()
	if got := m.TickLen(); got != 4096 {
		t.Errorf("TickLen() = %d, expected 4096", got)
	}
	if got := m.InputLen(); got != 4096 {
		t.Errorf("InputLen() = %d, expected 4096", got)
	}
	if got := m.BinCount(); got != 2048 {
		t.Errorf("BinCount() = %d, expected 2048", got)
	}
	if got := m.FreqForBin(0); got != 0 {
		t.Errorf("FreqForBin(0) = %g, expected 0", got)
	}
	// Bin spacing is sampleRate / inputLen.
	want := 44100.0 / 4096.0
	if got := m.FreqForBin(1); got != want {
		t.Errorf("FreqForBin(1) = %g, expected %g", got, want)
	}
	if got := m.FreqForBin(m.FFTSize); got != 0 {
		t.Errorf("FreqForBin out of range = %g, expected 0", got)
	}
}
