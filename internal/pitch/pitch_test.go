// SPDX-License-Identifier: MIT
package pitch

import (
	"math"
	"strconv"
	"testing"
)

func TestFromFrequency(t *testing.T) {
	tests := []struct {
		name     string
		freq     float64
		sharps   bool
		expected string
		ok       bool
	}{
		{"A4 concert pitch", 440.0, true, "A4", true},
		{"middle C", 261.63, true, "C4", true},
		{"C sharp 5", 554.37, true, "C#5", true},
		{"D flat 5", 554.37, false, "Db5", true},
		{"lowest MIDI note", 8.18, true, "C-1", true},
		{"slightly flat A4 rounds", 436.0, true, "A4", true},
		{"zero frequency", 0, true, "", false},
		{"negative frequency", -100, true, "", false},
		{"above MIDI range", 14000.0, true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFrequency(tt.freq, tt.sharps)
			if ok != tt.ok {
				t.Fatalf("FromFrequency(%g) ok = %v, expected %v", tt.freq, ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("FromFrequency(%g) = %q, expected %q", tt.freq, got, tt.expected)
			}
		})
	}
}

func TestToFrequency(t *testing.T) {
	tests := []struct {
		name     string
		note     string
		octave   int
		expected float64
		ok       bool
	}{
		{"A4", "A", 4, 440.0, true},
		{"A0", "A", 0, 27.5, true},
		{"C4", "C", 4, 261.6256, true},
		{"flat resolves enharmonically", "Bb", 4, 466.1638, true},
		{"sharp spelling", "A#", 4, 466.1638, true},
		{"unknown name", "H", 4, 0, false},
		{"empty name", "", 4, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFrequency(tt.note, tt.octave)
			if ok != tt.ok {
				t.Fatalf("ToFrequency(%q, %d) ok = %v, expected %v", tt.note, tt.octave, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("ToFrequency(%q, %d) = %g, expected %g", tt.note, tt.octave, got, tt.expected)
			}
		})
	}
}

// A name derived from a frequency must convert back to within one
// semitone of the original. Lossy by design: FromFrequency rounds to
// the nearest note.
func TestRoundTripWithinSemitone(t *testing.T) {
	for _, freq := range []float64{27.5, 55.0, 110.0, 261.63, 440.0, 1000.0, 4186.0, 12543.85} {
		name, ok := FromFrequency(freq, true)
		if !ok {
			t.Fatalf("FromFrequency(%g) unexpectedly failed", freq)
		}
		// Split trailing octave (may be negative) from the note name.
		i := len(name)
		for i > 0 && (name[i-1] >= '0' && name[i-1] <= '9') {
			i--
		}
		if i > 0 && name[i-1] == '-' {
			i--
		}
		octave, err := strconv.Atoi(name[i:])
		if err != nil {
			t.Fatalf("bad octave suffix in %q", name)
		}
		back, ok := ToFrequency(name[:i], octave)
		if !ok {
			t.Fatalf("ToFrequency(%q, %d) unexpectedly failed", name[:i], octave)
		}
		semitoneRatio := math.Pow(2, 1.0/12)
		if ratio := back / freq; ratio > semitoneRatio || ratio < 1/semitoneRatio {
			t.Errorf("round trip of %g Hz via %q gave %g Hz (ratio %g)", freq, name, back, ratio)
		}
	}
}

func TestGenerate(t *testing.T) {
	t.Run("A notes across two octaves", func(t *testing.T) {
		got := Generate(0, 1, []string{"A"})
		if len(got) != 2 {
			t.Fatalf("expected 2 pitches, got %d: %v", len(got), got)
		}
		expected := []Pitch{{"A0", 27.5}, {"A1", 55.0}}
		for i, e := range expected {
			if got[i].Name != e.Name || math.Abs(got[i].Frequency-e.Frequency) > 0.001 {
				t.Errorf("Generate[%d] = %+v, expected %+v", i, got[i], e)
			}
		}
	})

	t.Run("case-insensitive filter", func(t *testing.T) {
		got := Generate(4, 4, []string{"a", "c#"})
		if len(got) != 2 {
			t.Fatalf("expected 2 pitches, got %d: %v", len(got), got)
		}
		if got[0].Name != "C#4" || got[1].Name != "A4" {
			t.Errorf("expected chromatic order [C#4 A4], got %v", got)
		}
	})

	t.Run("empty filter includes all", func(t *testing.T) {
		got := Generate(4, 4, nil)
		if len(got) != 12 {
			t.Errorf("expected 12 pitches for one octave, got %d", len(got))
		}
	})

	t.Run("audible bound discards high octaves", func(t *testing.T) {
		for _, p := range Generate(0, 12, nil) {
			if p.Frequency >= 20000 || p.Frequency <= 0 {
				t.Errorf("pitch %s at %g Hz escaped the audible bound", p.Name, p.Frequency)
			}
		}
	})
}

func BenchmarkFromFrequency(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		FromFrequency(440.0, true)
	}
}
