// SPDX-License-Identifier: MIT
/*
Package pitch converts between frequencies and equal-temperament pitch
names using the MIDI note convention (note 69 = A4 = 440 Hz, 12
semitones per octave).

All functions are pure and allocation-light; invalid inputs report
"no result" via a bool rather than an error, as callers typically skip
the data point and move on.
*/
package pitch

import (
	"fmt"
	"math"
	"strings"
)

const (
	midiA4    = 69
	freqA4    = 440.0
	semitones = 12

	// Frequencies at or above this are outside the audible range and
	// are dropped by Generate.
	maxAudibleHz = 20000.0
)

// Chromatic note spellings, index 0 = C.
var (
	sharpNames = [semitones]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [semitones]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// Pitch pairs a note name (with octave suffix) and its frequency in Hz.
type Pitch struct {
	Name      string
	Frequency float64
}

// FromFrequency returns the nearest pitch name for freq, e.g. "A4" or
// "C#5", spelled with sharps or flats per the flag. Reports false for
// non-positive frequencies and for frequencies whose nearest MIDI note
// falls outside [0, 127].
func FromFrequency(freq float64, sharps bool) (string, bool) {
	if freq <= 0 {
		return "", false
	}
	midi := int(math.Round(midiA4 + semitones*math.Log2(freq/freqA4)))
	if midi < 0 || midi > 127 {
		return "", false
	}
	names := &sharpNames
	if !sharps {
		names = &flatNames
	}
	octave := midi/semitones - 1
	return fmt.Sprintf("%s%d", names[midi%semitones], octave), true
}

// ToFrequency returns the frequency of the named note in the given
// octave. The name is looked up among the sharp spellings first, then
// the flat spellings (resolved to the enharmonic sharp index). Reports
// false when the name matches neither table.
func ToFrequency(name string, octave int) (float64, bool) {
	idx, ok := noteIndex(name)
	if !ok {
		return 0, false
	}
	midi := (octave+1)*semitones + idx
	return freqA4 * math.Pow(2, float64(midi-midiA4)/semitones), true
}

func noteIndex(name string) (int, bool) {
	for i, n := range sharpNames {
		if n == name {
			return i, true
		}
	}
	for i, n := range flatNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Generate returns the cross product of the octave range and the 12
// chromatic note names (sharp spelling), octave-major then chromatic
// order. include filters by bare note name, case-insensitively; an
// empty filter includes every note. Results outside (0, 20000) Hz are
// discarded.
func Generate(minOctave, maxOctave int, include []string) []Pitch {
	filter := make(map[string]struct{}, len(include))
	for _, n := range include {
		filter[strings.ToUpper(n)] = struct{}{}
	}

	var out []Pitch
	for oct := minOctave; oct <= maxOctave; oct++ {
		for _, name := range sharpNames {
			if len(filter) > 0 {
				if _, ok := filter[strings.ToUpper(name)]; !ok {
					continue
				}
			}
			freq, ok := ToFrequency(name, oct)
			if !ok || freq <= 0 || freq >= maxAudibleHz {
				continue
			}
			out = append(out, Pitch{Name: fmt.Sprintf("%s%d", name, oct), Frequency: freq})
		}
	}
	return out
}
