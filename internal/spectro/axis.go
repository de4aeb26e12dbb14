// SPDX-License-Identifier: MIT
package spectro

import (
	"fmt"
	"math"
	"sort"

	"spectro/internal/pitch"
	"spectro/internal/scale"
)

// Axis layout defaults, in pixels.
const (
	DefaultLabelSpacing = 20.0
	DefaultGlyphHeight  = 12.0
)

// Label is one axis entry, positioned top-down like slice cells.
type Label struct {
	Text string
	Y    float64
}

// candidate is one potential axis label before range filtering and
// spacing selection. fromPitch marks note-derived candidates, whose
// text embeds the frequency.
type candidate struct {
	name      string
	freq      float64
	fromPitch bool
}

// Round-number frequency labels always considered for the axis, on top
// of the octave-spaced pitch candidates.
var fixedCandidates = []candidate{
	{name: "100 Hz", freq: 100},
	{name: "200 Hz", freq: 200},
	{name: "500 Hz", freq: 500},
	{name: "1.0 kHz", freq: 1000},
	{name: "2.0 kHz", freq: 2000},
	{name: "5.0 kHz", freq: 5000},
	{name: "10 kHz", freq: 10000},
	{name: "15 kHz", freq: 15000},
	{name: "20 kHz", freq: 20000},
}

// AxisPlanner computes the label set for a log-frequency axis.
// Zero values fall back to the package defaults.
type AxisPlanner struct {
	Spacing     float64 // minimum pixel distance between accepted labels
	GlyphHeight float64 // labels within half of this from an edge are dropped
}

// Labels plans the axis for the given frequency range and pixel
// height, returning labels sorted by vertical position (top first).
//
// Selection is a greedy walk in ascending frequency order: a candidate
// is accepted only if it sits at least Spacing pixels from the last
// accepted label. Deterministic and order-dependent, not globally
// optimal, but stable and overlap-free. Edge-hugging labels
// are then dropped, and the survivors re-sorted by position to guard
// against floating-point ties.
func (p AxisPlanner) Labels(minFreq, maxFreq, height float64) []Label {
	if minFreq <= 0 || maxFreq <= minFreq || height <= 0 {
		return nil
	}
	spacing := p.Spacing
	if spacing <= 0 {
		spacing = DefaultLabelSpacing
	}
	glyph := p.GlyphHeight
	if glyph <= 0 {
		glyph = DefaultGlyphHeight
	}

	// Octave-spaced A and C notes across the full plausible range,
	// plus the fixed round-number table.
	pitches := pitch.Generate(0, 10, []string{"A", "C"})
	cands := make([]candidate, 0, len(pitches)+len(fixedCandidates))
	for _, pc := range pitches {
		cands = append(cands, candidate{name: pc.Name, freq: pc.Frequency, fromPitch: true})
	}
	cands = append(cands, fixedCandidates...)

	inRange := cands[:0]
	for _, c := range cands {
		if c.freq >= minFreq && c.freq <= maxFreq {
			inRange = append(inRange, c)
		}
	}
	sort.Slice(inRange, func(i, j int) bool { return inRange[i].freq < inRange[j].freq })

	labels := make([]Label, 0, len(inRange))
	lastY := math.Inf(1)
	for _, c := range inRange {
		y := height - scale.MapLog(c.freq, minFreq, maxFreq, 0, height)
		if !math.IsInf(lastY, 1) && math.Abs(y-lastY) < spacing {
			continue
		}
		labels = append(labels, Label{Text: c.text(), Y: y})
		lastY = y
	}

	// Drop labels the renderer would clip at the edges. Removing
	// accepted labels only widens gaps, so the spacing guarantee holds.
	kept := labels[:0]
	for _, l := range labels {
		if l.Y < glyph/2 || l.Y > height-glyph/2 {
			continue
		}
		kept = append(kept, l)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Y < kept[j].Y })
	return kept
}

func (c candidate) text() string {
	if c.fromPitch {
		return fmt.Sprintf("%s (%s)", c.name, formatFrequency(c.freq, true))
	}
	return c.name
}

// formatFrequency renders a frequency for display: integer Hz below
// 1 kHz, one-decimal kHz up to 10 kHz, integer kHz above. Pitch labels
// always use integer Hz so note frequencies stay recognizable.
func formatFrequency(f float64, pitchLabel bool) string {
	switch {
	case pitchLabel || f < 1000:
		return fmt.Sprintf("%.0f Hz", f)
	case f < 10000:
		return fmt.Sprintf("%.1f kHz", f/1000)
	default:
		return fmt.Sprintf("%.0f kHz", f/1000)
	}
}
