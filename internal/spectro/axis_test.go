// SPDX-License-Identifier: MIT
package spectro

import (
	"strings"
	"testing"
)

func TestAxisLabelsSpacing(t *testing.T) {
	tests := []struct {
		name    string
		minFreq float64
		maxFreq float64
		height  float64
	}{
		{"defaults", 48.0, 13500.0, 480},
		{"narrow band", 200.0, 2000.0, 480},
		{"short axis", 48.0, 13500.0, 100},
		{"full audible", 20.0, 20000.0, 800},
		{"tiny axis", 48.0, 13500.0, 30},
	}

	p := AxisPlanner{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := p.Labels(tt.minFreq, tt.maxFreq, tt.height)
			for i := 1; i < len(labels); i++ {
				if d := labels[i].Y - labels[i-1].Y; d < DefaultLabelSpacing {
					t.Errorf("labels %q and %q only %.1f px apart", labels[i-1].Text, labels[i].Text, d)
				}
			}
			for i := 1; i < len(labels); i++ {
				if labels[i].Y < labels[i-1].Y {
					t.Errorf("labels out of order at %d: %g before %g", i, labels[i-1].Y, labels[i].Y)
				}
			}
			for _, l := range labels {
				if l.Y < DefaultGlyphHeight/2 || l.Y > tt.height-DefaultGlyphHeight/2 {
					t.Errorf("label %q at %g hugs the edge of a %g px axis", l.Text, l.Y, tt.height)
				}
			}
		})
	}
}

func TestAxisLabelsContent(t *testing.T) {
	labels := AxisPlanner{}.Labels(48.0, 13500.0, 800)
	if len(labels) == 0 {
		t.Fatal("expected labels for the default range")
	}

	var sawA4, sawFixed bool
	for _, l := range labels {
		if l.Text == "A4 (440 Hz)" {
			sawA4 = true
		}
		if l.Text == "100 Hz" {
			sawFixed = true
		}
		if strings.Contains(l.Text, "(") && !strings.Contains(l.Text, "Hz)") {
			t.Errorf("pitch label %q missing frequency suffix", l.Text)
		}
	}
	if !sawA4 {
		t.Error("expected the A4 pitch label on a tall default axis")
	}
	if !sawFixed {
		t.Error("expected the 100 Hz fixed label on a tall default axis")
	}
}

func TestAxisLabelsDegenerateInput(t *testing.T) {
	p := AxisPlanner{}
	tests := []struct {
		name    string
		minFreq float64
		maxFreq float64
		height  float64
	}{
		{"zero min", 0, 1000, 480},
		{"inverted range", 1000, 100, 480},
		{"zero height", 48, 13500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Labels(tt.minFreq, tt.maxFreq, tt.height); got != nil {
				t.Errorf("expected nil labels, got %d", len(got))
			}
		})
	}
}

func TestAxisLabelsDeterministic(t *testing.T) {
	p := AxisPlanner{}
	a := p.Labels(48.0, 13500.0, 480)
	b := p.Labels(48.0, 13500.0, 480)
	if len(a) != len(b) {
		t.Fatalf("runs disagree on count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("label %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		freq     float64
		pitch    bool
		expected string
	}{
		{440, false, "440 Hz"},
		{999, false, "999 Hz"},
		{1500, false, "1.5 kHz"},
		{9999, false, "10.0 kHz"},
		{10000, false, "10 kHz"},
		{15000, false, "15 kHz"},
		{1760, true, "1760 Hz"}, // pitch labels stay in integer Hz
	}
	for _, tt := range tests {
		if got := formatFrequency(tt.freq, tt.pitch); got != tt.expected {
			t.Errorf("formatFrequency(%g, %v) = %q, expected %q", tt.freq, tt.pitch, got, tt.expected)
		}
	}
}

func TestAxisCustomSpacing(t *testing.T) {
	p := AxisPlanner{Spacing: 60, GlyphHeight: 20}
	labels := p.Labels(48.0, 13500.0, 480)
	for i := 1; i < len(labels); i++ {
		if d := labels[i].Y - labels[i-1].Y; d < 60 {
			t.Errorf("labels %.1f px apart, expected >= 60", d)
		}
	}
	for _, l := range labels {
		if l.Y < 10 || l.Y > 470 {
			t.Errorf("label %q at %g violates the 10 px edge margin", l.Text, l.Y)
		}
	}
	if len(labels) == 0 {
		t.Error("expected some labels at 60 px spacing on a 480 px axis")
	}
}
