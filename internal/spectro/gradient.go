// SPDX-License-Identifier: MIT
package spectro

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmptyGradient is returned when a gradient is constructed with no
// color stops. Rejected at configuration time so color lookups
// downstream never index an empty table.
var ErrEmptyGradient = errors.New("gradient needs at least one color stop")

// Gradient maps a normalized intensity in [0, 1] onto an ordered list
// of RGBA color stops, blending between adjacent stops. A Gradient is
// immutable; replacing the active gradient recolors only slices built
// afterwards.
type Gradient struct {
	stops  []color.RGBA
	blends []colorful.Color // stop colors in blend space, alpha tracked separately
}

// NewGradient builds a gradient from ordered RGBA stops. At least one
// stop is required.
func NewGradient(stops ...color.RGBA) (Gradient, error) {
	if len(stops) == 0 {
		return Gradient{}, ErrEmptyGradient
	}
	g := Gradient{
		stops:  append([]color.RGBA(nil), stops...),
		blends: make([]colorful.Color, len(stops)),
	}
	for i, s := range stops {
		g.blends[i] = colorful.Color{
			R: float64(s.R) / 255,
			G: float64(s.G) / 255,
			B: float64(s.B) / 255,
		}
	}
	return g, nil
}

// ParseGradient builds a gradient from hex stops, "#rrggbb" or
// "#rrggbbaa". Omitted alpha means opaque.
func ParseGradient(stops ...string) (Gradient, error) {
	if len(stops) == 0 {
		return Gradient{}, ErrEmptyGradient
	}
	rgba := make([]color.RGBA, len(stops))
	for i, s := range stops {
		hex := s
		alpha := uint8(0xff)
		if len(s) == 9 && s[0] == '#' {
			a, err := strconv.ParseUint(s[7:9], 16, 8)
			if err != nil {
				return Gradient{}, fmt.Errorf("bad alpha in gradient stop %q: %w", s, err)
			}
			alpha = uint8(a)
			hex = s[:7]
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return Gradient{}, fmt.Errorf("bad gradient stop %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		rgba[i] = color.RGBA{R: r, G: g, B: b, A: alpha}
	}
	return NewGradient(rgba...)
}

// Len returns the number of color stops. Zero only for the zero value,
// which the constructors never produce.
func (g Gradient) Len() int {
	return len(g.stops)
}

// At returns the color for intensity t, clamped to [0, 1]. NaN takes
// the first stop. Adjacent stops are blended in Luv space; alpha
// interpolates linearly.
func (g Gradient) At(t float64) color.RGBA {
	if len(g.stops) == 1 {
		return g.stops[0]
	}
	// NaN fails both clamp tests and would poison the stop index.
	if t <= 0 || math.IsNaN(t) {
		return g.stops[0]
	}
	if t >= 1 {
		return g.stops[len(g.stops)-1]
	}
	pos := t * float64(len(g.stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	c := g.blends[i].BlendLuv(g.blends[i+1], frac)
	r, gr, b := c.Clamped().RGB255()
	a := float64(g.stops[i].A)*(1-frac) + float64(g.stops[i+1].A)*frac
	return color.RGBA{R: r, G: gr, B: b, A: uint8(a + 0.5)}
}
