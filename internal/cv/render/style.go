package render

import (
	"fmt"
	"strconv"
)

// Geometry is the fixed page layout, in millimetres.
type Geometry struct {
	PageWidth    float64
	Margin       float64
	BottomLimit  float64 // a block may not start below this line
	FooterY      float64
	FooterInset  float64 // distance of the footer's right edge from the right margin
	ContentInset float64 // indentation of experience descriptions
}

// ContentWidth is the printable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// A4 is the default geometry.
var A4 = Geometry{
	PageWidth:    210,
	Margin:       24,
	BottomLimit:  280,
	FooterY:      290,
	FooterInset:  15,
	ContentInset: 2,
}

// Color is an RGB triple.
type Color struct {
	R, G, B int
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MustHex parses "#rrggbb" and panics on malformed input; meant for
// package-level palettes.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Palette names the colors used by the layout.
type Palette struct {
	Primary     Color
	Secondary   Color
	Accent      Color
	LightGray   Color
	LighterGray Color
	SectionLine Color
}

// DefaultPalette is the navy/gray scheme of the builder.
var DefaultPalette = Palette{
	Primary:     MustHex("#1a365d"),
	Secondary:   MustHex("#2d3748"),
	Accent:      MustHex("#3182ce"),
	LightGray:   MustHex("#718096"),
	LighterGray: MustHex("#a0aec0"),
	SectionLine: MustHex("#e2e8f0"),
}

// Separator joins contact items and skills.
const Separator = " • "
