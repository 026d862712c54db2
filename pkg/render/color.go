package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// ErrBadColor reports a color string that is not #rgb or #rrggbb.
var ErrBadColor = errors.New("render: bad color")

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ParseHex parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #rrggbb.
func Hex(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// MultiplyColor scales the RGB channels by intensity, saturating at 255.
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: clampByte(float64(c.R) * intensity),
		G: clampByte(float64(c.G) * intensity),
		B: clampByte(float64(c.B) * intensity),
		A: c.A,
	}
}

// ModulateColor multiplies two colors channel by channel.
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8(uint16(a.R) * uint16(b.R) / 255),
		G: uint8(uint16(a.G) * uint16(b.G) / 255),
		B: uint8(uint16(a.B) * uint16(b.B) / 255),
		A: a.A,
	}
}

// AddColor adds two colors with saturation. The result is opaque.
func AddColor(a, b Color) Color {
	return Color{
		R: uint8(min(int(a.R)+int(b.R), 255)),
		G: uint8(min(int(a.G)+int(b.G), 255)),
		B: uint8(min(int(a.B)+int(b.B), 255)),
		A: 255,
	}
}

// LerpColor blends from a to b by t in [0,1].
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: clampByte(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: clampByte(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: clampByte(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: clampByte(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// Luminance returns the Rec. 709 luma of c in [0,1].
func Luminance(c Color) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
