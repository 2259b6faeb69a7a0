package cinema

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// White is the default light and background color.
var White = Color{R: 1, G: 1, B: 1}

// RGB8 is an opaque 8-bit color, one entry of a lookup table.
type RGB8 struct {
	R, G, B uint8
}

// ParseColor parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("cinema: parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

// RGB8 converts the color to 8-bit channels, rounding and clamping.
func (c Color) RGB8() RGB8 {
	return RGB8{R: toByte(c.R * 255), G: toByte(c.G * 255), B: toByte(c.B * 255)}
}

// toByte rounds x and clamps it to [0, 255].
func toByte(x float64) uint8 {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return uint8(math.Round(x))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
