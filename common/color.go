// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGBA color with components in the [0, 1] range.
type Color struct {
	R, G, B, A float32
}

// White is opaque white. The depth capture stage clears to it because no encoded depth value is pure white.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Black is opaque black.
var Black = Color{A: 1}

// Palette is an ordered set of colors applied to the scene geometry.
// The first entry is used as the primary surface color, subsequent entries as accents.
type Palette []Color

// ParseHexColor parses CSS-style hex colors in the "#rgb" or "#rrggbb" form.
//
// Parameters:
//   - s: the hex color string, with or without the leading '#'
//
// Returns:
//   - Color: the opaque color
//   - error: error if the string is not a valid hex color
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
		A: 1,
	}, nil
}

// MustPalette builds a Palette from hex strings and panics on malformed input.
// Palettes are static tables, so a bad entry is a programming error.
//
// Parameters:
//   - hexes: the hex color strings
//
// Returns:
//   - Palette: the parsed palette
func MustPalette(hexes ...string) Palette {
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			panic(err)
		}
		p = append(p, c)
	}
	return p
}
