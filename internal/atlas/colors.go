// Package atlas lays out the six box-UV faces of every cube in a geometry on
// a square texture and renders the color-keyed template the painter fills in.
package atlas

import (
	"fmt"
	"image/color"
	"strconv"
)

// ColorCapacity is the number of distinct key colors. Indices wrap beyond it.
const ColorCapacity = 512

// KeyColor maps a face index to its key color. The index is read as three
// base-8 digits (r, g, b), each scaled to digit*32+16, so every channel sits
// in 16..240 and never matches black (background) or white.
func KeyColor(index int) color.NRGBA {
	if index < 0 {
		index = -index
	}
	return color.NRGBA{
		R: uint8((index%8)*32 + 16),
		G: uint8((index/8)%8*32 + 16),
		B: uint8((index/64)%8*32 + 16),
		A: 255,
	}
}

// ColorForIndex returns the key color for index as "#RRGGBB".
func ColorForIndex(index int) string {
	return Hex(KeyColor(index))
}

// Hex formats c as an upper-case "#RRGGBB" string.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses "#RRGGBB" into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
