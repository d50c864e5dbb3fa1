package domain

import (
	"fmt"
	"strings"
)

// Color is an explicit bar color from the fixed palette.
// The zero value means "unset" and defers to ancestors, then priority.
type Color string

// Palette
const (
	ColorNone   Color = ""
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorTeal   Color = "teal"
	ColorYellow Color = "yellow"
	ColorGray   Color = "gray"
)

var paletteHex = map[Color]string{
	ColorBlue:   "#3B82F6",
	ColorGreen:  "#22C55E",
	ColorRed:    "#EF4444",
	ColorOrange: "#F97316",
	ColorPurple: "#A855F7",
	ColorPink:   "#EC4899",
	ColorTeal:   "#14B8A6",
	ColorYellow: "#EAB308",
	ColorGray:   "#6B7280",
}

// Palette returns the selectable colors in display order.
func Palette() []Color {
	return []Color{ColorBlue, ColorGreen, ColorRed, ColorOrange, ColorPurple, ColorPink, ColorTeal, ColorYellow, ColorGray}
}

// NewColor parses a palette name. An empty string yields ColorNone.
func NewColor(value string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(value)))
	if err := c.Validate(); err != nil {
		return ColorNone, err
	}
	return c, nil
}

// Validate accepts palette colors and the unset value.
func (c Color) Validate() error {
	if c == ColorNone {
		return nil
	}
	if _, ok := paletteHex[c]; !ok {
		return fmt.Errorf("invalid color %q: must be one of %v", string(c), Palette())
	}
	return nil
}

// IsSet reports whether the color was chosen explicitly.
func (c Color) IsSet() bool {
	return c != ColorNone
}

// Hex returns the rendering color, or an empty string when unset.
func (c Color) Hex() string {
	return paletteHex[c]
}

// String returns the string representation
func (c Color) String() string {
	return string(c)
}
