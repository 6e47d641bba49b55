package engine

import "strings"

// Color is a tile colour from the fixed palette.
type Color uint8

const (
	ColorBlue Color = iota
	ColorGreen
	ColorPink
	ColorPurple
	ColorRed
	ColorYellow
	ColorCount // Sentinel value for iteration
)

// MaxPalette is the largest palette a board may use.
const MaxPalette = int(ColorCount)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorPink:
		return "pink"
	case ColorPurple:
		return "purple"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	default:
		return "unknown"
	}
}

// Char returns a single character representation of the color for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorBlue:
		return 'B'
	case ColorGreen:
		return 'G'
	case ColorPink:
		return 'K'
	case ColorPurple:
		return 'P'
	case ColorRed:
		return 'R'
	case ColorYellow:
		return 'Y'
	default:
		return '?'
	}
}

// ParseColor converts a string to a Color.
// Returns ColorBlue and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "blue", "b":
		return ColorBlue, true
	case "green", "g":
		return ColorGreen, true
	case "pink", "k":
		return ColorPink, true
	case "purple", "p":
		return ColorPurple, true
	case "red", "r":
		return ColorRed, true
	case "yellow", "y":
		return ColorYellow, true
	default:
		return ColorBlue, false
	}
}

// Palette returns the first n colors of the palette.
func Palette(n int) []Color {
	if n > MaxPalette {
		n = MaxPalette
	}
	out := make([]Color, 0, n)
	for c := range Color(n) {
		out = append(out, c)
	}
	return out
}
