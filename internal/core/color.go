package core

// Color is a foreground colour for a screen cell. The platform maps it to an
// ANSI 256-colour code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorPink
	ColorPurple
	ColorCyan
	ColorWhite
	ColorGray
	ColorDim
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightPink
	ColorBrightPurple
)

// Bright returns the highlighted variant of a tile colour. Colours without
// one are returned unchanged.
func (c Color) Bright() Color {
	switch c {
	case ColorRed:
		return ColorBrightRed
	case ColorGreen:
		return ColorBrightGreen
	case ColorYellow:
		return ColorBrightYellow
	case ColorBlue:
		return ColorBrightBlue
	case ColorPink:
		return ColorBrightPink
	case ColorPurple:
		return ColorBrightPurple
	default:
		return c
	}
}
