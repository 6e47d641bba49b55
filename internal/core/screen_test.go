package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := range s.Height() {
		for x := range s.Width() {
			if c := s.GetCell(x, y); c != blank {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenOutOfBounds(t *testing.T) {
	s := NewScreen(10, 10)

	// Writes outside the buffer are dropped
	for _, p := range []Point{{-1, 0}, {100, 0}, {0, -1}, {0, 100}} {
		s.SetCell(p.X, p.Y, Cell{Rune: 'A', Color: ColorRed, Bold: true})
		if c := s.GetCell(p.X, p.Y); c != blank {
			t.Errorf("GetCell(%d, %d) = %+v, expected blank", p.X, p.Y, c)
		}
	}
	if strings.ContainsRune(s.String(), 'A') {
		t.Error("out of bounds write leaked into the buffer")
	}
}

func TestScreenSetCellKeepsStyle(t *testing.T) {
	s := NewScreen(6, 2)
	tile := Cell{Rune: '★', Color: ColorBrightPurple, Bold: true}
	s.SetCell(2, 1, tile)

	if c := s.GetCell(2, 1); c != tile {
		t.Errorf("GetCell(2, 1) = %+v, expected %+v", c, tile)
	}

	// SetColored never carries bold over from the cell it replaces
	s.SetColored(2, 1, '[', ColorWhite)
	if c := s.GetCell(2, 1); c.Bold || c.Color != ColorWhite || c.Rune != '[' {
		t.Errorf("SetColored left %+v", c)
	}

	s.Set(2, 1, 'x')
	if c := s.GetCell(2, 1); c.Color != ColorDefault {
		t.Errorf("Set should clear colour, got %v", c.Color)
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(12, 2)
	s.DrawTextColored(1, 0, "BLAST · x", ColorWhite)

	// Runes, not bytes: the middle dot takes one cell
	if got := s.GetCell(7, 0); got.Rune != '·' || got.Color != ColorWhite {
		t.Errorf("GetCell(7, 0) = %+v, expected white ·", got)
	}
	if got := s.GetCell(9, 0); got.Rune != 'x' {
		t.Errorf("GetCell(9, 0) = %q, expected x", got.Rune)
	}

	// Clipped at the right edge
	s.DrawTextColored(10, 1, "abc", ColorDim)
	if s.GetCell(10, 1).Rune != 'a' || s.GetCell(11, 1).Rune != 'b' {
		t.Error("text should be clipped at the right boundary")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi")

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}

	// Centred by rune count
	s.DrawTextCentered(3, "·×·")
	if s.Get(8, 3) != '·' || s.Get(9, 3) != '×' {
		t.Errorf("row 3 = %q", strings.Split(s.String(), "\n")[3])
	}
}

func TestScreenDrawRectClearsColour(t *testing.T) {
	s := NewScreen(6, 4)
	for x := range 6 {
		s.SetCell(x, 1, Cell{Rune: '●', Color: ColorRed, Bold: true})
	}

	// Overlays blank the board underneath
	s.DrawRect(NewRect(1, 0, 3, 3), ' ')
	for x := 1; x < 4; x++ {
		if c := s.GetCell(x, 1); c != blank {
			t.Errorf("GetCell(%d, 1) = %+v, expected blank", x, c)
		}
	}
	if c := s.GetCell(4, 1); c.Color != ColorRed {
		t.Errorf("DrawRect should not affect outside area, got %+v", c)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorGray)

	corners := map[Point]rune{{1, 1}: '┌', {5, 1}: '┐', {1, 4}: '└', {5, 4}: '┘'}
	for p, want := range corners {
		if c := s.GetCell(p.X, p.Y); c.Rune != want || c.Color != ColorGray {
			t.Errorf("corner (%d, %d) = %+v, expected gray %q", p.X, p.Y, c, want)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge broken at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge broken at y=%d", y)
		}
	}
	if c := s.GetCell(3, 2); c != blank {
		t.Errorf("DrawBox should leave the inside alone, got %+v", c)
	}
}

func TestColorBright(t *testing.T) {
	tests := []struct {
		in, want Color
	}{
		{ColorRed, ColorBrightRed},
		{ColorGreen, ColorBrightGreen},
		{ColorPurple, ColorBrightPurple},
		{ColorGray, ColorGray},
		{ColorBrightRed, ColorBrightRed},
	}
	for _, tt := range tests {
		if got := tt.in.Bright(); got != tt.want {
			t.Errorf("%v.Bright() = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawTextColored(0, 1, "BBBBB", ColorBlue)
	s.SetCell(2, 2, Cell{Rune: '◆', Color: ColorRed, Bold: true})

	expected := "AAAAA\nBBBBB\n  ◆  "
	if got := s.String(); got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResizeKeepsColours(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorYellow)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("after resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if c := s.GetCell(4, 0); c.Rune != 'o' || c.Color != ColorYellow {
		t.Errorf("content should be preserved, got %+v", c)
	}

	s.Resize(15, 8)
	if c := s.GetCell(0, 0); c.Rune != 'H' || c.Color != ColorYellow {
		t.Errorf("content should be preserved after enlarging, got %+v", c)
	}
	if c := s.GetCell(12, 7); c != blank {
		t.Errorf("new area should be blank, got %+v", c)
	}
}
