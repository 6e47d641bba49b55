package engine

import "fmt"

// Coord is a cell position. X grows to the right, Y grows upward:
// row 0 is the bottom row and gravity pulls toward smaller Y.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Left returns the neighbour at x-1.
func (c Coord) Left() Coord { return c.Add(-1, 0) }

// Right returns the neighbour at x+1.
func (c Coord) Right() Coord { return c.Add(1, 0) }

// Up returns the neighbour at y+1.
func (c Coord) Up() Coord { return c.Add(0, 1) }

// Down returns the neighbour at y-1.
func (c Coord) Down() Coord { return c.Add(0, -1) }
