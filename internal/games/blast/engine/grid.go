package engine

import "iter"

// Grid is the authoritative board storage: a W*H array of tile handles and a
// parallel groupable cache. Cells are stored column by column: index = x*H + y.
// Grid does not decide adjacency; it only stores and bounds-checks.
type Grid struct {
	w, h      int
	cells     []TileID
	groupable []bool
}

// NewGrid creates an empty grid.
func NewGrid(w, h int) *Grid {
	return &Grid{
		w:         w,
		h:         h,
		cells:     make([]TileID, w*h),
		groupable: make([]bool, w*h),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.X*g.h + c.Y
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.w && c.Y >= 0 && c.Y < g.h
}

// Get returns the tile handle at c, 0 when the cell is empty.
func (g *Grid) Get(c Coord) (TileID, error) {
	if !g.InBounds(c) {
		return 0, outOfRange(c, g.w, g.h)
	}
	return g.cells[g.index(c)], nil
}

// Set stores a tile handle at c. Passing 0 empties the cell.
func (g *Grid) Set(c Coord, id TileID) error {
	if !g.InBounds(c) {
		return outOfRange(c, g.w, g.h)
	}
	g.cells[g.index(c)] = id
	return nil
}

// Groupable returns the cached groupable bit for c.
func (g *Grid) Groupable(c Coord) (bool, error) {
	if !g.InBounds(c) {
		return false, outOfRange(c, g.w, g.h)
	}
	return g.groupable[g.index(c)], nil
}

// SetGroupable updates the groupable bit for c.
func (g *Grid) SetGroupable(c Coord, v bool) error {
	if !g.InBounds(c) {
		return outOfRange(c, g.w, g.h)
	}
	g.groupable[g.index(c)] = v
	return nil
}

// ResetGroupable clears the whole groupable cache.
func (g *Grid) ResetGroupable() {
	clear(g.groupable)
}

// at and groupableAt are the unchecked accessors used by callers that have
// already established c is in bounds.
func (g *Grid) at(c Coord) TileID {
	return g.cells[g.index(c)]
}

func (g *Grid) put(c Coord, id TileID) {
	g.cells[g.index(c)] = id
}

func (g *Grid) groupableAt(c Coord) bool {
	return g.groupable[g.index(c)]
}

func (g *Grid) markGroupable(c Coord, v bool) {
	g.groupable[g.index(c)] = v
}

// Coords iterates every coordinate in column-major order (x outer, y inner).
func (g *Grid) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for x := 0; x < g.w; x++ {
			for y := 0; y < g.h; y++ {
				if !yield(C(x, y)) {
					return
				}
			}
		}
	}
}

// Occupied returns the number of non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, id := range g.cells {
		if id != 0 {
			n++
		}
	}
	return n
}

// Full reports whether every cell holds a tile.
func (g *Grid) Full() bool {
	return g.Occupied() == len(g.cells)
}
