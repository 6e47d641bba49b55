package engine

import "fmt"

// Region is an inclusive rectangle of cells to scan.
type Region struct {
	MinX, MinY int
	MaxX, MaxY int
}

// FullRegion covers the whole grid.
func FullRegion(g *Grid) Region {
	return Region{MinX: 0, MinY: 0, MaxX: g.Width() - 1, MaxY: g.Height() - 1}
}

// ScanResult reports what a scan pass found.
type ScanResult struct {
	// AnyGroupFound is true when at least one cell of the region is part of a
	// group after the pass. False over the full grid is the deadlock signal.
	AnyGroupFound bool

	// Merges counts cells that seeded or extended a group during the pass.
	Merges int
}

// matchScanner builds groups from same-colour adjacency.
type matchScanner struct {
	grid  *Grid
	tiles *tileArena
	index *GroupIndex
}

// Scan visits every cell of r column by column (x outer, y inner). For each
// cell it looks for same-coloured neighbours, picks a seed group from the
// first neighbour that already has one (left, right, up, down) or creates a
// new group, and pulls the neighbours and the cell itself into it.
//
// Cells already marked groupable do not seed anything, but they still merge
// their group with any touching same-coloured group so a component is never
// split across two groups.
func (s *matchScanner) Scan(r Region) (ScanResult, error) {
	lo, hi := C(r.MinX, r.MinY), C(r.MaxX, r.MaxY)
	if !s.grid.InBounds(lo) || !s.grid.InBounds(hi) || r.MinX > r.MaxX || r.MinY > r.MaxY {
		return ScanResult{}, fmt.Errorf("scan region %v-%v: %w", lo, hi, ErrOutOfRange)
	}

	var res ScanResult
	for x := r.MinX; x <= r.MaxX; x++ {
		for y := r.MinY; y <= r.MaxY; y++ {
			c := C(x, y)
			id := s.grid.at(c)
			if id == 0 {
				continue
			}
			t := s.tiles.get(id)

			if s.grid.groupableAt(c) && t.Group != 0 {
				s.reconcile(t)
				res.AnyGroupFound = true
				continue
			}

			left := s.match(t, c.Left())
			right := s.match(t, c.Right())
			down := s.match(t, c.Down())
			up := s.match(t, c.Up())
			if left == nil && right == nil && up == nil && down == nil {
				continue
			}

			var seed *Group
			for _, n := range []*Tile{left, right, up, down} {
				if n != nil && n.Group != 0 {
					seed = s.index.Get(n.Group)
					break
				}
			}
			if seed == nil {
				seed = s.index.New()
			}

			for _, n := range []*Tile{left, right, up, down} {
				if n != nil {
					s.join(seed, n)
				}
			}
			s.join(seed, t)

			res.AnyGroupFound = true
			res.Merges++
		}
	}
	return res, nil
}

// join pulls t into seed, absorbing t's current group if it has another one.
func (s *matchScanner) join(seed *Group, t *Tile) {
	switch {
	case t.Group == seed.ID:
	case t.Group != 0:
		s.index.Merge(seed, s.index.Get(t.Group))
	default:
		s.index.AddTile(seed, t)
	}
	s.grid.markGroupable(t.Pos, true)
}

// reconcile merges the group of an already-groupable tile with any touching
// same-coloured group.
func (s *matchScanner) reconcile(t *Tile) {
	c := t.Pos
	for _, nc := range []Coord{c.Left(), c.Right(), c.Up(), c.Down()} {
		n := s.match(t, nc)
		if n == nil || n.Group == t.Group {
			continue
		}
		g := s.index.Get(t.Group)
		if n.Group == 0 {
			s.index.AddTile(g, n)
		} else {
			s.index.Merge(g, s.index.Get(n.Group))
		}
		s.grid.markGroupable(n.Pos, true)
	}
}

// match returns the tile at nc when it exists and shares t's colour.
func (s *matchScanner) match(t *Tile, nc Coord) *Tile {
	if !s.grid.InBounds(nc) {
		return nil
	}
	id := s.grid.at(nc)
	if id == 0 {
		return nil
	}
	n := s.tiles.get(id)
	if n.Color != t.Color {
		return nil
	}
	return n
}

// HasAnyMatch reports whether a colour layout, stored column by column
// (index = x*h + y), contains two orthogonally adjacent cells of one colour.
// Cells holding ColorCount are empty and never match.
func HasAnyMatch(colors []Color, w, h int) bool {
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := colors[x*h+y]
			if c >= ColorCount {
				continue
			}
			if x+1 < w && colors[(x+1)*h+y] == c {
				return true
			}
			if y+1 < h && colors[x*h+y+1] == c {
				return true
			}
		}
	}
	return false
}
