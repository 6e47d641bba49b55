package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gammazero/deque"
)

// Components returns every 4-connected same-colour component of at least two
// cells in a column-major colour layout. Cells holding ColorCount are empty.
// Components and their cells are listed in column-major order.
func Components(colors []Color, w, h int) [][]Coord {
	seen := make([]bool, len(colors))
	var (
		out   [][]Coord
		queue deque.Deque[int]
	)
	for start, color := range colors {
		if seen[start] || color >= ColorCount {
			continue
		}
		seen[start] = true
		queue.PushBack(start)

		var comp []Coord
		for queue.Len() > 0 {
			i := queue.PopFront()
			c := C(i/h, i%h)
			comp = append(comp, c)
			for _, nc := range []Coord{c.Left(), c.Right(), c.Down(), c.Up()} {
				if nc.X < 0 || nc.X >= w || nc.Y < 0 || nc.Y >= h {
					continue
				}
				j := nc.X*h + nc.Y
				if !seen[j] && colors[j] == color {
					seen[j] = true
					queue.PushBack(j)
				}
			}
		}
		if len(comp) >= 2 {
			slices.SortFunc(comp, func(a, b Coord) int {
				if a.X != b.X {
					return a.X - b.X
				}
				return a.Y - b.Y
			})
			out = append(out, comp)
		}
	}
	return out
}

// Layout returns the board as a column-major colour layout, ColorCount for
// empty cells.
func (e *Engine) Layout() []Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout()
}

func (e *Engine) layout() []Color {
	out := make([]Color, len(e.grid.cells))
	for i, id := range e.grid.cells {
		out[i] = ColorCount
		if id != 0 {
			out[i] = e.tiles.get(id).Color
		}
	}
	return out
}

// CheckInvariants verifies board and group consistency. Group maximality and
// the groupable cache are only checked while the engine is idle.
func (e *Engine) CheckInvariants() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	seen := make(map[TileID]Coord)
	for c := range e.grid.Coords() {
		id := e.grid.at(c)
		if id == 0 {
			continue
		}
		if prev, dup := seen[id]; dup {
			fail("tile %d at both %v and %v", id, prev, c)
			continue
		}
		seen[id] = c
		t := e.tiles.get(id)
		if t == nil {
			fail("cell %v references dead tile %d", c, id)
			continue
		}
		if t.Pos != c {
			fail("tile %d stored at %v but positioned at %v", id, c, t.Pos)
		}
	}
	if len(seen) != e.tiles.len() {
		fail("%d tiles alive, %d on the board", e.tiles.len(), len(seen))
	}

	owner := make(map[TileID]GroupID)
	for g := range e.index.Groups() {
		if g.Len() < 2 {
			fail("group %d has %d members", g.ID, g.Len())
		}
		sum := 0
		for _, n := range g.countByColumn {
			sum += n
		}
		if sum != g.Len() {
			fail("group %d histogram sums to %d, has %d members", g.ID, sum, g.Len())
		}
		if tier := e.cfg.TierFor(g.Len()); tier != g.tier {
			fail("group %d of size %d has tier %d, want %d", g.ID, g.Len(), g.tier, tier)
		}
		minRow := e.cfg.Height
		for _, id := range g.members {
			if other, ok := owner[id]; ok {
				fail("tile %d in groups %d and %d", id, other, g.ID)
			}
			owner[id] = g.ID
			t := e.tiles.get(id)
			if t == nil {
				fail("group %d holds dead tile %d", g.ID, id)
				continue
			}
			if t.Group != g.ID {
				fail("tile %d member of group %d points at %d", id, g.ID, t.Group)
			}
			if t.Color != g.Color {
				fail("tile %d colour %v in %v group %d", id, t.Color, g.Color, g.ID)
			}
			minRow = min(minRow, t.Pos.Y)
		}
		if minRow != g.minRow {
			fail("group %d min row %d, want %d", g.ID, g.minRow, minRow)
		}
	}
	for t := range e.tiles.all() {
		if t.Group != 0 && owner[t.ID] != t.Group {
			fail("tile %d points at group %d but is not a member", t.ID, t.Group)
		}
	}

	if e.phase == PhaseIdle {
		errs = append(errs, e.checkSettled()...)
	}
	return errors.Join(errs...)
}

// checkSettled compares the groups against a fresh flood fill. Caller holds mu.
func (e *Engine) checkSettled() []error {
	var errs []error
	if !e.grid.Full() {
		errs = append(errs, fmt.Errorf("idle board has %d of %d cells filled", e.grid.Occupied(), len(e.grid.cells)))
	}

	comps := Components(e.layout(), e.cfg.Width, e.cfg.Height)
	if len(comps) != e.index.Len() {
		errs = append(errs, fmt.Errorf("%d components, %d groups", len(comps), e.index.Len()))
	}
	for _, comp := range comps {
		g := e.index.Of(e.tiles.get(e.grid.at(comp[0])))
		if g == nil {
			errs = append(errs, fmt.Errorf("component at %v has no group", comp[0]))
			continue
		}
		if g.Len() != len(comp) {
			errs = append(errs, fmt.Errorf("group %d has %d members, component at %v has %d cells", g.ID, g.Len(), comp[0], len(comp)))
		}
		for _, c := range comp {
			if t := e.tiles.get(e.grid.at(c)); t.Group != g.ID {
				errs = append(errs, fmt.Errorf("cell %v in component of group %d belongs to %d", c, g.ID, t.Group))
			}
		}
	}
	for c := range e.grid.Coords() {
		t := e.tiles.get(e.grid.at(c))
		if t == nil {
			continue
		}
		want := t.Group != 0
		if e.grid.groupableAt(c) != want {
			errs = append(errs, fmt.Errorf("cell %v groupable=%v, tile group %d", c, e.grid.groupableAt(c), t.Group))
		}
		tier := 0
		if g := e.index.Of(t); g != nil {
			tier = g.tier
		}
		if t.ShownTier != tier {
			errs = append(errs, fmt.Errorf("tile %d shows tier %d, group tier %d", t.ID, t.ShownTier, tier))
		}
	}
	return errs
}
