package engine

import (
	"fmt"
	"iter"
	"math/rand/v2"
)

// Relocation moves one tile during a shuffle.
type Relocation struct {
	Tile TileID
	From Coord
	To   Coord
}

// ShufflePlan is a validated permutation of the board. It is computed, and
// checked for at least one match, before any tile moves.
type ShufflePlan struct {
	// Attempts is the number of random layouts drawn, including the accepted one.
	Attempts int

	// Fallback is set when random layouts were exhausted and the plan was
	// built around a forced pair.
	Fallback bool

	moves []Relocation
	// target[i] is the tile that ends up in the i-th occupied cell.
	cells  []Coord
	target []TileID
}

// Steps iterates the relocations of tiles that change cell.
func (p *ShufflePlan) Steps() iter.Seq[Relocation] {
	return func(yield func(Relocation) bool) {
		for _, m := range p.moves {
			if !yield(m) {
				return
			}
		}
	}
}

// Len returns the number of tiles that move.
func (p *ShufflePlan) Len() int { return len(p.moves) }

// apply commits the permutation in one step: every source cell is cleared
// before any target is written.
func (p *ShufflePlan) apply(g *Grid, tiles *tileArena) {
	for _, c := range p.cells {
		g.put(c, 0)
		g.markGroupable(c, false)
	}
	for i, c := range p.cells {
		id := p.target[i]
		g.put(c, id)
		tiles.get(id).Pos = c
	}
}

// Shuffler draws uniform permutations of the tiles on a board until one of
// them contains a match.
type Shuffler struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewShuffler creates a shuffler. maxAttempts <= 0 selects
// DefaultMaxShuffleAttempts.
func NewShuffler(rng *rand.Rand, maxAttempts int) *Shuffler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxShuffleAttempts
	}
	return &Shuffler{rng: rng, maxAttempts: maxAttempts}
}

// Plan computes a shuffle of the occupied cells of g. colorOf resolves a tile
// handle to its colour. It returns ErrUnresolvableDeadlock when no
// permutation of the current tiles can contain a match.
func (s *Shuffler) Plan(g *Grid, colorOf func(TileID) Color) (*ShufflePlan, error) {
	w, h := g.Width(), g.Height()

	var (
		cells []Coord
		ids   []TileID
	)
	for c := range g.Coords() {
		if id := g.at(c); id != 0 {
			cells = append(cells, c)
			ids = append(ids, id)
		}
	}

	pair, ok := adjacentPair(g, cells)
	if !ok {
		return nil, fmt.Errorf("%d tiles, no two adjacent cells: %w", len(ids), ErrUnresolvableDeadlock)
	}
	repeated := repeatedColors(ids, colorOf)
	if len(repeated) == 0 {
		return nil, fmt.Errorf("%d tiles, every colour appears once: %w", len(ids), ErrUnresolvableDeadlock)
	}

	layout := make([]Color, w*h)
	for i := range layout {
		layout[i] = ColorCount
	}
	perm := make([]TileID, len(ids))

	plan := &ShufflePlan{cells: cells}
	for plan.Attempts < s.maxAttempts {
		plan.Attempts++
		copy(perm, ids)
		s.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		for i, c := range cells {
			layout[g.index(c)] = colorOf(perm[i])
		}
		if HasAnyMatch(layout, w, h) {
			plan.target = perm
			plan.moves = relocations(cells, ids, perm)
			return plan, nil
		}
	}

	// Random layouts keep coming back matchless: force one pair of a
	// repeated colour onto two adjacent cells and shuffle everything else.
	plan.Fallback = true
	color := repeated[s.rng.IntN(len(repeated))]
	copy(perm, ids)
	s.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	forcePair(perm, pair, color, colorOf)

	plan.target = perm
	plan.moves = relocations(cells, ids, perm)
	return plan, nil
}

// forcePair swaps two tiles of color into the slots named by pair. perm must
// hold at least two tiles of that colour.
func forcePair(perm []TileID, pair [2]int, color Color, colorOf func(TileID) Color) {
	var forced []int
	for i, id := range perm {
		if colorOf(id) == color {
			forced = append(forced, i)
			if len(forced) == 2 {
				break
			}
		}
	}
	perm[pair[0]], perm[forced[0]] = perm[forced[0]], perm[pair[0]]
	// The second tile may have been the one just swapped out of pair[0].
	second := forced[1]
	if second == pair[0] {
		second = forced[0]
	}
	perm[pair[1]], perm[second] = perm[second], perm[pair[1]]
}

// adjacentPair returns the indexes into cells of the first two orthogonally
// adjacent occupied cells.
func adjacentPair(g *Grid, cells []Coord) ([2]int, bool) {
	at := make(map[Coord]int, len(cells))
	for i, c := range cells {
		at[c] = i
	}
	for i, c := range cells {
		for _, nc := range []Coord{c.Right(), c.Up()} {
			if j, ok := at[nc]; ok && g.InBounds(nc) {
				return [2]int{i, j}, true
			}
		}
	}
	return [2]int{}, false
}

// repeatedColors lists colours held by at least two tiles, in palette order.
func repeatedColors(ids []TileID, colorOf func(TileID) Color) []Color {
	var counts [ColorCount]int
	for _, id := range ids {
		counts[colorOf(id)]++
	}
	var out []Color
	for c, n := range counts {
		if n >= 2 {
			out = append(out, Color(c))
		}
	}
	return out
}

func relocations(cells []Coord, before, after []TileID) []Relocation {
	from := make(map[TileID]Coord, len(before))
	for i, id := range before {
		from[id] = cells[i]
	}
	var moves []Relocation
	for i, id := range after {
		if from[id] == cells[i] {
			continue
		}
		moves = append(moves, Relocation{Tile: id, From: from[id], To: cells[i]})
	}
	return moves
}
