package engine

import (
	"iter"
	"maps"
	"slices"
)

// TileID is the opaque handle of a tile. Zero means "no tile".
type TileID uint32

// GroupID is the handle of a group. Zero means "idle" (no group).
type GroupID uint32

// Tile is a single coloured piece on the board.
type Tile struct {
	ID    TileID
	Color Color
	Pos   Coord

	// Group is a lookup-only back-reference; the group owns no tile and the
	// tile does not own the group.
	Group GroupID

	// ShownTier is the tier the presentation layer was last told about.
	ShownTier int
}

// Idle reports whether the tile belongs to no group.
func (t *Tile) Idle() bool {
	return t.Group == 0
}

// tileArena owns every live tile.
type tileArena struct {
	tiles  map[TileID]*Tile
	nextID TileID
}

func newTileArena() *tileArena {
	return &tileArena{tiles: make(map[TileID]*Tile)}
}

func (a *tileArena) create(color Color, at Coord) *Tile {
	a.nextID++
	t := &Tile{ID: a.nextID, Color: color, Pos: at}
	a.tiles[t.ID] = t
	return t
}

func (a *tileArena) get(id TileID) *Tile {
	return a.tiles[id]
}

func (a *tileArena) remove(id TileID) {
	delete(a.tiles, id)
}

func (a *tileArena) len() int {
	return len(a.tiles)
}

// all iterates live tiles in creation order.
func (a *tileArena) all() iter.Seq[*Tile] {
	return func(yield func(*Tile) bool) {
		for _, id := range slices.Sorted(maps.Keys(a.tiles)) {
			if !yield(a.tiles[id]) {
				return
			}
		}
	}
}
