package engine

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shuffleFixture is a bare board for driving the shuffler directly.
type shuffleFixture struct {
	grid  *Grid
	tiles *tileArena
}

func newShuffleFixture(w, h int, colors []Color) *shuffleFixture {
	f := &shuffleFixture{grid: NewGrid(w, h), tiles: newTileArena()}
	for c := range f.grid.Coords() {
		color := colors[f.grid.index(c)]
		if color >= ColorCount {
			continue
		}
		tile := f.tiles.create(color, c)
		f.grid.put(c, tile.ID)
	}
	return f
}

func (f *shuffleFixture) colorOf(id TileID) Color { return f.tiles.get(id).Color }

func (f *shuffleFixture) layout() []Color {
	out := make([]Color, len(f.grid.cells))
	for i, id := range f.grid.cells {
		out[i] = ColorCount
		if id != 0 {
			out[i] = f.colorOf(id)
		}
	}
	return out
}

func TestShufflePlanIsBijection(t *testing.T) {
	for seed := range uint64(50) {
		rng := rand.New(rand.NewPCG(seed, 1))
		w, h := 2+rng.IntN(6), 2+rng.IntN(6)
		colors := make([]Color, w*h)
		for i := range colors {
			colors[i] = Color(rng.IntN(MaxPalette))
		}
		f := newShuffleFixture(w, h, colors)
		before := slices.Clone(f.layout())
		ids := slices.Clone(f.grid.cells)

		plan, err := NewShuffler(rng, 0).Plan(f.grid, f.colorOf)
		require.NoError(t, err, "seed %d", seed)

		for r := range plan.Steps() {
			require.Equal(t, r.From, f.tiles.get(r.Tile).Pos, "relocation starts where the tile is")
			require.NotEqual(t, r.From, r.To)
		}
		plan.apply(f.grid, f.tiles)

		after := f.layout()
		assert.True(t, HasAnyMatch(after, w, h), "seed %d: shuffled board has no match", seed)

		slices.Sort(before)
		slices.Sort(after)
		assert.Equal(t, before, after, "seed %d: colour multiset changed", seed)

		moved := slices.Clone(f.grid.cells)
		slices.Sort(ids)
		slices.Sort(moved)
		assert.Equal(t, ids, moved, "seed %d: tile set changed", seed)
		for c := range f.grid.Coords() {
			assert.Equal(t, c, f.tiles.get(f.grid.at(c)).Pos)
		}
	}
}

func TestShuffleUnresolvable(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		colors []Color
	}{
		{"two cells two colours", 2, 1, []Color{ColorRed, ColorBlue}},
		{"single cell", 1, 1, []Color{ColorRed}},
		{"all colours distinct", 3, 2, []Color{ColorBlue, ColorGreen, ColorPink, ColorPurple, ColorRed, ColorYellow}},
		{"isolated cells", 3, 1, []Color{ColorRed, ColorCount, ColorRed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newShuffleFixture(tt.w, tt.h, tt.colors)
			_, err := NewShuffler(rand.New(rand.NewPCG(1, 2)), 0).Plan(f.grid, f.colorOf)
			assert.True(t, errors.Is(err, ErrUnresolvableDeadlock), "err = %v", err)
		})
	}
}

func TestShuffleFallbackAlwaysMatches(t *testing.T) {
	fallbacks := 0
	row := []Color{ColorBlue, ColorGreen, ColorPink, ColorPurple, ColorRed, ColorRed}
	for seed := range uint64(20) {
		// Two of three random orderings separate the red pair, and only one
		// attempt is allowed.
		f := newShuffleFixture(6, 1, row)
		plan, err := NewShuffler(rand.New(rand.NewPCG(seed, 3)), 1).Plan(f.grid, f.colorOf)
		require.NoError(t, err)
		if plan.Fallback {
			fallbacks++
		}
		plan.apply(f.grid, f.tiles)
		assert.True(t, HasAnyMatch(f.layout(), 6, 1), "seed %d", seed)
	}
	assert.Positive(t, fallbacks)
}

func TestForcePair(t *testing.T) {
	colorOf := func(id TileID) Color {
		if id%2 == 0 {
			return ColorRed
		}
		return ColorBlue
	}
	// Tiles 2 and 4 are red; try every slot pair, including ones that
	// already hold a red tile.
	for a := range 4 {
		for b := range 4 {
			if a == b {
				continue
			}
			perm := []TileID{1, 2, 3, 4}
			forcePair(perm, [2]int{a, b}, ColorRed, colorOf)
			assert.Equal(t, ColorRed, colorOf(perm[a]), "pair %d,%d: %v", a, b, perm)
			assert.Equal(t, ColorRed, colorOf(perm[b]), "pair %d,%d: %v", a, b, perm)
			sorted := slices.Sorted(slices.Values(perm))
			assert.Equal(t, []TileID{1, 2, 3, 4}, sorted)
		}
	}
}
