package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative height", func(c *Config) { c.Height = -3 }, "height"},
		{"palette of one", func(c *Config) { c.Palette = 1 }, "palette"},
		{"palette too large", func(c *Config) { c.Palette = MaxPalette + 1 }, "palette"},
		{"non-positive threshold", func(c *Config) { c.Thresholds = [3]int{0, 3, 5} }, "thresholds"},
		{"descending thresholds", func(c *Config) { c.Thresholds = [3]int{4, 4, 9} }, "thresholds"},
		{"negative settle delay", func(c *Config) { c.SettleDelay = -time.Second }, "settle_delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestStartFillsAndSettles(t *testing.T) {
	rec := &recorder{auto: true}
	e, err := New(testConfig(8, 6), rec)
	require.NoError(t, err)

	out, err := e.Select(C(0, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out, "input is locked until the board is filled")

	e.Start()
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.False(t, e.Locked())
	assert.Len(t, e.Tiles(), 48)
	assert.Len(t, intentsOf[TileCreated](rec), 48)
	for _, tc := range intentsOf[TileCreated](rec) {
		assert.True(t, tc.Dropped)
	}
	assert.Equal(t, []Phase{PhaseScanning, PhaseIdle}, phases(rec)[len(phases(rec))-2:])
	require.NoError(t, e.CheckInvariants())

	e.Start()
	assert.Equal(t, 48, e.Stats().Created)
}

func TestSameSeedSameBoard(t *testing.T) {
	a, err := New(testConfig(6, 6), nil)
	require.NoError(t, err)
	b, err := New(testConfig(6, 6), nil)
	require.NoError(t, err)
	a.Start()
	b.Start()
	assert.Equal(t, a.Layout(), b.Layout())
}

func TestNilPresenterCompletesImmediately(t *testing.T) {
	e, err := New(DefaultConfig(), nil)
	require.NoError(t, err)

	e.Start()
	require.Equal(t, PhaseIdle, e.Phase())
	require.False(t, e.Locked())

	rng := rand.New(rand.NewPCG(7, 7))
	out, err := e.Select(pickGroupCell(t, e, rng))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, out)
	assert.Equal(t, PhaseIdle, e.Phase(), "a move resolves within Select")
	assert.Len(t, e.Tiles(), e.Width()*e.Height())
	require.NoError(t, e.CheckInvariants())
}

func TestSelectOutOfRange(t *testing.T) {
	e := newBoard(t, testConfig(0, 0), &recorder{auto: true}, "RR", "GB")
	for _, c := range []Coord{C(-1, 0), C(2, 0), C(0, 2), C(0, -1)} {
		_, err := e.Select(c)
		assert.True(t, errors.Is(err, ErrOutOfRange), "Select(%v) = %v", c, err)
	}
	assert.Equal(t, PhaseIdle, e.Phase())
}

func TestSelectDenied(t *testing.T) {
	rec := &recorder{auto: true}
	e := newBoard(t, testConfig(0, 0), rec,
		"RRB",
		"GYB",
	)
	rec.reset()

	out, err := e.Select(C(0, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, out)
	assert.Equal(t, []SelectionDenied{{At: C(0, 0)}}, intentsOf[SelectionDenied](rec))
	assert.Empty(t, phases(rec))
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.False(t, e.Locked())
}

func TestResolutionWaitsForCompletions(t *testing.T) {
	cfg := testConfig(0, 0)
	cfg.Palette = 2
	rec := &recorder{}
	e := newBoard(t, cfg, rec,
		"RR",
		"GR",
		"RR",
	)
	require.Equal(t, PhaseIdle, e.Phase())
	rec.reset()

	out, err := e.Select(C(1, 1))
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, out)
	assert.Equal(t, PhaseDestroying, e.Phase())
	assert.True(t, e.Locked())
	assert.Len(t, intentsOf[TileDestroyed](rec), 5)
	require.Len(t, intentsOf[SettleRequested](rec), 1)

	out, err = e.Select(C(0, 1))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)

	rec.step()
	assert.Equal(t, PhaseCompacting, e.Phase())
	moves := intentsOf[TileMoved](rec)
	require.Len(t, moves, 1)
	assert.Equal(t, C(0, 1), moves[0].From)
	assert.Equal(t, C(0, 0), moves[0].To, "non-contiguous column members still leave no hole")
	assert.Equal(t, MoveSlide, moves[0].Reason)
	assert.Equal(t, []string{"..", "..", "G."}, picture(e))

	rec.step()
	assert.Equal(t, PhaseRefilling, e.Phase())
	created := intentsOf[TileCreated](rec)
	require.Len(t, created, 5)
	for _, tc := range created {
		assert.True(t, tc.Dropped)
	}

	rec.release()
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.False(t, e.Locked())
	assert.Equal(t, []Phase{PhaseSelecting, PhaseDestroying, PhaseCompacting, PhaseRefilling, PhaseScanning}, phases(rec)[:5])
	assert.Len(t, e.Tiles(), 6)
	require.NoError(t, e.CheckInvariants())
}

func TestCompactionSlidesEveryColumnOfTheSpan(t *testing.T) {
	rec := &recorder{}
	e := newBoard(t, testConfig(0, 0), rec,
		"GBY",
		"YGB",
		"RRR",
		"BYG",
	)
	require.Len(t, e.Groups(), 1)
	rec.reset()

	_, err := e.Select(C(2, 1))
	require.NoError(t, err)
	rec.step()

	assert.Equal(t, []string{
		"...",
		"GBY",
		"YGB",
		"BYG",
	}, picture(e))
	moves := intentsOf[TileMoved](rec)
	require.Len(t, moves, 6)
	for _, m := range moves {
		assert.Equal(t, m.From.Y-1, m.To.Y)
		assert.Equal(t, m.From.X, m.To.X)
	}

	rec.release()
	require.NoError(t, e.CheckInvariants())
}

func TestTwoCellDeadlockIsUnresolvable(t *testing.T) {
	rec := &recorder{auto: true}
	e := newBoard(t, testConfig(0, 0), rec, "BG")

	assert.Equal(t, PhaseDeadlocked, e.Phase())
	assert.True(t, e.Locked())
	assert.Equal(t, []DeadlockUnresolvable{{Tiles: 2}}, intentsOf[DeadlockUnresolvable](rec))
	assert.Contains(t, phases(rec), PhaseShuffling)

	out, err := e.Select(C(0, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
	require.NoError(t, e.CheckInvariants())
}

func TestDeadlockIsShuffledAway(t *testing.T) {
	rec := &recorder{auto: true}
	e := newBoard(t, testConfig(0, 0), rec,
		"BGB",
		"GBG",
	)
	before := colorCounts(e)

	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Equal(t, before, colorCounts(e))
	assert.Equal(t, map[Color]int{ColorBlue: 3, ColorGreen: 3}, before)
	assert.NotEmpty(t, e.Groups())
	assert.Equal(t, 1, e.Stats().Shuffles)

	moves := intentsOf[TileMoved](rec)
	require.NotEmpty(t, moves)
	for _, m := range moves {
		assert.Equal(t, MoveShuffle, m.Reason)
	}
	require.NoError(t, e.CheckInvariants())
}

func TestUntouchedGroupsAreNotRecolored(t *testing.T) {
	cfg := testConfig(0, 0)
	cfg.Thresholds = [3]int{1, 4, 6}
	rec := &recorder{auto: true}
	e := newBoard(t, cfg, rec,
		"BKGRR",
		"BKYGP",
	)
	require.Len(t, e.Groups(), 3)

	untouched := map[TileID]bool{}
	for _, c := range []Coord{C(1, 0), C(1, 1), C(3, 1), C(4, 1)} {
		tile, ok, err := e.TileAt(c)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 1, tile.ShownTier)
		untouched[tile.ID] = true
	}
	rec.reset()

	out, err := e.Select(C(0, 0))
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, out)
	require.Equal(t, PhaseIdle, e.Phase())

	for _, rc := range intentsOf[TileRecolored](rec) {
		assert.False(t, untouched[rc.Tile], "tile %d at %v recolored", rc.Tile, rc.At)
	}
	require.NoError(t, e.CheckInvariants())
}

// pickGroupCell returns a cell of a random group.
func pickGroupCell(t *testing.T, e *Engine, rng *rand.Rand) Coord {
	t.Helper()
	groups := e.Groups()
	require.NotEmpty(t, groups)
	g := groups[rng.IntN(len(groups))]
	id := g.Members[rng.IntN(g.Size())]
	for _, tile := range e.Tiles() {
		if tile.ID == id {
			return tile.Pos
		}
	}
	t.Fatalf("tile %d not on the board", id)
	return Coord{}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := range int64(5) {
		cfg := DefaultConfig()
		cfg.Seed = seed
		cfg.Palette = 3 + int(seed)%4
		e, err := New(cfg, &recorder{auto: true})
		require.NoError(t, err)
		e.Start()
		rng := rand.New(rand.NewPCG(uint64(seed), 99))

		cells := cfg.Width * cfg.Height
		for move := range 100 {
			require.Equal(t, PhaseIdle, e.Phase(), "seed %d move %d", seed, move)
			c := pickGroupCell(t, e, rng)
			out, err := e.Select(c)
			require.NoError(t, err)
			require.Equal(t, OutcomeAccepted, out)
			require.NoError(t, e.CheckInvariants(), "seed %d move %d", seed, move)

			st := e.Stats()
			require.Equal(t, cells, st.Tiles)
			require.Equal(t, st.Created-st.Destroyed, cells)
		}
		assert.Equal(t, 100, e.Stats().Resolutions)
	}
}

func TestConcurrentCompletions(t *testing.T) {
	p := &asyncPresenter{}
	cfg := testConfig(7, 7)
	cfg.Palette = 4
	e, err := New(cfg, p)
	require.NoError(t, err)

	idle := func() bool { return e.Phase() == PhaseIdle }
	e.Start()
	require.Eventually(t, idle, 5*time.Second, time.Millisecond)

	rng := rand.New(rand.NewPCG(3, 4))
	for range 20 {
		out, err := e.Select(pickGroupCell(t, e, rng))
		require.NoError(t, err)
		require.Equal(t, OutcomeAccepted, out)
		require.Eventually(t, idle, 5*time.Second, time.Millisecond)
		require.NoError(t, e.CheckInvariants())
	}
	p.wg.Wait()
	assert.Equal(t, 49, e.Stats().Tiles)
}
