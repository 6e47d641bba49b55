// Package blast adapts the blast engine to the platform Game interface.
// It plays the engine's intents as tick-driven animations and reports each
// one back through its Done callback when the animation ends.
package blast

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/registry"
)

// Game is one blast board bound to a preset. It is driven from a single
// goroutine (the platform tick loop) and is not safe for concurrent use.
type Game struct {
	preset config.BlastPreset
	anim   config.AnimationConfig
	log    *log.Logger

	eng  *engine.Engine
	err  error
	seed int64
	tick uint64

	tickRate int
	screenW  int
	screenH  int

	sprites map[engine.TileID]*sprite
	inbox   []engine.Intent
	waits   []wait
	flashes []flash
	ready   []func()

	cursor     engine.Coord
	phase      engine.Phase
	moves      int
	denied     int
	deadlocked bool
	paused     bool
	tooSmall   bool
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes game and engine logs to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a game for the given preset. Call Reset before stepping it.
func New(preset config.BlastPreset, anim config.AnimationConfig, opts ...Option) *Game {
	g := &Game{
		preset: preset,
		anim:   anim,
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RegisterPresets registers one game per preset of cfg.
func RegisterPresets(r *registry.Registry, cfg config.BlastConfig, opts ...Option) error {
	for _, name := range cfg.PresetNames() {
		p, err := cfg.Preset(name)
		if err != nil {
			return err
		}
		r.Register(name, func() registry.Game {
			return New(p, cfg.Animation, opts...)
		})
	}
	return nil
}

// ID returns the preset name.
func (g *Game) ID() string {
	return g.preset.Name
}

// Title returns the display name.
func (g *Game) Title() string {
	return fmt.Sprintf("%s %dx%d", g.preset.Title, g.preset.Width, g.preset.Height)
}

// Reset throws away the current board and deals a new one.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.seed = cfg.Seed
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.tick = 0
	g.sprites = make(map[engine.TileID]*sprite)
	g.inbox = nil
	g.waits = nil
	g.flashes = nil
	g.ready = nil
	g.moves = 0
	g.denied = 0
	g.deadlocked = false
	g.paused = false
	g.phase = engine.PhaseFilling
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	g.eng, g.err = engine.New(g.preset.EngineConfig(cfg.Seed), g, engine.WithLogger(g.log))
	if g.err != nil {
		g.log.Error("cannot create board", "preset", g.preset.Name, "err", g.err)
		return
	}
	g.cursor = engine.C(g.preset.Width/2, g.preset.Height/2)
	g.log.Info("new board", "preset", g.preset.Name, "seed", cfg.Seed)
	g.eng.Start()
	g.flush()
}

// Resize updates the screen dimensions without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	minW, minH := g.minSize()
	g.tooSmall = w < minW || h < minH
}

// Present receives engine intents. They are queued and turned into
// animations by Step.
func (g *Game) Present(in engine.Intent) {
	g.inbox = append(g.inbox, in)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.eng == nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.moveCursor(in)
	if in.Has(core.ActionSelect) {
		g.pick(g.cursor)
	}
	for _, p := range in.Clicks {
		if c, ok := g.cellAt(p.X, p.Y); ok {
			g.cursor = c
			g.pick(c)
		}
	}

	g.drain()
	g.advance()
	g.flush()

	return core.StepResult{State: g.State(), Busy: g.Busy()}
}

func (g *Game) moveCursor(in core.InputFrame) {
	c := g.cursor
	switch {
	case in.Has(core.ActionUp):
		c = c.Up()
	case in.Has(core.ActionDown):
		c = c.Down()
	case in.Has(core.ActionLeft):
		c = c.Left()
	case in.Has(core.ActionRight):
		c = c.Right()
	}
	g.cursor = engine.C(
		core.Clamp(c.X, 0, g.preset.Width-1),
		core.Clamp(c.Y, 0, g.preset.Height-1),
	)
}

// pick forwards a selection to the engine.
func (g *Game) pick(c engine.Coord) {
	out, err := g.eng.Select(c)
	if err != nil {
		g.log.Warn("select", "at", c, "err", err)
		return
	}
	switch out {
	case engine.OutcomeAccepted:
		g.moves++
	case engine.OutcomeDenied:
		g.denied++
	}
}

// Busy reports whether animations or engine phases are still running.
func (g *Game) Busy() bool {
	if g.eng == nil {
		return false
	}
	if len(g.waits) > 0 || len(g.ready) > 0 || len(g.inbox) > 0 {
		return true
	}
	for _, s := range g.sprites {
		if s.animating() {
			return true
		}
	}
	return g.eng.Locked() && !g.deadlocked
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	status := g.phase.String()
	switch {
	case g.err != nil:
		status = "error"
	case g.deadlocked:
		status = "deadlocked"
	}
	return core.GameState{
		Status:   status,
		Moves:    g.moves,
		GameOver: g.deadlocked || g.err != nil,
		Paused:   g.paused || g.tooSmall,
	}
}

// Engine exposes the underlying engine for inspection.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// ticksFor converts a duration to whole ticks, rounding up.
func (g *Game) ticksFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	per := time.Second / time.Duration(g.tickRate)
	return int((d + per - 1) / per)
}
