package blast

import (
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

// spriteMotion is what a sprite is currently doing.
type spriteMotion int

const (
	motionNone spriteMotion = iota
	motionDrop
	motionSlide
	motionShuffle
	motionDestroy
)

// sprite is the on-screen twin of an engine tile.
type sprite struct {
	color engine.Color
	tier  int
	at    engine.Coord // Board cell the sprite is heading to

	motion   spriteMotion
	fromX    float64
	fromY    float64
	ticks    int
	duration int
	done     func()
}

func (s *sprite) animating() bool {
	return s.motion != motionNone
}

// progress returns the eased completion of the current motion in [0, 1].
func (s *sprite) progress() float64 {
	if s.duration <= 0 {
		return 1
	}
	return core.EaseOutQuad(float64(s.ticks) / float64(s.duration))
}

// position returns the interpolated board position of the sprite.
func (s *sprite) position() (x, y float64) {
	if s.motion == motionNone || s.motion == motionDestroy {
		return float64(s.at.X), float64(s.at.Y)
	}
	t := s.progress()
	return core.Lerp(s.fromX, float64(s.at.X), t), core.Lerp(s.fromY, float64(s.at.Y), t)
}

func (s *sprite) start(m spriteMotion, duration int, done func()) {
	s.motion = m
	s.ticks = 0
	s.duration = duration
	s.done = done
}

// wait is a settle barrier counting down in ticks.
type wait struct {
	ticks int
	done  func()
}

// flash marks a denied cell for a few ticks.
type flash struct {
	at    engine.Coord
	ticks int
}

// drain turns queued intents into animations.
func (g *Game) drain() {
	for len(g.inbox) > 0 {
		in := g.inbox[0]
		g.inbox[0] = nil
		g.inbox = g.inbox[1:]
		g.apply(in)
	}
	g.inbox = nil
}

func (g *Game) apply(in engine.Intent) {
	switch in := in.(type) {
	case engine.TileCreated:
		s := &sprite{color: in.Color, at: in.At}
		g.sprites[in.Tile] = s
		if !in.Dropped {
			g.later(in.Done)
			return
		}
		s.fromX = float64(in.At.X)
		s.fromY = float64(in.At.Y + g.preset.Height)
		s.start(motionDrop, g.anim.DropTicks, in.Done)

	case engine.TileRecolored:
		if s, ok := g.sprites[in.Tile]; ok {
			s.tier = in.Tier
		}

	case engine.TileMoved:
		s, ok := g.sprites[in.Tile]
		if !ok {
			g.log.Warn("move for unknown tile", "tile", in.Tile)
			g.later(in.Done)
			return
		}
		s.fromX, s.fromY = s.position()
		s.at = in.To
		motion, ticks := motionSlide, g.anim.SlideTicks
		if in.Reason == engine.MoveShuffle {
			motion, ticks = motionShuffle, g.anim.ShuffleTicks
			s.tier = 0
		}
		g.finish(s)
		s.start(motion, ticks, in.Done)

	case engine.TileDestroyed:
		s, ok := g.sprites[in.Tile]
		if !ok {
			g.later(in.Done)
			return
		}
		g.finish(s)
		s.start(motionDestroy, g.anim.DestroyTicks, in.Done)

	case engine.SelectionDenied:
		g.flashes = append(g.flashes, flash{at: in.At, ticks: g.anim.DenyTicks})

	case engine.SettleRequested:
		n := g.ticksFor(in.Delay)
		if n == 0 {
			g.later(in.Done)
			return
		}
		g.waits = append(g.waits, wait{ticks: n, done: in.Done})

	case engine.PhaseChanged:
		g.phase = in.To

	case engine.DeadlockUnresolvable:
		g.deadlocked = true
		g.log.Info("board deadlocked", "preset", g.preset.Name, "seed", g.seed, "tiles", in.Tiles)
	}
}

// finish completes a motion that is being replaced by a new one.
func (g *Game) finish(s *sprite) {
	if s.animating() {
		g.later(s.done)
	}
	s.motion = motionNone
	s.done = nil
}

// later schedules a completion callback for the end of the tick.
func (g *Game) later(fn func()) {
	if fn != nil {
		g.ready = append(g.ready, fn)
	}
}

// advance moves every animation one tick forward.
func (g *Game) advance() {
	for id, s := range g.sprites {
		if !s.animating() {
			continue
		}
		s.ticks++
		if s.ticks < s.duration {
			continue
		}
		if s.motion == motionDestroy {
			delete(g.sprites, id)
		}
		s.motion = motionNone
		g.later(s.done)
		s.done = nil
	}

	waits := g.waits[:0]
	for _, w := range g.waits {
		w.ticks--
		if w.ticks <= 0 {
			g.later(w.done)
			continue
		}
		waits = append(waits, w)
	}
	g.waits = waits

	flashes := g.flashes[:0]
	for _, f := range g.flashes {
		f.ticks--
		if f.ticks > 0 {
			flashes = append(flashes, f)
		}
	}
	g.flashes = flashes
}

// flush fires finished callbacks. A callback may let the engine move to its
// next phase, whose intents are drained right away so the new animations
// start on this tick.
func (g *Game) flush() {
	g.drain()
	for len(g.ready) > 0 {
		ready := g.ready
		g.ready = nil
		for _, fn := range ready {
			fn()
		}
		g.drain()
	}
}
