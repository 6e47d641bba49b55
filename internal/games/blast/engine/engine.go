package engine

import (
	"io"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
)

// Phase is a state of the resolution state machine.
type Phase int

const (
	PhaseFilling Phase = iota
	PhaseScanning
	PhaseIdle
	PhaseSelecting
	PhaseDestroying
	PhaseCompacting
	PhaseRefilling
	PhaseShuffling
	PhaseDeadlocked
)

func (p Phase) String() string {
	switch p {
	case PhaseFilling:
		return "filling"
	case PhaseScanning:
		return "scanning"
	case PhaseIdle:
		return "idle"
	case PhaseSelecting:
		return "selecting"
	case PhaseDestroying:
		return "destroying"
	case PhaseCompacting:
		return "compacting"
	case PhaseRefilling:
		return "refilling"
	case PhaseShuffling:
		return "shuffling"
	case PhaseDeadlocked:
		return "deadlocked"
	default:
		return "unknown"
	}
}

// Outcome is the result of a selection.
type Outcome int

const (
	// OutcomeAccepted means the group under the cell is being resolved.
	OutcomeAccepted Outcome = iota
	// OutcomeDenied means the cell is empty or not part of a group.
	OutcomeDenied
	// OutcomeIgnored means input is locked.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDenied:
		return "denied"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for phase transitions and shuffles.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Stats are running counters for one engine.
type Stats struct {
	Tiles           int
	Groups          int
	Resolutions     int
	Destroyed       int
	Created         int
	Shuffles        int
	ShuffleAttempts int
	Fallbacks       int
	LargestGroup    int
}

// Engine owns a board and drives its resolution state machine. All state is
// guarded by one mutex; intents are delivered to the presenter outside of it,
// so a presenter may call Done callbacks synchronously from Present, later,
// or from any goroutine.
type Engine struct {
	mu sync.Mutex

	cfg       Config
	presenter Presenter
	log       *log.Logger
	rng       *rand.Rand
	palette   []Color

	grid     *Grid
	tiles    *tileArena
	index    *GroupIndex
	scanner  *matchScanner
	shuffler *Shuffler

	phase   Phase
	locked  bool
	started bool

	// pending counts outstanding completion callbacks of the current phase;
	// next runs when it reaches zero.
	pending int
	next    func()

	outbox  []Intent
	pumping bool

	res   resolution
	stats Stats
}

// resolution is what Selecting captures from the chosen group.
type resolution struct {
	size      int
	minRow    int
	minX      int
	maxX      int
	histogram []int
}

// New validates cfg and creates an engine. The board is empty until Start.
// A nil presenter means Immediate: animations complete as they are issued.
func New(cfg Config, presenter Presenter, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxShuffleAttempts == 0 {
		cfg.MaxShuffleAttempts = DefaultMaxShuffleAttempts
	}
	if presenter == nil {
		presenter = Immediate
	}

	seed := uint64(cfg.Seed)
	e := &Engine{
		cfg:       cfg,
		presenter: presenter,
		log:       log.New(io.Discard),
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		palette:   Palette(cfg.Palette),
		grid:      NewGrid(cfg.Width, cfg.Height),
		tiles:     newTileArena(),
		phase:     PhaseFilling,
		locked:    true,
	}
	e.index = newGroupIndex(cfg.Width, cfg.TierFor, e.tiles, e.recolored)
	e.scanner = &matchScanner{grid: e.grid, tiles: e.tiles, index: e.index}
	e.shuffler = NewShuffler(e.rng, cfg.MaxShuffleAttempts)

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start fills the board and runs the first scan. Calling it again is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if !e.started {
		e.started = true
		e.log.Debug("start", "width", e.cfg.Width, "height", e.cfg.Height, "palette", e.cfg.Palette, "seed", e.cfg.Seed)
		e.fill()
	}
	e.mu.Unlock()
	e.pump()
}

// Select is the player's pick of a cell. Out-of-range coordinates return an
// error wrapping ErrOutOfRange.
func (e *Engine) Select(c Coord) (Outcome, error) {
	e.mu.Lock()
	out, err := e.selectCell(c)
	e.mu.Unlock()
	e.pump()
	return out, err
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Locked reports whether input is currently ignored.
func (e *Engine) Locked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

// Config returns the validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// Width returns the number of columns.
func (e *Engine) Width() int { return e.cfg.Width }

// Height returns the number of rows.
func (e *Engine) Height() int { return e.cfg.Height }

// TileAt returns a copy of the tile at c. ok is false for an empty cell.
func (e *Engine) TileAt(c Coord) (t Tile, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, err := e.grid.Get(c)
	if err != nil || id == 0 {
		return Tile{}, false, err
	}
	return *e.tiles.get(id), true, nil
}

// Tiles returns copies of every tile on the board in creation order.
func (e *Engine) Tiles() []Tile {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Tile, 0, e.tiles.len())
	for t := range e.tiles.all() {
		out = append(out, *t)
	}
	return out
}

// GroupInfo is a read-only view of a group.
type GroupInfo struct {
	ID        GroupID
	Color     Color
	Tier      int
	MinRow    int
	Members   []TileID
	Histogram []int
}

// Size returns the number of members.
func (gi GroupInfo) Size() int { return len(gi.Members) }

func infoOf(g *Group) GroupInfo {
	return GroupInfo{
		ID:        g.ID,
		Color:     g.Color,
		Tier:      g.tier,
		MinRow:    g.minRow,
		Members:   g.Members(),
		Histogram: g.ColumnHistogram(),
	}
}

// GroupOf returns the group containing the tile at c.
func (e *Engine) GroupOf(c Coord) (GroupInfo, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, err := e.grid.Get(c)
	if err != nil || id == 0 {
		return GroupInfo{}, false, err
	}
	g := e.index.Of(e.tiles.get(id))
	if g == nil {
		return GroupInfo{}, false, nil
	}
	return infoOf(g), true, nil
}

// Groups returns every active group in creation order.
func (e *Engine) Groups() []GroupInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []GroupInfo
	for g := range e.index.Groups() {
		out = append(out, infoOf(g))
	}
	return out
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Tiles = e.tiles.len()
	s.Groups = e.index.Len()
	return s
}

// emit queues an intent for delivery by pump. Caller holds mu.
func (e *Engine) emit(in Intent) {
	e.outbox = append(e.outbox, in)
}

// pump delivers queued intents without holding mu. Only one goroutine pumps
// at a time; a Done callback fired from inside Present queues its intents
// and returns, and the running pump picks them up.
func (e *Engine) pump() {
	e.mu.Lock()
	if e.pumping {
		e.mu.Unlock()
		return
	}
	e.pumping = true
	for len(e.outbox) > 0 {
		in := e.outbox[0]
		e.outbox[0] = nil
		e.outbox = e.outbox[1:]
		e.mu.Unlock()
		e.presenter.Present(in)
		e.mu.Lock()
	}
	e.outbox = nil
	e.pumping = false
	e.mu.Unlock()
}

// completion registers one outstanding animation of the current phase and
// returns its idempotent Done callback. Caller holds mu.
func (e *Engine) completion() func() {
	e.pending++
	return once(func() {
		e.mu.Lock()
		e.pending--
		if e.pending == 0 && e.next != nil {
			next := e.next
			e.next = nil
			next()
		}
		e.mu.Unlock()
		e.pump()
	})
}

// await runs next once every completion of the current phase has fired, or
// right away when the phase issued none. Caller holds mu.
func (e *Engine) await(next func()) {
	if e.pending == 0 {
		next()
		return
	}
	e.next = next
}

// setPhase records a transition. Caller holds mu.
func (e *Engine) setPhase(p Phase) {
	if p == e.phase {
		return
	}
	from := e.phase
	e.phase = p
	e.log.Debug("phase", "from", from, "to", p)
	e.emit(PhaseChanged{From: from, To: p})
}

// recolored is the group index notifier.
func (e *Engine) recolored(t *Tile) {
	e.emit(TileRecolored{Tile: t.ID, At: t.Pos, Color: t.Color, Tier: t.ShownTier})
}

func (e *Engine) randomColor() Color {
	return e.palette[e.rng.IntN(len(e.palette))]
}
