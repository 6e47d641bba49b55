package engine

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorder is a presenter that logs every intent. With auto set it completes
// animations from inside Present; otherwise callbacks wait for release.
type recorder struct {
	mu      sync.Mutex
	auto    bool
	intents []Intent
	waiting []func()
}

func (r *recorder) Present(in Intent) {
	done := DoneOf(in)
	r.mu.Lock()
	r.intents = append(r.intents, in)
	if !r.auto && done != nil {
		r.waiting = append(r.waiting, done)
	}
	auto := r.auto
	r.mu.Unlock()
	if auto && done != nil {
		done()
	}
}

// release completes every outstanding animation, including the ones the
// completions themselves trigger. It returns how many callbacks ran.
func (r *recorder) release() int {
	n := 0
	for {
		r.mu.Lock()
		batch := r.waiting
		r.waiting = nil
		r.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, done := range batch {
			done()
			n++
		}
	}
}

// step completes only the animations outstanding right now.
func (r *recorder) step() int {
	r.mu.Lock()
	batch := r.waiting
	r.waiting = nil
	r.mu.Unlock()
	for _, done := range batch {
		done()
	}
	return len(batch)
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.intents = nil
	r.mu.Unlock()
}

func (r *recorder) all() []Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.intents)
}

// intentsOf filters recorded intents by type.
func intentsOf[T Intent](r *recorder) []T {
	var out []T
	for _, in := range r.all() {
		if v, ok := in.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// phases lists the phases entered, in order.
func phases(r *recorder) []Phase {
	var out []Phase
	for _, pc := range intentsOf[PhaseChanged](r) {
		out = append(out, pc.To)
	}
	return out
}

// asyncPresenter completes each animation on its own goroutine after a
// short delay.
type asyncPresenter struct {
	wg sync.WaitGroup
}

func (p *asyncPresenter) Present(in Intent) {
	done := DoneOf(in)
	if done == nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		time.Sleep(time.Millisecond)
		done()
	}()
}

// testConfig returns a small valid configuration.
func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.SettleDelay = 0
	cfg.Seed = 1
	return cfg
}

// newBoard builds a started engine from a picture of the board, top row
// first, one colour letter per cell and '.' for an empty cell. The board is
// scanned once before it is returned.
func newBoard(t *testing.T, cfg Config, p Presenter, rows ...string) *Engine {
	t.Helper()
	cfg.Height = len(rows)
	cfg.Width = len(rows[0])
	e, err := New(cfg, p)
	require.NoError(t, err)

	e.mu.Lock()
	for i, row := range rows {
		require.Len(t, row, cfg.Width, "row %d", i)
		y := cfg.Height - 1 - i
		for x, ch := range row {
			if ch == '.' {
				continue
			}
			color, ok := ParseColor(string(ch))
			require.True(t, ok, "bad colour %q", ch)
			tile := e.tiles.create(color, C(x, y))
			e.grid.put(C(x, y), tile.ID)
		}
	}
	e.started = true
	e.scan()
	e.mu.Unlock()
	e.pump()
	return e
}

// picture renders the board top row first, the inverse of newBoard.
func picture(e *Engine) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows := make([]string, e.cfg.Height)
	for i := range rows {
		y := e.cfg.Height - 1 - i
		row := make([]rune, e.cfg.Width)
		for x := range row {
			row[x] = '.'
			if id := e.grid.at(C(x, y)); id != 0 {
				row[x] = e.tiles.get(id).Color.Char()
			}
		}
		rows[i] = string(row)
	}
	return rows
}

func colorCounts(e *Engine) map[Color]int {
	out := make(map[Color]int)
	for _, c := range e.Layout() {
		if c < ColorCount {
			out[c]++
		}
	}
	return out
}
