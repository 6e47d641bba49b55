// Package autoplay plays many boards concurrently with a random strategy and
// checks the engine invariants after every settled move. It backs the soak
// command.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// ErrStalled is returned when a board does not settle in time.
var ErrStalled = errors.New("autoplay: board did not settle")

// Journal persists finished sessions.
type Journal interface {
	SaveSession(storage.Session) (string, error)
}

// Options configures a soak run.
type Options struct {
	Preset   config.BlastPreset
	Sessions int
	Moves    int   // Selections per session
	Workers  int   // Concurrent sessions, 0 means one per session
	Seed     int64 // Session i uses Seed+i

	// Async completes animations on fresh goroutines instead of inline.
	Async bool

	// DenyRate is the chance of picking a random cell instead of a group.
	DenyRate float64

	// SettleTimeout bounds the wait for one move to resolve.
	SettleTimeout time.Duration

	Logger  *log.Logger
	Journal Journal
}

// Result describes one played session.
type Result struct {
	ID         string
	Seed       int64
	Moves      int
	Denied     int
	Deadlocked bool
	Stats      engine.Stats
	Elapsed    time.Duration
}

// Report aggregates a soak run.
type Report struct {
	Results  []Result
	Moves    int
	Denied   int
	Shuffles int
	Largest  int
	Elapsed  time.Duration
}

// Run plays opts.Sessions boards. The first invariant violation or stall
// cancels the remaining sessions and is returned.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Sessions <= 0 {
		return Report{}, fmt.Errorf("autoplay: sessions must be positive, got %d", opts.Sessions)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = 10 * time.Second
	}

	start := time.Now()
	results := make([]Result, opts.Sessions)

	g, gCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i := range opts.Sessions {
		g.Go(func() error {
			seed := opts.Seed + int64(i)
			res, err := play(gCtx, opts, seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			if opts.Journal != nil {
				if _, err := opts.Journal.SaveSession(session(opts.Preset.Name, res)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep := Report{Results: results, Elapsed: time.Since(start)}
	for _, r := range results {
		rep.Moves += r.Moves
		rep.Denied += r.Denied
		rep.Shuffles += r.Stats.Shuffles
		rep.Largest = max(rep.Largest, r.Stats.LargestGroup)
	}
	return rep, nil
}

func session(preset string, r Result) storage.Session {
	return storage.Session{
		ID:           r.ID,
		Preset:       preset,
		Seed:         r.Seed,
		Source:       storage.SourceSoak,
		Moves:        r.Moves,
		Resolutions:  r.Stats.Resolutions,
		Destroyed:    r.Stats.Destroyed,
		Shuffles:     r.Stats.Shuffles,
		Fallbacks:    r.Stats.Fallbacks,
		LargestGroup: r.Stats.LargestGroup,
		Deadlocked:   r.Deadlocked,
		Duration:     int(r.Elapsed.Seconds()),
	}
}

// play runs one session to completion.
func play(ctx context.Context, opts Options, seed int64) (Result, error) {
	res := Result{ID: uuid.NewString(), Seed: seed}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	start := time.Now()
	logger := opts.Logger.With("session", res.ID[:8], "seed", seed)

	p := newPresenter(opts.Async)
	e, err := engine.New(opts.Preset.EngineConfig(seed), p, engine.WithLogger(logger))
	if err != nil {
		return res, err
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0x5eed))

	e.Start()
	phase, err := p.wait(ctx, opts.SettleTimeout)
	if err != nil {
		return res, err
	}

	for res.Moves < opts.Moves && phase != engine.PhaseDeadlocked {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := e.CheckInvariants(); err != nil {
			return res, err
		}

		c, grouped := pick(e, rng, opts.DenyRate)
		out, err := e.Select(c)
		if err != nil {
			return res, err
		}
		if out == engine.OutcomeDenied {
			if grouped {
				return res, fmt.Errorf("autoplay: grouped cell %v was denied", c)
			}
			res.Denied++
			continue
		}
		if out != engine.OutcomeAccepted {
			return res, fmt.Errorf("autoplay: idle engine ignored %v", c)
		}
		res.Moves++

		if phase, err = p.wait(ctx, opts.SettleTimeout); err != nil {
			return res, err
		}
	}
	if err := e.CheckInvariants(); err != nil {
		return res, err
	}

	res.Deadlocked = phase == engine.PhaseDeadlocked
	res.Stats = e.Stats()
	res.Elapsed = time.Since(start)
	logger.Debug("session done", "moves", res.Moves, "denied", res.Denied, "shuffles", res.Stats.Shuffles, "deadlocked", res.Deadlocked)
	return res, nil
}

// pick chooses the next cell: usually a random grouped cell, sometimes any
// cell at all.
func pick(e *engine.Engine, rng *rand.Rand, denyRate float64) (engine.Coord, bool) {
	w, h := e.Width(), e.Height()
	if rng.Float64() < denyRate {
		c := engine.C(rng.IntN(w), rng.IntN(h))
		_, grouped, _ := e.GroupOf(c)
		return c, grouped
	}

	var grouped []engine.Coord
	for x := range w {
		for y := range h {
			c := engine.C(x, y)
			if _, ok, _ := e.GroupOf(c); ok {
				grouped = append(grouped, c)
			}
		}
	}
	if len(grouped) == 0 {
		return engine.C(0, 0), false
	}
	return grouped[rng.IntN(len(grouped))], true
}
