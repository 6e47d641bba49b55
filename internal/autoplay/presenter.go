package autoplay

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

// presenter completes every animation immediately and signals when the
// engine comes to rest.
type presenter struct {
	async   bool
	settled chan engine.Phase
}

func newPresenter(async bool) *presenter {
	return &presenter{async: async, settled: make(chan engine.Phase, 1)}
}

func (p *presenter) Present(in engine.Intent) {
	if pc, ok := in.(engine.PhaseChanged); ok && (pc.To == engine.PhaseIdle || pc.To == engine.PhaseDeadlocked) {
		p.settled <- pc.To
	}
	done := engine.DoneOf(in)
	if done == nil {
		return
	}
	if p.async {
		go done()
		return
	}
	done()
}

// wait blocks until the engine reports Idle or Deadlocked.
func (p *presenter) wait(ctx context.Context, timeout time.Duration) (engine.Phase, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case phase := <-p.settled:
		return phase, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
		return 0, ErrStalled
	}
}
