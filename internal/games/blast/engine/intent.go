package engine

import (
	"sync"
	"time"
)

// Intent is an instruction for the presentation layer. The engine never
// renders; it only describes what happened.
type Intent interface {
	intent()
}

// Presenter receives intents. Present may call an intent's Done callback
// synchronously, later, or from another goroutine.
type Presenter interface {
	Present(Intent)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(Intent)

// Present calls f(in).
func (f PresenterFunc) Present(in Intent) { f(in) }

// Immediate completes every animation as soon as it is presented.
var Immediate Presenter = PresenterFunc(func(in Intent) {
	if done := DoneOf(in); done != nil {
		done()
	}
})

// DoneOf returns the completion callback carried by in, or nil when in
// needs no completion.
func DoneOf(in Intent) func() {
	switch v := in.(type) {
	case TileCreated:
		return v.Done
	case TileMoved:
		return v.Done
	case TileDestroyed:
		return v.Done
	case SettleRequested:
		return v.Done
	}
	return nil
}

// MoveReason tells a renderer which kind of motion a TileMoved is.
type MoveReason int

const (
	MoveSlide   MoveReason = iota // Gravity compaction
	MoveShuffle                   // Deadlock reshuffle
)

// String returns a human-readable name for the reason.
func (r MoveReason) String() string {
	switch r {
	case MoveSlide:
		return "slide"
	case MoveShuffle:
		return "shuffle"
	default:
		return "unknown"
	}
}

// TileCreated announces a new tile. Dropped tiles expect a drop animation and
// the engine waits for Done before moving on.
type TileCreated struct {
	Tile    TileID
	At      Coord
	Color   Color
	Dropped bool
	Done    func()
}

// TileRecolored tells the renderer to draw a tile with the sprite of a tier.
type TileRecolored struct {
	Tile  TileID
	At    Coord
	Color Color
	Tier  int
}

// TileMoved asks for a move animation. The engine waits for Done.
type TileMoved struct {
	Tile   TileID
	From   Coord
	To     Coord
	Reason MoveReason
	Done   func()
}

// TileDestroyed asks for a destroy animation. The phase barrier is the
// settle delay, not this callback, but Done must still be safe to call.
type TileDestroyed struct {
	Tile  TileID
	At    Coord
	Color Color
	Done  func()
}

// SelectionDenied is feedback for a pick that cannot blast.
type SelectionDenied struct {
	At Coord
}

// SettleRequested asks the presenter to wait Delay and then call Done.
type SettleRequested struct {
	Delay time.Duration
	Done  func()
}

// PhaseChanged reports a state machine transition.
type PhaseChanged struct {
	From Phase
	To   Phase
}

// DeadlockUnresolvable reports a board no shuffle can fix.
type DeadlockUnresolvable struct {
	Tiles int
}

func (TileCreated) intent()          {}
func (TileRecolored) intent()        {}
func (TileMoved) intent()            {}
func (TileDestroyed) intent()        {}
func (SelectionDenied) intent()      {}
func (SettleRequested) intent()      {}
func (PhaseChanged) intent()         {}
func (DeadlockUnresolvable) intent() {}

// once wraps fn so repeated calls are harmless.
func once(fn func()) func() {
	var o sync.Once
	return func() { o.Do(fn) }
}
