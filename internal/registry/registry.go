// Package registry maps board IDs to game factories.
// Boards are registered at startup from the loaded presets, allowing the
// platform to list and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/tui-blast/internal/core"
)

// Game is the interface the platform drives.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this board (e.g., "classic", "mini").
	// Used for CLI commands and the session journal.
	ID() string

	// Title returns a human-readable name for display (e.g., "Classic 12x10").
	Title() string

	// Reset starts a fresh board.
	// Called once at start and again on restart.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances animations by one fixed tick and applies input.
	// Mouse clicks arrive in screen coordinates.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

// Registry is a set of named game factories. The zero value is not usable;
// call New.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	titles    map[string]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		titles:    make(map[string]string),
	}
}

// Register adds a game factory.
// Panics if a game with the same ID is already registered.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	r.factories[id] = f

	// Get title by creating a temporary instance
	r.titles[id] = f().Title()
}

// List returns information about all registered games, sorted by ID.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]GameInfo, 0, len(r.factories))
	for id := range r.factories {
		result = append(result, GameInfo{ID: id, Title: r.titles[id]})
	}
	slices.SortFunc(result, func(a, b GameInfo) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func (r *Registry) Create(id string) (Game, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[id]
	return ok
}

var std = New()

// Register adds a game factory to the process-wide registry.
func Register(id string, f Factory) { std.Register(id, f) }

// List returns the games in the process-wide registry.
func List() []GameInfo { return std.List() }

// Create instantiates a game from the process-wide registry.
func Create(id string) (Game, error) { return std.Create(id) }

// Exists reports whether id is in the process-wide registry.
func Exists(id string) bool { return std.Exists(id) }

// Default returns the process-wide registry.
func Default() *Registry { return std }
