package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for any coordinate outside the grid.
	ErrOutOfRange = errors.New("engine: coordinate out of range")

	// ErrInvalidConfiguration is returned when a Config is rejected at construction.
	ErrInvalidConfiguration = errors.New("engine: invalid configuration")

	// ErrUnresolvableDeadlock is returned when no permutation of the board's
	// colours can produce a group.
	ErrUnresolvableDeadlock = errors.New("engine: deadlock cannot be resolved by shuffling")

	// ErrInvariant marks an internal consistency failure. Resolution phases
	// panic with an error wrapping it.
	ErrInvariant = errors.New("engine: invariant violated")
)

// ConfigError describes which configuration field was rejected.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine: invalid configuration: %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func outOfRange(c Coord, w, h int) error {
	return fmt.Errorf("%w: %v not in %dx%d", ErrOutOfRange, c, w, h)
}

// invariant panics with an ErrInvariant-wrapped error. Continuing after one of
// these would corrupt the grid.
func invariant(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...)))
}
