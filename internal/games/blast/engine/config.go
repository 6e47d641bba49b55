package engine

import (
	"fmt"
	"time"
)

// Config holds the runtime parameters of a board.
type Config struct {
	Width   int
	Height  int
	Palette int // Number of colors in play, 2..MaxPalette

	// Thresholds are the ascending group sizes a group must exceed to reach
	// tiers 1, 2 and 3.
	Thresholds [3]int

	// SettleDelay is how long the presenter should wait after destroy
	// animations start before compaction begins.
	SettleDelay time.Duration

	// MaxShuffleAttempts bounds random reshuffles before the constructive
	// fallback is used. 0 selects DefaultMaxShuffleAttempts.
	MaxShuffleAttempts int

	// Seed feeds the board RNG. The same seed and the same selections
	// reproduce the same game.
	Seed int64
}

// DefaultMaxShuffleAttempts is used when Config.MaxShuffleAttempts is zero.
const DefaultMaxShuffleAttempts = 64

// DefaultConfig returns the classic 12x10 six colour board.
func DefaultConfig() Config {
	return Config{
		Width:              12,
		Height:             10,
		Palette:            6,
		Thresholds:         [3]int{4, 7, 9},
		SettleDelay:        250 * time.Millisecond,
		MaxShuffleAttempts: DefaultMaxShuffleAttempts,
	}
}

// Validate checks the configuration and returns a *ConfigError on failure.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Message: fmt.Sprintf("must be positive, got %d", c.Width)}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Message: fmt.Sprintf("must be positive, got %d", c.Height)}
	}
	if c.Palette < 2 || c.Palette > MaxPalette {
		return &ConfigError{Field: "palette", Message: fmt.Sprintf("must be in [2,%d], got %d", MaxPalette, c.Palette)}
	}
	for i, t := range c.Thresholds {
		if t <= 0 {
			return &ConfigError{Field: "thresholds", Message: fmt.Sprintf("threshold %d must be positive, got %d", i, t)}
		}
		if i > 0 && t <= c.Thresholds[i-1] {
			return &ConfigError{Field: "thresholds", Message: fmt.Sprintf("must be strictly ascending, got %v", c.Thresholds)}
		}
	}
	if c.SettleDelay < 0 {
		return &ConfigError{Field: "settle_delay", Message: "must not be negative"}
	}
	if c.MaxShuffleAttempts < 0 {
		return &ConfigError{Field: "max_shuffle_attempts", Message: "must not be negative"}
	}
	return nil
}

// TierFor returns how many thresholds a group of the given size exceeds.
func (c Config) TierFor(size int) int {
	tier := 0
	for _, t := range c.Thresholds {
		if size > t {
			tier++
		}
	}
	return tier
}
