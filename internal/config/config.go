// Package config provides YAML-based board presets and animation timings
// for the blast game.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

// BlastConfig is the root of blast.yaml.
type BlastConfig struct {
	DefaultPreset      string                 `yaml:"default_preset"`
	MaxShuffleAttempts int                    `yaml:"max_shuffle_attempts"`
	Presets            map[string]BlastPreset `yaml:"presets"`
	Animation          AnimationConfig        `yaml:"animation"`
}

// BlastPreset describes one board shape.
type BlastPreset struct {
	Name       string `yaml:"-"`
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Palette    int    `yaml:"palette"`
	Thresholds []int  `yaml:"thresholds"`

	// Filled in by BlastConfig.Preset.
	settleDelay time.Duration
	maxShuffles int
}

// AnimationConfig holds tick counts for each animation kind.
type AnimationConfig struct {
	SlideTicks    int `yaml:"slide_ticks"`
	DropTicks     int `yaml:"drop_ticks"`
	DestroyTicks  int `yaml:"destroy_ticks"`
	ShuffleTicks  int `yaml:"shuffle_ticks"`
	DenyTicks     int `yaml:"deny_ticks"`
	SettleDelayMs int `yaml:"settle_delay_ms"`
}

// SettleDelay returns the settle barrier duration.
func (a AnimationConfig) SettleDelay() time.Duration {
	return time.Duration(a.SettleDelayMs) * time.Millisecond
}

// PresetNames returns the preset names sorted alphabetically.
func (c BlastConfig) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset looks up a preset by name. An empty name selects DefaultPreset.
func (c BlastConfig) Preset(name string) (BlastPreset, error) {
	if name == "" {
		name = c.DefaultPreset
	}
	p, ok := c.Presets[name]
	if !ok {
		return BlastPreset{}, fmt.Errorf("config: unknown preset %q", name)
	}
	p.Name = name
	if p.Title == "" {
		p.Title = name
	}
	p.settleDelay = c.Animation.SettleDelay()
	p.maxShuffles = c.MaxShuffleAttempts
	return p, nil
}

// EngineConfig converts the preset into an engine configuration.
func (p BlastPreset) EngineConfig(seed int64) engine.Config {
	cfg := engine.Config{
		Width:              p.Width,
		Height:             p.Height,
		Palette:            p.Palette,
		SettleDelay:        p.settleDelay,
		MaxShuffleAttempts: p.maxShuffles,
		Seed:               seed,
	}
	copy(cfg.Thresholds[:], p.Thresholds)
	return cfg
}

// Validate checks every preset and the animation timings.
func (c BlastConfig) Validate() error {
	if len(c.Presets) == 0 {
		return fmt.Errorf("config: no presets defined")
	}
	if _, ok := c.Presets[c.DefaultPreset]; !ok {
		return fmt.Errorf("config: default preset %q is not defined", c.DefaultPreset)
	}
	for _, name := range c.PresetNames() {
		p, _ := c.Preset(name)
		if len(p.Thresholds) != 3 {
			return fmt.Errorf("config: preset %q: want 3 thresholds, got %d", name, len(p.Thresholds))
		}
		if err := p.EngineConfig(0).Validate(); err != nil {
			return fmt.Errorf("config: preset %q: %w", name, err)
		}
	}
	a := c.Animation
	for field, v := range map[string]int{
		"slide_ticks":   a.SlideTicks,
		"drop_ticks":    a.DropTicks,
		"destroy_ticks": a.DestroyTicks,
		"shuffle_ticks": a.ShuffleTicks,
		"deny_ticks":    a.DenyTicks,
	} {
		if v <= 0 {
			return fmt.Errorf("config: animation.%s must be positive, got %d", field, v)
		}
	}
	if a.SettleDelayMs < 0 {
		return fmt.Errorf("config: animation.settle_delay_ms must not be negative")
	}
	return nil
}
