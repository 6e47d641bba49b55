package config

import (
	_ "embed"
)

//go:embed defaults/blast.yaml
var defaultBlastYAML []byte

// DefaultBlastConfig returns the built-in configuration used when no YAML
// can be loaded.
func DefaultBlastConfig() BlastConfig {
	return BlastConfig{
		DefaultPreset:      "classic",
		MaxShuffleAttempts: 64,
		Presets: map[string]BlastPreset{
			"classic": {Title: "Classic", Width: 12, Height: 10, Palette: 6, Thresholds: []int{4, 7, 9}},
			"mini":    {Title: "Mini", Width: 6, Height: 6, Palette: 4, Thresholds: []int{3, 5, 8}},
			"dense":   {Title: "Dense", Width: 10, Height: 10, Palette: 3, Thresholds: []int{6, 10, 15}},
			"wide":    {Title: "Wide", Width: 20, Height: 8, Palette: 5, Thresholds: []int{4, 7, 9}},
		},
		Animation: AnimationConfig{
			SlideTicks:    6,
			DropTicks:     8,
			DestroyTicks:  5,
			ShuffleTicks:  14,
			DenyTicks:     10,
			SettleDelayMs: 250,
		},
	}
}
