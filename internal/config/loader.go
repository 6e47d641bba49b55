package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// userConfigPath returns the path to a user config file, or empty string
// if the home directory cannot be determined.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blast", "configs", filename)
}

// LoadBlast loads the blast configuration.
// Search order: customPath -> ~/.blast/configs/blast.yaml -> ./configs/blast.yaml -> embedded default
//
// An explicit customPath must exist, parse and validate. Files found on the
// search path are skipped silently when they fail to parse or validate.
func LoadBlast(customPath string) (BlastConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BlastConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return BlastConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", "blast.yaml")}
	if p := userConfigPath("blast.yaml"); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := parse(defaultBlastYAML); err == nil {
		return cfg, nil
	}
	return DefaultBlastConfig(), nil // Fallback to hardcoded if embed fails
}

// parse decodes YAML on top of the hardcoded defaults so a partial file
// only overrides what it names.
func parse(data []byte) (BlastConfig, error) {
	cfg := DefaultBlastConfig()
	presets := cfg.Presets
	cfg.Presets = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BlastConfig{}, err
	}
	if cfg.Presets == nil {
		cfg.Presets = presets
	}
	if err := cfg.Validate(); err != nil {
		return BlastConfig{}, err
	}
	return cfg, nil
}
