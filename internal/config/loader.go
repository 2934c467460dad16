package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBlade loads the Blade Fighters configuration.
// Search order: customPath -> ~/.bladefighters/configs/blade.yaml ->
// ./configs/blade.yaml -> embedded default
func LoadBlade(customPath string) (BladeConfig, error) {
	var cfg BladeConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("blade.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/blade.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBladeYAML, &cfg); err != nil {
		return DefaultBladeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bladefighters", "configs", filename)
}

// ApplyBladePreset modifies the config based on a difficulty preset.
func ApplyBladePreset(cfg *BladeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust baseline gameplay per preset.
	switch preset {
	case DifficultyEasy:
		cfg.Fall.NormalMs = 80000
		cfg.Fall.BreakerChance = 0.30
	case DifficultyHard:
		cfg.Fall.NormalMs = 48000
		cfg.Fall.BreakerChance = 0.20
	}
}
