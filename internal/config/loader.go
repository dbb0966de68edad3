package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Load loads the game configuration.
// Search order: customPath -> ~/.neonsnake/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a partial file only
// overrides what it names.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "snake.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultSnakeYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	speeds := cfg.Speeds
	cfg.Speeds = nil

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	// A partial speeds table extends the defaults instead of replacing them.
	for name, ms := range cfg.Speeds {
		speeds[name] = ms
	}
	cfg.Speeds = speeds

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a game.
func (c Config) Validate() error {
	switch {
	case c.Canvas.GridSize <= 0:
		return fmt.Errorf("%w: canvas.grid_size must be positive", ErrInvalid)
	case c.MinSpeed <= 0:
		return fmt.Errorf("%w: min_speed must be positive", ErrInvalid)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive", ErrInvalid)
	case c.FPS*c.MinSpeed < 1000:
		// Ticks are checked once per frame.
		return fmt.Errorf("%w: fps %d cannot reach min_speed %dms (need at least %d)",
			ErrInvalid, c.FPS, c.MinSpeed, (1000+c.MinSpeed-1)/c.MinSpeed)
	case c.Sound.Volume < 0 || c.Sound.Volume > 1:
		return fmt.Errorf("%w: sound.volume must be within [0, 1]", ErrInvalid)
	case c.Particles.Max < 0 || c.Particles.Stars < 0:
		return fmt.Errorf("%w: particle counts must not be negative", ErrInvalid)
	case c.Particles.TrailRate < 0 || c.Particles.TrailRate > 1:
		return fmt.Errorf("%w: particles.trail_rate must be within [0, 1]", ErrInvalid)
	}

	grid := core.NewGrid(c.Canvas.Width, c.Canvas.Height, c.Canvas.GridSize)
	if need := snake.MinGrid(); grid.Width < need.Width || grid.Height < need.Height {
		return fmt.Errorf("%w: canvas holds %dx%d cells, the start layout needs %dx%d",
			ErrInvalid, grid.Width, grid.Height, need.Width, need.Height)
	}

	if _, err := c.CurrentSpeed(); err != nil {
		return err
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neonsnake", "configs", filename)
}
