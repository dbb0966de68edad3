// Package config provides YAML-based configuration loading and speed tier
// management for the game.
package config

import "time"

// Config is the full game configuration.
type Config struct {
	Canvas    CanvasConfig   `yaml:"canvas"`
	Speed     SpeedTier      `yaml:"speed"`
	Speeds    map[string]int `yaml:"speeds"`    // tier -> base tick in ms
	MinSpeed  int            `yaml:"min_speed"` // ms
	Theme     string         `yaml:"theme"`
	ShowGrid  bool           `yaml:"show_grid"`
	ShowHUD   bool           `yaml:"show_hud"`
	FPS       int            `yaml:"fps"`
	Sound     SoundConfig    `yaml:"sound"`
	Particles ParticleConfig `yaml:"particles"`
	Input     InputConfig    `yaml:"input"`
	Stats     StatsConfig    `yaml:"stats"`
	Server    ServerConfig   `yaml:"server"`
}

// CanvasConfig defines the drawing surface in pixels.
type CanvasConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	GridSize int `yaml:"grid_size"`
}

// SoundConfig controls the audio player.
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// ParticleConfig controls the effect and ambient pools.
type ParticleConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Max       int     `yaml:"max"`
	Life      float64 `yaml:"life"` // frames
	Stars     int     `yaml:"stars"`
	TrailRate float64 `yaml:"trail_rate"`
}

// InputConfig tunes key repeat and pointer gestures.
type InputConfig struct {
	RepeatDelayMS    int `yaml:"repeat_delay_ms"`
	SwipeMinDistance int `yaml:"swipe_min_distance"` // cells
	QueueSize        int `yaml:"queue_size"`
}

// StatsConfig controls the statistics view.
type StatsConfig struct {
	MaxRecentScores int `yaml:"max_recent_scores"`
}

// ServerConfig holds the network host settings.
type ServerConfig struct {
	SSHAddr        string        `yaml:"ssh_addr"`
	HTTPAddr       string        `yaml:"http_addr"`
	HostKey        string        `yaml:"host_key"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// RepeatDelay returns the key debounce window.
func (c InputConfig) RepeatDelay() time.Duration {
	return time.Duration(c.RepeatDelayMS) * time.Millisecond
}

// MinTick returns the speed floor as a duration.
func (c Config) MinTick() time.Duration {
	return time.Duration(c.MinSpeed) * time.Millisecond
}
