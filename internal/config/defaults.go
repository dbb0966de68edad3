package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultSnakeYAML))
	copy(out, defaultSnakeYAML)
	return out
}

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:    800,
			Height:   600,
			GridSize: 20,
		},
		Speed: SpeedMedium,
		Speeds: map[string]int{
			string(SpeedSlow):    150,
			string(SpeedMedium):  100,
			string(SpeedNormal):  100,
			string(SpeedFast):    60,
			string(SpeedExtreme): 40,
		},
		MinSpeed: 30,
		Theme:    "neon",
		ShowGrid: false,
		ShowHUD:  true,
		FPS:      60,
		Sound: SoundConfig{
			Enabled: true,
			Volume:  0.7,
		},
		Particles: ParticleConfig{
			Enabled:   true,
			Max:       100,
			Life:      60,
			Stars:     50,
			TrailRate: 0.3,
		},
		Input: InputConfig{
			RepeatDelayMS:    150,
			SwipeMinDistance: 2,
			QueueSize:        16,
		},
		Stats: StatsConfig{
			MaxRecentScores: 10,
		},
		Server: ServerConfig{
			SSHAddr:        ":2222",
			HTTPAddr:       ":8080",
			HostKey:        "~/.neonsnake/host_key",
			IdleTimeout:    30 * time.Minute,
			AllowedOrigins: []string{"*"},
		},
	}
}
