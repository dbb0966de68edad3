package render

import (
	"time"

	"github.com/vovakirdan/neonsnake/internal/particles"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

// Frame is everything one draw call may look at. It is passed by value; the
// pipeline never keeps references to its slices past the call.
type Frame struct {
	Snapshot  snake.Snapshot
	Theme     Theme
	Particles []particles.Particle
	Ambient   []particles.Particle
	Now       time.Time // animation clock for pulses
	ShowGrid  bool
	ShowHUD   bool
}
