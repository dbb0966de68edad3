// Package particles simulates short-lived visual particles. It knows nothing
// about game rules; it only consumes spawn requests and integrates motion.
package particles

import (
	"image/color"
	"math"
	"math/rand"
)

// Particle is a single point sprite in canvas coordinates.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64 // frames left; +Inf for ambient particles
	MaxLife float64
	Color   color.NRGBA
	Size    float64
}

// Ambient reports whether the particle never expires.
func (p Particle) Ambient() bool {
	return math.IsInf(p.MaxLife, 1)
}

// Fade returns life/maxLife in [0, 1]. Ambient particles do not fade.
func (p Particle) Fade() float64 {
	if p.Ambient() || p.MaxLife <= 0 {
		return 1
	}
	f := p.Life / p.MaxLife
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// between returns a uniform value in [lo, hi).
func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func nrgba(hex uint32, a uint8) color.NRGBA {
	return color.NRGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: a}
}

// ExplosionPalette is the default set of colors for a game-over burst.
var ExplosionPalette = []color.NRGBA{
	nrgba(0xff0080, 0xff), nrgba(0x00ff80, 0xff), nrgba(0x8000ff, 0xff), nrgba(0xff8000, 0xff),
	nrgba(0x0080ff, 0xff), nrgba(0xff0040, 0xff), nrgba(0x40ff00, 0xff), nrgba(0xff4000, 0xff),
}

// AmbientPalette is the set of translucent colors for drifting motes.
var AmbientPalette = []color.NRGBA{
	nrgba(0x00ff88, 0x40), nrgba(0x8000ff, 0x40), nrgba(0xff0080, 0x40), nrgba(0x0080ff, 0x40),
}

// LevelUpColor is the tint of the level-up burst.
var LevelUpColor = nrgba(0x00ff88, 0xff)
