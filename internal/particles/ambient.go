package particles

import (
	"image/color"
	"math"
	"math/rand"
)

const (
	// DefaultStars is the starfield size.
	DefaultStars = 50

	maxMotes    = 20
	moteChance  = 0.1
	wrapMargin  = 5
	spawnMargin = 10
)

// Ambient is the decorative pool: stars falling slowly and motes rising from
// the bottom. Its particles never expire and wrap vertically instead; it is
// not subject to the gameplay cap.
type Ambient struct {
	rng    *rand.Rand
	width  float64
	height float64
	stars  []Particle
	motes  []Particle
}

// NewAmbient creates an empty ambient pool for a canvas of w by h pixels.
func NewAmbient(rng *rand.Rand, w, h int) *Ambient {
	return &Ambient{
		rng:    rng,
		width:  float64(w),
		height: float64(h),
	}
}

// Starfield replaces the stars with n new ones at random positions.
func (a *Ambient) Starfield(n int) {
	a.stars = make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		alpha := between(a.rng, 0.3, 1)
		a.stars = append(a.stars, Particle{
			X:       a.rng.Float64() * a.width,
			Y:       a.rng.Float64() * a.height,
			VY:      between(a.rng, 0.1, 0.5),
			Life:    math.Inf(1),
			MaxLife: math.Inf(1),
			Color:   color.NRGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 255)},
			Size:    between(a.rng, 0.5, 2),
		})
	}
}

// Drift spawns a rising mote with a 10% chance while fewer than 20 exist.
func (a *Ambient) Drift() bool {
	if len(a.motes) >= maxMotes || a.rng.Float64() >= moteChance {
		return false
	}
	a.motes = append(a.motes, Particle{
		X:       a.rng.Float64() * a.width,
		Y:       a.height + spawnMargin,
		VX:      between(a.rng, -0.5, 0.5),
		VY:      between(a.rng, -2, -0.5),
		Life:    math.Inf(1),
		MaxLife: math.Inf(1),
		Color:   AmbientPalette[a.rng.Intn(len(AmbientPalette))],
		Size:    between(a.rng, 1, 2),
	})
	return true
}

// Update moves every ambient particle and wraps those that leave the canvas
// vertically to the opposite edge at a new random x.
func (a *Ambient) Update() {
	for i := range a.stars {
		a.step(&a.stars[i])
	}
	for i := range a.motes {
		a.step(&a.motes[i])
	}
}

func (a *Ambient) step(p *Particle) {
	p.X += p.VX
	p.Y += p.VY

	switch {
	case p.VY > 0 && p.Y > a.height:
		p.Y = -wrapMargin
		p.X = a.rng.Float64() * a.width
	case p.VY < 0 && p.Y < -wrapMargin:
		p.Y = a.height + wrapMargin
		p.X = a.rng.Float64() * a.width
	}
}

// Stars returns a copy of the starfield.
func (a *Ambient) Stars() []Particle {
	out := make([]Particle, len(a.stars))
	copy(out, a.stars)
	return out
}

// Particles returns a copy of stars followed by motes.
func (a *Ambient) Particles() []Particle {
	out := make([]Particle, 0, len(a.stars)+len(a.motes))
	out = append(out, a.stars...)
	return append(out, a.motes...)
}

// Len returns the number of ambient particles.
func (a *Ambient) Len() int {
	return len(a.stars) + len(a.motes)
}
