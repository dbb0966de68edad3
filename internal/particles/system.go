package particles

import (
	"image/color"
	"math"
	"math/rand"
)

// Physics constants applied on every update.
const (
	Gravity = 0.1
	Drag    = 0.98
)

// Defaults for spawns, in frames and canvas pixels.
const (
	DefaultMax       = 100
	DefaultLife      = 60
	DefaultTrailRate = 0.3

	foodCount     = 15
	gameOverCount = 50
	levelUpCount  = 30
)

// System is the gameplay particle pool. It is capped: after each update the
// oldest particles beyond the cap are evicted first.
type System struct {
	rng       *rand.Rand
	max       int
	life      float64
	particles []Particle
}

// NewSystem creates a pool holding at most max particles.
func NewSystem(rng *rand.Rand, max int) *System {
	if max <= 0 {
		max = DefaultMax
	}
	return &System{
		rng:  rng,
		max:  max,
		life: DefaultLife,
	}
}

// SetBaseLife changes the base lifetime, in frames, used by spawns.
func (s *System) SetBaseLife(frames int) {
	if frames > 0 {
		s.life = float64(frames)
	}
}

// Max returns the pool cap.
func (s *System) Max() int {
	return s.max
}

// FoodExplosion spawns 15 particles on evenly spaced radial headings.
func (s *System) FoodExplosion(x, y float64, c color.NRGBA) {
	for i := 0; i < foodCount; i++ {
		angle := 2 * math.Pi * float64(i) / foodCount
		speed := between(s.rng, 2, 6)
		s.particles = append(s.particles, Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    s.life,
			MaxLife: s.life,
			Color:   c,
			Size:    between(s.rng, 2, 5),
		})
	}
}

// GameOverExplosion spawns 50 particles scattered around the center on
// random headings, each with a color from palette.
func (s *System) GameOverExplosion(x, y float64, palette []color.NRGBA) {
	if len(palette) == 0 {
		palette = ExplosionPalette
	}
	life := s.life * 2
	for i := 0; i < gameOverCount; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := between(s.rng, 3, 10)
		dist := between(s.rng, 0, 100)
		s.particles = append(s.particles, Particle{
			X:       x + math.Cos(angle)*dist,
			Y:       y + math.Sin(angle)*dist,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    life,
			MaxLife: life,
			Color:   palette[s.rng.Intn(len(palette))],
			Size:    between(s.rng, 3, 8),
		})
	}
}

// LevelUpEffect spawns 30 radial particles that drift upward.
func (s *System) LevelUpEffect(x, y float64) {
	life := s.life * 1.5
	for i := 0; i < levelUpCount; i++ {
		angle := 2 * math.Pi * float64(i) / levelUpCount
		speed := between(s.rng, 1, 4)
		s.particles = append(s.particles, Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle)*speed - 2,
			Life:    life,
			MaxLife: life,
			Color:   LevelUpColor,
			Size:    between(s.rng, 2, 4),
		})
	}
}

// Trail spawns a single jittered particle with probability rate.
func (s *System) Trail(x, y float64, c color.NRGBA, rate float64) bool {
	if s.rng.Float64() >= rate {
		return false
	}
	life := s.life * 0.5
	s.particles = append(s.particles, Particle{
		X:       x + between(s.rng, -5, 5),
		Y:       y + between(s.rng, -5, 5),
		VX:      between(s.rng, -1, 1),
		VY:      between(s.rng, -1, 1),
		Life:    life,
		MaxLife: life,
		Color:   c,
		Size:    between(s.rng, 1, 3),
	})
	return true
}

// Update advances every particle by one frame, removes the expired ones and
// enforces the cap.
func (s *System) Update() {
	live := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += Gravity
		p.VX *= Drag
		p.VY *= Drag
		p.Life--
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	// Clear the tail so dropped particles do not linger in the backing array.
	for i := len(live); i < len(s.particles); i++ {
		s.particles[i] = Particle{}
	}
	s.particles = live

	if excess := len(s.particles) - s.max; excess > 0 {
		s.particles = append(s.particles[:0], s.particles[excess:]...)
	}
}

// Particles returns a copy of the live particles, oldest first.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

// Clear removes every particle.
func (s *System) Clear() {
	s.particles = s.particles[:0]
}
