package particles

import (
	"image/color"
	"math"
	"math/rand"
	"testing"
)

var gold = color.NRGBA{R: 0xff, G: 0xd7, A: 0xff}

func newSystem(max int) *System {
	return NewSystem(rand.New(rand.NewSource(1)), max)
}

// TestFoodExplosionLifecycle checks that a food burst fully expires after its lifetime.
func TestFoodExplosionLifecycle(t *testing.T) {
	s := newSystem(100)
	s.FoodExplosion(100, 100, gold)

	if s.Len() != 15 {
		t.Fatalf("FoodExplosion spawned %d particles, expected 15", s.Len())
	}

	for i := 0; i < 59; i++ {
		s.Update()
	}
	if s.Len() != 15 {
		t.Errorf("after 59 updates %d particles remain, expected 15", s.Len())
	}

	s.Update()
	if s.Len() != 0 {
		t.Errorf("after 60 updates %d particles remain, expected 0", s.Len())
	}
}

func TestFoodExplosionRadial(t *testing.T) {
	s := newSystem(100)
	s.FoodExplosion(50, 50, gold)

	for i, p := range s.Particles() {
		speed := math.Hypot(p.VX, p.VY)
		if speed < 2 || speed > 6 {
			t.Errorf("particle %d speed %.2f outside [2,6]", i, speed)
		}
		if p.Size < 2 || p.Size > 5 {
			t.Errorf("particle %d size %.2f outside [2,5]", i, p.Size)
		}
		want := 2 * math.Pi * float64(i) / 15
		got := math.Atan2(p.VY, p.VX)
		if got < 0 {
			got += 2 * math.Pi
		}
		if math.Abs(got-want) > 1e-9 && math.Abs(got-want-2*math.Pi) > 1e-9 {
			t.Errorf("particle %d heading %.4f, expected %.4f", i, got, want)
		}
		if p.Color != gold {
			t.Errorf("particle %d color %v, expected %v", i, p.Color, gold)
		}
	}
}

func TestUpdateIntegration(t *testing.T) {
	s := newSystem(10)
	s.particles = []Particle{{X: 0, Y: 0, VX: 1, VY: 1, Life: 10, MaxLife: 10}}

	s.Update()
	p := s.Particles()[0]

	if p.X != 1 || p.Y != 1 {
		t.Errorf("position = (%v, %v), expected (1, 1)", p.X, p.Y)
	}
	if math.Abs(p.VX-0.98) > 1e-12 {
		t.Errorf("VX = %v, expected 0.98", p.VX)
	}
	if math.Abs(p.VY-1.1*0.98) > 1e-12 {
		t.Errorf("VY = %v, expected %v", p.VY, 1.1*0.98)
	}
	if p.Life != 9 {
		t.Errorf("Life = %v, expected 9", p.Life)
	}
	if math.Abs(p.Fade()-0.9) > 1e-12 {
		t.Errorf("Fade() = %v, expected 0.9", p.Fade())
	}
}

func TestCapEvictsOldest(t *testing.T) {
	s := newSystem(20)

	// 15 old particles (life 60) then 15 new ones with a distinct color.
	s.FoodExplosion(0, 0, gold)
	red := color.NRGBA{R: 0xff, A: 0xff}
	s.FoodExplosion(0, 0, red)

	s.Update()

	if s.Len() != 20 {
		t.Fatalf("Len() = %d, expected cap 20", s.Len())
	}
	ps := s.Particles()
	for i := 0; i < 5; i++ {
		if ps[i].Color != gold {
			t.Errorf("particle %d should be one of the surviving old ones", i)
		}
	}
	for i := 5; i < 20; i++ {
		if ps[i].Color != red {
			t.Errorf("particle %d should be a new one", i)
		}
	}
}

func TestGameOverAndLevelUp(t *testing.T) {
	s := newSystem(200)
	s.GameOverExplosion(400, 300, nil)
	if s.Len() != 50 {
		t.Errorf("GameOverExplosion spawned %d, expected 50", s.Len())
	}
	for _, p := range s.Particles() {
		if p.MaxLife != 120 {
			t.Fatalf("game over particle life %v, expected 120", p.MaxLife)
		}
		if d := math.Hypot(p.X-400, p.Y-300); d > 100+1e-9 {
			t.Fatalf("game over particle spawned %.2f from center", d)
		}
	}

	s.Clear()
	s.LevelUpEffect(10, 10)
	if s.Len() != 30 {
		t.Errorf("LevelUpEffect spawned %d, expected 30", s.Len())
	}
	for _, p := range s.Particles() {
		if p.MaxLife != 90 || p.Color != LevelUpColor {
			t.Fatalf("level up particle = %+v", p)
		}
	}
}

func TestTrailRate(t *testing.T) {
	s := newSystem(1000)
	spawned := 0
	for i := 0; i < 1000; i++ {
		if s.Trail(0, 0, gold, 0.3) {
			spawned++
		}
	}
	if spawned < 200 || spawned > 400 {
		t.Errorf("Trail spawned %d of 1000, expected about 300", spawned)
	}
	if s.Trail(0, 0, gold, 0) {
		t.Error("rate 0 should never spawn")
	}
}

func TestStarfieldWraps(t *testing.T) {
	a := NewAmbient(rand.New(rand.NewSource(2)), 800, 600)
	a.Starfield(50)

	for i := 0; i < 5000; i++ {
		a.Update()
	}

	stars := a.Stars()
	if len(stars) != 50 {
		t.Fatalf("star count = %d, expected 50", len(stars))
	}
	for _, st := range stars {
		if st.Y < -5 || st.Y > 600 {
			t.Errorf("star at y=%.2f escaped the canvas", st.Y)
		}
		if st.X < 0 || st.X > 800 {
			t.Errorf("star at x=%.2f escaped the canvas", st.X)
		}
		if !st.Ambient() || st.Fade() != 1 {
			t.Errorf("star should never expire: %+v", st)
		}
	}
}

func TestDriftBounded(t *testing.T) {
	a := NewAmbient(rand.New(rand.NewSource(3)), 800, 600)

	for i := 0; i < 2000; i++ {
		a.Drift()
		a.Update()
	}
	if a.Len() > 20 {
		t.Errorf("ambient motes = %d, expected at most 20", a.Len())
	}
	if a.Len() == 0 {
		t.Error("expected some motes after 2000 frames")
	}
}

func TestAmbientOutsideCap(t *testing.T) {
	s := newSystem(10)
	a := NewAmbient(rand.New(rand.NewSource(4)), 800, 600)
	a.Starfield(50)

	s.FoodExplosion(0, 0, gold)
	s.Update()

	if s.Len() != 10 {
		t.Errorf("gameplay pool = %d, expected 10", s.Len())
	}
	if a.Len() != 50 {
		t.Errorf("ambient pool = %d, expected 50", a.Len())
	}
}
