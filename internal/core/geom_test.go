package core

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name             string
		w, h, size       int
		expectW, expectH int
	}{
		{"default canvas", 800, 600, 20, 40, 30},
		{"floors partial cells", 810, 619, 20, 40, 30},
		{"zero grid size", 800, 600, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGrid(tc.w, tc.h, tc.size)
			if g.Width != tc.expectW || g.Height != tc.expectH {
				t.Errorf("NewGrid(%d, %d, %d) = %dx%d, expected %dx%d",
					tc.w, tc.h, tc.size, g.Width, g.Height, tc.expectW, tc.expectH)
			}
		})
	}
}

func TestGridContains(t *testing.T) {
	g := Grid{Width: 40, Height: 30}

	tests := []struct {
		name     string
		p        Position
		expected bool
	}{
		{"origin", Pos(0, 0), true},
		{"last cell", Pos(39, 29), true},
		{"right edge (exclusive)", Pos(40, 5), false},
		{"bottom edge (exclusive)", Pos(5, 30), false},
		{"negative x", Pos(-1, 5), false},
		{"negative y", Pos(5, -1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	start := Pos(10, 10)

	tests := []struct {
		dir      Direction
		expected Position
	}{
		{DirUp, Pos(10, 9)},
		{DirDown, Pos(10, 11)},
		{DirLeft, Pos(9, 10)},
		{DirRight, Pos(11, 10)},
		{DirNone, Pos(10, 10)},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			if got := Translate(start, tc.dir); !got.Equal(tc.expected) {
				t.Errorf("Translate(%v, %v) = %v, expected %v", start, tc.dir, got, tc.expected)
			}
		})
	}
}

func TestDirectionOpposite(t *testing.T) {
	pairs := [][2]Direction{
		{DirUp, DirDown},
		{DirLeft, DirRight},
	}

	for _, p := range pairs {
		if p[0].Opposite() != p[1] || p[1].Opposite() != p[0] {
			t.Errorf("%v and %v should be opposites", p[0], p[1])
		}
		if !p[0].IsOpposite(p[1]) {
			t.Errorf("IsOpposite(%v, %v) should be true", p[0], p[1])
		}
	}

	if DirUp.IsOpposite(DirLeft) {
		t.Error("up and left are not opposites")
	}
	if DirNone.IsOpposite(DirNone) {
		t.Error("none should never be an opposite")
	}
	if !DirUp.Vertical() || DirLeft.Vertical() {
		t.Error("Vertical() mismatch")
	}
}

func TestRandomFreeCellAvoidsOccupied(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := Grid{Width: 4, Height: 4}

	// Leave a single free cell at (3,3)
	var occupied []Position
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x == 3 && y == 3 {
				continue
			}
			occupied = append(occupied, Pos(x, y))
		}
	}

	for i := 0; i < 20; i++ {
		p, err := RandomFreeCell(rng, g, occupied)
		if err != nil {
			t.Fatalf("RandomFreeCell() error = %v", err)
		}
		if !p.Equal(Pos(3, 3)) {
			t.Fatalf("RandomFreeCell() = %v, expected (3,3)", p)
		}
	}
}

func TestRandomFreeCellInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := Grid{Width: 40, Height: 30}
	occupied := []Position{Pos(10, 10), Pos(9, 10), Pos(8, 10)}

	for i := 0; i < 500; i++ {
		p, err := RandomFreeCell(rng, g, occupied)
		if err != nil {
			t.Fatalf("RandomFreeCell() error = %v", err)
		}
		if !g.Contains(p) {
			t.Fatalf("RandomFreeCell() = %v out of bounds", p)
		}
		for _, o := range occupied {
			if p.Equal(o) {
				t.Fatalf("RandomFreeCell() = %v is occupied", p)
			}
		}
	}
}

func TestRandomFreeCellFullGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := Grid{Width: 2, Height: 1}

	_, err := RandomFreeCell(rng, g, []Position{Pos(0, 0), Pos(1, 0)})
	if !errors.Is(err, ErrGridFull) {
		t.Errorf("RandomFreeCell() on full grid error = %v, expected ErrGridFull", err)
	}

	_, err = RandomFreeCell(rng, Grid{}, nil)
	if !errors.Is(err, ErrGridFull) {
		t.Errorf("RandomFreeCell() on empty grid error = %v, expected ErrGridFull", err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in       string
		expected Color
		wantErr  bool
	}{
		{"#00ff88", RGB(0x00, 0xff, 0x88), false},
		{"1a1a2e", RGB(0x1a, 0x1a, 0x2e), false},
		{"#fff", RGB(255, 255, 255), false},
		{"#00ff8840", RGB(0x00, 0xff, 0x88), false},
		{"#zzzzzz", Color{}, true},
		{"#12345", Color{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseHex(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.expected {
				t.Errorf("ParseHex(%q) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}

	if RGB(0x8a, 0x2b, 0xe2).Hex() != "#8a2be2" {
		t.Errorf("Hex() = %q, expected #8a2be2", RGB(0x8a, 0x2b, 0xe2).Hex())
	}
}

func TestActionDirection(t *testing.T) {
	if ActionLeft.Direction() != DirLeft {
		t.Errorf("ActionLeft.Direction() = %v, expected left", ActionLeft.Direction())
	}
	if ActionPause.Direction() != DirNone {
		t.Errorf("ActionPause.Direction() = %v, expected none", ActionPause.Direction())
	}
}
