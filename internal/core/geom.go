// Package core provides the grid geometry and terminal primitives shared by
// the simulation, the renderer and the platform layer.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import (
	"errors"
	"math/rand"
)

// ErrGridFull is returned when no free cell is left to sample.
var ErrGridFull = errors.New("core: no free cell left on grid")

// Position is a 0-based grid cell.
type Position struct {
	X, Y int
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Equal reports whether both positions name the same cell.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Add returns p offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Direction is a heading on the grid.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the one-cell offset for the direction. Up decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// IsOpposite reports whether d and other form a reversal pair.
func (d Direction) IsOpposite(other Direction) bool {
	return d != DirNone && d.Opposite() == other
}

// Vertical reports whether the heading runs along the y axis.
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Translate moves p one cell along dir.
func Translate(p Position, dir Direction) Position {
	dx, dy := dir.Delta()
	return p.Add(dx, dy)
}

// Grid describes the playfield in cells.
type Grid struct {
	Width  int
	Height int
}

// NewGrid derives the cell grid from a canvas size and a cell size.
func NewGrid(canvasW, canvasH, gridSize int) Grid {
	if gridSize <= 0 {
		return Grid{}
	}
	return Grid{Width: canvasW / gridSize, Height: canvasH / gridSize}
}

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Cells returns the total number of cells.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// RandomFreeCell samples uniformly random cells until one is not occupied.
// Rejection sampling terminates as long as at least one cell is free; a full
// grid is reported as ErrGridFull rather than looping forever.
func RandomFreeCell(rng *rand.Rand, g Grid, occupied []Position) (Position, error) {
	if g.Cells() == 0 {
		return Position{}, ErrGridFull
	}

	taken := make(map[Position]struct{}, len(occupied))
	for _, p := range occupied {
		if g.Contains(p) {
			taken[p] = struct{}{}
		}
	}
	if len(taken) >= g.Cells() {
		return Position{}, ErrGridFull
	}

	for {
		p := Position{X: rng.Intn(g.Width), Y: rng.Intn(g.Height)}
		if _, ok := taken[p]; !ok {
			return p, nil
		}
	}
}

// Rect represents an axis-aligned area on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
