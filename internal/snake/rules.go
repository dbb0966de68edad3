// Package snake implements the deterministic snake simulation: the state
// machine, the per-tick transition and the domain events it emits.
package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/neonsnake/internal/core"
)

const (
	// ModeClassic is the only game mode recorded with results.
	ModeClassic = "classic"

	pointsPerFood  = 10
	pointsPerLevel = 100
	speedStep      = 10 * time.Millisecond
	levelsPerStep  = 2
)

// Defaults for a Rules value left zero.
const (
	DefaultBaseSpeed = 100 * time.Millisecond
	DefaultMinSpeed  = 30 * time.Millisecond
)

// Rules are the immutable parameters of the transition functions.
type Rules struct {
	Grid      core.Grid
	BaseSpeed time.Duration // tier speed applied at start/restart
	MinSpeed  time.Duration
	Mode      string
}

// DefaultRules returns the 40x30 grid at the medium tier.
func DefaultRules() Rules {
	return Rules{
		Grid:      core.Grid{Width: 40, Height: 30},
		BaseSpeed: DefaultBaseSpeed,
		MinSpeed:  DefaultMinSpeed,
		Mode:      ModeClassic,
	}
}

func (r Rules) withDefaults() Rules {
	if r.BaseSpeed <= 0 {
		r.BaseSpeed = DefaultBaseSpeed
	}
	if r.MinSpeed <= 0 {
		r.MinSpeed = DefaultMinSpeed
	}
	if r.Mode == "" {
		r.Mode = ModeClassic
	}
	return r
}

// StartSnake is the fixed 3-cell layout every game begins with.
func StartSnake() []core.Position {
	return []core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
}

// MinGrid is the smallest grid that holds the start layout with room for
// the first step to the right.
func MinGrid() core.Grid {
	var g core.Grid
	for _, p := range StartSnake() {
		g.Width = max(g.Width, p.X+2)
		g.Height = max(g.Height, p.Y+1)
	}
	return g
}

// SpeedForLevel returns max(base - floor((level-1)/2)*10ms, min).
func SpeedForLevel(base, min time.Duration, level int) time.Duration {
	if level < 1 {
		level = 1
	}
	speed := base - time.Duration((level-1)/levelsPerStep)*speedStep
	if speed < min {
		return min
	}
	return speed
}

// LevelForScore returns floor(score/100)+1.
func LevelForScore(score int) int {
	return score/pointsPerLevel + 1
}

// Ready builds the pre-start state shown before the first game.
func (r Rules) Ready(rng *rand.Rand) State {
	s := r.fresh(rng)
	s.Status = StatusReady
	return s
}

// Start moves a ready game into play with a fresh layout.
func (r Rules) Start(rng *rand.Rand) (State, []Event) {
	s := r.fresh(rng)
	s.Status = StatusPlaying
	return s, []Event{Started{}}
}

func (r Rules) fresh(rng *rand.Rand) State {
	r = r.withDefaults()
	s := State{
		Snake:         StartSnake(),
		Direction:     core.DirRight,
		NextDirection: core.DirRight,
		Score:         0,
		Level:         1,
		Speed:         r.BaseSpeed,
		BaseSpeed:     r.BaseSpeed,
	}
	s.Food = r.placeFood(rng, s.Snake)
	return s
}

// placeFood panics when the grid has no free cell: a full board is an
// invariant violation, not a recoverable state.
func (r Rules) placeFood(rng *rand.Rand, occupied []core.Position) core.Position {
	p, err := core.RandomFreeCell(rng, r.Grid, occupied)
	if err != nil {
		panic(fmt.Sprintf("snake: food placement failed: %v", err))
	}
	return p
}

// Apply runs one command against s. Commands that are not legal in the
// current status leave the state unchanged and emit nothing.
func (r Rules) Apply(s State, cmd Command, rng *rand.Rand) (State, []Event) {
	switch cmd.Kind {
	case CmdStart:
		if s.Status != StatusReady {
			return s.Clone(), nil
		}
		return r.Start(rng)

	case CmdRestart:
		next := r.fresh(rng)
		next.Status = StatusPlaying
		return next, []Event{Restarted{}}

	case CmdPause:
		if s.Status != StatusPlaying {
			return s.Clone(), nil
		}
		next := s.Clone()
		next.Status = StatusPaused
		return next, []Event{Paused{}}

	case CmdResume:
		if s.Status != StatusPaused {
			return s.Clone(), nil
		}
		next := s.Clone()
		next.Status = StatusPlaying
		return next, []Event{Resumed{}}

	case CmdMove:
		if s.Status != StatusPlaying || cmd.Dir == core.DirNone {
			return s.Clone(), nil
		}
		// Checked against the applied heading, not the pending one, so two
		// quick turns inside one tick cannot add up to a reversal.
		if cmd.Dir.IsOpposite(s.Direction) || cmd.Dir == s.NextDirection {
			return s.Clone(), nil
		}
		next := s.Clone()
		next.NextDirection = cmd.Dir
		return next, []Event{DirectionChanged{Direction: cmd.Dir}}

	default:
		return s.Clone(), nil
	}
}

// Tick applies one logic step. dt is the wall time since the previous tick
// and only feeds the play clock.
func (r Rules) Tick(s State, dt time.Duration, rng *rand.Rand) (State, []Event) {
	if s.Status != StatusPlaying {
		return s.Clone(), nil
	}
	r = r.withDefaults()

	next := s.Clone()
	next.Elapsed += dt

	dir := next.NextDirection
	if dir == core.DirNone || dir.IsOpposite(next.Direction) {
		dir = next.Direction
	}
	next.Direction = dir
	next.NextDirection = dir

	newHead := core.Translate(next.Head(), dir)

	if !r.Grid.Contains(newHead) {
		next.Status = StatusGameOver
		return next, []Event{
			Collided{Kind: CollisionWall, At: newHead},
			GameOver{Result: r.result(next)},
		}
	}

	ateFood := newHead.Equal(next.Food)

	// The tail cell is vacated by this move unless the snake grows.
	body := next.Snake
	if !ateFood {
		body = body[:len(body)-1]
	}
	for _, seg := range body {
		if seg.Equal(newHead) {
			next.Status = StatusGameOver
			return next, []Event{
				Collided{Kind: CollisionSelf, At: newHead},
				GameOver{Result: r.result(next)},
			}
		}
	}

	moved := make([]core.Position, 0, len(body)+1)
	moved = append(moved, newHead)
	moved = append(moved, body...)
	next.Snake = moved

	if !ateFood {
		return next, nil
	}

	events := make([]Event, 0, 2)
	next.Score += pointsPerFood * next.Level
	events = append(events, AteFood{At: newHead, Score: next.Score})

	if level := LevelForScore(next.Score); level > next.Level {
		next.Level = level
		events = append(events, LeveledUp{Level: level})
	}
	if next.BaseSpeed <= 0 {
		next.BaseSpeed = r.BaseSpeed
	}
	next.Speed = SpeedForLevel(next.BaseSpeed, r.MinSpeed, next.Level)
	next.Food = r.placeFood(rng, next.Snake)

	return next, events
}

func (r Rules) result(s State) Result {
	return Result{
		Score:    s.Score,
		Level:    s.Level,
		Duration: s.Elapsed,
		Mode:     r.Mode,
	}
}
