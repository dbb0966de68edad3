package snake

import (
	"time"

	"github.com/vovakirdan/neonsnake/internal/core"
)

// Event is a domain event emitted by a transition. Consumers switch on the
// concrete type; each variant carries only its own fields.
type Event interface {
	event()
}

// Started is emitted when a ready game begins.
type Started struct{}

func (Started) event() {}

// Restarted is emitted when a game is reset to the post-start layout.
type Restarted struct{}

func (Restarted) event() {}

// Paused is emitted when a playing game is paused.
type Paused struct{}

func (Paused) event() {}

// Resumed is emitted when a paused game continues.
type Resumed struct{}

func (Resumed) event() {}

// DirectionChanged is emitted when a MOVE command updates the pending heading.
type DirectionChanged struct {
	Direction core.Direction
}

func (DirectionChanged) event() {}

// AteFood is emitted when the head lands on the food cell.
type AteFood struct {
	At    core.Position
	Score int // score after eating
}

func (AteFood) event() {}

// LeveledUp is emitted when eating raises the level.
type LeveledUp struct {
	Level int
}

func (LeveledUp) event() {}

// CollisionKind tells what the head ran into.
type CollisionKind int

const (
	CollisionWall CollisionKind = iota
	CollisionSelf
)

func (k CollisionKind) String() string {
	if k == CollisionSelf {
		return "self"
	}
	return "wall"
}

// Collided is emitted right before GameOver.
type Collided struct {
	Kind CollisionKind
	At   core.Position // the cell the head tried to enter
}

func (Collided) event() {}

// Result is what a finished game reports to the persistence sink.
type Result struct {
	Score    int
	Level    int
	Duration time.Duration
	Mode     string
}

// GameOver is emitted exactly once when a game ends.
type GameOver struct {
	Result Result
}

func (GameOver) event() {}
