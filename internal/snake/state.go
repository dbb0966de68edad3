package snake

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/neonsnake/internal/core"
)

// Status is the game's position in the ready/playing/paused/gameOver machine.
type Status int

const (
	StatusReady Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// State is the canonical game state. The head is Snake[0].
type State struct {
	Snake         []core.Position
	Food          core.Position
	Direction     core.Direction // heading applied on the last tick
	NextDirection core.Direction // pending heading, read once per tick
	Score         int
	Level         int
	Speed         time.Duration // current logic tick period
	BaseSpeed     time.Duration // tier speed captured at start/restart
	Status        Status
	Elapsed       time.Duration // play time, accrues only while playing
}

// Clone returns a deep copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	c.Snake = make([]core.Position, len(s.Snake))
	copy(c.Snake, s.Snake)
	return c
}

// Head returns the head cell. The snake always has at least one segment.
func (s State) Head() core.Position {
	return s.Snake[0]
}

// Occupies reports whether any segment sits on p.
func (s State) Occupies(p core.Position) bool {
	for _, seg := range s.Snake {
		if seg.Equal(p) {
			return true
		}
	}
	return false
}

// Snapshot is an immutable copy of State handed to renderers and observers.
type Snapshot struct {
	State
	Tick uint64
}

// DebugState returns a string representation of the snapshot.
func (s Snapshot) DebugState() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Tick: %d, Status: %s, Score: %d, Level: %d\n", s.Tick, s.Status, s.Score, s.Level))
	b.WriteString(fmt.Sprintf("Snake len: %d, Direction: %s, Speed: %s\n", len(s.Snake), s.Direction, s.Speed))
	if len(s.Snake) > 0 {
		head := s.Head()
		b.WriteString(fmt.Sprintf("Head: (%d, %d), Food: (%d, %d)\n", head.X, head.Y, s.Food.X, s.Food.Y))
	}
	b.WriteString(fmt.Sprintf("Elapsed: %s\n", s.Elapsed.Truncate(time.Second)))
	return b.String()
}
