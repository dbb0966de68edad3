package input

import (
	"github.com/vovakirdan/neonsnake/internal/core"
)

// DefaultSwipeDistance is the minimum drag, in terminal cells, that counts
// as a swipe rather than a tap.
const DefaultSwipeDistance = 2

// Swipe tracks a press/release pair and classifies it.
type Swipe struct {
	MinDistance int

	active bool
	startX int
	startY int
}

// Gesture is the outcome of a completed press/release pair.
type Gesture struct {
	Tap bool
	Dir core.Direction
}

// Press records where a drag starts.
func (s *Swipe) Press(x, y int) {
	s.active = true
	s.startX = x
	s.startY = y
}

// Release ends a drag. ok is false when no press was recorded.
func (s *Swipe) Release(x, y int) (g Gesture, ok bool) {
	if !s.active {
		return Gesture{}, false
	}
	s.active = false
	return Classify(s.startX, s.startY, x, y, s.MinDistance), true
}

// Classify picks the dominant axis of a drag. Drags shorter than minDist on
// both axes are taps.
func Classify(fromX, fromY, toX, toY, minDist int) Gesture {
	if minDist <= 0 {
		minDist = DefaultSwipeDistance
	}
	dx := toX - fromX
	dy := toY - fromY

	if core.Abs(dx) < minDist && core.Abs(dy) < minDist {
		return Gesture{Tap: true}
	}

	if core.Abs(dx) > core.Abs(dy) {
		if dx > 0 {
			return Gesture{Dir: core.DirRight}
		}
		return Gesture{Dir: core.DirLeft}
	}
	if dy > 0 {
		return Gesture{Dir: core.DirDown}
	}
	return Gesture{Dir: core.DirUp}
}

// Action converts a gesture into the equivalent keyboard action.
func (g Gesture) Action() core.Action {
	if g.Tap {
		return core.ActionPause
	}
	switch g.Dir {
	case core.DirUp:
		return core.ActionUp
	case core.DirDown:
		return core.ActionDown
	case core.DirLeft:
		return core.ActionLeft
	case core.DirRight:
		return core.ActionRight
	}
	return core.ActionNone
}
