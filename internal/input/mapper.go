package input

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

// DefaultRepeatDelay is the minimum gap between two accepted presses of the
// same key.
const DefaultRepeatDelay = 150 * time.Millisecond

// Mapper converts actions into commands. Each action has its own limiter, so
// holding a key cannot flood the queue while a different key still gets
// through immediately.
type Mapper struct {
	delay    time.Duration
	limiters map[core.Action]*rate.Limiter
}

// NewMapper creates a mapper with the given repeat delay.
func NewMapper(repeatDelay time.Duration) *Mapper {
	if repeatDelay <= 0 {
		repeatDelay = DefaultRepeatDelay
	}
	return &Mapper{
		delay:    repeatDelay,
		limiters: make(map[core.Action]*rate.Limiter),
	}
}

func (m *Mapper) allow(a core.Action, now time.Time) bool {
	lim, ok := m.limiters[a]
	if !ok {
		lim = rate.NewLimiter(rate.Every(m.delay), 1)
		m.limiters[a] = lim
	}
	return lim.AllowN(now, 1)
}

// Map returns the command for an action given the current game status.
// The second result is false when the action maps to nothing or is a repeat
// inside the debounce window.
func (m *Mapper) Map(a core.Action, status snake.Status, now time.Time) (snake.Command, bool) {
	cmd, ok := Resolve(a, status)
	if !ok {
		return snake.Command{}, false
	}
	if !m.allow(a, now) {
		return snake.Command{}, false
	}
	return cmd, true
}

// Resolve maps an action to a command without debouncing. The pause action
// toggles: it starts a ready game, pauses a running one, resumes a paused
// one and restarts a finished one.
func Resolve(a core.Action, status snake.Status) (snake.Command, bool) {
	if dir := a.Direction(); dir != core.DirNone {
		return snake.Move(dir), true
	}

	switch a {
	case core.ActionPause:
		switch status {
		case snake.StatusReady:
			return snake.Start(), true
		case snake.StatusPlaying:
			return snake.Pause(), true
		case snake.StatusPaused:
			return snake.Resume(), true
		case snake.StatusGameOver:
			return snake.Restart(), true
		}
	case core.ActionRestart:
		return snake.Restart(), true
	}
	return snake.Command{}, false
}
