package snake

import (
	"math/rand"
	"time"
)

// Engine owns the current game state and the random source. It is not safe
// for concurrent use; a session drives it from a single goroutine.
type Engine struct {
	rules Rules
	rng   *rand.Rand
	state State
	tick  uint64
}

// NewEngine creates an engine in the ready state.
func NewEngine(rules Rules, rng *rand.Rand) *Engine {
	rules = rules.withDefaults()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		rules: rules,
		rng:   rng,
		state: rules.Ready(rng),
	}
}

// Handle applies a command and returns the events it produced.
func (e *Engine) Handle(cmd Command) []Event {
	next, events := e.rules.Apply(e.state, cmd, e.rng)
	e.state = next
	for _, ev := range events {
		switch ev.(type) {
		case Started, Restarted:
			e.tick = 0
		}
	}
	return events
}

// Tick runs one logic step. Ticks outside of play are ignored.
func (e *Engine) Tick(dt time.Duration) []Event {
	if e.state.Status != StatusPlaying {
		return nil
	}
	next, events := e.rules.Tick(e.state, dt, e.rng)
	e.state = next
	e.tick++
	return events
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{State: e.state.Clone(), Tick: e.tick}
}

// Status returns the current status.
func (e *Engine) Status() Status {
	return e.state.Status
}

// Speed returns the current logic tick period.
func (e *Engine) Speed() time.Duration {
	return e.state.Speed
}

// Ticks returns the number of ticks since the last start or restart.
func (e *Engine) Ticks() uint64 {
	return e.tick
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// SetBaseSpeed changes the tier speed. It takes effect on the next start or
// restart; a running game keeps its own base.
func (e *Engine) SetBaseSpeed(d time.Duration) {
	if d > 0 {
		e.rules.BaseSpeed = d
	}
}
