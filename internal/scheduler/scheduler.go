// Package scheduler provides the two cadences that drive a game: a logic
// cadence whose period follows the current speed, and a render cadence that
// rides on the host's frame callback.
package scheduler

import (
	"time"
)

// Logic fires a tick whenever the current period has elapsed since the last
// one. It is checked on every frame rather than run from its own timer, so a
// period change takes effect on the very next eligible check.
type Logic struct {
	running  bool
	lastTick time.Time
}

// Start begins the cadence at now. Starting while running replaces the
// previous phase; no backlog from before now is ever replayed.
func (l *Logic) Start(now time.Time) {
	l.running = true
	l.lastTick = now
}

// Stop halts the cadence. Stopping when not running is a no-op.
func (l *Logic) Stop() {
	l.running = false
}

// Running reports whether the cadence is active.
func (l *Logic) Running() bool {
	return l.running
}

// Due reports whether a tick should fire at now for the given period and,
// if so, records now as the last tick. dt is the time since the previous tick.
func (l *Logic) Due(now time.Time, period time.Duration) (dt time.Duration, ok bool) {
	if !l.running {
		return 0, false
	}
	elapsed := now.Sub(l.lastTick)
	if elapsed < period {
		return 0, false
	}
	l.lastTick = now
	return elapsed, true
}

// Token identifies one generation of the render cadence. Frame callbacks
// scheduled under an older generation are rejected.
type Token uint64

// Frames owns at most one live render cadence at a time.
type Frames struct {
	gen     Token
	running bool
}

// Start opens a new generation and returns its token. Any callback carrying
// a token from a previous generation is rejected from now on.
func (f *Frames) Start() Token {
	f.gen++
	f.running = true
	return f.gen
}

// Stop invalidates every outstanding token. Safe to call repeatedly.
func (f *Frames) Stop() {
	if !f.running {
		return
	}
	f.running = false
	f.gen++
}

// Running reports whether a generation is live.
func (f *Frames) Running() bool {
	return f.running
}

// Accept reports whether a callback with tok belongs to the live generation.
func (f *Frames) Accept(tok Token) bool {
	return f.running && tok == f.gen
}

// Interval converts a frame rate into a frame period.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
