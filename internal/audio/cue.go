// Package audio synthesizes the short game cues and plays them through the
// system speaker.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/neonsnake/internal/snake"
)

// Cue names one of the synthesized sounds.
type Cue int

const (
	CueEat Cue = iota
	CueGameOver
	CueMove
	CuePause
	CueLevelUp
)

func (c Cue) String() string {
	switch c {
	case CueEat:
		return "eat"
	case CueGameOver:
		return "game_over"
	case CueMove:
		return "move"
	case CuePause:
		return "pause"
	case CueLevelUp:
		return "level_up"
	default:
		return "unknown"
	}
}

// Sink receives cues. Implementations must not block the caller.
type Sink interface {
	Play(Cue)
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(Cue) {}

// ForEvent maps a simulation event to the cue it should trigger.
func ForEvent(ev snake.Event) (Cue, bool) {
	switch ev.(type) {
	case snake.AteFood:
		return CueEat, true
	case snake.LeveledUp:
		return CueLevelUp, true
	case snake.GameOver:
		return CueGameOver, true
	case snake.Paused, snake.Resumed:
		return CuePause, true
	case snake.Started, snake.Restarted, snake.DirectionChanged:
		return CueMove, true
	default:
		return 0, false
	}
}

// voice describes a cue as a closed-form signal of time t in seconds.
type voice struct {
	duration time.Duration
	sample   func(t float64) float64
}

var voices = map[Cue]voice{
	CueEat: {100 * time.Millisecond, func(t float64) float64 {
		f := 800 + 400*t
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*10) * 0.3
	}},
	CueGameOver: {800 * time.Millisecond, func(t float64) float64 {
		f := 400 - 300*t
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*2) * 0.4
	}},
	CueMove: {50 * time.Millisecond, func(t float64) float64 {
		return math.Sin(2*math.Pi*200*t) * math.Exp(-t*20) * 0.1
	}},
	CuePause: {200 * time.Millisecond, func(t float64) float64 {
		env := (0.2 - t) * 10
		if t < 0.1 {
			env = t * 10
		}
		return math.Sin(2*math.Pi*600*t) * env * 0.2
	}},
	CueLevelUp: {500 * time.Millisecond, func(t float64) float64 {
		f1 := 440 + 220*t
		f2 := 550 + 275*t
		env := math.Sin(math.Pi*t) * math.Exp(-t*2)
		return (math.Sin(2*math.Pi*f1*t) + math.Sin(2*math.Pi*f2*t)) * env * 0.2
	}},
}

// synth streams a voice sample by sample.
type synth struct {
	v     voice
	rate  beep.SampleRate
	pos   int
	total int
}

// NewStreamer returns a fresh mono-in-stereo streamer for c at the given
// rate. Unknown cues stream silence of zero length.
func NewStreamer(c Cue, rate beep.SampleRate) beep.Streamer {
	v, ok := voices[c]
	if !ok {
		return beep.Silence(0)
	}
	return &synth{v: v, rate: rate, total: rate.N(v.duration)}
}

func (s *synth) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.rate)
		val := s.v.sample(t)
		samples[i][0] = val
		samples[i][1] = val
		s.pos++
	}
	return len(samples), true
}

func (s *synth) Err() error { return nil }

// Duration returns the length of a cue.
func Duration(c Cue) time.Duration {
	return voices[c].duration
}
