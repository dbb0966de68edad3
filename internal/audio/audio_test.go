package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/neonsnake/internal/snake"
)

const testRate = beep.SampleRate(48000)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
			if buf[i][0] != buf[i][1] {
				panic("channels differ")
			}
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestCueLengthAndPeak(t *testing.T) {
	tests := []struct {
		cue     Cue
		samples int
		maxPeak float64
	}{
		{CueEat, 4800, 0.3},
		{CueGameOver, 38400, 0.4},
		{CueMove, 2400, 0.1},
		{CuePause, 9600, 0.2},
		{CueLevelUp, 24000, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			n, peak := drain(NewStreamer(tt.cue, testRate))
			if n != tt.samples {
				t.Errorf("samples = %d, expected %d", n, tt.samples)
			}
			if peak > tt.maxPeak+1e-9 {
				t.Errorf("peak = %v, expected <= %v", peak, tt.maxPeak)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
		})
	}
}

func TestUnknownCueIsEmpty(t *testing.T) {
	n, _ := drain(NewStreamer(Cue(99), testRate))
	if n != 0 {
		t.Errorf("unknown cue streamed %d samples, expected 0", n)
	}
}

func TestForEvent(t *testing.T) {
	tests := []struct {
		ev   snake.Event
		cue  Cue
		want bool
	}{
		{snake.AteFood{}, CueEat, true},
		{snake.LeveledUp{Level: 2}, CueLevelUp, true},
		{snake.GameOver{}, CueGameOver, true},
		{snake.Paused{}, CuePause, true},
		{snake.Resumed{}, CuePause, true},
		{snake.Started{}, CueMove, true},
		{snake.Restarted{}, CueMove, true},
		{snake.DirectionChanged{}, CueMove, true},
		{snake.Collided{}, 0, false},
	}

	for _, tt := range tests {
		cue, ok := ForEvent(tt.ev)
		if ok != tt.want || (ok && cue != tt.cue) {
			t.Errorf("ForEvent(%T) = (%v, %v), expected (%v, %v)", tt.ev, cue, ok, tt.cue, tt.want)
		}
	}
}

type fakeSpeaker struct {
	initErr  error
	inits    int
	attached []beep.Streamer
}

func newTestPlayer(cfg Config, fs *fakeSpeaker) *Player {
	p := NewPlayer(cfg, log.New(io.Discard))
	p.initSpeaker = func(beep.SampleRate, int) error {
		fs.inits++
		return fs.initErr
	}
	p.attach = func(s beep.Streamer) { fs.attached = append(fs.attached, s) }
	p.lock = func() {}
	p.unlock = func() {}
	return p
}

func TestPlayerUninitializedIsSilent(t *testing.T) {
	p := newTestPlayer(Config{Enabled: true, Volume: 0.7}, &fakeSpeaker{})

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Play panicked without initialization: %v", r)
		}
	}()

	p.Play(CueEat)
	if p.Active() != 0 {
		t.Errorf("Active() = %d, expected 0", p.Active())
	}
	p.Close()
}

func TestPlayerPlayAddsToMixer(t *testing.T) {
	fs := &fakeSpeaker{}
	p := newTestPlayer(Config{Enabled: true, Volume: 0.7}, fs)

	if err := p.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := p.Initialize(); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if fs.inits != 1 {
		t.Errorf("speaker init count = %d, expected 1", fs.inits)
	}
	if len(fs.attached) != 1 {
		t.Errorf("attached streamers = %d, expected 1", len(fs.attached))
	}

	p.Play(CueEat)
	p.Play(CueMove)
	if p.Active() != 2 {
		t.Errorf("Active() = %d, expected 2", p.Active())
	}

	p.Close()
	if p.Active() != 0 {
		t.Errorf("Active() after Close = %d, expected 0", p.Active())
	}
}

func TestPlayerMuted(t *testing.T) {
	p := newTestPlayer(Config{Enabled: true, Volume: 0.7}, &fakeSpeaker{})
	if err := p.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	p.SetMuted(true)
	p.Play(CueEat)
	if p.Active() != 0 {
		t.Errorf("Active() while muted = %d, expected 0", p.Active())
	}

	p.SetMuted(false)
	p.Play(CueEat)
	if p.Active() != 1 {
		t.Errorf("Active() after unmute = %d, expected 1", p.Active())
	}
}

func TestPlayerDisabled(t *testing.T) {
	fs := &fakeSpeaker{}
	p := newTestPlayer(Config{Enabled: false}, fs)

	if err := p.Initialize(); err != nil {
		t.Errorf("Initialize() on disabled player error = %v", err)
	}
	if fs.inits != 0 {
		t.Errorf("disabled player opened the speaker")
	}
	p.Play(CueGameOver)
	if p.Active() != 0 {
		t.Errorf("Active() = %d, expected 0", p.Active())
	}
}

func TestPlayerInitFailure(t *testing.T) {
	fs := &fakeSpeaker{initErr: errors.New("no device")}
	p := newTestPlayer(Config{Enabled: true}, fs)

	if err := p.Initialize(); err == nil {
		t.Error("Initialize() expected error")
	}
	p.Play(CueEat)
	if p.Active() != 0 {
		t.Errorf("Active() after failed init = %d, expected 0", p.Active())
	}
}

func TestSetVolumeClamps(t *testing.T) {
	p := NewPlayer(Config{Volume: 2}, log.New(io.Discard))
	if p.Volume() != 1 {
		t.Errorf("Volume() = %v, expected 1", p.Volume())
	}
	p.SetVolume(-1)
	if p.Volume() != 0 {
		t.Errorf("Volume() = %v, expected 0", p.Volume())
	}
}

func TestWithVolumeZeroIsSilent(t *testing.T) {
	_, peak := drain(withVolume(NewStreamer(CueEat, testRate), 0))
	if peak != 0 {
		t.Errorf("peak at zero volume = %v, expected 0", peak)
	}
}
