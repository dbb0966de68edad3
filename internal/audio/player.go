package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is used when the config leaves it unset.
const DefaultSampleRate = beep.SampleRate(48000)

// DefaultVolume is the master volume for a fresh player.
const DefaultVolume = 0.7

// Config configures a Player.
type Config struct {
	Enabled    bool
	Volume     float64 // 0..1
	SampleRate int
}

// Player plays cues through a single mixer attached to the speaker.
// All methods are safe for concurrent use and never return playback errors
// to the caller; failures are logged.
type Player struct {
	mu          sync.Mutex
	logger      *log.Logger
	rate        beep.SampleRate
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	enabled     bool
	initialized bool

	// speaker hooks, replaced in tests
	initSpeaker func(beep.SampleRate, int) error
	attach      func(beep.Streamer)
	lock        func()
	unlock      func()
}

// NewPlayer creates a player. Initialize must be called before sound is
// produced.
func NewPlayer(cfg Config, logger *log.Logger) *Player {
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		logger:      logger.WithPrefix("audio"),
		rate:        rate,
		mixer:       &beep.Mixer{},
		volume:      clampVolume(cfg.Volume),
		enabled:     cfg.Enabled,
		initSpeaker: speaker.Init,
		attach:      func(s beep.Streamer) { speaker.Play(s) },
		lock:        speaker.Lock,
		unlock:      speaker.Unlock,
	}
}

// Initialize opens the speaker. A disabled player stays silent and returns
// nil. Calling it twice is a no-op.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.enabled {
		return nil
	}

	if err := p.initSpeaker(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn("speaker unavailable, running silent", "error", err)
		return err
	}

	p.attach(p.mixer)
	p.initialized = true
	p.logger.Debug("speaker ready", "rate", int(p.rate), "volume", p.volume)
	return nil
}

// Play starts c on top of whatever is already playing.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}

	s := withVolume(NewStreamer(c, p.rate), p.volume)
	p.lock()
	p.mixer.Add(s)
	p.unlock()
}

// SetVolume changes the master volume for cues started afterwards.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = clampVolume(v)
	p.mu.Unlock()
}

// Volume returns the master volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetMuted silences or restores playback.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Muted reports whether playback is silenced.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Active returns the number of cues still playing.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return 0
	}
	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// Close drops all playing cues. The speaker itself stays open because beep
// has no way to release it.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.lock()
	p.mixer.Clear()
	p.unlock()
	p.initialized = false
}

func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// withVolume scales s by a linear gain; zero gain is silent because
// log2(0) is -Inf.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
