// Package game wires the simulation engine to its collaborators: input,
// cadence, particles, rendering, audio, persistence and spectators. A
// Session is driven by one host goroutine calling Frame on every render
// callback.
package game

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neonsnake/internal/audio"
	"github.com/vovakirdan/neonsnake/internal/config"
	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/input"
	"github.com/vovakirdan/neonsnake/internal/metrics"
	"github.com/vovakirdan/neonsnake/internal/particles"
	"github.com/vovakirdan/neonsnake/internal/render"
	"github.com/vovakirdan/neonsnake/internal/scheduler"
	"github.com/vovakirdan/neonsnake/internal/snake"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("game: session closed")

// ResultSaver persists finished games.
type ResultSaver interface {
	SaveResult(snake.Result) (storage.ScoreRecord, error)
}

// Publisher receives snapshots for spectators. Publish must not block.
type Publisher interface {
	Publish(snake.Snapshot)
}

// Options configures a Session. Only Config is required.
type Options struct {
	Config    config.Config
	Rand      *rand.Rand
	Clock     scheduler.Clock
	Audio     audio.Sink
	Store     ResultSaver
	Publisher Publisher
	Logger    *log.Logger
	Metrics   *metrics.Metrics
}

// Session is one player's game.
type Session struct {
	cfg   config.Config
	theme render.Theme
	grid  int

	engine   *snake.Engine
	queue    *input.Queue
	mapper   *input.Mapper
	logic    scheduler.Logic
	frames   scheduler.Frames
	effects  *particles.System
	ambient  *particles.Ambient
	pipeline *render.Pipeline

	clock     scheduler.Clock
	audio     audio.Sink
	store     ResultSaver
	publisher Publisher
	logger    *log.Logger
	metrics   *metrics.Metrics

	showGrid bool
	showHUD  bool
	last     *storage.ScoreRecord
	closed   bool
}

// New builds a session in the ready state with a surface attached.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	theme, err := render.ThemeByName(cfg.Theme)
	if err != nil {
		return nil, err
	}

	base, err := cfg.CurrentSpeed()
	if err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := opts.Clock
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	sink := opts.Audio
	if sink == nil {
		sink = audio.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	rules := snake.Rules{
		Grid:      core.NewGrid(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.GridSize),
		BaseSpeed: base,
		MinSpeed:  cfg.MinTick(),
		Mode:      snake.ModeClassic,
	}

	s := &Session{
		cfg:       cfg,
		theme:     theme,
		grid:      cfg.Canvas.GridSize,
		engine:    snake.NewEngine(rules, rng),
		queue:     input.NewQueue(cfg.Input.QueueSize),
		mapper:    input.NewMapper(cfg.Input.RepeatDelay()),
		effects:   particles.NewSystem(rng, cfg.Particles.Max),
		ambient:   particles.NewAmbient(rng, cfg.Canvas.Width, cfg.Canvas.Height),
		pipeline:  render.NewPipeline(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.GridSize),
		clock:     clock,
		audio:     sink,
		store:     opts.Store,
		publisher: opts.Publisher,
		logger:    logger.WithPrefix("session"),
		metrics:   opts.Metrics,
		showGrid:  cfg.ShowGrid,
		showHUD:   cfg.ShowHUD,
	}

	s.effects.SetBaseLife(int(cfg.Particles.Life))
	if cfg.Particles.Enabled {
		s.ambient.Starfield(cfg.Particles.Stars)
	}
	s.pipeline.NewSurface()
	s.metrics.SessionOpened()

	s.logger.Debug("session created",
		"grid", fmt.Sprintf("%dx%d", rules.Grid.Width, rules.Grid.Height),
		"speed", cfg.Speed,
		"theme", theme.Name,
	)
	return s, nil
}

// Input maps a user action through the debouncing mapper and queues the
// resulting command. It must be called from the goroutine that calls Frame.
func (s *Session) Input(a core.Action) bool {
	if s.closed {
		return false
	}
	cmd, ok := s.mapper.Map(a, s.engine.Status(), s.clock.Now())
	if !ok {
		return false
	}
	return s.queue.Push(cmd)
}

// Push queues a command directly. It is safe to call from any goroutine.
func (s *Session) Push(cmd snake.Command) bool {
	if s.closed {
		return false
	}
	return s.queue.Push(cmd)
}

// Frame runs one render callback: apply queued commands, tick when the
// logic cadence is due, advance particles and draw. It reports whether a
// frame was drawn.
func (s *Session) Frame(now time.Time) bool {
	if s.closed {
		return false
	}

	for _, cmd := range s.queue.Drain() {
		events := s.engine.Handle(cmd)
		s.dispatch(events)
		if len(events) > 0 {
			s.publish()
		}
		if s.engine.Status() == snake.StatusPlaying && isStart(events) {
			s.logic.Start(now)
		}
	}

	if dt, ok := s.logic.Due(now, s.engine.Speed()); ok {
		start := time.Now()
		events := s.engine.Tick(dt)
		s.metrics.RecordTick(time.Since(start))
		s.dispatch(events)
		s.publish()
	}

	s.effects.Update()
	s.ambient.Update()
	if s.cfg.Particles.Enabled {
		s.ambient.Drift()
		if s.engine.Status() == snake.StatusPlaying {
			x, y := s.center(s.engine.Snapshot().Head())
			s.effects.Trail(x, y, s.theme.Snake, s.cfg.Particles.TrailRate)
		}
	}
	s.metrics.SetParticles(s.effects.Len())

	start := time.Now()
	drew := s.pipeline.Draw(render.Frame{
		Snapshot:  s.engine.Snapshot(),
		Theme:     s.theme,
		Particles: s.effects.Particles(),
		Ambient:   s.ambient.Particles(),
		Now:       now,
		ShowGrid:  s.showGrid,
		ShowHUD:   s.showHUD,
	})
	if drew {
		s.metrics.RecordRender(time.Since(start))
	}
	return drew
}

func isStart(events []snake.Event) bool {
	for _, ev := range events {
		switch ev.(type) {
		case snake.Started, snake.Restarted, snake.Resumed:
			return true
		}
	}
	return false
}

// dispatch fans events out to effects, audio, metrics and persistence.
func (s *Session) dispatch(events []snake.Event) {
	for _, ev := range events {
		s.metrics.ObserveEvent(ev)
		if cue, ok := audio.ForEvent(ev); ok {
			s.audio.Play(cue)
		}

		switch e := ev.(type) {
		case snake.Started, snake.Restarted:
			s.effects.Clear()
			s.last = nil

		case snake.Paused:
			s.logic.Stop()

		case snake.AteFood:
			if s.cfg.Particles.Enabled {
				x, y := s.center(e.At)
				s.effects.FoodExplosion(x, y, s.theme.Food)
			}

		case snake.LeveledUp:
			if s.cfg.Particles.Enabled {
				x, y := s.center(s.engine.Snapshot().Head())
				s.effects.LevelUpEffect(x, y)
			}
			s.logger.Info("level up", "level", e.Level)

		case snake.Collided:
			if s.cfg.Particles.Enabled {
				x, y := s.center(s.engine.Snapshot().Head())
				s.effects.GameOverExplosion(x, y, nil)
			}

		case snake.GameOver:
			s.logic.Stop()
			s.save(e.Result)
		}
	}
}

func (s *Session) save(r snake.Result) {
	s.logger.Info("game over", "score", r.Score, "level", r.Level, "duration", r.Duration.Round(time.Second))
	if s.store == nil {
		return
	}
	rec, err := s.store.SaveResult(r)
	if err != nil {
		s.logger.Error("could not save result", "error", err)
		return
	}
	s.last = &rec
}

func (s *Session) publish() {
	if s.publisher != nil {
		s.publisher.Publish(s.engine.Snapshot())
	}
}

func (s *Session) center(p core.Position) (float64, float64) {
	return render.CellCenter(p, s.grid)
}

// StartFrames begins a new render cadence generation.
func (s *Session) StartFrames() scheduler.Token {
	return s.frames.Start()
}

// AcceptFrame reports whether a frame callback tagged with tok is live.
func (s *Session) AcceptFrame(tok scheduler.Token) bool {
	return !s.closed && s.frames.Accept(tok)
}

// Snapshot returns a copy of the game state.
func (s *Session) Snapshot() snake.Snapshot {
	return s.engine.Snapshot()
}

// Status returns the game status.
func (s *Session) Status() snake.Status {
	return s.engine.Status()
}

// LastRecord returns the record saved for the most recent game over.
func (s *Session) LastRecord() (storage.ScoreRecord, bool) {
	if s.last == nil {
		return storage.ScoreRecord{}, false
	}
	return *s.last, true
}

// Theme returns the active theme.
func (s *Session) Theme() render.Theme {
	return s.theme
}

// SetTheme switches palettes immediately.
func (s *Session) SetTheme(name string) error {
	t, err := render.ThemeByName(name)
	if err != nil {
		return err
	}
	s.theme = t
	return nil
}

// SetSpeed selects a speed tier. It applies from the next start or restart.
func (s *Session) SetSpeed(tier config.SpeedTier) error {
	d, err := s.cfg.BaseSpeed(tier)
	if err != nil {
		return err
	}
	s.cfg.Speed = tier
	s.engine.SetBaseSpeed(d)
	return nil
}

// Canvas returns the surface dimensions in pixels.
func (s *Session) Canvas() config.CanvasConfig {
	return s.cfg.Canvas
}

// Speed returns the selected tier.
func (s *Session) Speed() config.SpeedTier {
	return s.cfg.Speed
}

// NextSpeed cycles to the following tier.
func (s *Session) NextSpeed() config.SpeedTier {
	next := s.cfg.NextSpeed(s.cfg.Speed)
	if err := s.SetSpeed(next); err != nil {
		s.logger.Warn("could not change speed", "tier", next, "error", err)
	}
	return s.cfg.Speed
}

// ToggleGrid flips grid lines on or off.
func (s *Session) ToggleGrid() bool {
	s.showGrid = !s.showGrid
	return s.showGrid
}

// Particles returns the number of live effect particles.
func (s *Session) Particles() int {
	return s.effects.Len()
}

// Image returns the last drawn frame, or nil once closed.
func (s *Session) Image() image.Image {
	return s.pipeline.Image()
}

// Rasterize downsamples the last frame into scr.
func (s *Session) Rasterize(scr *core.Screen) {
	render.ToScreen(s.pipeline.Image(), scr)
}

// SavePNG writes the last frame to path.
func (s *Session) SavePNG(path string) error {
	if s.closed {
		return ErrClosed
	}
	return s.pipeline.SavePNG(path)
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// Close stops both cadences and releases the surface. Later frames are
// no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.logic.Stop()
	s.frames.Stop()
	s.pipeline.Detach()
	s.effects.Clear()
	s.metrics.SessionClosed()
	s.logger.Debug("session closed")
}
