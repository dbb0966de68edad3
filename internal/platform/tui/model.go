package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/game"
	"github.com/vovakirdan/neonsnake/internal/input"
	"github.com/vovakirdan/neonsnake/internal/render"
	"github.com/vovakirdan/neonsnake/internal/scheduler"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

// Below this many cells the frame is unreadable and a notice is shown.
const (
	minCols = 24
	minRows = 8
)

const gameHelp = "wasd/arrows move  space pause  r restart  g grid  t theme  v speed  m mute  q quit"

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Muter toggles sound. *audio.Player satisfies it.
type Muter interface {
	SetMuted(bool)
	Muted() bool
}

// GameOptions configures a GameModel.
type GameOptions struct {
	FPS              int
	Width, Height    int // terminal size in cells
	SwipeMinDistance int
	Muter            Muter  // optional
	ScreenshotDir    string // defaults to ~/.neonsnake/screenshots
	QuitOnBack       bool   // back exits the program instead of returning to a parent
}

// GameModel is the Bubble Tea model for one game session.
type GameModel struct {
	session  *game.Session
	screen   *core.Screen
	keys     *KeyMapper
	swipe    *input.Swipe
	muter    Muter
	interval time.Duration
	shotDir  string
	width    int
	height   int
	status   string

	quitOnBack bool
	quitting   bool
	backToMenu bool
}

// NewGameModel wraps a session. The model takes ownership and closes the
// session when the player leaves.
func NewGameModel(session *game.Session, opts GameOptions) GameModel {
	m := GameModel{
		session:    session,
		keys:       NewKeyMapper(),
		swipe:      &input.Swipe{MinDistance: opts.SwipeMinDistance},
		muter:      opts.Muter,
		interval:   scheduler.Interval(opts.FPS),
		shotDir:    opts.ScreenshotDir,
		width:      opts.Width,
		height:     opts.Height,
		quitOnBack: opts.QuitOnBack,
	}
	cols, rows := m.fit()
	m.screen = core.NewScreen(cols, rows)
	return m
}

// fit sizes the cell buffer to the terminal, reserving one row for the footer.
func (m GameModel) fit() (cols, rows int) {
	canvas := m.session.Canvas()
	return render.FitCells(m.width, max(m.height-1, 1), canvas.Width, canvas.Height)
}

// Init starts a new render cadence.
func (m GameModel) Init() tea.Cmd {
	tok := m.session.StartFrames()
	return frameCmd(tok, m.interval)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		return m.handleFrame(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(m.fit())
		return m, nil
	}

	return m, nil
}

// handleFrame runs one render callback and schedules the next. Frames from
// a stopped cadence are dropped without rescheduling.
func (m GameModel) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	if !m.session.AcceptFrame(msg.Token) {
		return m, nil
	}
	if m.session.Frame(msg.Time) {
		m.session.Rasterize(m.screen)
	}
	return m, frameCmd(msg.Token, m.interval)
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if ctl := m.keys.MapControl(msg); ctl != ControlNone {
		m.control(ctl)
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		m.session.Close()
		return m, tea.Quit

	case action == core.ActionBack:
		// Leaving mid-game would throw the run away.
		if m.session.Status() == snake.StatusPlaying {
			return m, nil
		}
		m.backToMenu = true
		m.session.Close()
		if m.quitOnBack {
			return m, tea.Quit
		}
		return m, nil

	case action != core.ActionNone:
		m.session.Input(action)
	}
	return m, nil
}

// handleMouse turns a left-button drag into a swipe.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.swipe.Press(msg.X, msg.Y)
	case tea.MouseActionRelease:
		if g, ok := m.swipe.Release(msg.X, msg.Y); ok {
			m.session.Input(g.Action())
		}
	}
	return m, nil
}

func (m *GameModel) control(ctl Control) {
	switch ctl {
	case ControlGrid:
		if m.session.ToggleGrid() {
			m.status = "grid on"
		} else {
			m.status = "grid off"
		}

	case ControlTheme:
		names := render.ThemeNames()
		i := slices.Index(names, m.session.Theme().Name)
		next := names[(i+1)%len(names)]
		if err := m.session.SetTheme(next); err != nil {
			m.status = err.Error()
			return
		}
		m.status = "theme: " + next

	case ControlSpeed:
		m.status = fmt.Sprintf("speed: %s (applies on next game)", m.session.NextSpeed())

	case ControlMute:
		if m.muter == nil {
			m.status = "sound unavailable"
			return
		}
		m.muter.SetMuted(!m.muter.Muted())
		if m.muter.Muted() {
			m.status = "sound off"
		} else {
			m.status = "sound on"
		}

	case ControlScreenshot:
		path, err := m.saveScreenshot()
		if err != nil {
			m.status = "screenshot failed: " + err.Error()
			return
		}
		m.status = "saved " + path
	}
}

// saveScreenshot writes the last frame as a PNG.
func (m GameModel) saveScreenshot() (string, error) {
	dir := m.shotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".neonsnake", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("neonsnake_%s.png", timestamp))
	if err := m.session.SavePNG(path); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	if m.tooSmall() {
		return RenderScreen(m.smallNotice())
	}

	footer := gameHelp
	if m.status != "" {
		footer = m.status
	}
	if m.width > 0 && len(footer) > m.width {
		footer = footer[:m.width]
	}
	return RenderScreen(m.screen) + "\n" + footerStyle.Render(centerText(footer, m.width))
}

func (m GameModel) tooSmall() bool {
	return m.width < minCols || m.height < minRows
}

func (m GameModel) smallNotice() *core.Screen {
	scr := core.NewScreen(max(m.width, 1), max(m.height, 1))
	scr.DrawBox(core.NewRect(0, 0, m.width, m.height), core.ColorWhite, core.ColorBlack)
	scr.DrawTextCentered(m.height/2-1, "Terminal too small", core.ColorWhite)
	scr.DrawTextCentered(m.height/2, fmt.Sprintf("need %dx%d", minCols, minRows), core.ColorWhite)
	return scr
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Status returns the last control message shown in the footer.
func (m GameModel) Status() string {
	return m.status
}

// Screen returns the cell buffer of the last rasterized frame.
func (m GameModel) Screen() *core.Screen {
	return m.screen
}

// RunGame starts a Bubble Tea program for a single session.
func RunGame(session *game.Session, opts GameOptions) error {
	opts.QuitOnBack = true
	model := NewGameModel(session, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Swipe input
	)

	_, err := p.Run()
	session.Close()
	return err
}
