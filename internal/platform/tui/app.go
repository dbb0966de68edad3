package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neonsnake/internal/game"
)

// SessionFactory creates a fresh game session each time Play is chosen.
type SessionFactory func() (*game.Session, error)

// AppOptions configures an AppModel.
type AppOptions struct {
	NewSession SessionFactory
	Stats      StatsSource // optional
	MaxRecent  int
	Game       GameOptions
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenStats
)

// AppModel manages the full flow: menu -> game or statistics -> menu.
// It is the top-level model for the menu command and for SSH sessions.
type AppModel struct {
	opts     AppOptions
	width    int
	height   int
	screen   appScreen
	menu     MenuModel
	game     *GameModel
	stats    *StatsModel
	err      error
	quitting bool
}

// NewAppModel creates the app positioned on the menu.
func NewAppModel(opts AppOptions) AppModel {
	m := AppModel{
		opts:   opts,
		width:  opts.Game.Width,
		height: opts.Game.Height,
	}
	m.menu = m.newMenu()
	return m
}

func (m AppModel) newMenu() MenuModel {
	high := 0
	if m.opts.Stats != nil {
		if s, err := m.opts.Stats.Statistics(1); err == nil {
			high = s.HighScore
		}
	}
	return NewMenuModel(m.width, m.height, high)
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenStats:
		return m.updateStats(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode. The child's tea.Quit is
// swallowed unless the user actually quit.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case ChoicePlay:
		session, err := m.opts.NewSession()
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		gopts := m.opts.Game
		gopts.Width, gopts.Height = m.width, m.height
		gopts.QuitOnBack = false
		gm := NewGameModel(session, gopts)
		m.game = &gm
		m.screen = screenGame
		return m, m.game.Init()

	case ChoiceStats:
		sm := NewStatsModel(m.opts.Stats, m.opts.MaxRecent, m.width, m.height)
		m.stats = &sm
		m.screen = screenStats
		return m, m.stats.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.game = nil
		return m.toMenu()
	}

	return m, cmd
}

// updateStats handles updates when the statistics board is open.
func (m AppModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.stats.Update(msg)
	if statsModel, ok := newModel.(StatsModel); ok {
		m.stats = &statsModel
	}

	if m.stats.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.stats.IsGoingBack() {
		m.stats = nil
		return m.toMenu()
	}

	return m, cmd
}

func (m AppModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenStats:
		return m.stats.View()
	default:
		return m.menu.View()
	}
}

// Close releases a session left open when the program stopped mid-game.
func (m AppModel) Close() {
	if m.game != nil {
		m.game.session.Close()
	}
}

// Err returns the error that ended the app, if any.
func (m AppModel) Err() error {
	return m.err
}

// RunApp runs the menu-driven app until the user quits.
func RunApp(opts AppOptions) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if app, ok := final.(AppModel); ok {
		app.Close()
		return app.Err()
	}
	return nil
}
