package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neonsnake/internal/render"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

// StatsSource is the read side of the score store used by the board.
type StatsSource interface {
	Statistics(maxRecent int) (storage.Statistics, error)
}

// StatsKeyMap defines the key bindings for the statistics board.
type StatsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh},
		{k.Back, k.Quit},
	}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// StatsModel shows aggregate statistics and the most recent games.
type StatsModel struct {
	source    StatsSource
	maxRecent int
	stats     storage.Statistics
	err       error
	table     table.Model
	help      help.Model
	keys      StatsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewStatsModel creates the board and loads the statistics once.
func NewStatsModel(source StatsSource, maxRecent, width, height int) StatsModel {
	if maxRecent <= 0 {
		maxRecent = storage.DefaultMaxRecent
	}
	h := help.New()
	h.ShowAll = false

	m := StatsModel{
		source:    source,
		maxRecent: maxRecent,
		keys:      DefaultStatsKeyMap(),
		help:      h,
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *StatsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Time", Width: 6},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-16, 3)), // Leave room for the summary and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load queries the source and refreshes the table rows.
func (m *StatsModel) load() {
	m.err = nil
	m.stats = storage.Statistics{HighestLevel: 1}
	if m.source != nil {
		m.stats, m.err = m.source.Statistics(m.maxRecent)
	}
	m.updateTableRows()
}

func (m *StatsModel) updateTableRows() {
	rows := make([]table.Row, len(m.stats.RecentScores))
	for i, s := range m.stats.RecentScores {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Level),
			render.FormatClock(s.Duration),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the board.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board.
func (m StatsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("STATISTICS"), m.width))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(centerText("Statistics unavailable: "+m.err.Error(), m.width))
		b.WriteString("\n")
	} else {
		summary := panelStyle.Render(m.summary())
		recent := panelStyle.Render(m.recent())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, summary, "  ", recent))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m StatsModel) summary() string {
	s := m.stats
	rows := [][2]string{
		{"Games played", itoa(s.TotalGames)},
		{"Total score", itoa(s.TotalScore)},
		{"High score", itoa(s.HighScore)},
		{"Average score", itoa(s.AverageScore)},
		{"Highest level", itoa(s.HighestLevel)},
		{"Time played", render.FormatClock(s.TotalPlayTime)},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-14s %8s", r[0], r[1])
	}
	return b.String()
}

func (m StatsModel) recent() string {
	if len(m.stats.RecentScores) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
		return emptyStyle.Render("No games recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Stats returns the loaded statistics.
func (m StatsModel) Stats() storage.Statistics {
	return m.stats
}

// IsGoingBack returns true if user wants to go back to menu.
func (m StatsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
