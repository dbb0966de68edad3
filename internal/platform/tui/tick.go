// Package tui hosts the game in a terminal through Bubble Tea. It maps keys
// and mouse drags to actions, drives the session's render cadence and turns
// rasterized frames into styled cells.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neonsnake/internal/scheduler"
)

// FrameMsg is one render callback. Token ties it to the cadence generation
// that scheduled it so callbacks from a stopped loop are ignored.
type FrameMsg struct {
	Token scheduler.Token
	Time  time.Time
}

// frameCmd schedules the next render callback.
func frameCmd(tok scheduler.Token, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Token: tok, Time: t}
	})
}
