package snake

import "github.com/vovakirdan/neonsnake/internal/core"

// CommandKind identifies a discrete player command.
type CommandKind int

const (
	CmdStart CommandKind = iota + 1
	CmdMove
	CmdPause
	CmdResume
	CmdRestart
)

func (k CommandKind) String() string {
	switch k {
	case CmdStart:
		return "start"
	case CmdMove:
		return "move"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Command is a player intent applied between ticks.
type Command struct {
	Kind CommandKind
	Dir  core.Direction // only for CmdMove
}

// Start returns a start command.
func Start() Command { return Command{Kind: CmdStart} }

// Move returns a direction change command.
func Move(dir core.Direction) Command { return Command{Kind: CmdMove, Dir: dir} }

// Pause returns a pause command.
func Pause() Command { return Command{Kind: CmdPause} }

// Resume returns a resume command.
func Resume() Command { return Command{Kind: CmdResume} }

// Restart returns a restart command.
func Restart() Command { return Command{Kind: CmdRestart} }

func (c Command) String() string {
	if c.Kind == CmdMove {
		return "move(" + c.Dir.String() + ")"
	}
	return c.Kind.String()
}
