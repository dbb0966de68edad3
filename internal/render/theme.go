package render

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/vovakirdan/neonsnake/internal/core"
)

// ErrUnknownTheme is returned for a theme name with no palette.
var ErrUnknownTheme = errors.New("render: unknown theme")

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "neon"

// Theme is a named palette. Every color decision in a frame comes from here.
type Theme struct {
	Name       string
	Background color.NRGBA
	Snake      color.NRGBA
	SnakeGlow  color.NRGBA
	Food       color.NRGBA
	FoodGlow   color.NRGBA
	Grid       color.NRGBA
	Text       color.NRGBA
	Accent     color.NRGBA
}

func hex(s string) color.NRGBA {
	c := core.MustHex(s)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

var themes = map[string]Theme{
	"neon": {
		Name:       "neon",
		Background: hex("#1a1a2e"),
		Snake:      hex("#00ff88"),
		SnakeGlow:  hex("#00ff88"),
		Food:       hex("#ffd700"),
		FoodGlow:   hex("#ffd700"),
		Grid:       hex("#2a2a4e"),
		Text:       hex("#ffffff"),
		Accent:     hex("#8a2be2"),
	},
	"classic": {
		Name:       "classic",
		Background: hex("#2d5016"),
		Snake:      hex("#90ee90"),
		SnakeGlow:  hex("#90ee90"),
		Food:       hex("#ff4444"),
		FoodGlow:   hex("#ff4444"),
		Grid:       hex("#3d6026"),
		Text:       hex("#ffffff"),
		Accent:     hex("#ffff00"),
	},
	"retro": {
		Name:       "retro",
		Background: hex("#000000"),
		Snake:      hex("#00ff00"),
		SnakeGlow:  hex("#00ff00"),
		Food:       hex("#ff0000"),
		FoodGlow:   hex("#ff0000"),
		Grid:       hex("#333333"),
		Text:       hex("#00ff00"),
		Accent:     hex("#ffff00"),
	},
}

// ThemeByName looks up a palette.
func ThemeByName(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// ThemeNames returns the available theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TerminalColor converts a palette entry into a terminal cell color.
func TerminalColor(c color.NRGBA) core.Color {
	return core.RGB(c.R, c.G, c.B)
}

// withAlpha returns c with its alpha scaled by a in [0, 1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	a = core.ClampF(a, 0, 1)
	c.A = uint8(float64(c.A) * a)
	return c
}

// shade darkens (f < 1) or lightens toward white (f > 1) a color.
func shade(c color.NRGBA, f float64) color.NRGBA {
	mix := func(v uint8) uint8 {
		x := float64(v)
		if f <= 1 {
			x *= f
		} else {
			x += (255 - x) * (f - 1)
		}
		return uint8(core.ClampF(x, 0, 255))
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
