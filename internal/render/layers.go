package render

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/particles"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

const (
	headInset  = 2.0
	bodyInset  = 1.0
	foodInset  = 4.0
	eyeSize    = 3.0
	eyeOffset  = 6.0
	headGlow   = 15.0
	bodyGlow   = 8.0
	foodGlow   = 20.0
	glowLayers = 3
)

type geometry struct {
	width, height, cell float64
}

// cellOrigin returns the top-left pixel of a grid cell.
func (g geometry) cellOrigin(p core.Position) (float64, float64) {
	return float64(p.X) * g.cell, float64(p.Y) * g.cell
}

// CellCenter returns the pixel center of a grid cell for a given cell size.
func CellCenter(p core.Position, cell int) (float64, float64) {
	c := float64(cell)
	return float64(p.X)*c + c/2, float64(p.Y)*c + c/2
}

func drawBackground(dc *gg.Context, g geometry, t Theme) {
	grad := gg.NewLinearGradient(0, 0, 0, g.height)
	grad.AddColorStop(0, t.Background)
	grad.AddColorStop(1, shade(t.Background, 0.6))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, g.width, g.height)
	dc.Fill()
}

func drawAmbient(dc *gg.Context, ps []particles.Particle) {
	for _, p := range ps {
		dc.SetColor(p.Color)
		dc.DrawCircle(p.X, p.Y, p.Size)
		dc.Fill()
	}
}

func drawGrid(dc *gg.Context, g geometry, t Theme) {
	dc.SetColor(withAlpha(t.Grid, 0.6))
	dc.SetLineWidth(1)
	for x := 0.0; x <= g.width; x += g.cell {
		dc.DrawLine(x+0.5, 0, x+0.5, g.height)
	}
	for y := 0.0; y <= g.height; y += g.cell {
		dc.DrawLine(0, y+0.5, g.width, y+0.5)
	}
	dc.Stroke()
}

// glowRect approximates a blurred shadow with a few translucent expanded
// rectangles, faintest on the outside.
func glowRect(dc *gg.Context, x, y, w, h, radius float64, c color.NRGBA, strength float64) {
	for i := glowLayers; i >= 1; i-- {
		pad := radius * float64(i) / glowLayers
		dc.SetColor(withAlpha(c, strength*float64(glowLayers-i+1)/float64(glowLayers*2)))
		dc.DrawRoundedRectangle(x-pad, y-pad, w+2*pad, h+2*pad, pad)
		dc.Fill()
	}
}

func drawSnake(dc *gg.Context, g geometry, t Theme, s snake.Snapshot) {
	// Tail first so the head ends up on top.
	for i := len(s.Snake) - 1; i >= 1; i-- {
		x, y := g.cellOrigin(s.Snake[i])
		alpha := math.Max(0.3, 1-0.1*float64(i))
		size := g.cell - 2*bodyInset

		glowRect(dc, x+bodyInset, y+bodyInset, size, size, bodyGlow, t.Snake, alpha*0.4)
		dc.SetColor(withAlpha(t.Snake, alpha))
		dc.DrawRectangle(x+bodyInset, y+bodyInset, size, size)
		dc.Fill()
	}

	if len(s.Snake) == 0 {
		return
	}
	x, y := g.cellOrigin(s.Snake[0])
	size := g.cell - 2*headInset

	glowRect(dc, x+headInset, y+headInset, size, size, headGlow, t.SnakeGlow, 0.6)
	dc.SetColor(t.Snake)
	dc.DrawRectangle(x+headInset, y+headInset, size, size)
	dc.Fill()

	dc.SetColor(t.Text)
	for _, eye := range eyePositions(x, y, g.cell, s.Direction) {
		dc.DrawRectangle(eye[0], eye[1], eyeSize, eyeSize)
	}
	dc.Fill()
}

// eyePositions places two eyes along the leading edge of the head cell.
func eyePositions(x, y, cell float64, dir core.Direction) [2][2]float64 {
	near := eyeOffset
	far := cell - eyeOffset - eyeSize

	switch dir {
	case core.DirUp:
		return [2][2]float64{{x + near, y + near}, {x + far, y + near}}
	case core.DirDown:
		return [2][2]float64{{x + near, y + far}, {x + far, y + far}}
	case core.DirLeft:
		return [2][2]float64{{x + near, y + near}, {x + near, y + far}}
	default:
		return [2][2]float64{{x + far, y + near}, {x + far, y + far}}
	}
}

// FoodPulse returns the food scale factor at time now.
func FoodPulse(now time.Time) float64 {
	ms := float64(now.UnixMilli() % 3_600_000)
	return math.Sin(ms*0.01)*0.2 + 1
}

func drawFood(dc *gg.Context, g geometry, t Theme, food core.Position, now time.Time) {
	x, y := g.cellOrigin(food)
	size := (g.cell - foodInset) * FoodPulse(now)
	offset := (g.cell - size) / 2

	glowRect(dc, x+offset, y+offset, size, size, foodGlow, t.FoodGlow, 0.5)
	dc.SetColor(t.Food)
	dc.DrawRectangle(x+offset, y+offset, size, size)
	dc.Fill()

	if size > 4 {
		dc.SetColor(shade(t.FoodGlow, 1.5))
		dc.DrawRectangle(x+offset+2, y+offset+2, size-4, size-4)
		dc.Fill()
	}
}

func drawParticles(dc *gg.Context, ps []particles.Particle) {
	for _, p := range ps {
		fade := p.Fade()
		if fade <= 0 {
			continue
		}
		size := p.Size * fade

		dc.SetColor(withAlpha(p.Color, fade*0.3))
		dc.DrawCircle(p.X, p.Y, size*2)
		dc.Fill()

		dc.SetColor(withAlpha(p.Color, fade))
		dc.DrawCircle(p.X, p.Y, size)
		dc.Fill()
	}
}

func drawHUD(dc *gg.Context, g geometry, t Theme, s snake.Snapshot) {
	drawText(dc, fmt.Sprintf("SCORE: %d", s.Score), 20, 40, 0, 0, 2, t.Text)
	drawText(dc, fmt.Sprintf("LEVEL: %d", s.Level), 20, 80, 0, 0, 2, t.Text)
	drawText(dc, "TIME: "+FormatClock(s.Elapsed), 20, 120, 0, 0, 2, t.Text)

	cx, cy := g.width/2, g.height/2
	switch s.Status {
	case snake.StatusPaused:
		dimOverlay(dc, g)
		drawText(dc, "PAUSED", cx, cy, 0.5, 0.5, 5, t.Text)
		drawText(dc, "PRESS SPACE TO CONTINUE", cx, cy+60, 0.5, 0.5, 2, t.Accent)
	case snake.StatusReady:
		drawText(dc, "PRESS SPACE TO START", cx, cy+60, 0.5, 0.5, 2, t.Accent)
	case snake.StatusGameOver:
		dimOverlay(dc, g)
		drawText(dc, "GAME OVER", cx, cy-20, 0.5, 0.5, 5, t.Text)
		drawText(dc, fmt.Sprintf("SCORE %d  LEVEL %d", s.Score, s.Level), cx, cy+40, 0.5, 0.5, 2, t.Accent)
		drawText(dc, "PRESS R TO RESTART", cx, cy+80, 0.5, 0.5, 2, t.Accent)
	}
}

func dimOverlay(dc *gg.Context, g geometry) {
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawRectangle(0, 0, g.width, g.height)
	dc.Fill()
}

// drawText renders s with the bitmap face scaled around its anchor point.
func drawText(dc *gg.Context, s string, x, y, ax, ay, scale float64, c color.NRGBA) {
	dc.Push()
	dc.SetColor(c)
	dc.ScaleAbout(scale, scale, x, y)
	dc.DrawStringAnchored(s, x, y, ax, ay)
	dc.Pop()
}

// FormatClock renders a duration as mm:ss.
func FormatClock(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
