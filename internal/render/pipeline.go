// Package render paints game frames onto a raster surface and converts that
// surface into terminal cells.
package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// ErrNoSurface is returned by operations that need an attached surface.
var ErrNoSurface = errors.New("render: no surface attached")

// Pipeline draws frames onto an attached gg surface. Between frames it keeps
// only the last frame time; everything else comes from the Frame.
type Pipeline struct {
	width  int
	height int
	cell   int

	dc        *gg.Context
	lastFrame time.Time
	delta     time.Duration
	frames    uint64
}

// NewPipeline creates a pipeline for a canvas of width x height pixels with
// square cells of gridSize pixels. No surface is attached yet.
func NewPipeline(width, height, gridSize int) *Pipeline {
	return &Pipeline{
		width:  width,
		height: height,
		cell:   gridSize,
	}
}

// NewSurface allocates a canvas-sized surface and attaches it.
func (p *Pipeline) NewSurface() *gg.Context {
	dc := gg.NewContext(p.width, p.height)
	p.Attach(dc)
	return dc
}

// Attach hands the pipeline a surface to draw on.
func (p *Pipeline) Attach(dc *gg.Context) {
	if dc != nil {
		dc.SetFontFace(basicfont.Face7x13)
	}
	p.dc = dc
}

// Detach releases the surface. Later draws are skipped until a new one is
// attached.
func (p *Pipeline) Detach() {
	p.dc = nil
}

// Surface returns the attached surface, or nil.
func (p *Pipeline) Surface() *gg.Context {
	return p.dc
}

// Size returns the canvas size in pixels.
func (p *Pipeline) Size() (w, h int) {
	return p.width, p.height
}

// CellSize returns the grid cell size in pixels.
func (p *Pipeline) CellSize() int {
	return p.cell
}

// Delta returns the time between the two most recent frames.
func (p *Pipeline) Delta() time.Duration {
	return p.delta
}

// Frames returns how many frames have been drawn.
func (p *Pipeline) Frames() uint64 {
	return p.frames
}

// Draw paints one frame in layer order. It reports false, drawing nothing,
// when no surface is attached.
func (p *Pipeline) Draw(f Frame) bool {
	dc := p.dc
	if dc == nil {
		return false
	}

	if !p.lastFrame.IsZero() {
		p.delta = f.Now.Sub(p.lastFrame)
	}
	p.lastFrame = f.Now

	g := geometry{width: float64(p.width), height: float64(p.height), cell: float64(p.cell)}

	drawBackground(dc, g, f.Theme)
	drawAmbient(dc, f.Ambient)
	if f.ShowGrid {
		drawGrid(dc, g, f.Theme)
	}
	drawSnake(dc, g, f.Theme, f.Snapshot)
	drawFood(dc, g, f.Theme, f.Snapshot.Food, f.Now)
	drawParticles(dc, f.Particles)
	if f.ShowHUD {
		drawHUD(dc, g, f.Theme, f.Snapshot)
	}

	p.frames++
	return true
}

// Image returns the attached surface's pixels, or nil when detached.
func (p *Pipeline) Image() image.Image {
	if p.dc == nil {
		return nil
	}
	return p.dc.Image()
}

// SavePNG writes the current surface to path.
func (p *Pipeline) SavePNG(path string) error {
	if p.dc == nil {
		return ErrNoSurface
	}
	if err := p.dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
