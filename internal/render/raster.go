package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/vovakirdan/neonsnake/internal/core"
)

// halfBlock is the upper half block. Its foreground paints the top half of
// the cell and the background shows through the bottom half.
const halfBlock = '▀'

// ToScreen downsamples img into scr using half-block cells, so each terminal
// cell carries two vertical color samples. The image is stretched to fill
// the screen.
func ToScreen(img image.Image, scr *core.Screen) {
	if img == nil || scr == nil || scr.Width() == 0 || scr.Height() == 0 {
		return
	}

	src, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		src = image.NewRGBA(b)
		draw.Draw(src, b, img, b.Min, draw.Src)
	}

	b := src.Bounds()
	cols, rows := scr.Width(), scr.Height()
	halfRows := rows * 2

	for cy := 0; cy < rows; cy++ {
		top := blockRange(b.Min.Y, b.Dy(), 2*cy, halfRows)
		bottom := blockRange(b.Min.Y, b.Dy(), 2*cy+1, halfRows)
		for cx := 0; cx < cols; cx++ {
			xs := blockRange(b.Min.X, b.Dx(), cx, cols)
			scr.SetCell(cx, cy, core.Cell{
				Rune: halfBlock,
				FG:   average(src, xs, top),
				BG:   average(src, xs, bottom),
			})
		}
	}
}

// span is a half-open pixel interval.
type span struct{ lo, hi int }

// blockRange returns the pixel interval covered by block i of n along an
// axis that starts at origin and is size pixels long.
func blockRange(origin, size, i, n int) span {
	lo := origin + i*size/n
	hi := origin + (i+1)*size/n
	if hi <= lo {
		hi = lo + 1
	}
	return span{lo, hi}
}

// maxSamples bounds the per-axis sampling work for a block.
const maxSamples = 3

// average returns the mean color over a small lattice of samples within the
// block. Pixels are read straight from the RGBA buffer.
func average(img *image.RGBA, xs, ys span) core.Color {
	b := img.Bounds()
	var r, g, bl, n int
	for _, y := range samples(ys) {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for _, x := range samples(xs) {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			i := img.PixOffset(x, y)
			r += int(img.Pix[i])
			g += int(img.Pix[i+1])
			bl += int(img.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return core.ColorBlack
	}
	return core.RGB(uint8(r/n), uint8(g/n), uint8(bl/n))
}

func samples(s span) []int {
	w := s.hi - s.lo
	if w <= maxSamples {
		out := make([]int, 0, w)
		for v := s.lo; v < s.hi; v++ {
			out = append(out, v)
		}
		return out
	}
	out := make([]int, maxSamples)
	for k := range out {
		out[k] = s.lo + (2*k+1)*w/(2*maxSamples)
	}
	return out
}

// FitCells returns the largest cell area inside termW x termH that keeps the
// canvas aspect ratio, given that one cell holds two vertical samples.
func FitCells(termW, termH, canvasW, canvasH int) (cols, rows int) {
	if termW <= 0 || termH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return 0, 0
	}
	cols = termW
	rows = cols * canvasH / canvasW / 2
	if rows > termH {
		rows = termH
		cols = rows * 2 * canvasW / canvasH
	}
	return max(cols, 1), max(rows, 1)
}

// NRGBA converts a terminal color back to an opaque palette color.
func NRGBA(c core.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
